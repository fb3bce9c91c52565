//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package port

import (
	"testing"

	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/mmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadAllocFree_AcquiresAndReleasesComponent(t *testing.T) {
	host := newTestHost(t, "camera")
	p := newOutputPort(t, host, syncHandlers(), 1, 1)

	buf, err := p.PayloadAlloc(128)
	require.NoError(t, err)
	assert.Len(t, buf, 128)
	assert.Equal(t, 1, host.RefCount())

	p.PayloadFree(buf)
	assert.Equal(t, 0, host.RefCount())
}

func TestEventGet_FormatChanged(t *testing.T) {
	host := newTestHost(t, "camera") // event buffers are 256 bytes, see newTestHost
	p := newOutputPort(t, host, syncHandlers(), 1, 1)

	buf, err := p.EventGet(bufpool.CmdFormatChanged)
	require.NoError(t, err)
	assert.Equal(t, bufpool.CmdFormatChanged, buf.Cmd)
	for _, b := range buf.Data[:formatChangedHeaderSize] {
		assert.Equal(t, byte(0), b)
	}
}

func TestEventGet_TooSmallForFormatChanged(t *testing.T) {
	host, err := newSmallEventHost(t, "camera")
	require.NoError(t, err)
	p := newOutputPort(t, host, syncHandlers(), 1, 1)

	_, err = p.EventGet(bufpool.CmdFormatChanged)
	require.Error(t, err)
	assert.True(t, mmerr.Is(err, mmerr.ENOSPC))
}
