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

	"github.com/go-mmport/port/mmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlloc_DefaultConnectHandlerReturnsENOSYS(t *testing.T) {
	host := newTestHost(t, "decoder")
	p, err := Alloc(host, Output, 0, Handlers{}, nil)
	require.NoError(t, err)

	err = p.handlers.Connect(p, nil)
	require.Error(t, err)
	assert.True(t, mmerr.Is(err, mmerr.ENOSYS))
}

func TestAllocArray_AssignsIndices(t *testing.T) {
	host := newTestHost(t, "decoder")
	ports, err := AllocArray(host, Output, 3, Handlers{}, func(i uint32) any { return i })
	require.NoError(t, err)
	require.Len(t, ports, 3)

	for i, p := range ports {
		assert.Equal(t, uint32(i), p.Index)
		assert.Equal(t, uint32(i), p.ModuleState)
	}
}

func TestPort_ModuleState(t *testing.T) {
	host := newTestHost(t, "decoder")
	type privateState struct{ n int }
	p, err := Alloc(host, Output, 0, Handlers{}, &privateState{n: 42})
	require.NoError(t, err)

	ms, ok := p.ModuleState.(*privateState)
	require.True(t, ok)
	assert.Equal(t, 42, ms.n)
}

func TestFree_RepairsOverwrittenFormatPointer(t *testing.T) {
	host := newTestHost(t, "decoder")
	p, err := Alloc(host, Output, 0, Handlers{}, nil)
	require.NoError(t, err)

	original := p.Format
	p.Format = nil

	assert.NotPanics(t, func() { p.Free() })
	assert.Same(t, original, p.Format)
}
