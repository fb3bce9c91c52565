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
	"github.com/go-mmport/port/component"
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/portstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterGet_CoreStatisticsResets(t *testing.T) {
	host := newTestHost(t, "camera")
	worker := component.NewWorker()
	out := newOutputPort(t, host, asyncHandlers(worker), 2, 64)
	require.NoError(t, out.Enable(func(*Port, *bufpool.BufferHeader) {}))
	require.NoError(t, out.SendBuffer(fillDataBuffer(64)))
	worker.CompleteAll()

	var p portstats.Param
	p.Dir = portstats.TX
	p.Reset = true
	require.NoError(t, out.ParameterGet(CoreStatistics, &p))
	assert.Equal(t, uint64(1), p.Stats.BufferCount)

	var after portstats.Param
	after.Dir = portstats.TX
	require.NoError(t, out.ParameterGet(CoreStatistics, &after))
	assert.Equal(t, uint64(0), after.Stats.BufferCount)
}

func TestParameterGet_CorePortInfo(t *testing.T) {
	host := newTestHost(t, "camera")
	out := newOutputPort(t, host, syncHandlers(), 3, 128)

	var info PortInfo
	require.NoError(t, out.ParameterGet(CorePortInfo, &info))
	assert.Equal(t, Output, info.Type)
	assert.Equal(t, uint32(3), info.BufferNum)
	assert.Equal(t, uint32(128), info.BufferSize)
	assert.False(t, info.Enabled)
}

func TestParameterGet_UnknownID(t *testing.T) {
	host := newTestHost(t, "camera")
	out := newOutputPort(t, host, syncHandlers(), 1, 1)

	err := out.ParameterGet(999, nil)
	require.Error(t, err)
	assert.True(t, mmerr.Is(err, mmerr.ENOSYS))
}

func TestParameterSet_NoModuleHandler(t *testing.T) {
	host := newTestHost(t, "camera")
	out := newOutputPort(t, host, syncHandlers(), 1, 1)

	err := out.ParameterSet(CoreStatistics, nil)
	require.Error(t, err)
	assert.True(t, mmerr.Is(err, mmerr.ENOSYS))
}
