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
	"github.com/stretchr/testify/require"
)

// newTestHost builds a FakeHost with a small event pool, failing the
// test immediately if that somehow doesn't work.
func newTestHost(t *testing.T, name string) *component.FakeHost {
	t.Helper()
	h, err := component.NewFakeHost(name, 4, 256)
	require.NoError(t, err)
	return h
}

// asyncHandlers returns a module Handlers whose Send defers completion
// onto worker instead of completing inline, playing the role of the
// component's own worker thread completing a send from a different
// goroutine. Enable, Disable and Flush always succeed.
func asyncHandlers(worker *component.Worker) Handlers {
	return Handlers{
		Enable:  func(*Port) error { return nil },
		Disable: func(*Port) error { return nil },
		Flush:   func(*Port) error { return nil },
		Send: func(p *Port, buf *bufpool.BufferHeader) error {
			worker.Submit(func() { p.CompleteBuffer(buf) })
			return nil
		},
	}
}

// syncHandlers completes every send inline, on the calling goroutine.
// Real modules never do this for a buffer sent through SendBuffer —
// sendMu is held across the module call, so completing inline would
// deadlock against the very send that's in flight. Use
// syncHandlers only for ports that never have SendBuffer called on
// them in a given test; use asyncHandlers (or passiveHandlers) for any
// port whose Send path is actually exercised.
func syncHandlers() Handlers {
	return Handlers{
		Enable:  func(*Port) error { return nil },
		Disable: func(*Port) error { return nil },
		Flush:   func(*Port) error { return nil },
		Send: func(p *Port, buf *bufpool.BufferHeader) error {
			p.CompleteBuffer(buf)
			return nil
		},
	}
}

// passiveHandlers accepts every send without ever completing it,
// modeling a module that queues the buffer for later asynchronous
// processing it never gets around to in the test.
func passiveHandlers() Handlers {
	return Handlers{
		Enable:  func(*Port) error { return nil },
		Disable: func(*Port) error { return nil },
		Flush:   func(*Port) error { return nil },
		Send:    func(*Port, *bufpool.BufferHeader) error { return nil },
	}
}

func newOutputPort(t *testing.T, host *component.FakeHost, handlers Handlers, bufNum, bufSize uint32) *Port {
	t.Helper()
	p, err := Alloc(host, Output, 0, handlers, nil)
	require.NoError(t, err)
	p.BufferNum = bufNum
	p.BufferNumMin = bufNum
	p.BufferSize = bufSize
	p.BufferSizeMin = bufSize
	return p
}

func newInputPort(t *testing.T, host *component.FakeHost, handlers Handlers, bufNum, bufSize uint32) *Port {
	t.Helper()
	p, err := Alloc(host, Input, 0, handlers, nil)
	require.NoError(t, err)
	p.BufferNum = bufNum
	p.BufferNumMin = bufNum
	p.BufferSize = bufSize
	p.BufferSizeMin = bufSize
	return p
}

func fillDataBuffer(size uint32) *bufpool.BufferHeader {
	return &bufpool.BufferHeader{Data: make([]byte, size), Length: size}
}

// newSmallEventHost builds a FakeHost whose event pool buffers are too
// small to carry a format-changed header, for the ENOSPC branch of
// EventGet.
func newSmallEventHost(t *testing.T, name string) (*component.FakeHost, error) {
	t.Helper()
	return component.NewFakeHost(name, 4, formatChangedHeaderSize-1)
}
