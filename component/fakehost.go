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

package component

import (
	"fmt"
	"sync"

	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/format"
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/mmlog"
)

// FakeHost is a minimal, in-process Host used by tests and the demo
// command. Its action lock is a plain mutex (there's no real worker
// thread to quiesce), and Acquire/Release simply count outstanding
// references, panicking on underflow the way a real component would
// assert on a double-release.
type FakeHost struct {
	name string

	actionMu sync.Mutex

	mu       sync.Mutex
	refCount int

	eventPool bufpool.Pool

	errMu  sync.Mutex
	errors []*mmerr.Error
}

// NewFakeHost builds a FakeHost with an event pool of evtPoolSize
// buffers, each evtBufSize bytes.
func NewFakeHost(name string, evtPoolSize, evtBufSize uint32) (*FakeHost, error) {
	pool, err := bufpool.NewMemoryAllocator().Create(nameRef(name), evtPoolSize, evtBufSize)
	if err != nil {
		return nil, err
	}
	return &FakeHost{name: name, eventPool: pool}, nil
}

type nameRef string

func (n nameRef) Name() string { return string(n) }

func (h *FakeHost) Name() string { return h.name }

func (h *FakeHost) ActionLock()   { h.actionMu.Lock() }
func (h *FakeHost) ActionUnlock() { h.actionMu.Unlock() }

func (h *FakeHost) Acquire() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refCount++
}

func (h *FakeHost) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refCount == 0 {
		panic(fmt.Sprintf("component %s: Release() called with zero refcount", h.name))
	}
	h.refCount--
}

// RefCount reports the current outstanding-reference count, for tests.
func (h *FakeHost) RefCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refCount
}

func (h *FakeHost) EventPool() bufpool.Pool { return h.eventPool }

func (h *FakeHost) Formats() FormatAllocator { return fakeFormatAllocator{} }

func (h *FakeHost) PoolAllocator() bufpool.Allocator { return bufpool.NewMemoryAllocator() }

func (h *FakeHost) SendError(err *mmerr.Error) {
	mmlog.Log.WithField("component", h.name).WithError(err).Warn("component error event")
	h.errMu.Lock()
	h.errors = append(h.errors, err)
	h.errMu.Unlock()
}

// Errors returns the error events raised on this component so far, for
// test assertions.
func (h *FakeHost) Errors() []*mmerr.Error {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	out := make([]*mmerr.Error, len(h.errors))
	copy(out, h.errors)
	return out
}

type fakeFormatAllocator struct{}

func (fakeFormatAllocator) New() *format.Format     { return format.New() }
func (fakeFormatAllocator) Release(f *format.Format) {}
