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

package bufpool

import (
	"sync"

	"github.com/go-mmport/port/mmlog"
)

// MemoryPool is a reference Pool backed by plain heap buffers and a
// mutex-guarded free queue, modeled on the table-plus-mutex shape this
// codebase uses elsewhere for small stateful collaborators (see
// component.FakeHost). It is not hardware-backed; real allocators are
// an external collaborator per the port core's scope.
type MemoryPool struct {
	mu       sync.Mutex
	name     string
	free     []*BufferHeader
	callback PoolCallback
	userdata any
}

// MemoryAllocator is the reference Allocator that creates MemoryPools.
type MemoryAllocator struct{}

// NewMemoryAllocator returns the reference in-memory Allocator used by
// tests and the demo command.
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{}
}

func (a *MemoryAllocator) Create(owner PortRef, n uint32, size uint32) (Pool, error) {
	p := &MemoryPool{name: owner.Name()}
	for i := uint32(0); i < n; i++ {
		buf := &BufferHeader{pool: p}
		if size > 0 {
			buf.Data = make([]byte, size)
		}
		p.free = append(p.free, buf)
	}
	mmlog.Log.WithFields(map[string]any{"pool": p.name, "count": n, "size": size}).Debug("pool created")
	return p, nil
}

func (a *MemoryAllocator) Destroy(p Pool) {
	mp, ok := p.(*MemoryPool)
	if !ok {
		return
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mmlog.Log.WithField("pool", mp.name).Debug("pool destroyed")
	mp.free = nil
	mp.callback = nil
}

func (p *MemoryPool) Get() (*BufferHeader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return nil, errPoolEmpty
	}
	buf := p.free[0]
	p.free = p.free[1:]
	return buf, nil
}

func (p *MemoryPool) SetCallback(fn PoolCallback, userdata any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callback = fn
	p.userdata = userdata
}

func (p *MemoryPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

func (p *MemoryPool) release(buf *BufferHeader) {
	p.mu.Lock()
	callback := p.callback
	userdata := p.userdata
	p.mu.Unlock()

	keep := true
	if callback != nil {
		keep = callback(p, buf, userdata)
	}
	if keep {
		buf.pool = p
		p.mu.Lock()
		p.free = append(p.free, buf)
		p.mu.Unlock()
	}
}
