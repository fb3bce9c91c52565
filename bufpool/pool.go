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

import "github.com/go-mmport/port/mmerr"

// PoolCallback is installed on a pool so that a buffer returning to it
// can be intercepted instead of simply being queued back up for reuse —
// this is how a core-owned connection resubmits consumed buffers to its
// output.
//
// The return value follows the pool's convention, not the intuitive
// one: it returns true iff the buffer should remain in the pool. A
// callback that successfully resubmits the buffer elsewhere returns
// false so the pool does not also keep a queued copy of it.
type PoolCallback func(pool Pool, buf *BufferHeader, userdata any) bool

// PortRef is the minimal surface an Allocator needs from a port to name
// the pool it creates for it; the pool's size is passed to Create
// separately. *port.Port satisfies this.
type PortRef interface {
	Name() string
}

// Pool is the buffer-header queue collaborator a port core consumes:
// draw buffers with Get, return them with (*BufferHeader).Release, and
// optionally intercept returns with SetCallback.
type Pool interface {
	// Get draws one buffer from the pool's queue. It returns
	// mmerr.ENOMEM if the pool is currently empty; it never blocks.
	Get() (*BufferHeader, error)

	// SetCallback installs fn to run whenever a buffer is released
	// back to the pool; userdata is passed through unchanged. A nil fn
	// restores the default behaviour of simply requeuing the buffer.
	SetCallback(fn PoolCallback, userdata any)

	// Len reports how many buffers currently sit in the pool's queue.
	Len() int

	release(buf *BufferHeader)
}

// Allocator creates and destroys pools. Pool creation must never be
// invoked while a port lock is held, since a real allocator may block
// on foreign resources.
type Allocator interface {
	Create(owner PortRef, n uint32, size uint32) (Pool, error)
	Destroy(Pool)
}

var errPoolEmpty = mmerr.New(mmerr.ENOMEM, "pool queue is empty")
