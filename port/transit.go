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
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// transitGate is a single-count "drain gate" semaphore: a weight-1
// golang.org/x/sync/semaphore.Weighted standing in for the named OS
// semaphore the equivalent C design would reach for (Go's standard
// library has no portable equivalent). It starts available ("posted"),
// is held
// whenever one or more buffers are in transit, and is released the
// moment the count returns to zero.
//
// increment/decrement are O(1): the semaphore is only touched on the
// 0->1 and 1->0 edges, never on every send/complete.
type transitGate struct {
	mu    sync.Mutex
	count int
	sema  *semaphore.Weighted
}

func newTransitGate() *transitGate {
	return &transitGate{sema: semaphore.NewWeighted(1)}
}

// increment records one more buffer entering transit.
func (g *transitGate) increment() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	if g.count == 1 {
		_ = g.sema.Acquire(context.Background(), 1)
	}
}

// decrement records one buffer leaving transit. It panics if the count
// would go negative — transit can never be negative, so this means a
// caller completed a buffer it never sent, a programming error rather
// than a recoverable condition.
func (g *transitGate) decrement() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count--
	if g.count < 0 {
		panic("transit_buffer_headers went negative")
	}
	if g.count == 0 {
		g.sema.Release(1)
	}
}

// wait blocks until the transit count reaches zero, then immediately
// re-posts the gate — a peek rather than a real acquire — so later
// waiters and increments still observe it available.
func (g *transitGate) wait() {
	ctx := context.Background()
	_ = g.sema.Acquire(ctx, 1)
	g.sema.Release(1)
}

// value reports the current in-transit count, for stats/tests.
func (g *transitGate) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
