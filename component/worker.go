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

import "sync"

// Worker simulates a component's internal processing thread: a module's
// Send handler hands a buffer to a Worker instead of completing it
// inline, and a test drives completion explicitly, playing the role of
// the module calling its buffer-header callback from its own thread.
//
// This mirrors the mutex-guarded FIFO table pidmonitor keeps for
// pending process events, simplified here to a queue a test can drain
// deterministically instead of one drained by a background goroutine on
// a timer.
type Worker struct {
	mu      sync.Mutex
	pending []func()
}

// NewWorker returns an idle Worker.
func NewWorker() *Worker {
	return &Worker{}
}

// Submit enqueues complete to run on a later CompleteNext/CompleteAll
// call, standing in for the module returning a buffer asynchronously.
func (w *Worker) Submit(complete func()) {
	w.mu.Lock()
	w.pending = append(w.pending, complete)
	w.mu.Unlock()
}

// CompleteNext runs the oldest pending completion, if any, and reports
// whether one was run.
func (w *Worker) CompleteNext() bool {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return false
	}
	next := w.pending[0]
	w.pending = w.pending[1:]
	w.mu.Unlock()

	next()
	return true
}

// CompleteAll runs every pending completion, oldest first.
func (w *Worker) CompleteAll() {
	for w.CompleteNext() {
	}
}

// Pending reports how many completions are queued.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
