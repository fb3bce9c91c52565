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

// Package component defines the collaborator surface the port core
// consumes from its owning component: action-locking, acquire/release
// refcounting, the event pool, and upstream error notification, plus
// FakeHost, a reference implementation used by tests and the demo
// command. Real component lifecycle and scheduling are an external
// collaborator's concern, not this core's.
package component

import (
	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/format"
	"github.com/go-mmport/port/mmerr"
)

// FormatAllocator allocates and releases format descriptors. Format
// descriptor allocation is itself an external collaborator; the port
// core only calls New/Release through this interface.
type FormatAllocator interface {
	New() *format.Format
	Release(*format.Format)
}

// Host is everything a port needs from its owning component.
type Host interface {
	// Name identifies the component in port names.
	Name() string

	// ActionLock/ActionUnlock quiesce the component's internal worker
	// so Disable can detach callbacks without racing it.
	ActionLock()
	ActionUnlock()

	// Acquire/Release refcount the component so it cannot be torn down
	// while a payload allocated through this port is outstanding.
	Acquire()
	Release()

	// EventPool is the pool EventGet draws event buffers from.
	EventPool() bufpool.Pool

	// Formats allocates the format descriptors Alloc/Free use.
	Formats() FormatAllocator

	// PoolAllocator creates/destroys the shared pool a core-owned
	// connection allocates on enable.
	PoolAllocator() bufpool.Allocator

	// SendError raises a component-level error event, used when a
	// core-owned connection's format-change propagation fails.
	SendError(err *mmerr.Error)
}
