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

// Package port implements the core of the port subsystem: the
// thread-safe object that sits on every input/output/control endpoint
// of a media-processing component and mediates the flow of buffer
// headers between producers and consumers.
package port

import (
	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/portname"
)

// Type classifies a port's role on its component.
type Type int

const (
	Control Type = iota
	Input
	Output
)

func (t Type) String() string {
	switch t {
	case Control:
		return "control"
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return "invalid"
}

func (t Type) nameKind() portname.Kind {
	switch t {
	case Control:
		return portname.Control
	case Input:
		return portname.Input
	case Output:
		return portname.Output
	}
	return portname.Invalid
}

// Capabilities is a bit-set describing what a port supports.
type Capabilities uint32

const (
	// Passthrough means the port's buffers don't need payload memory;
	// references are forwarded rather than copied.
	Passthrough Capabilities = 1 << iota
	// Allocation means the port can itself serve as the pool-allocating
	// side of a core-owned connection.
	Allocation
)

func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}
	s := ""
	if c&Passthrough != 0 {
		s += "passthrough|"
	}
	if c&Allocation != 0 {
		s += "allocation|"
	}
	if s == "" {
		return "unknown"
	}
	return s[:len(s)-1]
}

func (c Capabilities) Has(flag Capabilities) bool {
	return c&flag == flag
}

// BufferCallback is the completion signature a client installs via
// Enable, and the signature the core's own forwarding callbacks share.
// Invocation may occur on any goroutine.
type BufferCallback func(p *Port, buf *bufpool.BufferHeader)

// Handlers is the module vtable a component supplies per port. Any
// field may be nil, in which case the core reports ENOSYS to callers,
// except PayloadAlloc/PayloadFree, which fall back to the Go heap.
// Connect returning ENOSYS (or being nil) means "core, please manage
// this connection".
type Handlers struct {
	SetFormat    func(p *Port) error
	Enable       func(p *Port) error
	Disable      func(p *Port) error
	Send         func(p *Port, buf *bufpool.BufferHeader) error
	Flush        func(p *Port) error
	Connect      func(p *Port, other *Port) error
	ParameterGet func(p *Port, id int, out any) error
	ParameterSet func(p *Port, id int, value any) error
	PayloadAlloc func(p *Port, size uint32) ([]byte, error)
	PayloadFree  func(p *Port, payload []byte)
}
