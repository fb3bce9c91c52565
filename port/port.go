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
	"sync"

	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/component"
	"github.com/go-mmport/port/format"
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/mmlog"
	"github.com/go-mmport/port/portname"
	"github.com/go-mmport/port/portstats"
)

// Port is an input, output, or control endpoint on a component, and the
// unit of buffer exchange between components.
type Port struct {
	Type      Type
	Index     uint32
	Component component.Host
	Format    *format.Format

	BufferNum             uint32
	BufferNumMin          uint32
	BufferNumRecommended  uint32
	BufferSize            uint32
	BufferSizeMin         uint32
	BufferSizeRecommended uint32

	Capabilities Capabilities

	// ModuleState is private storage the owning component attaches at
	// Alloc time; its lifetime equals the port's. Go has no tail
	// allocation to piggyback a module's private fields onto a C
	// struct, so this field is the substitute.
	ModuleState any

	handlers Handlers
	name     *portname.Name

	mu     sync.Mutex // general port lock ("lock")
	sendMu sync.Mutex // guards the send path and the enabled flip ("send_lock")

	enabled bool

	transit *transitGate

	statsMu sync.Mutex
	stats   [2]portstats.Counters // indexed by portstats.Direction

	bufferHeaderCallback BufferCallback

	formatPtrCopy *format.Format

	// connMu is a leaf lock guarding connectedPort so the completion
	// path can look up the peer without taking mu — Disable holds mu
	// while it waits on the transit drain gate, and a completion that
	// needed mu to find its peer would deadlock against that wait.
	// Writers hold both mu (via lockPair) and connMu; readers may hold
	// either.
	connMu             sync.Mutex
	connectedPort      *Port
	coreOwnsConnection bool
	allocatePool       bool
	poolForConnection  bufpool.Pool

	// siblingOutputs, when set, returns every output port on this
	// port's own component — used by FormatCommit to clamp outputs
	// when an input's format changes, since an input's buffer
	// requirements drive its component's outputs. A component wires
	// this once, after allocating all of its ports, via
	// BindSiblingOutputs.
	siblingOutputs func() []*Port
}

// BindSiblingOutputs records how to enumerate this port's component's
// output ports. Components call this once, after allocating every
// port, on each of their input ports.
func (p *Port) BindSiblingOutputs(fn func() []*Port) {
	p.siblingOutputs = fn
}

// Alloc allocates one port, creates its synchronisation objects,
// allocates a fresh format descriptor, and composes its initial name.
func Alloc(host component.Host, typ Type, index uint32, handlers Handlers, moduleState any) (p *Port, err error) {
	fmtDesc := host.Formats().New()

	p = &Port{
		Type:         typ,
		Index:        index,
		Component:    host,
		Format:       fmtDesc,
		handlers:     handlers,
		ModuleState:  moduleState,
		transit:      newTransitGate(),
		Capabilities: 0,
	}
	p.formatPtrCopy = fmtDesc

	if p.handlers.Connect == nil {
		p.handlers.Connect = func(*Port, *Port) error {
			return mmerr.New(mmerr.ENOSYS, "module does not manage connections")
		}
	}

	p.name = portname.New(host.Name(), typ.nameKind(), index, fmtDesc.Encoding.String())

	mmlog.Log.WithField("port", p.name.String()).Debug("port allocated")
	return p, nil
}

// AllocArray allocates n ports in one go, assigning Index = i for each,
// and rolls back (freeing every port already created) if any allocation
// fails partway through.
func AllocArray(host component.Host, typ Type, n uint32, handlers Handlers, moduleState func(i uint32) any) ([]*Port, error) {
	ports := make([]*Port, 0, n)
	for i := uint32(0); i < n; i++ {
		var ms any
		if moduleState != nil {
			ms = moduleState(i)
		}
		p, err := Alloc(host, typ, i, handlers, ms)
		if err != nil {
			for _, created := range ports {
				created.Free()
			}
			return nil, err
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// Free asserts the format pointer hasn't been swapped out from under
// the port, then releases the format descriptor. It is safe to call
// exactly once per port, at component teardown.
func (p *Port) Free() {
	if p.Format != p.formatPtrCopy {
		mmlog.Log.WithField("port", p.Name()).Error("format pointer was overwritten; repairing before free")
		p.Format = p.formatPtrCopy
	}
	p.Component.Formats().Release(p.Format)
	mmlog.Log.WithField("port", p.Name()).Debug("port freed")
}

// Name returns the port's stable, human-readable identifier.
func (p *Port) Name() string {
	return p.name.String()
}

// Enabled reports whether the port is currently enabled. It takes
// sendMu, the lock that guards the enabled flip, so callers see a
// value consistent with any concurrent Enable/Disable.
func (p *Port) Enabled() bool {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	return p.enabled
}

// ConnectedPort returns the peer this port is connected to, or nil.
func (p *Port) ConnectedPort() *Port {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	return p.connectedPort
}

// setConnectedPort records the peer link. Callers must hold p.mu; the
// write also takes connMu so ConnectedPort stays coherent for callers
// holding neither.
func (p *Port) setConnectedPort(peer *Port) {
	p.connMu.Lock()
	p.connectedPort = peer
	p.connMu.Unlock()
}

// lockPair acquires both ports' locks in the canonical order — output
// before input, always — and returns an unlock function that releases
// them in reverse order.
func lockPair(output, input *Port) (unlock func()) {
	output.mu.Lock()
	input.mu.Lock()
	return func() {
		input.mu.Unlock()
		output.mu.Unlock()
	}
}
