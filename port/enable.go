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
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/mmlog"
)

// Enable turns a port on. cb is the client's completion callback; it
// must be nil if, and only if, the port is connected to a peer (the
// connection forwarders take over completion in that case).
func (p *Port) Enable(cb BufferCallback) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Enabled() {
		return mmerr.New(mmerr.EINVAL, "port is already enabled")
	}

	peer := p.connectedPort
	if p.Type == Output && peer != nil {
		peer.mu.Lock()
		if peer.BufferNum > p.BufferNum {
			p.BufferNum = peer.BufferNum
		}
		if peer.BufferSize > p.BufferSize {
			p.BufferSize = peer.BufferSize
		}
		peer.mu.Unlock()
	}

	if p.BufferNum < p.BufferNumMin {
		return mmerr.Newf(mmerr.EINVAL, "buffer_num %d below minimum %d", p.BufferNum, p.BufferNumMin)
	}
	if p.BufferSize < p.BufferSizeMin {
		return mmerr.Newf(mmerr.EINVAL, "buffer_size %d below minimum %d", p.BufferSize, p.BufferSizeMin)
	}
	if (peer == nil) == (cb == nil) {
		return mmerr.New(mmerr.EINVAL, "callback must be supplied iff the port is unconnected")
	}
	if p.handlers.Enable == nil {
		return mmerr.New(mmerr.ENOSYS, "module does not implement Enable")
	}

	installed := cb
	if peer != nil && p.Type == Input {
		installed = connectedInputCallback
	}

	p.sendMu.Lock()
	p.bufferHeaderCallback = installed
	p.sendMu.Unlock()

	if err := p.handlers.Enable(p); err != nil {
		return mmerr.Wrap(mmerr.EINVAL, err, "module Enable failed")
	}

	p.sendMu.Lock()
	p.enabled = true
	p.sendMu.Unlock()

	mmlog.Log.WithField("port", p.Name()).Debug("port enabled")

	if peer != nil && p.Type == Output {
		if err := p.enableConnected(peer); err != nil {
			return err
		}
	}

	return nil
}

// enableConnected finishes wiring up a connection once an output with a
// connected peer has been switched on: it installs the
// core-owned output forwarder, brings the input up to matching buffer
// requirements (re-enabling it if necessary), enables the input if it
// isn't already, and — when the output requested pool allocation —
// creates the shared pool and primes the output with its buffers.
//
// Callers must hold p.mu for the duration of the call (Enable's own
// defer does this); enableConnected briefly releases it itself around
// the one step, pool creation, that must never run under a port lock.
func (p *Port) enableConnected(input *Port) error {
	p.sendMu.Lock()
	p.bufferHeaderCallback = connectedOutputCallback
	p.sendMu.Unlock()

	input.mu.Lock()
	mismatch := input.Enabled() && (input.BufferNum != p.BufferNum || input.BufferSize != p.BufferSize)
	input.mu.Unlock()

	if mismatch {
		if err := input.Disable(); err != nil {
			return err
		}
	}

	input.mu.Lock()
	input.BufferNum = p.BufferNum
	input.BufferSize = p.BufferSize
	needEnable := !input.Enabled()
	input.mu.Unlock()

	if needEnable {
		if err := input.Enable(nil); err != nil {
			return mmerr.Wrap(mmerr.EINVAL, err, "failed to enable connected input")
		}
	}

	if !p.allocatePool {
		return nil
	}

	// The pool-allocating port is the output when it advertises the
	// ALLOCATION capability, the input otherwise; either way the output
	// side keeps ownership of the resulting pool.
	poolPort := p
	bufNum := p.BufferNum
	payloadSize := p.BufferSize
	if !p.Capabilities.Has(Allocation) {
		poolPort = input
		input.mu.Lock()
		bufNum = input.BufferNum
		payloadSize = input.BufferSize
		input.mu.Unlock()
	}
	if p.Capabilities.Has(Passthrough) {
		payloadSize = 0
	}

	p.mu.Unlock()
	allocator := p.Component.PoolAllocator()
	pool, createErr := allocator.Create(poolPort, bufNum, payloadSize)
	p.mu.Lock()

	if createErr != nil {
		_ = input.Disable()
		p.mu.Unlock()
		_ = p.Disable()
		p.mu.Lock()
		return mmerr.Wrap(mmerr.ENOMEM, createErr, "failed to create connection pool")
	}

	pool.SetCallback(connectedPoolCallback, p)
	p.poolForConnection = pool

	if err := p.populateFromPool(pool); err != nil {
		_ = input.Disable()
		p.mu.Unlock()
		_ = p.Disable()
		p.mu.Lock()
		return err
	}

	return nil
}
