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
	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/format"
	"github.com/go-mmport/port/metrics"
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/mmlog"
)

// Connect joins an output port to an input port, in either argument
// order. If the output's module implements Connect and accepts the
// pairing, the module owns the connection and the core never touches
// buffers flowing across it; if the module is absent or returns ENOSYS,
// the core owns the connection and marks the output for pool
// allocation; Enable installs the forwarding callbacks later.
func Connect(a, b *Port) error {
	output, input := a, b
	if output.Type != Output {
		output, input = b, a
	}
	if output.Type != Output || input.Type != Input {
		return mmerr.New(mmerr.EINVAL, "Connect requires exactly one output port and one input port")
	}

	unlock := lockPair(output, input)
	defer unlock()

	if output.connectedPort != nil || input.connectedPort != nil {
		return mmerr.New(mmerr.EISCONN, "port is already connected")
	}
	if output.Enabled() || input.Enabled() {
		return mmerr.New(mmerr.EINVAL, "ports must be disabled to connect")
	}

	output.coreOwnsConnection = false
	input.coreOwnsConnection = false
	output.allocatePool = false

	owner := "core"
	if output.handlers.Connect != nil {
		if err := output.handlers.Connect(output, input); err == nil {
			owner = "module"
		} else if !mmerr.Is(err, mmerr.ENOSYS) {
			return mmerr.Wrap(mmerr.EINVAL, err, "module Connect failed")
		}
	}

	output.setConnectedPort(input)
	input.setConnectedPort(output)
	if owner == "core" {
		output.coreOwnsConnection = true
		input.coreOwnsConnection = true
		output.allocatePool = true
	}

	metrics.ConnectionsTotal.WithLabelValues(owner).Inc()
	mmlog.Log.WithFields(map[string]any{"output": output.Name(), "input": input.Name(), "owner": owner}).
		Debug("ports connected")
	return nil
}

// Disconnect tears down a connection. If either side is still enabled,
// it is disabled first — disabling the output cascades to the input,
// which covers the ordinary core-owned case; disabling the input
// directly covers a module-managed connection where the module lets
// its two sides be toggled independently. Disable is responsible for
// destroying any pool the connection allocated, so by the time this
// function gets to clearing state, poolForConnection is already nil.
func Disconnect(p *Port) error {
	peer := p.ConnectedPort()
	if peer == nil {
		return mmerr.New(mmerr.ENOTCONN, "port is not connected")
	}

	output, input := p, peer
	if p.Type != Output {
		output, input = peer, p
	}

	if output.Enabled() {
		if err := output.Disable(); err != nil {
			return err
		}
	} else if input.Enabled() {
		if err := input.Disable(); err != nil {
			return err
		}
	}

	unlock := lockPair(output, input)
	defer unlock()

	if !output.coreOwnsConnection {
		if err := output.handlers.Connect(output, nil); err != nil && !mmerr.Is(err, mmerr.ENOSYS) {
			return mmerr.Wrap(mmerr.EINVAL, err, "module failed to tear down connection")
		}
	}

	output.setConnectedPort(nil)
	input.setConnectedPort(nil)
	output.coreOwnsConnection = false
	input.coreOwnsConnection = false
	output.allocatePool = false

	mmlog.Log.WithFields(map[string]any{"output": output.Name(), "input": input.Name()}).
		Debug("ports disconnected")
	return nil
}

// connectedOutputCallback is installed as a core-owned output's
// bufferHeaderCallback once it's enabled on a connection. A
// CmdFormatChanged buffer is special-cased: the
// new format is copied into the output's own format and committed
// there before the buffer is forwarded, so the output's module
// re-validates the change exactly as FormatCommit always does; a
// commit failure raises a component error event and releases the
// buffer instead of forwarding it. Any other event buffer is released,
// not forwarded. A plain data buffer is forwarded to
// the peer input while the output is still enabled, and simply
// released otherwise (a flush tail arriving after disable).
func connectedOutputCallback(output *Port, buf *bufpool.BufferHeader) {
	input := output.ConnectedPort()
	if input == nil {
		buf.Release()
		return
	}

	if buf.Cmd == bufpool.CmdFormatChanged {
		newFormat, ok := buf.FormatChangePayload.(*format.Format)
		if !ok {
			buf.Release()
			return
		}
		format.FullCopy(output.Format, newFormat)
		if err := output.FormatCommit(); err != nil {
			output.Component.SendError(mmerr.Wrap(mmerr.EINVAL, err, "connected format change failed to commit"))
			buf.Release()
			return
		}
		if err := input.SendBuffer(buf); err != nil {
			output.Component.SendError(mmerr.Wrap(mmerr.EINVAL, err, "failed to forward buffer to connected input"))
			buf.Release()
		}
		return
	}

	if buf.Cmd != bufpool.CmdNone {
		buf.Release()
		return
	}

	if output.Enabled() {
		if err := input.SendBuffer(buf); err != nil {
			output.Component.SendError(mmerr.Wrap(mmerr.EINVAL, err, "failed to forward buffer to connected input"))
			buf.Release()
		}
		return
	}

	buf.Release()
}

// connectedInputCallback is installed as a core-owned input's
// bufferHeaderCallback: the module is done with buf, so it goes back
// to its pool, where connectedPoolCallback decides whether to hand it
// straight back to the output.
func connectedInputCallback(_ *Port, buf *bufpool.BufferHeader) {
	buf.Release()
}

// connectedPoolCallback is installed on the connection's shared pool:
// userdata is the output port. A buffer returning to the pool is
// resubmitted straight to the output so long as the output is still
// enabled; otherwise it's left queued.
func connectedPoolCallback(pool bufpool.Pool, buf *bufpool.BufferHeader, userdata any) bool {
	output, ok := userdata.(*Port)
	if !ok || !output.Enabled() {
		return true
	}
	buf.ResetForResubmit()
	if err := output.SendBuffer(buf); err != nil {
		output.Component.SendError(mmerr.Wrap(mmerr.EINVAL, err, "failed to resubmit pool buffer to output"))
		return true
	}
	return false
}

// populateFromPool pulls exactly output.BufferNum buffers from pool and
// sends each to the output, priming it to start filling them. It
// aborts with ENOMEM if the pool is short, and releases the in-hand
// buffer and aborts if a send fails. Callers must hold output.mu.
func (p *Port) populateFromPool(pool bufpool.Pool) error {
	for i := uint32(0); i < p.BufferNum; i++ {
		buf, err := pool.Get()
		if err != nil {
			return mmerr.Wrap(mmerr.ENOMEM, err, "connection pool is short of output.BufferNum buffers")
		}
		if err := p.SendBuffer(buf); err != nil {
			buf.Release()
			return mmerr.Wrap(mmerr.EINVAL, err, "failed to prime output from connection pool")
		}
	}
	return nil
}
