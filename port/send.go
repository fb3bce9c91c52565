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
	"time"

	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/metrics"
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/portstats"
)

// SendBuffer hands a buffer to the component for processing. Outputs
// receive empty buffers to be filled: a non-zero length
// on an output buffer is cleared before the module sees it.
func (p *Port) SendBuffer(buf *bufpool.BufferHeader) error {
	if buf == nil {
		return mmerr.New(mmerr.EINVAL, "buffer is nil")
	}
	if buf.Data == nil && !p.Capabilities.Has(Passthrough) {
		return mmerr.New(mmerr.EINVAL, "buffer has no payload and port is not passthrough")
	}

	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	if !p.enabled {
		return mmerr.New(mmerr.EINVAL, "port is not enabled")
	}
	if p.handlers.Send == nil {
		return mmerr.New(mmerr.ENOSYS, "module does not implement Send")
	}

	if p.Type == Output && buf.Length != 0 {
		buf.Length = 0
	}

	p.transit.increment()
	metrics.BuffersInTransit.WithLabelValues(p.Name()).Set(float64(p.transit.value()))

	if err := p.handlers.Send(p, buf); err != nil {
		p.transit.decrement()
		metrics.BuffersInTransit.WithLabelValues(p.Name()).Set(float64(p.transit.value()))
		return mmerr.Wrap(mmerr.EINVAL, err, "module Send failed")
	}

	p.statsMu.Lock()
	p.stats[portstats.RX].Record(time.Now())
	p.statsMu.Unlock()

	metrics.BuffersSentTotal.WithLabelValues(p.Name()).Inc()
	return nil
}

// CompleteBuffer is the buffer-header callback path: the component
// calls this when it returns a previously-sent buffer, whether
// directly or via a Worker completion. It decrements transit,
// bumps TX stats, and delegates to whichever callback is currently
// installed — the client's, or one of the core forwarders.
func (p *Port) CompleteBuffer(buf *bufpool.BufferHeader) {
	p.transit.decrement()
	metrics.BuffersInTransit.WithLabelValues(p.Name()).Set(float64(p.transit.value()))

	p.statsMu.Lock()
	p.stats[portstats.TX].Record(time.Now())
	p.statsMu.Unlock()

	metrics.BuffersCompletedTotal.WithLabelValues(p.Name()).Inc()

	if cb := p.getCallback(); cb != nil {
		cb(p, buf)
	}
}

// EventSend delivers an event buffer (drawn via EventGet, never
// accepted through SendBuffer) to whichever callback is installed,
// tolerating a missing callback by releasing the buffer back to its
// pool instead. Event buffers were never counted into transit, so
// unlike CompleteBuffer this does not touch the drain gate.
func (p *Port) EventSend(buf *bufpool.BufferHeader) {
	p.statsMu.Lock()
	p.stats[portstats.TX].Record(time.Now())
	p.statsMu.Unlock()

	if cb := p.getCallback(); cb != nil {
		cb(p, buf)
		return
	}
	buf.Release()
}

// Flush delegates to the module's Flush handler, serialised with Send
// under sendMu.
func (p *Port) Flush() error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	if p.handlers.Flush == nil {
		return mmerr.New(mmerr.ENOSYS, "module does not implement Flush")
	}
	if err := p.handlers.Flush(p); err != nil {
		return mmerr.Wrap(mmerr.EINVAL, err, "module Flush failed")
	}
	return nil
}

func (p *Port) getCallback() BufferCallback {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	return p.bufferHeaderCallback
}
