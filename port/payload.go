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
	"github.com/go-mmport/port/mmerr"
)

// formatChangedHeaderSize is how much of a buffer's payload EventGet
// reserves and zeroes for a CmdFormatChanged event: room for the event
// header fields plus a full format descriptor. The exact on-wire
// layout of either is an external collaborator's concern, not this
// core's; this is just the minimum capacity a caller must provide.
const formatChangedHeaderSize = 64

// PayloadAlloc allocates size bytes of payload memory for a buffer
// header, using the module's PayloadAlloc handler if it supplies one,
// falling back to the general heap otherwise. A successful allocation
// acquires the owning component, which is released by the
// matching PayloadFree, so the component cannot be torn down while the
// payload is outstanding.
func (p *Port) PayloadAlloc(size uint32) ([]byte, error) {
	var (
		buf []byte
		err error
	)
	if p.handlers.PayloadAlloc != nil {
		buf, err = p.handlers.PayloadAlloc(p, size)
	} else {
		buf = make([]byte, size)
	}
	if err != nil {
		return nil, mmerr.Wrap(mmerr.ENOMEM, err, "payload allocation failed")
	}
	p.Component.Acquire()
	return buf, nil
}

// PayloadFree releases payload memory previously returned by
// PayloadAlloc, releasing the component reference taken at allocation
// time.
func (p *Port) PayloadFree(payload []byte) {
	if p.handlers.PayloadFree != nil {
		p.handlers.PayloadFree(p, payload)
	}
	p.Component.Release()
}

// EventGet draws a buffer from the component's event pool and stamps it
// as an event of kind evt. For CmdFormatChanged it also verifies the
// buffer is large enough to carry a format-changed header plus a full
// format descriptor, zeroing that region; a buffer too small is
// released and ENOSPC is returned instead.
func (p *Port) EventGet(evt uint32) (*bufpool.BufferHeader, error) {
	buf, err := p.Component.EventPool().Get()
	if err != nil {
		return nil, mmerr.Wrap(mmerr.ENOSPC, err, "event pool is exhausted")
	}
	buf.Cmd = evt

	if evt == bufpool.CmdFormatChanged {
		if uint32(len(buf.Data)) < formatChangedHeaderSize {
			buf.Release()
			return nil, mmerr.New(mmerr.ENOSPC, "event buffer too small for a format-changed header")
		}
		for i := range buf.Data[:formatChangedHeaderSize] {
			buf.Data[i] = 0
		}
	}

	return buf, nil
}
