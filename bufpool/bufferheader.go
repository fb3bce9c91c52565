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

// Package bufpool defines the buffer-header and pool collaborator
// surface the port core consumes, plus a reference in-memory
// implementation used by tests and the demo command. Hardware-backed
// allocators are an external collaborator and out of this package's
// scope; Pool/BufferHeader here exist so the core has something real to
// drive.
package bufpool

// Event command values carried in a BufferHeader.Cmd field. Zero means
// "this is a data buffer, not an event".
const (
	CmdNone uint32 = iota
	CmdFormatChanged
	CmdEOS
	CmdError
)

// Flag bits carried in a BufferHeader.Flags field.
const (
	FlagEOS uint32 = 1 << iota
	FlagKeyFrame
	FlagDiscontinuity
)

// BufferHeader is a descriptor referencing a payload buffer: length,
// offset, flags, timestamps, and an optional Cmd identifying it as an
// event.
type BufferHeader struct {
	Data   []byte
	Length uint32
	Offset uint32
	Flags  uint32
	Cmd    uint32
	PTS    int64
	DTS    int64

	// FormatChangePayload carries the new format when Cmd ==
	// CmdFormatChanged; nil otherwise.
	FormatChangePayload any

	pool Pool
}

// Release returns the buffer header to the pool it was drawn from. It
// is a no-op if the buffer was never drawn from a pool.
func (b *BufferHeader) Release() {
	if b.pool != nil {
		b.pool.release(b)
	}
}

// ResetForResubmit clears the per-send fields of a buffer that has
// returned from downstream, exactly as the core-owned pool forwarding
// callback does before resubmitting it to an output.
func (b *BufferHeader) ResetForResubmit() {
	b.Cmd = CmdNone
	b.Length = 0
	b.Offset = 0
	b.Flags = 0
	b.PTS = 0
	b.DTS = 0
	b.FormatChangePayload = nil
}
