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

// Package portstats holds the rx/tx bookkeeping every port keeps, and
// the CORE_STATISTICS parameter payload built from it.
package portstats

import "time"

// Direction selects which side of a port's traffic CORE_STATISTICS
// reports on.
type Direction int

const (
	RX Direction = iota
	TX
)

// Counters is the per-direction bookkeeping a port maintains under its
// stats lock.
type Counters struct {
	BufferCount     uint64
	FirstBufferTime time.Time
	LastBufferTime  time.Time
	MaxDelay        time.Duration
}

// Record folds in a single buffer observation, updating count, first/last
// timestamps, and the maximum observed delay between consecutive buffers.
func (c *Counters) Record(now time.Time) {
	if c.BufferCount == 0 {
		c.FirstBufferTime = now
	} else if delay := now.Sub(c.LastBufferTime); delay > c.MaxDelay {
		c.MaxDelay = delay
	}
	c.LastBufferTime = now
	c.BufferCount++
}

// Reset zeroes the counters, used when CORE_STATISTICS is read with
// Reset set.
func (c *Counters) Reset() {
	*c = Counters{}
}

// Param is the CORE_STATISTICS parameter payload.
type Param struct {
	Dir   Direction
	Reset bool
	Stats Counters
}
