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

	"github.com/go-mmport/port/metrics"
	"github.com/go-mmport/port/mmerr"
	"github.com/go-mmport/port/mmlog"
)

// Disable turns a port off: it clears Enabled, quiesces the component
// around the module's own Disable, blocks until every buffer already
// in transit has drained, and only then detaches the client's (or the
// core's) callback. If the port is the output side of a connection, its
// still-enabled input is recursively disabled too, and any pool the
// connection allocated is destroyed once the port lock is no longer
// held.
func (p *Port) Disable() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Enabled() {
		return mmerr.New(mmerr.EINVAL, "port is not enabled")
	}
	if p.handlers.Disable == nil {
		return mmerr.New(mmerr.ENOSYS, "module does not implement Disable")
	}

	p.sendMu.Lock()
	p.enabled = false
	p.sendMu.Unlock()

	p.Component.ActionLock()

	if p.poolForConnection != nil {
		p.poolForConnection.SetCallback(nil, nil)
	}

	var moduleErr error
	if p.handlers.Disable != nil {
		moduleErr = p.handlers.Disable(p)
	}
	if moduleErr != nil {
		p.sendMu.Lock()
		p.enabled = true
		p.sendMu.Unlock()
		p.Component.ActionUnlock()
		return mmerr.Wrap(mmerr.EINVAL, moduleErr, "module Disable failed")
	}

	p.Component.ActionUnlock()

	start := time.Now()
	p.transit.wait()
	metrics.DisableDurationSeconds.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	p.sendMu.Lock()
	p.bufferHeaderCallback = nil
	p.sendMu.Unlock()

	mmlog.Log.WithField("port", p.Name()).Debug("port disabled")

	pool := p.poolForConnection
	p.poolForConnection = nil

	peer := p.connectedPort
	if p.Type == Output && peer != nil && peer.Enabled() {
		if err := peer.Disable(); err != nil {
			return err
		}
	}

	if pool != nil {
		p.mu.Unlock()
		p.Component.PoolAllocator().Destroy(pool)
		p.mu.Lock()
	}

	return nil
}
