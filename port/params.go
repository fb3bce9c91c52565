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
	"github.com/go-mmport/port/portstats"
)

// Core-recognised parameter IDs live in a negative namespace so they
// never collide with a module's own parameter IDs (conventionally >= 0).
const (
	// CoreStatistics is CORE_STATISTICS: Get fills a *portstats.Param;
	// Set is never handled by the core.
	CoreStatistics = -1

	// CorePortInfo is a read-only introspection parameter: Get fills a
	// *PortInfo snapshot.
	CorePortInfo = -2
)

// PortInfo is a snapshot of a port's public face, returned by
// CorePortInfo.
type PortInfo struct {
	Type                  Type
	Index                 uint32
	Name                  string
	Enabled               bool
	BufferNum             uint32
	BufferNumMin          uint32
	BufferNumRecommended  uint32
	BufferSize            uint32
	BufferSizeMin         uint32
	BufferSizeRecommended uint32
	Capabilities          Capabilities
}

// ParameterGet invokes the module's parameter handler under the port
// lock; if it's absent or returns ENOSYS, the core handles the
// parameter itself if it recognises the id.
func (p *Port) ParameterGet(id int, out any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handlers.ParameterGet != nil {
		err := p.handlers.ParameterGet(p, id, out)
		if err == nil || !mmerr.Is(err, mmerr.ENOSYS) {
			return err
		}
	}

	switch id {
	case CoreStatistics:
		sp, ok := out.(*portstats.Param)
		if !ok {
			return mmerr.New(mmerr.EINVAL, "CORE_STATISTICS expects a *portstats.Param")
		}
		p.statsMu.Lock()
		sp.Stats = p.stats[sp.Dir]
		if sp.Reset {
			p.stats[sp.Dir].Reset()
		}
		p.statsMu.Unlock()
		return nil

	case CorePortInfo:
		info, ok := out.(*PortInfo)
		if !ok {
			return mmerr.New(mmerr.EINVAL, "CORE_PORT_INFO expects a *PortInfo")
		}
		*info = PortInfo{
			Type:                  p.Type,
			Index:                 p.Index,
			Name:                  p.name.String(),
			Enabled:               p.Enabled(),
			BufferNum:             p.BufferNum,
			BufferNumMin:          p.BufferNumMin,
			BufferNumRecommended:  p.BufferNumRecommended,
			BufferSize:            p.BufferSize,
			BufferSizeMin:         p.BufferSizeMin,
			BufferSizeRecommended: p.BufferSizeRecommended,
			Capabilities:          p.Capabilities,
		}
		return nil
	}

	return mmerr.New(mmerr.ENOSYS, "no core parameter with this id")
}

// ParameterSet invokes the module's parameter handler under the port
// lock. No parameter is set by the core itself.
func (p *Port) ParameterSet(id int, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handlers.ParameterSet == nil {
		return mmerr.New(mmerr.ENOSYS, "module does not implement ParameterSet")
	}
	return p.handlers.ParameterSet(p, id, value)
}
