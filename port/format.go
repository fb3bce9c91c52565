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

import "github.com/go-mmport/port/mmerr"

// FormatCommit validates and commits a client's format/buffer-requirement
// changes.
func (p *Port) FormatCommit() error {
	if p.Format != p.formatPtrCopy {
		p.Format = p.formatPtrCopy
		return mmerr.New(mmerr.EFAULT, "port.Format was overwritten by the client")
	}

	if p.handlers.SetFormat == nil {
		return mmerr.New(mmerr.ENOSYS, "module does not implement SetFormat")
	}

	p.mu.Lock()
	err := p.handlers.SetFormat(p)
	if err == nil {
		p.refreshName()
		p.clampBufferRequirements()
	}
	p.mu.Unlock()

	if err != nil {
		return mmerr.Wrap(mmerr.EINVAL, err, "module SetFormat failed")
	}

	if p.Type == Input && p.siblingOutputs != nil {
		for _, out := range p.siblingOutputs() {
			out.mu.Lock()
			out.clampBufferRequirements()
			out.mu.Unlock()
		}
	}

	return nil
}

// clampBufferRequirements keeps buffer_num/buffer_size from ever
// dropping below their advertised minima; callers must hold p.mu.
func (p *Port) clampBufferRequirements() {
	if p.BufferNum < p.BufferNumMin {
		p.BufferNum = p.BufferNumMin
	}
	if p.BufferSize < p.BufferSizeMin {
		p.BufferSize = p.BufferSizeMin
	}
}

// refreshName recomputes the port's cached name after a format change;
// callers must hold p.mu.
func (p *Port) refreshName() {
	p.name.Refresh(p.Format.Encoding.String())
}
