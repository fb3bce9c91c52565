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

// Package portname renders a port's stable, human-readable identifier:
// "<component>:<ctr|in|out|invalid><index>(<encoding4cc>)", refreshed
// whenever the port's format changes.
package portname

import "fmt"

// Kind is the short type tag embedded in a port name.
type Kind string

const (
	Control Kind = "ctr"
	Input   Kind = "in"
	Output  Kind = "out"
	Invalid Kind = "invalid"
)

// Name is the stable identifier for one port. Its String method is
// cheap and safe to call repeatedly; Refresh recomputes the cached
// string when the encoding changes. Component, kind and index are
// fixed at New.
type Name struct {
	component string
	kind      Kind
	index     uint32
	encoding  string

	cached string
}

// New builds a Name and computes its initial rendering.
func New(component string, kind Kind, index uint32, encoding string) *Name {
	n := &Name{component: component, kind: kind, index: index, encoding: encoding}
	n.refresh()
	return n
}

// Refresh recomputes the rendering with a new encoding, e.g. on a
// format commit.
func (n *Name) Refresh(encoding string) {
	n.encoding = encoding
	n.refresh()
}

func (n *Name) refresh() {
	n.cached = fmt.Sprintf("%s:%s%d(%s)", n.component, n.kind, n.index, n.encoding)
}

func (n *Name) String() string {
	return n.cached
}
