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

// Package format describes the media format carried by a port. Format
// descriptor allocation is an external collaborator per the port
// subsystem's scope; this package supplies the descriptor type itself
// and the FourCC helpers used when naming ports.
package format

import "fmt"

// MediaType classifies the broad kind of elementary stream a Format
// describes.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeSubpicture
)

// FourCC is a four-byte media encoding identifier (e.g. "H264", "MJPG").
type FourCC [4]byte

// NewFourCC builds a FourCC from a string, padding with spaces if the
// string is shorter than four bytes and truncating if longer.
func NewFourCC(s string) FourCC {
	var f FourCC
	for i := range f {
		if i < len(s) {
			f[i] = s[i]
		} else {
			f[i] = ' '
		}
	}
	return f
}

func (f FourCC) String() string {
	return string(f[:])
}

// Format is the descriptor owned by a port for its lifetime. Video/audio
// specific fields live in the Extra payload, since the wire
// representation of media payloads is not this core's concern — this
// struct only carries enough for buffer sizing, naming, and
// format-change propagation.
type Format struct {
	Type     MediaType
	Encoding FourCC

	// Extra holds a media-type-specific sub-structure (e.g. video
	// width/height/frame-rate). The port core never interprets it; it
	// only copies it wholesale during FullCopy.
	Extra any
}

// New allocates a fresh format descriptor with a blank encoding. Ports
// never share a Format with another port; FullCopy is used to
// propagate values.
func New() *Format {
	return &Format{Encoding: NewFourCC("")}
}

// FullCopy overwrites dst's contents with src's, the way a connected
// output propagates a FORMAT_CHANGED event into its own format
// descriptor before committing it.
func FullCopy(dst, src *Format) {
	dst.Type = src.Type
	dst.Encoding = src.Encoding
	dst.Extra = src.Extra
}

func (f *Format) String() string {
	if f == nil {
		return "<nil format>"
	}
	return fmt.Sprintf("%s/%s", mediaTypeString(f.Type), f.Encoding)
}

func mediaTypeString(t MediaType) string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeSubpicture:
		return "subpicture"
	}
	return "unknown"
}
