// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry implements the content-addressed shader-library
// registry: one deduplicating vector per resource type, tagged 32-bit IDs,
// and speculative-append-then-rollback insertion.
package registry

import "fmt"

// Tag identifies which of the registry's per-type vectors an ID's low 24
// bits index into. The tag occupies an ID's high 8 bits and is authoritative
// — two IDs with different tags are never equal, even at the same index.
type Tag uint8

const (
	TagConstant Tag = iota
	TagConstLayout
	TagConstantBuffer
	TagIOElement
	TagResource
	TagCBufGroup
	TagIOLayout
	TagResGroup
	TagByteCode
	TagShader
	TagEffectPass
	TagEffect

	tagCount
)

func (t Tag) String() string {
	switch t {
	case TagConstant:
		return "Constant"
	case TagConstLayout:
		return "ConstLayout"
	case TagConstantBuffer:
		return "ConstantBuffer"
	case TagIOElement:
		return "IOElement"
	case TagResource:
		return "Resource"
	case TagCBufGroup:
		return "CBufGroup"
	case TagIOLayout:
		return "IOLayout"
	case TagResGroup:
		return "ResGroup"
	case TagByteCode:
		return "ByteCode"
	case TagShader:
		return "Shader"
	case TagEffectPass:
		return "EffectPass"
	case TagEffect:
		return "Effect"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// ID is a tagged 32-bit resource identifier: high 8 bits are the Tag, low 24
// bits the dense index within that tag's vector.
type ID uint32

// InvalidID marks an optional reference field as absent (e.g. a pixel
// shader's outLayoutID when no reflection data was produced for it).
const InvalidID ID = 0xFFFFFFFF

// NewID packs a tag and index into a tagged ID. index must fit in 24 bits.
func NewID(tag Tag, index uint32) ID {
	return ID(uint32(tag)<<24 | (index & 0x00FFFFFF))
}

// Tag extracts the resource-type tag from id.
func (id ID) Tag() Tag { return Tag(id >> 24) }

// Index extracts the dense vector index from id.
func (id ID) Index() uint32 { return uint32(id) & 0x00FFFFFF }

// Valid reports whether id is not the sentinel InvalidID.
func (id ID) Valid() bool { return id != InvalidID }

func (id ID) String() string {
	if id == InvalidID {
		return "invalid"
	}
	return fmt.Sprintf("%s#%d", id.Tag(), id.Index())
}
