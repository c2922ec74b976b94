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

package registry

import (
	"bytes"
	"encoding/binary"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/gpueffects/shaderlib/core/data/id"
	"github.com/gpueffects/shaderlib/shaderlib/intern"
)

// remapCacheSize bounds the per-foreign-registry shader remap cache (§4.B)
// so a build folding many repos can't grow it without limit.
const remapCacheSize = 4096

// Registry is the content-addressed store of all deduplicated
// shader-library data. The zero value is not usable; construct with New.
// A Registry is not safe for concurrent mutation — parallelism is by repo
// or by builder instance, folded into one Registry by a single thread (see
// GetOrAddShaderFrom).
type Registry struct {
	Strings *intern.Table

	consts    []ConstDef
	constBufs []ConstBufDef
	ioElems   []IOElementDef
	resources []ResourceDef
	shaders   []ShaderDef
	effects   []EffectDef

	constLayouts []Span
	cbufGroups   []Span
	ioLayouts    []Span
	resGroups    []Span
	effectPasses []Span
	idArena      []uint32

	byteCodes []Span
	byteArena []byte

	dedup [tagCount]map[id.ID]uint32

	Pool Pool

	remapCache  *lru.Cache
	remapForeign *Registry
}

// New returns an empty Registry with its own intern table.
func New() *Registry {
	cache, err := lru.New(remapCacheSize)
	if err != nil {
		panic(err) // only fails for a non-positive size, which remapCacheSize never is
	}
	r := &Registry{Strings: intern.New(), remapCache: cache}
	for t := range r.dedup {
		r.dedup[t] = make(map[id.ID]uint32)
	}
	return r
}

func encode(v interface{}) []byte {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("registry: value of type %T is not fixed-size encodable: %v", v, err))
	}
	return buf.Bytes()
}

// dedupe runs the speculative-append-then-rollback protocol described in
// §4.B: length is a caller-supplied closure, called only on a miss, that
// returns the tag's vector length once the new entry is in place; rollback
// undoes the caller's speculative append on a hit.
func (r *Registry) dedupe(tag Tag, key []byte, length func() uint32, rollback func()) uint32 {
	h := id.OfBytes(key)
	if idx, ok := r.dedup[tag][h]; ok {
		rollback()
		return idx
	}
	idx := length() - 1
	r.dedup[tag][h] = idx
	return idx
}

// GetOrAddConst interns a ConstDef, returning its tagged ID.
func (r *Registry) GetOrAddConst(v ConstDef) ID {
	r.consts = append(r.consts, v)
	idx := r.dedupe(TagConstant, encode(v), func() uint32 { return uint32(len(r.consts)) }, func() {
		r.consts = r.consts[:len(r.consts)-1]
	})
	return NewID(TagConstant, idx)
}

// Const resolves a Constant ID to its value.
func (r *Registry) Const(i ID) ConstDef {
	r.checkTag(i, TagConstant)
	return r.consts[i.Index()]
}

// GetOrAddConstBuf interns a ConstBufDef.
func (r *Registry) GetOrAddConstBuf(v ConstBufDef) ID {
	r.constBufs = append(r.constBufs, v)
	idx := r.dedupe(TagConstantBuffer, encode(v), func() uint32 { return uint32(len(r.constBufs)) }, func() {
		r.constBufs = r.constBufs[:len(r.constBufs)-1]
	})
	return NewID(TagConstantBuffer, idx)
}

// ConstBuf resolves a ConstantBuffer ID to its value.
func (r *Registry) ConstBuf(i ID) ConstBufDef {
	r.checkTag(i, TagConstantBuffer)
	return r.constBufs[i.Index()]
}

// GetOrAddIOElement interns an IOElementDef.
func (r *Registry) GetOrAddIOElement(v IOElementDef) ID {
	r.ioElems = append(r.ioElems, v)
	idx := r.dedupe(TagIOElement, encode(v), func() uint32 { return uint32(len(r.ioElems)) }, func() {
		r.ioElems = r.ioElems[:len(r.ioElems)-1]
	})
	return NewID(TagIOElement, idx)
}

// IOElement resolves an IOElement ID to its value.
func (r *Registry) IOElement(i ID) IOElementDef {
	r.checkTag(i, TagIOElement)
	return r.ioElems[i.Index()]
}

// GetOrAddResource interns a ResourceDef.
func (r *Registry) GetOrAddResource(v ResourceDef) ID {
	r.resources = append(r.resources, v)
	idx := r.dedupe(TagResource, encode(v), func() uint32 { return uint32(len(r.resources)) }, func() {
		r.resources = r.resources[:len(r.resources)-1]
	})
	return NewID(TagResource, idx)
}

// Resource resolves a Resource ID to its value.
func (r *Registry) Resource(i ID) ResourceDef {
	r.checkTag(i, TagResource)
	return r.resources[i.Index()]
}

// GetOrAddShader interns a ShaderDef.
func (r *Registry) GetOrAddShader(v ShaderDef) ID {
	r.shaders = append(r.shaders, v)
	idx := r.dedupe(TagShader, encode(v), func() uint32 { return uint32(len(r.shaders)) }, func() {
		r.shaders = r.shaders[:len(r.shaders)-1]
	})
	return NewID(TagShader, idx)
}

// Shader resolves a Shader ID to its value.
func (r *Registry) Shader(i ID) ShaderDef {
	r.checkTag(i, TagShader)
	return r.shaders[i.Index()]
}

// GetOrAddEffect interns an EffectDef.
func (r *Registry) GetOrAddEffect(v EffectDef) ID {
	r.effects = append(r.effects, v)
	idx := r.dedupe(TagEffect, encode(v), func() uint32 { return uint32(len(r.effects)) }, func() {
		r.effects = r.effects[:len(r.effects)-1]
	})
	return NewID(TagEffect, idx)
}

// Effect resolves an Effect ID to its value.
func (r *Registry) Effect(i ID) EffectDef {
	r.checkTag(i, TagEffect)
	return r.effects[i.Index()]
}

// groupAdd implements the ID-group variant of the protocol: ids is
// speculatively written into the shared arena, and rolled back (truncating
// the arena) on a dedup hit.
func (r *Registry) groupAdd(tag Tag, spans *[]Span, ids []uint32) ID {
	start := uint32(len(r.idArena))
	r.idArena = append(r.idArena, ids...)
	key := encode(ids)
	idx := r.dedupe(tag, key, func() uint32 {
		*spans = append(*spans, Span{Offset: start, Length: uint32(len(ids))})
		return uint32(len(*spans))
	}, func() {
		r.idArena = r.idArena[:start]
	})
	return NewID(tag, idx)
}

// GetOrAddConstLayout interns the field order of a constant buffer.
func (r *Registry) GetOrAddConstLayout(ids []uint32) ID {
	return r.groupAdd(TagConstLayout, &r.constLayouts, ids)
}

// ConstLayout resolves a ConstLayout ID to its member IDs.
func (r *Registry) ConstLayout(i ID) []uint32 {
	r.checkTag(i, TagConstLayout)
	return r.constLayouts[i.Index()].IDs(r.idArena)
}

// GetOrAddCBufGroup interns the set of cbuffers used by one shader.
func (r *Registry) GetOrAddCBufGroup(ids []uint32) ID {
	return r.groupAdd(TagCBufGroup, &r.cbufGroups, ids)
}

// CBufGroup resolves a CBufGroup ID to its member IDs.
func (r *Registry) CBufGroup(i ID) []uint32 {
	r.checkTag(i, TagCBufGroup)
	return r.cbufGroups[i.Index()].IDs(r.idArena)
}

// GetOrAddIOLayout interns an input or output signature.
func (r *Registry) GetOrAddIOLayout(ids []uint32) ID {
	return r.groupAdd(TagIOLayout, &r.ioLayouts, ids)
}

// IOLayout resolves an IOLayout ID to its member IDs.
func (r *Registry) IOLayout(i ID) []uint32 {
	r.checkTag(i, TagIOLayout)
	return r.ioLayouts[i.Index()].IDs(r.idArena)
}

// GetOrAddResGroup interns the set of bound resources used by one shader.
func (r *Registry) GetOrAddResGroup(ids []uint32) ID {
	return r.groupAdd(TagResGroup, &r.resGroups, ids)
}

// ResGroup resolves a ResGroup ID to its member IDs.
func (r *Registry) ResGroup(i ID) []uint32 {
	r.checkTag(i, TagResGroup)
	return r.resGroups[i.Index()].IDs(r.idArena)
}

// GetOrAddEffectPass interns one pass's ordered shader list.
func (r *Registry) GetOrAddEffectPass(ids []uint32) ID {
	return r.groupAdd(TagEffectPass, &r.effectPasses, ids)
}

// EffectPass resolves an EffectPass ID to its member shader IDs.
func (r *Registry) EffectPass(i ID) []uint32 {
	r.checkTag(i, TagEffectPass)
	return r.effectPasses[i.Index()].IDs(r.idArena)
}

// GetOrAddByteCode interns a compiled bytecode blob.
func (r *Registry) GetOrAddByteCode(b []byte) ID {
	start := uint32(len(r.byteArena))
	r.byteArena = append(r.byteArena, b...)
	idx := r.dedupe(TagByteCode, b, func() uint32 {
		r.byteCodes = append(r.byteCodes, Span{Offset: start, Length: uint32(len(b))})
		return uint32(len(r.byteCodes))
	}, func() {
		r.byteArena = r.byteArena[:start]
	})
	return NewID(TagByteCode, idx)
}

// ByteCode resolves a ByteCode ID to its bytes.
func (r *Registry) ByteCode(i ID) []byte {
	r.checkTag(i, TagByteCode)
	return r.byteCodes[i.Index()].Bytes(r.byteArena)
}

func (r *Registry) checkTag(i ID, want Tag) {
	if i.Tag() != want {
		panic(fmt.Sprintf("registry: ID %s used where a %s ID was expected", i, want))
	}
}

// Len reports the number of interned values for tag, for tests asserting
// against spec.md §8.1's registry-injectivity and cross-repo-dedup
// invariants.
func (r *Registry) Len(tag Tag) int {
	switch tag {
	case TagConstant:
		return len(r.consts)
	case TagConstLayout:
		return len(r.constLayouts)
	case TagConstantBuffer:
		return len(r.constBufs)
	case TagIOElement:
		return len(r.ioElems)
	case TagResource:
		return len(r.resources)
	case TagCBufGroup:
		return len(r.cbufGroups)
	case TagIOLayout:
		return len(r.ioLayouts)
	case TagResGroup:
		return len(r.resGroups)
	case TagByteCode:
		return len(r.byteCodes)
	case TagShader:
		return len(r.shaders)
	case TagEffectPass:
		return len(r.effectPasses)
	case TagEffect:
		return len(r.effects)
	default:
		return 0
	}
}

// Clear resets every vector, arena, and dedup index, invalidating all
// previously issued IDs. The intern table and LRU remap caches are replaced
// as well, matching spec.md §3.3's "stable until Clear".
func (r *Registry) Clear() {
	*r = *New()
}
