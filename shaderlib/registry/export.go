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

import "github.com/gpueffects/shaderlib/core/data/id"

// Snapshot is the plain-data form of a Registry's vectors and arenas,
// matching spec.md §6.3's breakdown of the on-disk `registry` field
// (constants, cbufDefs, ioElements, resources, shaders, effects, idGroups
// as spans+data, binSpans as spans+data). It carries no dedup index or
// remap cache — those are rebuilt by Restore.
type Snapshot struct {
	Consts    []ConstDef
	ConstBufs []ConstBufDef
	IOElems   []IOElementDef
	Resources []ResourceDef
	Shaders   []ShaderDef
	Effects   []EffectDef

	ConstLayouts []Span
	CBufGroups   []Span
	IOLayouts    []Span
	ResGroups    []Span
	EffectPasses []Span
	IDArena      []uint32

	ByteCodes []Span
	ByteArena []byte
}

// Export copies r's vectors and arenas into a Snapshot suitable for a
// library codec to serialize.
func (r *Registry) Export() Snapshot {
	return Snapshot{
		Consts:    append([]ConstDef(nil), r.consts...),
		ConstBufs: append([]ConstBufDef(nil), r.constBufs...),
		IOElems:   append([]IOElementDef(nil), r.ioElems...),
		Resources: append([]ResourceDef(nil), r.resources...),
		Shaders:   append([]ShaderDef(nil), r.shaders...),
		Effects:   append([]EffectDef(nil), r.effects...),

		ConstLayouts: append([]Span(nil), r.constLayouts...),
		CBufGroups:   append([]Span(nil), r.cbufGroups...),
		IOLayouts:    append([]Span(nil), r.ioLayouts...),
		ResGroups:    append([]Span(nil), r.resGroups...),
		EffectPasses: append([]Span(nil), r.effectPasses...),
		IDArena:      append([]uint32(nil), r.idArena...),

		ByteCodes: append([]Span(nil), r.byteCodes...),
		ByteArena: append([]byte(nil), r.byteArena...),
	}
}

// Restore replaces r's vectors and arenas with snap's contents and rebuilds
// the dedup index from scratch, so further GetOrAdd* calls correctly detect
// duplicates against the restored data. r's intern table is left untouched;
// the caller is responsible for restoring Strings separately (its exported
// form lives alongside the registry's, not inside it).
func (r *Registry) Restore(snap Snapshot) {
	r.consts = snap.Consts
	r.constBufs = snap.ConstBufs
	r.ioElems = snap.IOElems
	r.resources = snap.Resources
	r.shaders = snap.Shaders
	r.effects = snap.Effects

	r.constLayouts = snap.ConstLayouts
	r.cbufGroups = snap.CBufGroups
	r.ioLayouts = snap.IOLayouts
	r.resGroups = snap.ResGroups
	r.effectPasses = snap.EffectPasses
	r.idArena = snap.IDArena

	r.byteCodes = snap.ByteCodes
	r.byteArena = snap.ByteArena

	r.rebuildDedup()
}

func (r *Registry) rebuildDedup() {
	for t := range r.dedup {
		r.dedup[t] = make(map[id.ID]uint32)
	}
	for i, v := range r.consts {
		r.dedup[TagConstant][id.OfBytes(encode(v))] = uint32(i)
	}
	for i, v := range r.constBufs {
		r.dedup[TagConstantBuffer][id.OfBytes(encode(v))] = uint32(i)
	}
	for i, v := range r.ioElems {
		r.dedup[TagIOElement][id.OfBytes(encode(v))] = uint32(i)
	}
	for i, v := range r.resources {
		r.dedup[TagResource][id.OfBytes(encode(v))] = uint32(i)
	}
	for i, v := range r.shaders {
		r.dedup[TagShader][id.OfBytes(encode(v))] = uint32(i)
	}
	for i, v := range r.effects {
		r.dedup[TagEffect][id.OfBytes(encode(v))] = uint32(i)
	}
	for i, sp := range r.constLayouts {
		r.dedup[TagConstLayout][id.OfBytes(encode(sp.IDs(r.idArena)))] = uint32(i)
	}
	for i, sp := range r.cbufGroups {
		r.dedup[TagCBufGroup][id.OfBytes(encode(sp.IDs(r.idArena)))] = uint32(i)
	}
	for i, sp := range r.ioLayouts {
		r.dedup[TagIOLayout][id.OfBytes(encode(sp.IDs(r.idArena)))] = uint32(i)
	}
	for i, sp := range r.resGroups {
		r.dedup[TagResGroup][id.OfBytes(encode(sp.IDs(r.idArena)))] = uint32(i)
	}
	for i, sp := range r.effectPasses {
		r.dedup[TagEffectPass][id.OfBytes(encode(sp.IDs(r.idArena)))] = uint32(i)
	}
	for i, sp := range r.byteCodes {
		r.dedup[TagByteCode][id.OfBytes(sp.Bytes(r.byteArena))] = uint32(i)
	}
}
