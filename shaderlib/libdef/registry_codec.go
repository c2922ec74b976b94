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

package libdef

import (
	"github.com/gpueffects/shaderlib/core/data/pod"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// RegistrySnapshot is the serializable wrapper around registry.Snapshot,
// matching spec.md §6.3's `registry: { constants, cbufDefs, ioElements,
// resources, shaders, effects, idGroups (spans+data), binSpans (spans+data)
// }` breakdown.
type RegistrySnapshot struct {
	registry.Snapshot
}

func (s RegistrySnapshot) WriteSimple(w pod.Writer) {
	writeConstDefs(w, s.Consts)
	writeConstBufDefs(w, s.ConstBufs)
	writeIOElementDefs(w, s.IOElems)
	writeResourceDefs(w, s.Resources)
	writeShaderDefs(w, s.Shaders)
	writeEffectDefs(w, s.Effects)

	writeSpans(w, s.ConstLayouts)
	writeSpans(w, s.CBufGroups)
	writeSpans(w, s.IOLayouts)
	writeSpans(w, s.ResGroups)
	writeSpans(w, s.EffectPasses)
	writeUint32s(w, s.IDArena)

	writeSpans(w, s.ByteCodes)
	w.Uint32(uint32(len(s.ByteArena)))
	w.Data(s.ByteArena)
}

func (s *RegistrySnapshot) ReadSimple(r pod.Reader) {
	s.Consts = readConstDefs(r)
	s.ConstBufs = readConstBufDefs(r)
	s.IOElems = readIOElementDefs(r)
	s.Resources = readResourceDefs(r)
	s.Shaders = readShaderDefs(r)
	s.Effects = readEffectDefs(r)

	s.ConstLayouts = readSpans(r)
	s.CBufGroups = readSpans(r)
	s.IOLayouts = readSpans(r)
	s.ResGroups = readSpans(r)
	s.EffectPasses = readSpans(r)
	s.IDArena = readUint32s(r)

	s.ByteCodes = readSpans(r)
	s.ByteArena = make([]byte, r.Count())
	r.Data(s.ByteArena)
}

func writeSpans(w pod.Writer, spans []registry.Span) {
	w.Uint32(uint32(len(spans)))
	for _, sp := range spans {
		w.Uint32(sp.Offset)
		w.Uint32(sp.Length)
	}
}

func readSpans(r pod.Reader) []registry.Span {
	out := make([]registry.Span, r.Count())
	for i := range out {
		out[i] = registry.Span{Offset: r.Uint32(), Length: r.Uint32()}
	}
	return out
}

func writeUint32s(w pod.Writer, vs []uint32) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v)
	}
}

func readUint32s(r pod.Reader) []uint32 {
	out := make([]uint32, r.Count())
	for i := range out {
		out[i] = r.Uint32()
	}
	return out
}

func writeConstDefs(w pod.Writer, vs []registry.ConstDef) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v.StringID)
		w.Uint32(v.Offset)
		w.Uint32(v.Size)
	}
}

func readConstDefs(r pod.Reader) []registry.ConstDef {
	out := make([]registry.ConstDef, r.Count())
	for i := range out {
		out[i] = registry.ConstDef{StringID: r.Uint32(), Offset: r.Uint32(), Size: r.Uint32()}
	}
	return out
}

func writeConstBufDefs(w pod.Writer, vs []registry.ConstBufDef) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v.StringID)
		w.Uint32(v.SizeBytes)
		w.Uint32(uint32(v.LayoutID))
	}
}

func readConstBufDefs(r pod.Reader) []registry.ConstBufDef {
	out := make([]registry.ConstBufDef, r.Count())
	for i := range out {
		out[i] = registry.ConstBufDef{StringID: r.Uint32(), SizeBytes: r.Uint32(), LayoutID: registry.ID(r.Uint32())}
	}
	return out
}

func writeIOElementDefs(w pod.Writer, vs []registry.IOElementDef) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v.SemanticID)
		w.Uint32(v.SemanticIndex)
		w.Uint32(uint32(v.DataType))
		w.Uint32(v.ComponentCount)
		w.Uint32(v.SizeBytes)
	}
}

func readIOElementDefs(r pod.Reader) []registry.IOElementDef {
	out := make([]registry.IOElementDef, r.Count())
	for i := range out {
		out[i] = registry.IOElementDef{
			SemanticID:     r.Uint32(),
			SemanticIndex:  r.Uint32(),
			DataType:       registry.DataType(r.Uint32()),
			ComponentCount: r.Uint32(),
			SizeBytes:      r.Uint32(),
		}
	}
	return out
}

func writeResourceDefs(w pod.Writer, vs []registry.ResourceDef) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v.StringID)
		w.Uint32(uint32(v.TypeFlags))
		w.Uint32(v.Slot)
	}
}

func readResourceDefs(r pod.Reader) []registry.ResourceDef {
	out := make([]registry.ResourceDef, r.Count())
	for i := range out {
		out[i] = registry.ResourceDef{StringID: r.Uint32(), TypeFlags: registry.ResourceType(r.Uint32()), Slot: r.Uint32()}
	}
	return out
}

func writeShaderDefs(w pod.Writer, vs []registry.ShaderDef) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v.FileID)
		w.Uint32(uint32(v.ByteCodeID))
		w.Uint32(v.NameID)
		w.Uint8(uint8(v.Stage))
		w.Uint32(v.ThreadGroup[0])
		w.Uint32(v.ThreadGroup[1])
		w.Uint32(v.ThreadGroup[2])
		w.Uint32(uint32(v.InLayoutID))
		w.Uint32(uint32(v.OutLayoutID))
		w.Uint32(uint32(v.ResLayoutID))
		w.Uint32(uint32(v.CBufGroupID))
	}
}

func readShaderDefs(r pod.Reader) []registry.ShaderDef {
	out := make([]registry.ShaderDef, r.Count())
	for i := range out {
		var v registry.ShaderDef
		v.FileID = r.Uint32()
		v.ByteCodeID = registry.ID(r.Uint32())
		v.NameID = r.Uint32()
		v.Stage = token.Stage(r.Uint8())
		v.ThreadGroup[0] = r.Uint32()
		v.ThreadGroup[1] = r.Uint32()
		v.ThreadGroup[2] = r.Uint32()
		v.InLayoutID = registry.ID(r.Uint32())
		v.OutLayoutID = registry.ID(r.Uint32())
		v.ResLayoutID = registry.ID(r.Uint32())
		v.CBufGroupID = registry.ID(r.Uint32())
		out[i] = v
	}
	return out
}

func writeEffectDefs(w pod.Writer, vs []registry.EffectDef) {
	w.Uint32(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(v.NameID)
		w.Uint32(uint32(v.PassGroupID))
	}
}

func readEffectDefs(r pod.Reader) []registry.EffectDef {
	out := make([]registry.EffectDef, r.Count())
	for i := range out {
		out[i] = registry.EffectDef{NameID: r.Uint32(), PassGroupID: registry.ID(r.Uint32())}
	}
	return out
}
