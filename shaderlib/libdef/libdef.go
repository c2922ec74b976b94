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

// Package libdef defines the serializable shape of a built shader library
// (spec.md §3.2/§6.3) and its binary codec, built on framework/binary/vle.
package libdef

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/core/app/flags"
	"github.com/gpueffects/shaderlib/core/data/pod"
	"github.com/gpueffects/shaderlib/shaderlib/intern"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
)

// Target is the graphics API a library's bytecode was compiled for.
type Target uint8

const (
	TargetDX11 Target = iota
	TargetDX12
	TargetVulkan
)

func (t Target) String() string {
	switch t {
	case TargetDX11:
		return "DX11"
	case TargetDX12:
		return "DX12"
	case TargetVulkan:
		return "Vulkan"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// Choose sets t to the chosen Target.
func (t *Target) Choose(c interface{}) { *t = c.(Target) }

// Chooser returns a chooser over every Target, so a CLI flag binding this
// type (core/app/flags.Choosable) gets "unknown value, valid options are:
// ..." validation for free.
func (t *Target) Chooser() flags.Chooser {
	return flags.Chooser{
		Value:   t,
		Choices: flags.Choices{TargetDX11, TargetDX12, TargetVulkan},
	}
}

// Platform records the compiler and target a library's bytecode is only
// valid for, per spec.md §3.2.
type Platform struct {
	CompilerVersion semver.Version
	FeatureLevel    string
	Target          Target
}

func (p Platform) WriteSimple(w pod.Writer) {
	w.String(p.CompilerVersion.String())
	w.String(p.FeatureLevel)
	w.Uint8(uint8(p.Target))
}

func (p *Platform) ReadSimple(r pod.Reader) {
	v, err := semver.Parse(r.String())
	if err != nil {
		r.SetError(errors.Wrap(err, "libdef: invalid compiler version"))
	}
	p.CompilerVersion = v
	p.FeatureLevel = r.String()
	p.Target = Target(r.Uint8())
}

// SrcRef names the source file a VariantRepoDef was built from.
type SrcRef struct {
	Name string
	Path string
}

func (s SrcRef) WriteSimple(w pod.Writer) {
	w.String(s.Name)
	w.String(s.Path)
}

func (s *SrcRef) ReadSimple(r pod.Reader) {
	s.Name = r.String()
	s.Path = r.String()
}

// ShaderVariantRef is one (shaderID, variantID) entry in a repo's variant
// table.
type ShaderVariantRef struct {
	ShaderID  uint32
	VariantID uint32
}

func (s ShaderVariantRef) WriteSimple(w pod.Writer) {
	w.Uint32(s.ShaderID)
	w.Uint32(s.VariantID)
}

func (s *ShaderVariantRef) ReadSimple(r pod.Reader) {
	s.ShaderID = r.Uint32()
	s.VariantID = r.Uint32()
}

// EffectVariantRef is one (effectID, variantID) entry in a repo's variant
// table.
type EffectVariantRef struct {
	EffectID  uint32
	VariantID uint32
}

func (e EffectVariantRef) WriteSimple(w pod.Writer) {
	w.Uint32(e.EffectID)
	w.Uint32(e.VariantID)
}

func (e *EffectVariantRef) ReadSimple(r pod.Reader) {
	e.EffectID = r.Uint32()
	e.VariantID = r.Uint32()
}

// VariantDef is the set of effects and shaders visible in one variant.
type VariantDef struct {
	Effects []EffectVariantRef
	Shaders []ShaderVariantRef
}

func (v VariantDef) WriteSimple(w pod.Writer) {
	w.Uint32(uint32(len(v.Effects)))
	for _, e := range v.Effects {
		w.Simple(e)
	}
	w.Uint32(uint32(len(v.Shaders)))
	for _, s := range v.Shaders {
		w.Simple(s)
	}
}

func (v *VariantDef) ReadSimple(r pod.Reader) {
	v.Effects = make([]EffectVariantRef, r.Count())
	for i := range v.Effects {
		r.Simple(&v.Effects[i])
	}
	v.Shaders = make([]ShaderVariantRef, r.Count())
	for i := range v.Shaders {
		r.Simple(&v.Shaders[i])
	}
}

// VariantRepoDef is one source repo's flags, modes, and per-variant content,
// per spec.md §3.2. len(Variants) == 2^len(FlagIDs) * max(1, len(ModeIDs)).
type VariantRepoDef struct {
	Src      SrcRef
	FlagIDs  []uint32
	ModeIDs  []uint32
	Variants []VariantDef
}

func (v VariantRepoDef) WriteSimple(w pod.Writer) {
	w.Simple(v.Src)
	w.Uint32(uint32(len(v.FlagIDs)))
	for _, id := range v.FlagIDs {
		w.Uint32(id)
	}
	w.Uint32(uint32(len(v.ModeIDs)))
	for _, id := range v.ModeIDs {
		w.Uint32(id)
	}
	w.Uint32(uint32(len(v.Variants)))
	for _, variant := range v.Variants {
		w.Simple(variant)
	}
}

func (v *VariantRepoDef) ReadSimple(r pod.Reader) {
	r.Simple(&v.Src)
	v.FlagIDs = make([]uint32, r.Count())
	for i := range v.FlagIDs {
		v.FlagIDs[i] = r.Uint32()
	}
	v.ModeIDs = make([]uint32, r.Count())
	for i := range v.ModeIDs {
		v.ModeIDs[i] = r.Uint32()
	}
	v.Variants = make([]VariantDef, r.Count())
	for i := range v.Variants {
		r.Simple(&v.Variants[i])
	}
}

// StringIDMapDef is the serialized form of an intern.Table: one (offset,
// length) span per interned string, indexed by ID, plus the concatenated
// string data they point into.
type StringIDMapDef struct {
	Spans []intern.Span
	Data  []byte
}

func (s StringIDMapDef) WriteSimple(w pod.Writer) {
	w.Uint32(uint32(len(s.Spans)))
	for _, sp := range s.Spans {
		w.Uint32(sp.Offset)
		w.Uint32(sp.Length)
	}
	w.Uint32(uint32(len(s.Data)))
	w.Data(s.Data)
}

func (s *StringIDMapDef) ReadSimple(r pod.Reader) {
	s.Spans = make([]intern.Span, r.Count())
	for i := range s.Spans {
		s.Spans[i].Offset = r.Uint32()
		s.Spans[i].Length = r.Uint32()
	}
	s.Data = make([]byte, r.Count())
	r.Data(s.Data)
}

// Table reconstructs the intern.Table this StringIDMapDef was exported from.
func (s StringIDMapDef) Table() *intern.Table {
	return intern.Import(s.Data, s.Spans)
}

// StringIDMapFrom exports t into its serializable form.
func StringIDMapFrom(t *intern.Table) StringIDMapDef {
	data, spans := t.Export()
	return StringIDMapDef{Spans: spans, Data: data}
}

// ShaderLibDef is the top-level, fully self-contained on-disk shader
// library: spec.md §3.2's ShaderLibDef.
type ShaderLibDef struct {
	Name      string
	Platform  Platform
	Repos     []VariantRepoDef
	Registry  RegistrySnapshot
	StringIDs StringIDMapDef
}

func (l ShaderLibDef) WriteSimple(w pod.Writer) {
	w.String(l.Name)
	w.Simple(l.Platform)
	w.Uint32(uint32(len(l.Repos)))
	for _, repo := range l.Repos {
		w.Simple(repo)
	}
	w.Simple(l.Registry)
	w.Simple(l.StringIDs)
}

func (l *ShaderLibDef) ReadSimple(r pod.Reader) {
	l.Name = r.String()
	r.Simple(&l.Platform)
	l.Repos = make([]VariantRepoDef, r.Count())
	for i := range l.Repos {
		r.Simple(&l.Repos[i])
	}
	r.Simple(&l.Registry)
	r.Simple(&l.StringIDs)
}

// FromRegistry builds the serializable snapshot of a live registry, ready
// to be embedded in a ShaderLibDef by the builder.
func FromRegistry(reg *registry.Registry) (RegistrySnapshot, StringIDMapDef) {
	return RegistrySnapshot{reg.Export()}, StringIDMapFrom(reg.Strings)
}
