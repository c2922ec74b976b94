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

// Package libmap is the read side of a built shader library (spec.md §4.H):
// it loads a libdef.ShaderLibDef, rebuilds the name->ID and variant lookup
// tables the runtime needs, and answers the small set of queries a consumer
// actually issues against a loaded library. It never mutates the registry
// it wraps.
package libmap

import (
	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/shaderlib/intern"
	"github.com/gpueffects/shaderlib/shaderlib/libdef"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
)

// Map is a read-only view over one loaded ShaderLibDef, grounded on
// ShaderLibMap.cpp/ShaderRegistryMap.cpp: the registry is reconstructed once
// at load time so every query below is a plain map lookup, never a linear
// scan of the def.
type Map struct {
	def  *libdef.ShaderLibDef
	reg  *registry.Registry
	strs *intern.Table

	repos     map[string]*RepoMap
	repoOrder []string
}

// New loads def, restoring its registry snapshot and string table and
// indexing every repo's flags, modes, and per-variant shader/effect names.
func New(def *libdef.ShaderLibDef) (*Map, error) {
	reg := registry.New()
	reg.Strings = def.StringIDs.Table()
	reg.Restore(def.Registry.Snapshot)

	m := &Map{
		def:   def,
		reg:   reg,
		strs:  reg.Strings,
		repos: make(map[string]*RepoMap, len(def.Repos)),
	}
	for _, repo := range def.Repos {
		rm, err := newRepoMap(reg, repo)
		if err != nil {
			return nil, errors.Wrapf(err, "libmap: repo %q", repo.Src.Name)
		}
		m.repos[repo.Src.Name] = rm
		m.repoOrder = append(m.repoOrder, repo.Src.Name)
	}
	return m, nil
}

// Strings returns the library's string-ID map, so a caller holding a name
// can intern-lookup its stringID before querying a RepoMap.
func (m *Map) Strings() *intern.Table { return m.strs }

// Registry returns the library's reconstructed registry, for callers that
// need to resolve a shader or effect ID to its full definition.
func (m *Map) Registry() *registry.Registry { return m.reg }

// Platform returns the library's target/compiler-version/feature-level
// record.
func (m *Map) Platform() libdef.Platform { return m.def.Platform }

// RepoNames returns every repo's name, in the order it was added to the
// library.
func (m *Map) RepoNames() []string {
	return append([]string(nil), m.repoOrder...)
}

// Repo returns the RepoMap for the named repo, grounded on
// D3D11/ShaderVariantManager.cpp addressing repos by source name rather than
// raw index.
func (m *Map) Repo(name string) (*RepoMap, bool) {
	rm, ok := m.repos[name]
	return rm, ok
}

// RepoMap answers variant-indexed queries for one VariantRepoDef: flag/mode
// bit assignment and per-variant shader/effect name resolution.
type RepoMap struct {
	repo libdef.VariantRepoDef

	flagBit  map[uint32]uint32 // flag stringID -> bit index
	modeIdx  map[uint32]uint32 // mode stringID -> mode index
	flagCnt  uint32
	modeCnt  uint32
	variants uint32

	// shaderByVariant[vID][nameID] -> shaderID; effectByVariant is the same
	// shape for effects. Indexed densely by vID since every repo's
	// Variants slice already has exactly VariantCount() entries.
	shaderByVariant []map[uint32]uint32
	effectByVariant []map[uint32]uint32
}

func newRepoMap(reg *registry.Registry, repo libdef.VariantRepoDef) (*RepoMap, error) {
	flagCnt := uint32(len(repo.FlagIDs))
	modeCnt := uint32(len(repo.ModeIDs))
	if modeCnt == 0 {
		modeCnt = 1
	}
	variants := (uint32(1) << flagCnt) * modeCnt
	if uint32(len(repo.Variants)) != variants {
		return nil, errors.Errorf("libmap: repo %q has %d variants, want %d (2^%d flags * %d modes)",
			repo.Src.Name, len(repo.Variants), variants, flagCnt, modeCnt)
	}

	rm := &RepoMap{
		repo:     repo,
		flagBit:  make(map[uint32]uint32, len(repo.FlagIDs)),
		modeIdx:  make(map[uint32]uint32, len(repo.ModeIDs)),
		flagCnt:  flagCnt,
		modeCnt:  modeCnt,
		variants: variants,
	}
	for i, id := range repo.FlagIDs {
		rm.flagBit[id] = uint32(i)
	}
	for i, id := range repo.ModeIDs {
		rm.modeIdx[id] = uint32(i)
	}

	rm.shaderByVariant = make([]map[uint32]uint32, variants)
	rm.effectByVariant = make([]map[uint32]uint32, variants)
	for vID, vd := range repo.Variants {
		shaders := make(map[uint32]uint32, len(vd.Shaders))
		for _, sv := range vd.Shaders {
			nameID := reg.Shader(registry.ID(sv.ShaderID)).NameID
			shaders[nameID] = sv.ShaderID
		}
		rm.shaderByVariant[vID] = shaders

		effects := make(map[uint32]uint32, len(vd.Effects))
		for _, ev := range vd.Effects {
			nameID := reg.Effect(registry.ID(ev.EffectID)).NameID
			effects[nameID] = ev.EffectID
		}
		rm.effectByVariant[vID] = effects
	}
	return rm, nil
}

// VariantID packs a flag bit-set and mode index into a dense variant ID, per
// spec.md §3.1's vID = flagID + modeID * 2^flagCount.
func (r *RepoMap) VariantID(flagID, modeID uint32) uint32 {
	return flagID + modeID*(uint32(1)<<r.flagCnt)
}

// FlagID extracts the flag bit-set from a variant ID.
func (r *RepoMap) FlagID(vID uint32) uint32 {
	mask := (uint32(1) << r.flagCnt) - 1
	return vID & mask
}

// ModeID extracts the mode index from a variant ID.
func (r *RepoMap) ModeID(vID uint32) uint32 {
	return vID >> r.flagCnt
}

// FlagBit returns the bit index a flag's stringID was declared at.
func (r *RepoMap) FlagBit(flagNameID uint32) (uint32, bool) {
	b, ok := r.flagBit[flagNameID]
	return b, ok
}

// ModeIndex returns the mode index a mode's stringID was declared at.
func (r *RepoMap) ModeIndex(modeNameID uint32) (uint32, bool) {
	idx, ok := r.modeIdx[modeNameID]
	return idx, ok
}

// TryGetShaderID resolves a shader name to its registry ID within variant
// vID, if that shader is present in that variant.
func (r *RepoMap) TryGetShaderID(nameID, vID uint32) (uint32, bool) {
	if vID >= r.variants {
		return 0, false
	}
	id, ok := r.shaderByVariant[vID][nameID]
	return id, ok
}

// TryGetEffectID resolves an effect name to its registry ID within variant
// vID, if that effect is present in that variant.
func (r *RepoMap) TryGetEffectID(nameID, vID uint32) (uint32, bool) {
	if vID >= r.variants {
		return 0, false
	}
	id, ok := r.effectByVariant[vID][nameID]
	return id, ok
}

// IsDefined reports whether nameID names the active mode of vID, or a flag
// set in vID — i.e. whether `#ifdef nameID` would have been true for that
// variant.
func (r *RepoMap) IsDefined(nameID, vID uint32) bool {
	if bit, ok := r.flagBit[nameID]; ok {
		return r.FlagID(vID)&(uint32(1)<<bit) != 0
	}
	if idx, ok := r.modeIdx[nameID]; ok {
		return r.ModeID(vID) == idx
	}
	return false
}

// FlagVariantCount returns 2^flagCount, the number of distinct flag
// combinations.
func (r *RepoMap) FlagVariantCount() uint32 { return uint32(1) << r.flagCnt }

// ModeCount returns the number of declared modes, including the reserved
// default mode.
func (r *RepoMap) ModeCount() uint32 { return r.modeCnt }

// VariantCount returns Vc = FlagVariantCount() * ModeCount().
func (r *RepoMap) VariantCount() uint32 { return r.variants }

// Src returns the repo's recorded source name and path.
func (r *RepoMap) Src() libdef.SrcRef { return r.repo.Src }
