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

// Package build drives the whole library-build pipeline (spec.md §4.G): for
// every added repo, it discovers that repo's flags and modes, expands each
// variant, builds a block tree and symbol table over it, locates every
// effect/technique/pass and bare entrypoint, generates and compiles each
// shader, and folds the results into one shared registry.
package build

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/core/data/id"
	"github.com/gpueffects/shaderlib/core/log"
	"github.com/gpueffects/shaderlib/shaderlib/block"
	"github.com/gpueffects/shaderlib/shaderlib/compiler"
	"github.com/gpueffects/shaderlib/shaderlib/generate"
	"github.com/gpueffects/shaderlib/shaderlib/libdef"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
	"github.com/gpueffects/shaderlib/shaderlib/symbol"
	"github.com/gpueffects/shaderlib/shaderlib/token"
	"github.com/gpueffects/shaderlib/shaderlib/variant"
)

// shaderCacheSize bounds the entrypoint-source-to-ShaderDef cache a single
// build keeps across repos and variants, so a build touching thousands of
// variants of near-identical source doesn't recompile the same entrypoint
// text over and over.
const shaderCacheSize = 8192

// repoInput is one AddRepo call, queued until GetDefinition runs the
// pipeline over it.
type repoInput struct {
	name, path, src string
}

// Builder assembles one ShaderLibDef from a set of added repos. It owns a
// single Registry for the whole build, so identical shader source anywhere
// across any repo or variant collapses to one ShaderDef and one ByteCode
// entry (spec.md §8.1's cross-repo-dedup invariant). A Builder is not safe
// for concurrent use; run one Preprocessor per repo on separate goroutines
// and feed their results into a single Builder from one merging goroutine
// if repo-level parallelism is wanted (spec.md §5).
type Builder struct {
	reg      *registry.Registry
	compiler compiler.Compiler

	target          libdef.Target
	featureLevel    string
	debug           bool
	compilerVersion semver.Version

	repos []repoInput

	// shaderCache maps a hash of (source text, entry name, stage, feature
	// level, debug) to the ShaderDef ID already registered for it, so a
	// second variant or repo compiling the same reduced source never calls
	// the external compiler twice.
	shaderCache *lru.Cache
}

// New returns a Builder that calls comp to compile every entrypoint it
// discovers.
func New(comp compiler.Compiler) *Builder {
	cache, err := lru.New(shaderCacheSize)
	if err != nil {
		panic(err) // only fails for a non-positive size, which shaderCacheSize never is
	}
	return &Builder{
		reg:          registry.New(),
		compiler:     comp,
		target:       libdef.TargetDX11,
		featureLevel: "11_0",
		shaderCache:  cache,
	}
}

// SetTarget selects the graphics API the build's bytecode targets.
func (b *Builder) SetTarget(t libdef.Target) { b.target = t }

// SetFeatureLevel selects the shader model / feature level string passed to
// the external compiler and recorded in the resulting library's Platform.
func (b *Builder) SetFeatureLevel(fl string) { b.featureLevel = fl }

// SetDebug toggles debug compilation (unstripped bytecode, richer
// reflection) for every entrypoint compiled from this point on.
func (b *Builder) SetDebug(debug bool) { b.debug = debug }

// SetCompilerVersion records the external compiler's version in the built
// library's Platform, so a consumer can refuse to load bytecode built by an
// incompatible compiler release.
func (b *Builder) SetCompilerVersion(v semver.Version) { b.compilerVersion = v }

// AddRepo queues one named source for the next GetDefinition call. name and
// path are carried through unchanged into the library's VariantRepoDef; src
// is the repo's full, unpreprocessed source text.
func (b *Builder) AddRepo(name, path, src string) {
	b.repos = append(b.repos, repoInput{name: name, path: path, src: src})
}

// Clear discards every queued repo and resets the registry, invalidating
// any IDs handed out by a prior GetDefinition.
func (b *Builder) Clear() {
	if out := b.reg.Pool.Outstanding(); out != 0 {
		panic(fmt.Sprintf("build: %d scratch buffers still outstanding at Clear", out))
	}
	*b = Builder{
		reg:             registry.New(),
		compiler:        b.compiler,
		target:          b.target,
		featureLevel:    b.featureLevel,
		debug:           b.debug,
		compilerVersion: b.compilerVersion,
		shaderCache:     b.shaderCache,
	}
	b.shaderCache.Purge()
}

// GetDefinition runs the build pipeline over every queued repo, in the
// order AddRepo was called, and returns the finished library. Repos are
// processed independently; variants within a repo are processed in
// ascending vID order; both orderings, together with the block analyzer's
// stable discovery order within a variant, make a build's ShaderLibDef
// reproducible byte-for-byte across repeated runs over the same inputs
// (spec.md §5).
func (b *Builder) GetDefinition(ctx log.Context) (*libdef.ShaderLibDef, error) {
	repoDefs := make([]libdef.VariantRepoDef, 0, len(b.repos))
	for _, ri := range b.repos {
		rd, err := b.buildRepo(ctx, ri)
		if err != nil {
			return nil, errors.Wrapf(err, "build: repo %q", ri.name)
		}
		repoDefs = append(repoDefs, rd)
	}

	if out := b.reg.Pool.Outstanding(); out != 0 {
		panic(fmt.Sprintf("build: %d scratch buffers still outstanding at GetDefinition", out))
	}

	snap, strIDs := libdef.FromRegistry(b.reg)
	return &libdef.ShaderLibDef{
		Platform: libdef.Platform{
			CompilerVersion: b.compilerVersion,
			FeatureLevel:    b.featureLevel,
			Target:          b.target,
		},
		Repos:     repoDefs,
		Registry:  snap,
		StringIDs: strIDs,
	}, nil
}

func (b *Builder) buildRepo(ctx log.Context, ri repoInput) (libdef.VariantRepoDef, error) {
	pp := variant.New(ri.path, ri.src)
	vc := pp.VariantCount()
	flagNames := pp.FlagNames()
	modeNames := pp.ModeNames()

	log := ctx.Info()
	if log.Active() {
		log.V("repo", ri.name).V("variants", vc).Log("building repo")
	}

	flagIDs := make([]uint32, len(flagNames))
	for i, name := range flagNames {
		flagIDs[i] = b.reg.Strings.GetOrAdd(name)
	}
	modeIDs := make([]uint32, len(modeNames))
	for i, name := range modeNames {
		modeIDs[i] = b.reg.Strings.GetOrAdd(name)
	}

	fileID := b.reg.Strings.GetOrAdd(ri.path)

	variants := make([]libdef.VariantDef, vc)
	for vID := 0; vID < vc; vID++ {
		vd, err := b.buildVariant(ctx, ri, fileID, pp, vID)
		if err != nil {
			return libdef.VariantRepoDef{}, errors.Wrapf(err, "variant %d", vID)
		}
		variants[vID] = vd
	}

	return libdef.VariantRepoDef{
		Src:      libdef.SrcRef{Name: ri.name, Path: ri.path},
		FlagIDs:  flagIDs,
		ModeIDs:  modeIDs,
		Variants: variants,
	}, nil
}

func (b *Builder) buildVariant(ctx log.Context, ri repoInput, fileID uint32, pp *variant.Preprocessor, vID int) (libdef.VariantDef, error) {
	text, entrypoints, err := pp.Generate(vID)
	if err != nil {
		return libdef.VariantDef{}, errors.Wrap(err, "preprocess")
	}

	tree, err := block.Build(ri.path, text)
	if err != nil {
		return libdef.VariantDef{}, errors.Wrap(err, "block analysis")
	}
	tbl, err := symbol.Build(ri.path, text, tree)
	if err != nil {
		return libdef.VariantDef{}, errors.Wrap(err, "symbol resolution")
	}

	// shaderBySymbol remembers shaders already built for this variant so a
	// shader named by more than one pass is only compiled once.
	shaderBySymbol := map[symbol.ID]registry.ID{}
	buildEntry := func(symID symbol.ID) (registry.ID, error) {
		if regID, ok := shaderBySymbol[symID]; ok {
			return regID, nil
		}
		sym := tbl.Get(symID)
		regID, err := b.buildShader(ctx, fileID, text, tbl, symID, sym.Name, sym.Stage)
		if err != nil {
			return 0, err
		}
		shaderBySymbol[symID] = regID
		return regID, nil
	}

	var vd libdef.VariantDef
	for _, ep := range entrypoints {
		symID, found := tbl.Lookup(tree.Root().ID, ep.Name)
		if !found || !tbl.Get(symID).Kind.Any(symbol.Shader) {
			return libdef.VariantDef{}, errors.Errorf("entrypoint %q not found at file scope", ep.Name)
		}
		regID, err := buildEntry(symID)
		if err != nil {
			return libdef.VariantDef{}, errors.Wrapf(err, "entrypoint %q", ep.Name)
		}
		vd.Shaders = append(vd.Shaders, libdef.ShaderVariantRef{ShaderID: uint32(regID), VariantID: uint32(vID)})
	}

	for _, sym := range tbl.Symbols() {
		if !sym.Kind.Any(symbol.Technique) {
			continue
		}
		techBlock := tree.Get(sym.Owner)
		var passIDs []uint32
		for _, childID := range techBlock.Children {
			child := tree.Get(childID)
			if child.Kind != block.ReplicaBlock {
				continue
			}
			shaderSymIDs, ok := tbl.PassShaders(childID)
			if !ok {
				continue
			}
			shaderRegIDs := make([]uint32, len(shaderSymIDs))
			for i, symID := range shaderSymIDs {
				regID, err := buildEntry(symID)
				if err != nil {
					return libdef.VariantDef{}, errors.Wrapf(err, "effect %q pass", sym.Name)
				}
				shaderRegIDs[i] = uint32(regID)
			}
			passID := b.reg.GetOrAddEffectPass(shaderRegIDs)
			passIDs = append(passIDs, uint32(passID))
		}
		passGroupID := b.reg.GetOrAddEffectPass(passIDs)
		nameID := b.reg.Strings.GetOrAdd(sym.Name)
		effectID := b.reg.GetOrAddEffect(registry.EffectDef{NameID: nameID, PassGroupID: passGroupID})
		vd.Effects = append(vd.Effects, libdef.EffectVariantRef{EffectID: uint32(effectID), VariantID: uint32(vID)})
	}

	return vd, nil
}

// buildShader generates the reduced source for one entrypoint, compiles it
// (or reuses an identical-source compile already done elsewhere in this
// build), and registers its ShaderDef.
func (b *Builder) buildShader(ctx log.Context, fileID uint32, text string, tbl *symbol.Table, symID symbol.ID, name string, stage token.Stage) (registry.ID, error) {
	src, err := generate.Generate(text, tbl, symID)
	if err != nil {
		return 0, errors.Wrapf(err, "generate entrypoint %q", name)
	}

	cacheKey := id.OfString(src, name, stage.String(), b.featureLevel, fmt.Sprint(b.debug))
	if cached, ok := b.shaderCache.Get(cacheKey); ok {
		return cached.(registry.ID), nil
	}

	bytecode, refl, err := b.compiler.Compile(context.Background(), compiler.Request{
		SrcPath:      fileID_String(fileID, b.reg),
		SrcText:      src,
		FeatureLevel: b.featureLevel,
		Stage:        stage,
		EntryName:    name,
		Debug:        b.debug,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "compile entrypoint %q", name)
	}

	byteCodeID := b.reg.GetOrAddByteCode(bytecode)
	nameID := b.reg.Strings.GetOrAdd(name)

	shaderDef := registry.ShaderDef{
		FileID:      fileID,
		ByteCodeID:  byteCodeID,
		NameID:      nameID,
		Stage:       stage,
		ThreadGroup: refl.ThreadGroup,
		InLayoutID:  b.ioLayoutFrom(refl.Inputs),
		OutLayoutID: b.ioLayoutFrom(refl.Outputs),
		ResLayoutID: b.resGroupFrom(refl.Resources),
		CBufGroupID: b.cbufGroupFrom(refl.ConstBuffers),
	}
	shaderID := b.reg.GetOrAddShader(shaderDef)

	b.shaderCache.Add(cacheKey, shaderID)

	log := ctx.Debug()
	if log.Active() {
		log.V("entry", name).V("stage", stage.String()).Log("compiled shader")
	}

	return shaderID, nil
}

// fileID_String resolves an interned path back to its text for the
// compiler request; the registry's own intern table is the only place that
// still holds it once it has been added.
func fileID_String(fileID uint32, reg *registry.Registry) string {
	return reg.Strings.Get(fileID)
}

func (b *Builder) ioLayoutFrom(params []compiler.Parameter) registry.ID {
	if len(params) == 0 {
		return registry.InvalidID
	}
	ids := b.reg.Pool.BorrowIDs()
	defer b.reg.Pool.ReturnIDs(ids)
	for _, p := range params {
		semID := b.reg.Strings.GetOrAdd(p.Semantic)
		elemID := b.reg.GetOrAddIOElement(registry.IOElementDef{
			SemanticID:     semID,
			SemanticIndex:  p.SemanticIndex,
			DataType:       p.DataType,
			ComponentCount: p.ComponentCount,
			SizeBytes:      p.ComponentCount * 4,
		})
		ids = append(ids, uint32(elemID))
	}
	return b.reg.GetOrAddIOLayout(ids)
}

func (b *Builder) resGroupFrom(resources []compiler.Resource) registry.ID {
	if len(resources) == 0 {
		return registry.InvalidID
	}
	ids := b.reg.Pool.BorrowIDs()
	defer b.reg.Pool.ReturnIDs(ids)
	for _, res := range resources {
		nameID := b.reg.Strings.GetOrAdd(res.Name)
		resID := b.reg.GetOrAddResource(registry.ResourceDef{StringID: nameID, TypeFlags: res.TypeFlags, Slot: res.Slot})
		ids = append(ids, uint32(resID))
	}
	return b.reg.GetOrAddResGroup(ids)
}

func (b *Builder) cbufGroupFrom(cbufs []compiler.ConstBuffer) registry.ID {
	if len(cbufs) == 0 {
		return registry.InvalidID
	}
	ids := b.reg.Pool.BorrowIDs()
	defer b.reg.Pool.ReturnIDs(ids)
	for _, c := range cbufs {
		nameID := b.reg.Strings.GetOrAdd(c.Name)

		varIDs := b.reg.Pool.BorrowIDs()
		for _, v := range c.Vars {
			vNameID := b.reg.Strings.GetOrAdd(v.Name)
			constID := b.reg.GetOrAddConst(registry.ConstDef{StringID: vNameID, Offset: v.Offset, Size: v.Size})
			varIDs = append(varIDs, uint32(constID))
		}
		layoutID := b.reg.GetOrAddConstLayout(varIDs)
		b.reg.Pool.ReturnIDs(varIDs)

		cbufID := b.reg.GetOrAddConstBuf(registry.ConstBufDef{StringID: nameID, SizeBytes: c.SizeBytes, LayoutID: layoutID})
		ids = append(ids, uint32(cbufID))
	}
	return b.reg.GetOrAddCBufGroup(ids)
}
