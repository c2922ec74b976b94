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

package build_test

import (
	"strings"
	"testing"

	"context"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/core/log"
	"github.com/gpueffects/shaderlib/shaderlib/build"
	"github.com/gpueffects/shaderlib/shaderlib/compiler"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
)

// Exercises spec.md §8.2 scenario 1: a single pragma-declared vertex
// entrypoint with no flags or modes.
func TestEmptyPragmaSource(t *testing.T) {
	src := strings.Join([]string{
		`#pragma vertex(Main)`,
		`float4 vertex Main() : SV_Position { return 0; }`,
	}, "\n") + "\n"

	b := build.New(compiler.Fake{})
	b.AddRepo("basic.fx", "shaders/basic.fx", src)

	def, err := b.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("build error").ThatError(err).Succeeded()

	assert.To(t).For("repo count").That(len(def.Repos)).Equals(1)
	repo := def.Repos[0]
	assert.To(t).For("flag count").That(len(repo.FlagIDs)).Equals(0)
	assert.To(t).For("mode count").That(len(repo.ModeIDs)).Equals(1)
	assert.To(t).For("variant count").That(len(repo.Variants)).Equals(1)
	assert.To(t).For("one shader in the default variant").That(len(repo.Variants[0].Shaders)).Equals(1)
	assert.To(t).For("no effects").That(len(repo.Variants[0].Effects)).Equals(0)
}

// Exercises spec.md §8.2 scenario 2: two flags produce four variants, each
// compiling to a distinct shader because the entrypoint body differs per
// flag combination.
func TestTwoFlagsFourDistinctShaders(t *testing.T) {
	src := strings.Join([]string{
		`#pragma flags(A, B)`,
		`#pragma vertex(Main)`,
		`float4 vertex Main() : SV_Position {`,
		`#ifdef A`,
		`    float x = 1;`,
		`#endif`,
		`#ifdef B`,
		`    float y = 2;`,
		`#endif`,
		`    return 0;`,
		`}`,
	}, "\n") + "\n"

	b := build.New(compiler.Fake{})
	b.AddRepo("flags.fx", "shaders/flags.fx", src)

	def, err := b.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("build error").ThatError(err).Succeeded()

	repo := def.Repos[0]
	assert.To(t).For("variant count").That(len(repo.Variants)).Equals(4)

	seen := map[uint32]bool{}
	for vID, vd := range repo.Variants {
		assert.To(t).For("one shader per variant").That(len(vd.Shaders)).Equals(1)
		assert.To(t).For("variant ID matches index").That(int(vd.Shaders[0].VariantID)).Equals(vID)
		seen[vd.Shaders[0].ShaderID] = true
	}
	assert.To(t).For("four distinct shader IDs").That(len(seen)).Equals(4)
}

// Exercises spec.md §8.2 scenario 3: a cbuffer shared by a vertex and a
// pixel shader collapses to one ConstantBuffer entry in the registry.
func TestSharedCBufferDeduplicates(t *testing.T) {
	src := strings.Join([]string{
		`cbuffer Globals {`,
		`    float4 Color;`,
		`}`,
		``,
		`float4 vertex V() : SV_Position {`,
		`    // @cbuffer Globals 16`,
		`    // @const Globals Color 0 16`,
		`    return Color;`,
		`}`,
		``,
		`float4 pixel P() : SV_Target {`,
		`    // @cbuffer Globals 16`,
		`    // @const Globals Color 0 16`,
		`    return Color;`,
		`}`,
		``,
		`#pragma vertex(V)`,
		`#pragma pixel(P)`,
	}, "\n") + "\n"

	b := build.New(compiler.Fake{})
	b.AddRepo("shared.fx", "shaders/shared.fx", src)

	def, err := b.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("build error").ThatError(err).Succeeded()

	assert.To(t).For("exactly one ConstantBuffer").That(len(def.Registry.ConstBufs)).Equals(1)
	assert.To(t).For("exactly one Const field").That(len(def.Registry.Consts)).Equals(1)

	repo := def.Repos[0]
	assert.To(t).For("two shaders registered").That(len(repo.Variants[0].Shaders)).Equals(2)

	var cbufGroups []uint32
	for _, sv := range repo.Variants[0].Shaders {
		sd := def.Registry.Shaders[registry.ID(sv.ShaderID).Index()]
		cbufGroups = append(cbufGroups, uint32(sd.CBufGroupID))
	}
	assert.To(t).For("both shaders share one cbuf group").That(cbufGroups[0]).Equals(cbufGroups[1])
}

// Exercises spec.md §8.2 scenario 4: an effect with two passes that share a
// vertex shader dedups that shader while keeping both pass entries.
func TestEffectTwoPassesShareVertexShader(t *testing.T) {
	src := strings.Join([]string{
		`float4 vertex V0() : SV_Position { return 0; }`,
		`float4 pixel P0() : SV_Target { return 0; }`,
		`float4 pixel P1() : SV_Target { return 1; }`,
		`effect E {`,
		`  pass Pass0 {`,
		`    V0, P0`,
		`  }`,
		`  pass Pass1 {`,
		`    V0, P1`,
		`  }`,
		`}`,
	}, "\n") + "\n"

	b := build.New(compiler.Fake{})
	b.AddRepo("effect.fx", "shaders/effect.fx", src)

	def, err := b.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("build error").ThatError(err).Succeeded()

	repo := def.Repos[0]
	assert.To(t).For("one effect in default variant").That(len(repo.Variants[0].Effects)).Equals(1)

	effectID := repo.Variants[0].Effects[0].EffectID
	effect := def.Registry.Effects[registry.ID(effectID).Index()]
	passGroup := def.Registry.EffectPasses[effect.PassGroupID.Index()]
	assert.To(t).For("two passes").That(passGroup.Length).Equals(uint32(2))

	pass0ID := def.Registry.IDArena[passGroup.Offset]
	pass1ID := def.Registry.IDArena[passGroup.Offset+1]
	pass0 := def.Registry.EffectPasses[registry.ID(pass0ID).Index()]
	pass1 := def.Registry.EffectPasses[registry.ID(pass1ID).Index()]
	assert.To(t).For("pass 0 has two shaders").That(pass0.Length).Equals(uint32(2))
	assert.To(t).For("pass 1 has two shaders").That(pass1.Length).Equals(uint32(2))

	v0InPass0 := def.Registry.IDArena[pass0.Offset]
	v0InPass1 := def.Registry.IDArena[pass1.Offset]
	assert.To(t).For("V0 dedups across passes").That(v0InPass0).Equals(v0InPass1)
}

// Exercises spec.md §8.2 scenario 5: modes enumerate Vc = Mc variants with
// no flags declared.
func TestModeEnumeration(t *testing.T) {
	src := strings.Join([]string{
		`#pragma modes(Low, High)`,
		`#pragma vertex(Main)`,
		`float4 vertex Main() : SV_Position { return 0; }`,
	}, "\n") + "\n"

	b := build.New(compiler.Fake{})
	b.AddRepo("modes.fx", "shaders/modes.fx", src)

	def, err := b.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("build error").ThatError(err).Succeeded()

	repo := def.Repos[0]
	assert.To(t).For("mode count").That(len(repo.ModeIDs)).Equals(3)
	assert.To(t).For("variant count").That(len(repo.Variants)).Equals(3)
}

// Exercises spec.md §8.2 scenario 6: two repos built from identical source
// text share every shader, bytecode, and constant ID.
func TestCrossRepoDeduplication(t *testing.T) {
	src := strings.Join([]string{
		`#pragma vertex(Main)`,
		`float4 vertex Main() : SV_Position { return 0; }`,
	}, "\n") + "\n"

	single := build.New(compiler.Fake{})
	single.AddRepo("basic.fx", "shaders/basic.fx", src)
	singleDef, err := single.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("single-repo build error").ThatError(err).Succeeded()

	doubled := build.New(compiler.Fake{})
	doubled.AddRepo("basic.fx", "shaders/basic.fx", src)
	doubled.AddRepo("basic_again.fx", "shaders/basic.fx", src)
	doubledDef, err := doubled.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("two-repo build error").ThatError(err).Succeeded()

	assert.To(t).For("repo count doubled").That(len(doubledDef.Repos)).Equals(2)
	assert.To(t).For("shader count unchanged").That(len(doubledDef.Registry.Shaders)).Equals(len(singleDef.Registry.Shaders))
	assert.To(t).For("bytecode count unchanged").That(len(doubledDef.Registry.ByteCodes)).Equals(len(singleDef.Registry.ByteCodes))

	firstShaderID := doubledDef.Repos[0].Variants[0].Shaders[0].ShaderID
	secondShaderID := doubledDef.Repos[1].Variants[0].Shaders[0].ShaderID
	assert.To(t).For("both repos reference the same shader ID").That(firstShaderID).Equals(secondShaderID)
}
