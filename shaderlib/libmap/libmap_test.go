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

package libmap_test

import (
	"context"
	"strings"
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/core/log"
	"github.com/gpueffects/shaderlib/shaderlib/build"
	"github.com/gpueffects/shaderlib/shaderlib/compiler"
	"github.com/gpueffects/shaderlib/shaderlib/libmap"
)

func buildLib(t *testing.T) *libmap.Map {
	t.Helper()
	src := strings.Join([]string{
		`#pragma flags(Skinned)`,
		`#pragma modes(Low, High)`,
		`#pragma vertex(Main)`,
		`float4 vertex Main() : SV_Position {`,
		`#ifdef Skinned`,
		`    float4 p = 1;`,
		`#endif`,
		`    return 0;`,
		`}`,
	}, "\n") + "\n"

	b := build.New(compiler.Fake{})
	b.AddRepo("skin.fx", "shaders/skin.fx", src)
	def, err := b.GetDefinition(log.Wrap(context.Background()))
	assert.To(t).For("build error").ThatError(err).Succeeded()

	m, err := libmap.New(def)
	assert.To(t).For("libmap load error").ThatError(err).Succeeded()
	return m
}

func TestRepoLookupByName(t *testing.T) {
	m := buildLib(t)

	_, ok := m.Repo("skin.fx")
	assert.To(t).For("repo found by name").That(ok).Equals(true)

	_, ok = m.Repo("nonexistent.fx")
	assert.To(t).For("unknown repo not found").That(ok).Equals(false)
}

func TestVariantMathRoundTrips(t *testing.T) {
	m := buildLib(t)
	repo, ok := m.Repo("skin.fx")
	assert.To(t).For("repo found").That(ok).Equals(true)

	assert.To(t).For("flag variant count").That(repo.FlagVariantCount()).Equals(uint32(2))
	assert.To(t).For("mode count").That(repo.ModeCount()).Equals(uint32(3))
	assert.To(t).For("variant count").That(repo.VariantCount()).Equals(uint32(6))

	for flagID := uint32(0); flagID < repo.FlagVariantCount(); flagID++ {
		for modeID := uint32(0); modeID < repo.ModeCount(); modeID++ {
			vID := repo.VariantID(flagID, modeID)
			assert.To(t).For("variant ID in range").That(vID < repo.VariantCount()).Equals(true)
			assert.To(t).For("flag ID round-trips").That(repo.FlagID(vID)).Equals(flagID)
			assert.To(t).For("mode ID round-trips").That(repo.ModeID(vID)).Equals(modeID)
		}
	}
}

func TestDefaultVariantIsZero(t *testing.T) {
	m := buildLib(t)
	repo, _ := m.Repo("skin.fx")

	assert.To(t).For("variant 0 has flag 0").That(repo.FlagID(0)).Equals(uint32(0))
	assert.To(t).For("variant 0 has mode 0").That(repo.ModeID(0)).Equals(uint32(0))
}

func TestIsDefinedReflectsFlagsAndModes(t *testing.T) {
	m := buildLib(t)
	repo, _ := m.Repo("skin.fx")
	strs := m.Strings()

	skinnedID, ok := strs.TryGet("Skinned")
	assert.To(t).For("Skinned interned").That(ok).Equals(true)
	lowID, ok := strs.TryGet("Low")
	assert.To(t).For("Low interned").That(ok).Equals(true)
	highID, ok := strs.TryGet("High")
	assert.To(t).For("High interned").That(ok).Equals(true)

	vID := repo.VariantID(1, 1) // Skinned set, mode Low
	assert.To(t).For("Skinned is defined").That(repo.IsDefined(skinnedID, vID)).Equals(true)
	assert.To(t).For("Low is the active mode").That(repo.IsDefined(lowID, vID)).Equals(true)
	assert.To(t).For("High is not the active mode").That(repo.IsDefined(highID, vID)).Equals(false)

	vID0 := repo.VariantID(0, 1)
	assert.To(t).For("Skinned unset when flag bit is 0").That(repo.IsDefined(skinnedID, vID0)).Equals(false)
}

func TestTryGetShaderIDAcrossVariants(t *testing.T) {
	m := buildLib(t)
	repo, _ := m.Repo("skin.fx")
	strs := m.Strings()

	mainID, ok := strs.TryGet("Main")
	assert.To(t).For("Main interned").That(ok).Equals(true)

	seen := map[uint32]bool{}
	for vID := uint32(0); vID < repo.VariantCount(); vID++ {
		id, ok := repo.TryGetShaderID(mainID, vID)
		assert.To(t).For("Main present in every variant").That(ok).Equals(true)
		seen[id] = true
	}
	assert.To(t).For("two distinct shader bodies (Skinned on/off)").That(len(seen)).Equals(2)

	_, ok = repo.TryGetShaderID(mainID, repo.VariantCount())
	assert.To(t).For("out-of-range variant ID rejected").That(ok).Equals(false)
}

func TestTryGetEffectIDMissingReturnsFalse(t *testing.T) {
	m := buildLib(t)
	repo, _ := m.Repo("skin.fx")
	strs := m.Strings()

	// "Main" is an interned shader name, not an effect — this repo declares
	// no effects/techniques at all, so looking it up as one must miss.
	mainID, ok := strs.TryGet("Main")
	assert.To(t).For("Main interned").That(ok).Equals(true)

	_, ok = repo.TryGetEffectID(mainID, 0)
	assert.To(t).For("missing effect not found").That(ok).Equals(false)
}
