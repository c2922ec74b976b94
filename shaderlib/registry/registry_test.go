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

package registry_test

import (
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

func TestRegistryInjectivity(t *testing.T) {
	r := registry.New()
	a := r.GetOrAddConst(registry.ConstDef{StringID: 1, Offset: 0, Size: 16})
	b := r.GetOrAddConst(registry.ConstDef{StringID: 1, Offset: 0, Size: 16})
	c := r.GetOrAddConst(registry.ConstDef{StringID: 2, Offset: 0, Size: 16})

	assert.To(t).For("dedup").That(a).Equals(b)
	assert.To(t).For("distinct").That(a).DeepNotEquals(c)
	assert.To(t).For("len").That(r.Len(registry.TagConstant)).Equals(1)
}

func TestIDTagIntegrity(t *testing.T) {
	r := registry.New()
	id := r.GetOrAddResource(registry.ResourceDef{StringID: 0, TypeFlags: registry.ResTexture2D, Slot: 0})

	assert.To(t).For("tag").That(id.Tag()).Equals(registry.TagResource)
	assert.To(t).For("index bound").That(id.Index() < uint32(r.Len(registry.TagResource))).Equals(true)
}

func TestGroupDedupAndRollback(t *testing.T) {
	r := registry.New()
	g1 := r.GetOrAddConstLayout([]uint32{1, 2, 3})
	g2 := r.GetOrAddConstLayout([]uint32{1, 2, 3})
	g3 := r.GetOrAddConstLayout([]uint32{1, 2})

	assert.To(t).For("dedup").That(g1).Equals(g2)
	assert.To(t).For("distinct").That(g1).DeepNotEquals(g3)
	assert.To(t).For("layout contents").That(r.ConstLayout(g1)).Equals([]uint32{1, 2, 3})
}

func TestByteCodeDedup(t *testing.T) {
	r := registry.New()
	a := r.GetOrAddByteCode([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	b := r.GetOrAddByteCode([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	assert.To(t).For("dedup").That(a).Equals(b)
	assert.To(t).For("len").That(r.Len(registry.TagByteCode)).Equals(1)
}

func TestScratchPoolDiscipline(t *testing.T) {
	var p registry.Pool
	buf := p.BorrowIDs()
	assert.To(t).For("outstanding while borrowed").That(p.Outstanding()).Equals(1)
	buf = append(buf, 1, 2, 3)
	p.ReturnIDs(buf)
	assert.To(t).For("outstanding after return").That(p.Outstanding()).Equals(0)
}

func TestGetOrAddShaderFromCachesAndRemaps(t *testing.T) {
	foreign := registry.New()
	foreignByteCode := foreign.GetOrAddByteCode([]byte{1, 2, 3, 4})
	foreignShader := foreign.GetOrAddShader(registry.ShaderDef{
		FileID:      foreign.Strings.GetOrAdd("shader.fx"),
		NameID:      foreign.Strings.GetOrAdd("Main"),
		Stage:       token.StageVertex,
		ByteCodeID:  foreignByteCode,
		InLayoutID:  registry.InvalidID,
		OutLayoutID: registry.InvalidID,
		ResLayoutID: registry.InvalidID,
		CBufGroupID: registry.InvalidID,
	})

	local := registry.New()
	firstID := local.GetOrAddShaderFrom(foreign, foreignShader)
	secondID := local.GetOrAddShaderFrom(foreign, foreignShader)

	assert.To(t).For("cache hit returns same id").That(firstID).Equals(secondID)
	assert.To(t).For("local shader count").That(local.Len(registry.TagShader)).Equals(1)

	localShader := local.Shader(firstID)
	assert.To(t).For("name remapped").That(local.Strings.Get(localShader.NameID)).Equals("Main")
	assert.To(t).For("bytecode remapped").That(local.ByteCode(localShader.ByteCodeID)).Equals([]byte{1, 2, 3, 4})
}

func TestClearInvalidatesVectors(t *testing.T) {
	r := registry.New()
	r.GetOrAddConst(registry.ConstDef{StringID: 1, Offset: 0, Size: 4})
	r.Clear()
	assert.To(t).For("len after clear").That(r.Len(registry.TagConstant)).Equals(0)
}
