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

package compiler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/compiler"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

func TestFakeReflectsAnnotations(t *testing.T) {
	src := strings.Join([]string{
		`// @in POSITION 0 float 4`,
		`// @out SV_Target 0 float 4`,
		`// @cbuffer Globals 16`,
		`// @const Globals Color 0 16`,
		`// @resource Tex texture2d 0`,
		`float4 pixel Main(float4 pos) : SV_Target {`,
		`    return pos;`,
		`}`,
	}, "\n")

	refl := compileFake(t, src, "Main", token.StagePixel)
	assert.To(t).For("inputs").That(len(refl.Inputs)).Equals(1)
	assert.To(t).For("input semantic").ThatString(refl.Inputs[0].Semantic).Equals("POSITION")
	assert.To(t).For("input type").That(refl.Inputs[0].DataType).Equals(registry.DataFloat32)
	assert.To(t).For("outputs").That(len(refl.Outputs)).Equals(1)
	assert.To(t).For("cbuffers").That(len(refl.ConstBuffers)).Equals(1)
	assert.To(t).For("cbuffer name").ThatString(refl.ConstBuffers[0].Name).Equals("Globals")
	assert.To(t).For("cbuffer size").That(refl.ConstBuffers[0].SizeBytes).Equals(uint32(16))
	assert.To(t).For("cbuffer vars").That(len(refl.ConstBuffers[0].Vars)).Equals(1)
	assert.To(t).For("resources").That(len(refl.Resources)).Equals(1)
	assert.To(t).For("resource flags").That(refl.Resources[0].TypeFlags).Equals(registry.ResTexture2D)
}

func TestFakeThreadGroup(t *testing.T) {
	src := "// @threadgroup 8 8 1\nvoid compute Main() {}\n"
	refl := compileFake(t, src, "Main", token.StageCompute)
	assert.To(t).For("threadgroup").That(refl.ThreadGroup).Equals([3]uint32{8, 8, 1})
}

func TestFakeBytecodeDeterministic(t *testing.T) {
	src := "float4 pixel Main(float4 pos) : SV_Target { return pos; }\n"
	var f compiler.Fake
	req := compiler.Request{SrcText: src, EntryName: "Main", Stage: token.StagePixel, FeatureLevel: "11_0"}
	bc1, _, err1 := f.Compile(context.Background(), req)
	bc2, _, err2 := f.Compile(context.Background(), req)
	assert.To(t).For("first compile").ThatError(err1).Succeeded()
	assert.To(t).For("second compile").ThatError(err2).Succeeded()
	assert.To(t).For("identical source produces identical bytecode").ThatSlice(bc1).Equals(bc2)
}

func TestFakeBytecodeDiffersByEntryName(t *testing.T) {
	src := "float4 pixel Main(float4 pos) : SV_Target { return pos; }\n"
	var f compiler.Fake
	bc1, _, _ := f.Compile(context.Background(), compiler.Request{SrcText: src, EntryName: "Main", Stage: token.StagePixel})
	bc2, _, _ := f.Compile(context.Background(), compiler.Request{SrcText: src, EntryName: "Other", Stage: token.StagePixel})
	assert.To(t).For("different entry name changes bytecode").ThatSlice(bc1).DeepNotEquals(bc2)
}

func compileFake(t *testing.T, src, entry string, stage token.Stage) compiler.Reflection {
	t.Helper()
	var f compiler.Fake
	_, refl, err := f.Compile(context.Background(), compiler.Request{SrcText: src, EntryName: entry, Stage: stage})
	assert.To(t).For("fake compile error").ThatError(err).Succeeded()
	return refl
}
