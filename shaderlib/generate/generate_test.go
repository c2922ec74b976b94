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

package generate_test

import (
	"strings"
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/block"
	"github.com/gpueffects/shaderlib/shaderlib/generate"
	"github.com/gpueffects/shaderlib/shaderlib/symbol"
)

func build(t *testing.T, src string) *symbol.Table {
	t.Helper()
	tree, err := block.Build("t.fx", src)
	assert.To(t).For("block build error").ThatError(err).Succeeded()
	tbl, err := symbol.Build("t.fx", src, tree)
	assert.To(t).For("symbol build error").ThatError(err).Succeeded()
	return tbl
}

func TestGenerateNoDependencies(t *testing.T) {
	src := "float4 vertex Main(float4 pos) : SV_Position {\n  return pos;\n}\n"
	tbl := build(t, src)

	mainID, found := tbl.Lookup(0, "Main")
	assert.To(t).For("Main found").That(found).Equals(true)

	out, err := generate.Generate(src, tbl, mainID)
	assert.To(t).For("generate error").ThatError(err).Succeeded()
	assert.To(t).For("output is just the entrypoint").ThatString(out).Equals(src)
}

func TestGenerateIncludesReferencedCBuffer(t *testing.T) {
	src := strings.Join([]string{
		`cbuffer Globals {`,
		`    float4 Color;`,
		`}`,
		``,
		`float4 vertex Main(float4 pos) : SV_Position {`,
		`    return pos + Color;`,
		`}`,
	}, "\n") + "\n"
	tbl := build(t, src)

	mainID, found := tbl.Lookup(0, "Main")
	assert.To(t).For("Main found").That(found).Equals(true)

	out, err := generate.Generate(src, tbl, mainID)
	assert.To(t).For("generate error").ThatError(err).Succeeded()

	cbufIdx := strings.Index(out, "cbuffer Globals")
	mainIdx := strings.Index(out, "vertex Main")
	assert.To(t).For("cbuffer referenced").That(cbufIdx >= 0).Equals(true)
	assert.To(t).For("entrypoint present").That(mainIdx >= 0).Equals(true)
	assert.To(t).For("cbuffer precedes entrypoint").That(cbufIdx < mainIdx).Equals(true)
}

func TestGenerateUnreferencedCBufferDropped(t *testing.T) {
	src := strings.Join([]string{
		`cbuffer Unused {`,
		`    float4 Tint;`,
		`}`,
		``,
		`float4 vertex Main(float4 pos) : SV_Position {`,
		`    return pos;`,
		`}`,
	}, "\n") + "\n"
	tbl := build(t, src)

	mainID, _ := tbl.Lookup(0, "Main")
	out, err := generate.Generate(src, tbl, mainID)
	assert.To(t).For("generate error").ThatError(err).Succeeded()
	assert.To(t).For("unreferenced cbuffer dropped").That(strings.Contains(out, "Unused")).Equals(false)
}

func TestGenerateForwardDeclaresMutualRecursion(t *testing.T) {
	src := strings.Join([]string{
		`float A(float x) {`,
		`    return B(x);`,
		`}`,
		``,
		`float B(float x) {`,
		`    return A(x);`,
		`}`,
		``,
		`float4 vertex Main(float4 pos) : SV_Position {`,
		`    return pos * A(pos.x);`,
		`}`,
	}, "\n") + "\n"
	tbl := build(t, src)

	mainID, found := tbl.Lookup(0, "Main")
	assert.To(t).For("Main found").That(found).Equals(true)

	out, err := generate.Generate(src, tbl, mainID)
	assert.To(t).For("generate error").ThatError(err).Succeeded()

	// One of A/B must appear as a bare prototype (ending "...);") ahead of
	// both full definitions, breaking the cycle.
	protoIdx := strings.Index(out, "float A(float x);")
	if protoIdx < 0 {
		protoIdx = strings.Index(out, "float B(float x);")
	}
	defAIdx := strings.Index(out, "float A(float x) {")
	defBIdx := strings.Index(out, "float B(float x) {")
	assert.To(t).For("forward declaration present").That(protoIdx >= 0).Equals(true)
	assert.To(t).For("forward decl precedes A's definition").That(protoIdx < defAIdx).Equals(true)
	assert.To(t).For("forward decl precedes B's definition").That(protoIdx < defBIdx).Equals(true)
	assert.To(t).For("both definitions present").That(defAIdx >= 0 && defBIdx >= 0).Equals(true)
}

func TestGenerateRejectsNonCallableEntrypoint(t *testing.T) {
	src := "struct VertexIn { float4 pos; };\n"
	tbl := build(t, src)

	structID, _ := tbl.Lookup(0, "VertexIn")
	_, err := generate.Generate(src, tbl, structID)
	assert.To(t).For("non-callable entrypoint rejected").ThatError(err).Failed()
}
