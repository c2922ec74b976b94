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

package symbol_test

import (
	"strings"
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/block"
	"github.com/gpueffects/shaderlib/shaderlib/symbol"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

func build(t *testing.T, src string) *symbol.Table {
	t.Helper()
	tree, err := block.Build("t.fx", src)
	assert.To(t).For("block build error").ThatError(err).Succeeded()
	tbl, err := symbol.Build("t.fx", src, tree)
	assert.To(t).For("symbol build error").ThatError(err).Succeeded()
	return tbl
}

func TestCBufferMembersAreTransparent(t *testing.T) {
	src := strings.Join([]string{
		`cbuffer Globals {`,
		`    float4 Color;`,
		`}`,
		``,
		`float4 vertex Main(float4 pos) : SV_Position {`,
		`    return pos;`,
		`}`,
	}, "\n")
	tbl := build(t, src)

	cbufID, found := tbl.Lookup(0, "Globals")
	assert.To(t).For("cbuffer found").That(found).Equals(true)
	cbuf := tbl.Get(cbufID)
	assert.To(t).For("cbuffer kind").That(cbuf.Kind.Is(symbol.CBufDef)).Equals(true)
	assert.To(t).For("cbuffer member count").That(len(cbuf.Members)).Equals(1)

	colorID, found := tbl.Lookup(0, "Color")
	assert.To(t).For("Color visible at file scope").That(found).Equals(true)
	color := tbl.Get(colorID)
	assert.To(t).For("Color kind").That(color.Kind.Is(symbol.VarDecl)).Equals(true)
	assert.To(t).For("Color cbuf back-reference").That(color.CBuf).Equals(cbufID)
	assert.To(t).For("Color type is float4").That(color.Type.Builtin).Equals("float4")
}

func TestShaderParamsAndStage(t *testing.T) {
	src := "float4 vertex Main(float4 pos) : SV_Position {\n  return pos;\n}\n"
	tbl := build(t, src)

	mainID, found := tbl.Lookup(0, "Main")
	assert.To(t).For("Main found").That(found).Equals(true)
	main := tbl.Get(mainID)
	assert.To(t).For("Main kind").That(main.Kind.Is(symbol.ShaderDef)).Equals(true)
	assert.To(t).For("Main stage").That(main.Stage).Equals(token.StageVertex)
	assert.To(t).For("Main param count").That(len(main.Params)).Equals(1)
	assert.To(t).For("Main param name").That(main.Params[0].Name).Equals("pos")
	assert.To(t).For("Main param type").That(main.Params[0].Type.Builtin).Equals("float4")
}

func TestDuplicateDeclarationFails(t *testing.T) {
	src := strings.Join([]string{
		`struct VertexIn { float4 pos; };`,
		`struct VertexIn { float4 pos; };`,
	}, "\n")
	tree, err := block.Build("t.fx", src)
	assert.To(t).For("block build error").ThatError(err).Succeeded()
	_, err = symbol.Build("t.fx", src, tree)
	assert.To(t).For("duplicate decl rejected").ThatError(err).Failed()
}

func TestPassLinksToShaders(t *testing.T) {
	src := strings.Join([]string{
		`float4 vertex V0() : SV_Position { return 0; }`,
		`float4 pixel P0() : SV_Target { return 0; }`,
		`effect E {`,
		`  pass Main {`,
		`    V0, P0`,
		`  }`,
		`}`,
	}, "\n")
	tbl := build(t, src)

	tree, err := block.Build("t.fx", src)
	assert.To(t).For("rebuild tree error").ThatError(err).Succeeded()
	root := tree.Root()
	effect := tree.Get(root.Children[2])
	pass := tree.Get(effect.Children[0])

	shaders, ok := tbl.PassShaders(pass.ID)
	assert.To(t).For("pass resolved").That(ok).Equals(true)
	assert.To(t).For("pass shader count").That(len(shaders)).Equals(2)

	v0, _ := tbl.Lookup(0, "V0")
	p0, _ := tbl.Lookup(0, "P0")
	assert.To(t).For("first pass entry is V0").That(shaders[0]).Equals(v0)
	assert.To(t).For("second pass entry is P0").That(shaders[1]).Equals(p0)
}

func TestPassReferencingUnknownShaderFails(t *testing.T) {
	src := "effect E {\n  pass Main {\n    Ghost\n  }\n}\n"
	tree, err := block.Build("t.fx", src)
	assert.To(t).For("block build error").ThatError(err).Succeeded()
	_, err = symbol.Build("t.fx", src, tree)
	assert.To(t).For("unknown pass shader rejected").ThatError(err).Failed()
}

func TestForwardReferencedStructResolves(t *testing.T) {
	src := strings.Join([]string{
		`VertexIn g_default;`,
		`struct VertexIn { float4 pos; };`,
	}, "\n")
	tbl := build(t, src)

	gID, found := tbl.Lookup(0, "g_default")
	assert.To(t).For("global found").That(found).Equals(true)
	g := tbl.Get(gID)
	assert.To(t).For("global kind resolved").That(g.Kind.Is(symbol.VarDecl)).Equals(true)

	structID, _ := tbl.Lookup(0, "VertexIn")
	assert.To(t).For("global type resolves to struct").That(g.Type.Symbol).Equals(structID)
}

func TestForwardReferencedTypedefResolves(t *testing.T) {
	src := strings.Join([]string{
		`FooType g_thing;`,
		`typedef float4 FooType;`,
	}, "\n")
	tbl := build(t, src)

	gID, found := tbl.Lookup(0, "g_thing")
	assert.To(t).For("global found").That(found).Equals(true)
	g := tbl.Get(gID)
	assert.To(t).For("global kind resolved").That(g.Kind.Is(symbol.VarDecl)).Equals(true)

	aliasID, _ := tbl.Lookup(0, "FooType")
	assert.To(t).For("global type resolves to alias").That(g.Type.Symbol).Equals(aliasID)
}

func TestUnknownTypeFails(t *testing.T) {
	src := "Ghost g_thing;\n"
	tree, err := block.Build("t.fx", src)
	assert.To(t).For("block build error").ThatError(err).Succeeded()
	_, err = symbol.Build("t.fx", src, tree)
	assert.To(t).For("unknown type rejected").ThatError(err).Failed()
}
