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

package token_test

import (
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	src := "// leading comment\ntechnique Foo /* inline */ { }\n"
	toks := token.All(src)

	assert.To(t).For("token count").That(len(toks)).Equals(5) // technique, Foo, {, }, EOF
	assert.To(t).For("kind[0]").That(toks[0].Kind).Equals(token.KwTechnique)
	assert.To(t).For("kind[1]").That(toks[1].Kind).Equals(token.Ident)
	assert.To(t).For("text[1]").That(toks[1].Text).Equals("Foo")
	assert.To(t).For("kind[2]").That(toks[2].Kind).Equals(token.LBrace)
	assert.To(t).For("kind[3]").That(toks[3].Kind).Equals(token.RBrace)
	assert.To(t).For("kind[4]").That(toks[4].Kind).Equals(token.EOF)
}

func TestStageKeywordAliases(t *testing.T) {
	for _, spelling := range []string{"pixel", "ps", "fragment"} {
		toks := token.All(spelling)
		assert.To(t).For(spelling).That(token.StageFromKind(toks[0].Kind)).Equals(token.StagePixel)
	}
}

func TestStringLiteralHidesPunctuation(t *testing.T) {
	src := `"{ not a brace }"`
	toks := token.All(src)
	assert.To(t).For("kind[0]").That(toks[0].Kind).Equals(token.String)
	assert.To(t).For("text[0]").That(toks[0].Text).Equals(src)
	assert.To(t).For("kind[1]").That(toks[1].Kind).Equals(token.EOF)
}

func TestIdentifierIsNotKeyword(t *testing.T) {
	toks := token.All("technique2")
	assert.To(t).For("kind").That(toks[0].Kind).Equals(token.Ident)
}

func TestLookupStage(t *testing.T) {
	stage, ok := token.LookupStage("vs")
	assert.To(t).For("ok").That(ok).Equals(true)
	assert.To(t).For("stage").That(stage).Equals(token.StageVertex)

	_, ok = token.LookupStage("technique")
	assert.To(t).For("non-stage keyword").That(ok).Equals(false)
}
