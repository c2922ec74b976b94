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

package block

import "github.com/gpueffects/shaderlib/shaderlib/token"

// ID indexes a Block within its owning Tree.
type ID int

// Block is one brace-delimited scope: a half-open byte range [Begin, End)
// into the source text, plus whatever the analyzer could infer about its
// declaration from the tokens preceding the opening brace.
type Block struct {
	ID       ID
	Kind     Kind
	Begin    int
	End      int
	Ident    string
	Modifier token.Kind
	// Stage is only meaningful when Kind == Shader.
	Stage token.Stage
	// ParamBegin/ParamEnd bound the parenthesized parameter list
	// immediately preceding the brace, for Kind == Shader or Function.
	// Both are zero when there is none.
	ParamBegin int
	ParamEnd   int

	Parent   ID
	Children []ID
}

// Tree is the full block forest for one preprocessed variant, rooted at a
// synthetic File block (ID 0).
type Tree struct {
	Blocks []Block
}

// Root returns the synthetic File block.
func (t *Tree) Root() *Block { return &t.Blocks[0] }

// Get resolves a Block ID.
func (t *Tree) Get(id ID) *Block { return &t.Blocks[id] }
