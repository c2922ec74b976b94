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

package symbol

import (
	"github.com/gpueffects/shaderlib/shaderlib/block"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// ID indexes a Symbol within its owning Table.
type ID int

// InvalidID marks the absence of a symbol reference.
const InvalidID ID = -1

// TypeRef is a type reference resolved to either a Symbol (user struct or
// type alias) or, failing that, a built-in type name.
type TypeRef struct {
	Symbol  ID
	Builtin string
}

// Param is one entry of a function or shader's parameter list.
type Param struct {
	Name     string
	Type     TypeRef
	Modifier token.Kind
}

// Symbol is one declared name: a type, a variable, a function, a shader
// entrypoint, or a technique/effect.
type Symbol struct {
	ID   ID
	Name string
	Kind Kind

	// Block is the scope this symbol is visible in (its parent scope, per
	// HLSL cbuffer-member transparency for UserCBuf fields).
	Block block.ID
	// Owner is the block this declaration itself opens (struct/cbuffer
	// body, function/shader body), or -1 for symbols that don't open one
	// (plain variables, parameters).
	Owner block.ID

	DeclBegin, DeclEnd int

	Type  TypeRef
	Stage token.Stage // meaningful only when Kind.Any(Shader)
	Params []Param    // meaningful only for Function/Shader kinds

	// Members lists, in declaration order, the field symbols of a
	// UserStruct or UserCBuf declaration.
	Members []ID
	// CBuf is the owning UserCBuf symbol for a cbuffer-member Variable,
	// InvalidID otherwise.
	CBuf ID
}
