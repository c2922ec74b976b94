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

// Package block scans a preprocessed variant's token stream and builds a
// tree of brace-delimited scopes annotated with the declaration kind each
// scope's opening brace was inferred from.
package block

// Kind classifies one block's role in the source.
type Kind int

const (
	// File is the synthetic root block spanning the whole source.
	File Kind = iota
	// ReplicaBlock is the body of an effect/technique block or a nested
	// pass{} block inside one.
	ReplicaBlock
	// Shader is a stage-qualified function body (§4.D stage keywords).
	Shader
	// ConstantBuffer is a cbuffer body.
	ConstantBuffer
	// Struct is a struct body.
	Struct
	// Function is an ordinary function body.
	Function
	// Anonymous is any other brace-delimited scope (if/for/while bodies,
	// unrecognized constructs).
	Anonymous
)

func (k Kind) String() string {
	switch k {
	case File:
		return "File"
	case ReplicaBlock:
		return "ReplicaBlock"
	case Shader:
		return "Shader"
	case ConstantBuffer:
		return "ConstantBuffer"
	case Struct:
		return "Struct"
	case Function:
		return "Function"
	default:
		return "Anonymous"
	}
}
