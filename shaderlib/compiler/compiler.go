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

// Package compiler defines the contract between the library builder and the
// platform-specific bytecode compiler, which stays outside this module: the
// core only describes the request it sends and the reflection shape it
// expects back.
package compiler

import (
	"context"

	"github.com/gpueffects/shaderlib/shaderlib/registry"
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// Request is everything the external compiler needs to build one entrypoint.
type Request struct {
	SrcPath      string
	SrcText      string
	FeatureLevel string
	Stage        token.Stage
	EntryName    string
	Debug        bool
}

// Parameter is one entry of a stage's input or output signature.
type Parameter struct {
	Semantic       string
	SemanticIndex  uint32
	DataType       registry.DataType
	ComponentCount uint32
}

// ConstVar is one field inside a reflected constant buffer.
type ConstVar struct {
	Name   string
	Offset uint32
	Size   uint32
}

// ConstBuffer is one constant buffer a shader reads from, as reported by
// reflection — not yet interned into the registry.
type ConstBuffer struct {
	Name      string
	SizeBytes uint32
	Vars      []ConstVar
}

// Resource is one bound sampler, texture, UAV, or buffer.
type Resource struct {
	Name      string
	TypeFlags registry.ResourceType
	Slot      uint32
}

// Reflection is the compiler's report of a single compiled entrypoint's
// interface, per spec.md §6.2.
type Reflection struct {
	Inputs       []Parameter
	Outputs      []Parameter
	ConstBuffers []ConstBuffer
	Resources    []Resource
	// ThreadGroup is only meaningful when Stage == token.StageCompute.
	ThreadGroup [3]uint32
}

// Compiler turns one entrypoint's HLSL-compatible source into bytecode plus
// a reflection of its interface. The real implementation shells out to (or
// cgo-binds) the platform compiler; shaderlib/build depends only on this
// interface.
type Compiler interface {
	Compile(ctx context.Context, req Request) ([]byte, Reflection, error)
}
