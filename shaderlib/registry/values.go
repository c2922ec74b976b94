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

package registry

import "github.com/gpueffects/shaderlib/shaderlib/token"

// DataType is the platform scalar-type enumeration reflected from a
// compiler's input/output signature.
type DataType uint32

const (
	DataUnknown DataType = iota
	DataFloat32
	DataUint32
	DataSint32
)

// ResourceType is a bit-set over the bindable resource shapes a ResourceDef
// can describe; a resource can be, for example, both Texture2D and
// RandomWrite (a UAV texture).
type ResourceType uint32

const (
	ResSampler ResourceType = 1 << iota
	ResBuffer
	ResTexture1D
	ResTexture1DArray
	ResTexture2D
	ResTexture2DArray
	ResTexture3D
	ResTextureCube
	ResTextureCubeArray
	ResStructured
	ResRandomWrite
)

// ConstDef is one field inside a constant buffer.
type ConstDef struct {
	StringID uint32
	Offset   uint32
	Size     uint32
}

// ConstBufDef is one named cbuffer; LayoutID references a ConstLayout group
// of ConstDef IDs giving the field order.
type ConstBufDef struct {
	StringID  uint32
	SizeBytes uint32
	LayoutID  ID
}

// IOElementDef is one parameter in a stage's input or output signature.
type IOElementDef struct {
	SemanticID     uint32
	SemanticIndex  uint32
	DataType       DataType
	ComponentCount uint32
	SizeBytes      uint32
}

// ResourceDef is a texture, sampler, or buffer binding. Slot is InvalidID's
// uint32 form (0xFFFF_FFFF) when unassigned.
type ResourceDef struct {
	StringID  uint32
	TypeFlags ResourceType
	Slot      uint32
}

// ShaderDef is one compiled shader entrypoint. Optional layout/group fields
// hold InvalidID when the reflection produced no data for them (e.g. a
// pixel shader with no reflected outputs).
type ShaderDef struct {
	FileID      uint32
	ByteCodeID  ID
	NameID      uint32
	Stage       token.Stage
	ThreadGroup [3]uint32
	InLayoutID  ID
	OutLayoutID ID
	ResLayoutID ID
	CBufGroupID ID
}

// EffectDef is a named technique; PassGroupID references an EffectPass
// group, itself a sequence of EffectPass IDs (one per named pass).
type EffectDef struct {
	NameID     uint32
	PassGroupID ID
}
