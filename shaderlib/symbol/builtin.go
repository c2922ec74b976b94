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

// builtinTypes holds the HLSL scalar/vector/matrix/object type names that
// never get a user-defined symbol of their own. A type identifier outside
// this set that also fails scope lookup is an unknown-type error rather than
// a built-in.
var builtinTypes = map[string]bool{
	"void": true, "bool": true,
	"int": true, "int2": true, "int3": true, "int4": true,
	"uint": true, "uint2": true, "uint3": true, "uint4": true,
	"dword": true,
	"float": true, "float2": true, "float3": true, "float4": true,
	"float2x2": true, "float3x3": true, "float4x4": true, "float3x4": true, "float4x3": true,
	"half": true, "half2": true, "half3": true, "half4": true,
	"double": true,
	"min16float": true, "min10float": true, "min16int": true, "min12int": true, "min16uint": true,
	"Texture1D": true, "Texture1DArray": true,
	"Texture2D": true, "Texture2DArray": true, "Texture2DMS": true, "Texture2DMSArray": true,
	"Texture3D": true, "TextureCube": true, "TextureCubeArray": true,
	"RWTexture1D": true, "RWTexture2D": true, "RWTexture3D": true,
	"Buffer": true, "StructuredBuffer": true, "RWStructuredBuffer": true,
	"ByteAddressBuffer": true, "RWByteAddressBuffer": true, "AppendStructuredBuffer": true, "ConsumeStructuredBuffer": true,
	"SamplerState": true, "SamplerComparisonState": true,
}

func isBuiltinType(name string) bool { return builtinTypes[name] }
