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

package token

// keywords maps every recognized identifier spelling to its Kind. Stage
// keywords include the common HLSL aliases (vs/ps/cs, ...) so a pass block
// can use either spelling; both normalize to the same canonical Kind.
var keywords = map[string]Kind{
	"technique": KwTechnique,
	"effect":    KwEffect,
	"pass":      KwPass,
	"cbuffer":   KwCBuffer,
	"struct":    KwStruct,
	"typedef":   KwTypedef,

	"vertex":   KwVertex,
	"vs":       KwVertex,
	"hull":     KwHull,
	"hs":       KwHull,
	"domain":   KwDomain,
	"ds":       KwDomain,
	"geometry": KwGeometry,
	"gs":       KwGeometry,
	"pixel":    KwPixel,
	"ps":       KwPixel,
	"fragment": KwPixel,
	"compute":  KwCompute,
	"cs":       KwCompute,

	"static":      KwStatic,
	"const":       KwConst,
	"in":          KwIn,
	"inout":       KwInout,
	"out":         KwOut,
	"uniform":     KwUniform,
	"groupshared": KwGroupshared,
}

// Lookup reports the Kind of an identifier spelling, mirroring
// TryGetShaderKeyword/TryGetShadeStage in the original implementation. ok is
// false for ordinary identifiers.
func Lookup(ident string) (kind Kind, ok bool) {
	kind, ok = keywords[ident]
	return kind, ok
}

// LookupStage is a convenience wrapper used by the variant preprocessor to
// classify a #pragma <stage>(name) directive in one step.
func LookupStage(ident string) (Stage, bool) {
	k, ok := keywords[ident]
	if !ok || !k.Any(StageMask) {
		return StageUnknown, false
	}
	return StageFromKind(k), true
}
