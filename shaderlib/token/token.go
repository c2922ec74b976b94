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

import "fmt"

// Token is one lexical unit of an effect source file. Offset/End index into
// the original source text, so the block analyzer and generator can copy
// byte ranges verbatim instead of re-synthesizing text.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
	End    int
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Line)
}

func (k Kind) String() string {
	switch {
	case k == Unknown:
		return "Unknown"
	case k == EOF:
		return "EOF"
	case k.Is(KwTechnique):
		return "technique"
	case k.Is(KwEffect):
		return "effect"
	case k.Is(KwPass):
		return "pass"
	case k.Is(KwCBuffer):
		return "cbuffer"
	case k.Is(KwStruct):
		return "struct"
	case k.Is(KwTypedef):
		return "typedef"
	case k.Any(StageMask):
		return StageFromKind(k).String()
	case k.Is(Ident):
		return "ident"
	case k.Is(Number):
		return "number"
	case k.Is(String):
		return "string"
	case k.Is(Punct):
		return "punct"
	case k.Is(Keyword):
		return "keyword"
	default:
		return "token"
	}
}

// Punctuation kinds. These are single characters the block analyzer keys
// off of directly; everything else lexes as an opaque Ident/Number/Punct
// run and is only interpreted by later passes.
const (
	LBrace Kind = Punct | 1<<25
	RBrace Kind = Punct | 1<<26
	LParen Kind = Punct | 1<<27
	RParen Kind = Punct | 1<<28
	LAngle Kind = Punct | 1<<29
	RAngle Kind = Punct | 1<<30
	Semi   Kind = Punct | 1<<31
	Comma  Kind = Punct | 1<<32
)
