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

import (
	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// openFrame tracks one nesting level of the brace-stack scan.
type openFrame struct {
	id ID
}

// scanState accumulates the prefix tokens and parameter-list bounds seen
// since the last statement/block boundary, used to infer the Kind of the
// next '{' they precede.
type scanState struct {
	prefix        []token.Token
	sawParamList  bool
	nameBeforeParen string
	paramBegin    int
	paramEnd      int
}

func (s *scanState) reset() { *s = scanState{} }

// Build tokenizes src and scans it for brace-delimited scopes, producing a
// Tree rooted at a synthetic File block. Parenthesis depth is tracked so a
// '{' inside a parameter list is never mistaken for a scope boundary; angle
// brackets are not tracked, so a '{' between '<' and '>' opens a block.
func Build(file, src string) (*Tree, error) {
	toks := token.All(src)

	t := &Tree{}
	t.Blocks = append(t.Blocks, Block{ID: 0, Kind: File, Begin: 0, End: len(src), Parent: -1})

	stack := []openFrame{{id: 0}}
	parenDepth := 0
	var s scanState

	for _, tk := range toks {
		switch {
		case tk.Kind == token.EOF:
			continue

		case tk.Kind == token.LParen:
			if parenDepth == 0 {
				s.paramBegin = tk.Offset
				if n := len(s.prefix); n > 0 && s.prefix[n-1].Kind == token.Ident {
					s.nameBeforeParen = s.prefix[n-1].Text
				}
			}
			parenDepth++

		case tk.Kind == token.RParen:
			if parenDepth > 0 {
				parenDepth--
			}
			if parenDepth == 0 {
				s.paramEnd = tk.End
				s.sawParamList = true
			}

		case tk.Kind == token.LBrace && parenDepth == 0:
			kind, ident, modifier, stage := inferKind(s)
			id := ID(len(t.Blocks))
			blk := Block{
				ID: id, Kind: kind, Begin: tk.Offset, Ident: ident,
				Modifier: modifier, Stage: stage,
				Parent: stack[len(stack)-1].id,
			}
			if (kind == Shader || kind == Function) && s.sawParamList {
				blk.ParamBegin, blk.ParamEnd = s.paramBegin, s.paramEnd
			}
			t.Blocks = append(t.Blocks, blk)
			parent := &t.Blocks[stack[len(stack)-1].id]
			parent.Children = append(parent.Children, id)
			stack = append(stack, openFrame{id: id})
			s.reset()

		case tk.Kind == token.RBrace && parenDepth == 0:
			if len(stack) <= 1 {
				return nil, token.NewParseError(file, tk.Line, "unmatched '}'")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			t.Blocks[top.id].End = tk.End
			s.reset()

		case tk.Kind == token.Semi && parenDepth == 0:
			s.reset()

		default:
			if parenDepth == 0 {
				s.prefix = append(s.prefix, tk)
			}
		}
	}

	if len(stack) != 1 {
		return nil, token.NewParseError(file, 0, "unmatched '{': %d block(s) never closed", len(stack)-1)
	}
	return t, nil
}

// inferKind implements §4.D's "first keyword from a prefix of the kind set
// wins", falling back to a Function heuristic (a parameter list immediately
// preceding the brace) and finally Anonymous.
func inferKind(s scanState) (kind Kind, ident string, modifier token.Kind, stage token.Stage) {
	var lastIdent string
	found := false
	nameFixed := false

	for _, tk := range s.prefix {
		if tk.Kind.Any(token.ModifierMask) {
			modifier |= tk.Kind
			continue
		}
		if !found {
			switch {
			case tk.Kind.Is(token.KwTechnique), tk.Kind.Is(token.KwEffect), tk.Kind.Is(token.KwPass):
				kind, found = ReplicaBlock, true
				continue
			case tk.Kind.Is(token.KwCBuffer):
				kind, found = ConstantBuffer, true
				continue
			case tk.Kind.Is(token.KwStruct):
				kind, found = Struct, true
				continue
			case tk.Kind.Any(token.StageMask):
				kind, stage, found = Shader, token.StageFromKind(tk.Kind), true
				continue
			}
			if tk.Kind == token.Ident {
				lastIdent = tk.Text
			}
			continue
		}
		// Once the declaring keyword is found, only the next identifier
		// (the declared name) is captured — later identifiers belong to
		// trailing semantic annotations like ": SV_Position".
		if !nameFixed && tk.Kind == token.Ident {
			lastIdent = tk.Text
			nameFixed = true
		}
	}
	if found {
		return kind, lastIdent, modifier, stage
	}
	if s.sawParamList {
		return Function, s.nameBeforeParen, modifier, token.StageUnknown
	}
	return Anonymous, lastIdent, modifier, token.StageUnknown
}
