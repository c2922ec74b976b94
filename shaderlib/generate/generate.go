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

// Package generate reduces a preprocessed variant's source down to the
// byte-faithful subset one entrypoint actually needs, by walking the symbol
// graph backwards from the entrypoint.
package generate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/shaderlib/symbol"
)

// Generate computes the transitive closure of symbols entrypoint depends on
// — types and cbuffers it or its callees reference, free globals, and
// reachable free functions — and emits an HLSL-compatible source string by
// copying the original declaration ranges verbatim, in dependency order.
// Mutually recursive functions get a synthesized forward declaration ahead
// of their definitions; everything else is a direct slice of src.
func Generate(src string, tbl *symbol.Table, entrypoint symbol.ID) (string, error) {
	root := tbl.Get(entrypoint)
	if !root.Kind.Any(symbol.Shader | symbol.Function) {
		return "", errors.Errorf("generate: symbol %q is not a function or shader entrypoint", root.Name)
	}

	visited := map[symbol.ID]bool{}
	visiting := map[symbol.ID]bool{}
	var forwardDecls []symbol.ID
	var order []symbol.ID

	var visit func(id symbol.ID)
	visit = func(id symbol.ID) {
		if visited[id] {
			return
		}
		if visiting[id] {
			// Back-edge: id is an ancestor of itself in the call graph.
			// Forward-declare it here; its own visit call further up the
			// stack still emits the full definition.
			forwardDecls = append(forwardDecls, id)
			return
		}
		visiting[id] = true
		for _, dep := range directRefs(tbl, id) {
			visit(dep)
		}
		visiting[id] = false
		visited[id] = true
		if id != entrypoint {
			order = append(order, id)
		}
	}
	visit(entrypoint)

	var types, globals, funcs []symbol.ID
	for _, id := range order {
		switch s := tbl.Get(id); {
		case s.Kind.Any(symbol.UserStruct | symbol.TypeAlias | symbol.UserCBuf):
			types = append(types, id)
		case s.Kind.Any(symbol.Function | symbol.Shader):
			funcs = append(funcs, id)
		default:
			globals = append(globals, id)
		}
	}

	var sb strings.Builder
	emit := func(id symbol.ID) {
		begin, end := tbl.DeclRange(id)
		sb.WriteString(src[begin:end])
		sb.WriteString("\n")
	}
	for _, id := range types {
		emit(id)
	}
	for _, id := range globals {
		emit(id)
	}
	for _, id := range forwardDecls {
		begin, _ := tbl.DeclRange(id)
		b := tbl.Tree().Get(tbl.Get(id).Owner)
		sb.WriteString(strings.TrimRight(src[begin:b.ParamEnd], " \t\r\n"))
		sb.WriteString(";\n")
	}
	for _, id := range funcs {
		emit(id)
	}
	emit(entrypoint)

	return sb.String(), nil
}

// directRefs returns the symbols id's declaration refers to directly:
// parameter/field types always; for a struct or cbuffer, its members' field
// types (nested user types only — a cbuffer never depends on itself through
// its own transparent members); for a function or shader, every
// scope-resolved identifier in its body. A reference landing on a cbuffer
// member resolves to the owning cbuffer, since emission happens at the
// whole-declaration level.
func directRefs(tbl *symbol.Table, id symbol.ID) []symbol.ID {
	s := tbl.Get(id)
	seen := map[symbol.ID]bool{}
	var refs []symbol.ID
	const chaseable = symbol.UserStruct | symbol.TypeAlias | symbol.UserCBuf | symbol.Function | symbol.Shader | symbol.Variable
	add := func(dep symbol.ID) {
		if dep == symbol.InvalidID || dep == id {
			return
		}
		if owner := tbl.Get(dep).CBuf; owner != symbol.InvalidID {
			dep = owner
		}
		if dep == id || !tbl.Get(dep).Kind.Any(chaseable) {
			// Self-reference through a transparent member, or a reference
			// to a parameter/local name — neither is worth pulling in.
			return
		}
		if seen[dep] {
			return
		}
		seen[dep] = true
		refs = append(refs, dep)
	}

	for _, p := range s.Params {
		add(p.Type.Symbol)
	}
	add(s.Type.Symbol)

	switch {
	case s.Kind.Any(symbol.UserStruct | symbol.UserCBuf):
		for _, mid := range s.Members {
			add(tbl.Get(mid).Type.Symbol)
		}
	case s.Kind.Any(symbol.Function | symbol.Shader) && s.Owner != -1:
		b := tbl.Tree().Get(s.Owner)
		for _, tk := range tbl.IdentsIn(b.Begin+1, b.End-1) {
			if depID, found := tbl.Lookup(s.Owner, tk.Text); found {
				add(depID)
			}
		}
	}
	return refs
}
