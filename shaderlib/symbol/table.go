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

// pendingType defers resolving a type name to a Symbol or a built-in until
// every container in the source has been declared, so a field or parameter
// may name a struct defined later in the same file.
type pendingType struct {
	scope block.ID
	name  string
	line  int
	set   func(TypeRef)
}

// pendingAmbiguous is a "Type Name [= expr];" statement whose Type could not
// be classified at first sight because it wasn't yet a known symbol or a
// recognized built-in.
type pendingAmbiguous struct {
	id        ID
	scope     block.ID
	typeName  string
	hasAssign bool
	line      int
}

type identRef struct {
	name string
	line int
}

// Table is the resolved symbol map for one preprocessed variant's block
// tree: one scope per block, chained through the tree's parent links.
type Table struct {
	tree   *block.Tree
	toks   []token.Token
	lineAt map[int]int

	symbols []Symbol
	scopes  map[block.ID]map[string]ID

	passBlocks []block.ID
	passLinks  map[block.ID][]ID

	pendingTypes []pendingType
	ambiguous    []pendingAmbiguous
}

// Build resolves the symbol table for a fully preprocessed variant's block
// tree. It declares every struct/cbuffer/function/shader/technique block,
// scans cbuffer and struct member fields and function/shader parameter
// lists, resolves forward-referenced types, classifies ambiguous global
// declarations, and links pass{} blocks to the shader entrypoints they name.
func Build(file, src string, tree *block.Tree) (*Table, error) {
	toks := token.All(src)
	tb := &Table{
		tree:   tree,
		toks:   toks,
		lineAt: map[int]int{},
		scopes: map[block.ID]map[string]ID{0: {}},
	}
	for _, tk := range toks {
		tb.lineAt[tk.Offset] = tk.Line
	}

	for i := 1; i < len(tree.Blocks); i++ {
		b := &tree.Blocks[i]
		var err error
		switch b.Kind {
		case block.ConstantBuffer:
			err = tb.declareContainer(file, b, CBufDef)
		case block.Struct:
			err = tb.declareContainer(file, b, StructDef)
		case block.Shader:
			err = tb.declareCallable(file, b, ShaderDef)
		case block.Function:
			err = tb.declareCallable(file, b, FuncDef)
		case block.ReplicaBlock:
			if tree.Get(b.Parent).Kind == block.File {
				err = tb.declareTechnique(file, b)
			} else {
				tb.passBlocks = append(tb.passBlocks, b.ID)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := tb.scanGlobals(file, tree.Root()); err != nil {
		return nil, err
	}
	for i := 1; i < len(tree.Blocks); i++ {
		b := &tree.Blocks[i]
		if b.Kind == block.ReplicaBlock && tree.Get(b.Parent).Kind == block.File {
			if err := tb.scanGlobals(file, b); err != nil {
				return nil, err
			}
		}
	}

	if err := tb.resolvePendingTypes(file); err != nil {
		return nil, err
	}
	if err := tb.resolveAmbiguous(file); err != nil {
		return nil, err
	}
	if err := tb.resolvePasses(file); err != nil {
		return nil, err
	}
	return tb, nil
}

// Symbols returns every declared symbol, indexed by ID.
func (tb *Table) Symbols() []Symbol { return tb.symbols }

// Get resolves a Symbol ID.
func (tb *Table) Get(id ID) *Symbol { return &tb.symbols[id] }

// Lookup walks scope and its ancestors for name.
func (tb *Table) Lookup(scope block.ID, name string) (ID, bool) { return tb.lookup(scope, name) }

// PassShaders returns the resolved, in-order shader symbol IDs a pass{}
// block names.
func (tb *Table) PassShaders(pass block.ID) ([]ID, bool) {
	ids, ok := tb.passLinks[pass]
	return ids, ok
}

// Tree exposes the block tree this table was resolved over.
func (tb *Table) Tree() *block.Tree { return tb.tree }

// IdentsIn returns every identifier token whose offset falls in
// [begin, end), in source order.
func (tb *Table) IdentsIn(begin, end int) []token.Token {
	var out []token.Token
	for _, tk := range tb.toks {
		if tk.Offset < begin || tk.Offset >= end {
			continue
		}
		if tk.Kind == token.Ident {
			out = append(out, tk)
		}
	}
	return out
}

// DeclRange returns the full source byte range of a symbol's declaration,
// header included. For a struct/cbuffer/function/shader/technique symbol
// this extends back from the block's opening brace to the end of the
// previous sibling declaration, recovering the return-type/modifier prefix
// the block analyzer doesn't itself retain.
func (tb *Table) DeclRange(id ID) (begin, end int) {
	sym := tb.symbols[id]
	if sym.Owner == -1 {
		return sym.DeclBegin, sym.DeclEnd
	}
	b := tb.tree.Get(sym.Owner)
	return tb.headerBegin(b), b.End
}

func (tb *Table) headerBegin(b *block.Block) int {
	parent := tb.tree.Get(b.Parent)
	lowerBound := parent.Begin + 1
	if parent.ID == 0 {
		lowerBound = 0
	}
	for _, cid := range parent.Children {
		if cid == b.ID {
			break
		}
		lowerBound = tb.tree.Get(cid).End
	}
	for _, tk := range tb.toks {
		if tk.Offset >= lowerBound && tk.Offset < b.Begin {
			return tk.Offset
		}
	}
	return b.Begin
}

func (tb *Table) lookup(scope block.ID, name string) (ID, bool) {
	cur := scope
	for cur != -1 {
		if m, ok := tb.scopes[cur]; ok {
			if id, ok2 := m[name]; ok2 {
				return id, true
			}
		}
		cur = tb.tree.Get(cur).Parent
	}
	return InvalidID, false
}

func (tb *Table) declare(file string, line int, scope block.ID, name string, sym Symbol) (ID, error) {
	if name != "" {
		if m, ok := tb.scopes[scope]; ok {
			if _, exists := m[name]; exists {
				return InvalidID, token.NewParseError(file, line, "duplicate declaration of %q in this scope", name)
			}
		}
	}
	id := ID(len(tb.symbols))
	sym.ID = id
	tb.symbols = append(tb.symbols, sym)
	if name != "" {
		if tb.scopes[scope] == nil {
			tb.scopes[scope] = map[string]ID{}
		}
		tb.scopes[scope][name] = id
	}
	return id, nil
}

func (tb *Table) deferType(scope block.ID, name string, line int, set func(TypeRef)) {
	tb.pendingTypes = append(tb.pendingTypes, pendingType{scope: scope, name: name, line: line, set: set})
}

func (tb *Table) resolvePendingTypes(file string) error {
	for _, pt := range tb.pendingTypes {
		if pt.name == "" {
			continue
		}
		if sid, found := tb.lookup(pt.scope, pt.name); found && tb.symbols[sid].Kind.Any(UserStruct|TypeAlias) {
			pt.set(TypeRef{Symbol: sid})
			continue
		}
		if isBuiltinType(pt.name) {
			pt.set(TypeRef{Symbol: InvalidID, Builtin: pt.name})
			continue
		}
		return token.NewParseError(file, pt.line, "unknown type %q", pt.name)
	}
	return nil
}

func (tb *Table) resolveAmbiguous(file string) error {
	for _, pa := range tb.ambiguous {
		kind := VarDecl
		if pa.hasAssign {
			kind = VarAssignDef
		}
		if sid, found := tb.lookup(pa.scope, pa.typeName); found && tb.symbols[sid].Kind.Any(UserStruct|TypeAlias) {
			tb.symbols[pa.id].Kind = kind
			tb.symbols[pa.id].Type = TypeRef{Symbol: sid}
			continue
		}
		if isBuiltinType(pa.typeName) {
			tb.symbols[pa.id].Kind = kind
			tb.symbols[pa.id].Type = TypeRef{Symbol: InvalidID, Builtin: pa.typeName}
			continue
		}
		return token.NewParseError(file, pa.line, "unknown type %q in a non-ambiguous position", pa.typeName)
	}
	return nil
}

func (tb *Table) resolvePasses(file string) error {
	tb.passLinks = map[block.ID][]ID{}
	for _, pid := range tb.passBlocks {
		blk := tb.tree.Get(pid)
		var resolved []ID
		for _, ref := range tb.scanIdentList(blk) {
			sid, found := tb.lookup(blk.ID, ref.name)
			if !found || !tb.symbols[sid].Kind.Any(Shader) {
				return token.NewParseError(file, ref.line, "pass references unknown shader %q", ref.name)
			}
			resolved = append(resolved, sid)
		}
		tb.passLinks[pid] = resolved
	}
	return nil
}

func (tb *Table) declareContainer(file string, b *block.Block, kind Kind) error {
	line := tb.lineAt[b.Begin]
	id, err := tb.declare(file, line, b.Parent, b.Ident, Symbol{
		Name: b.Ident, Kind: kind, Block: b.Parent, Owner: b.ID,
		DeclBegin: b.Begin, DeclEnd: b.End, Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
	})
	if err != nil {
		return err
	}
	tb.scopes[b.ID] = map[string]ID{}

	// HLSL cbuffer members are transparent: they resolve unqualified in the
	// enclosing scope. Struct members only resolve through the struct's own
	// scope (field access), which isn't modeled here since nothing in this
	// table needs qualified member lookup yet.
	fieldScope := b.Parent
	if kind.Is(StructDef) {
		fieldScope = b.ID
	}

	var members []ID
	for _, stmt := range tb.scanOwnStatements(b) {
		typeName, varName, _, hasAssign, _, ok := parseDeclStatement(stmt)
		if !ok {
			continue
		}
		fkind := VarDecl
		if hasAssign {
			fkind = VarAssignDef
		}
		fLine := stmt[0].Line
		fid, err := tb.declare(file, fLine, fieldScope, varName, Symbol{
			Name: varName, Kind: fkind, Block: fieldScope, Owner: -1,
			DeclBegin: stmt[0].Offset, DeclEnd: stmt[len(stmt)-1].End,
			Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
		})
		if err != nil {
			return err
		}
		if kind.Is(CBufDef) {
			tb.symbols[fid].CBuf = id
		}
		tb.deferType(fieldScope, typeName, fLine, func(tr TypeRef) { tb.symbols[fid].Type = tr })
		members = append(members, fid)
	}
	tb.symbols[id].Members = members
	return nil
}

func (tb *Table) declareCallable(file string, b *block.Block, kind Kind) error {
	line := tb.lineAt[b.Begin]
	id, err := tb.declare(file, line, b.Parent, b.Ident, Symbol{
		Name: b.Ident, Kind: kind, Block: b.Parent, Owner: b.ID,
		DeclBegin: b.Begin, DeclEnd: b.End, Stage: b.Stage,
		Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
	})
	if err != nil {
		return err
	}
	tb.scopes[b.ID] = map[string]ID{}

	params := tb.scanParams(b)
	for i := range params {
		p := &params[i]
		if p.Type.Builtin != "" {
			tb.deferType(b.Parent, p.Type.Builtin, line, func(tr TypeRef) { p.Type = tr })
		}
		if p.Name == "" {
			continue
		}
		if _, err := tb.declare(file, line, b.ID, p.Name, Symbol{
			Name: p.Name, Kind: Parameter, Block: b.ID, Owner: -1,
			Type: p.Type, CBuf: InvalidID,
		}); err != nil {
			return err
		}
	}
	tb.symbols[id].Params = params
	return nil
}

func (tb *Table) declareTechnique(file string, b *block.Block) error {
	line := tb.lineAt[b.Begin]
	_, err := tb.declare(file, line, b.Parent, b.Ident, Symbol{
		Name: b.Ident, Kind: TechniqueDef, Block: b.Parent, Owner: b.ID,
		DeclBegin: b.Begin, DeclEnd: b.End, Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
	})
	if err != nil {
		return err
	}
	tb.scopes[b.ID] = map[string]ID{}
	return nil
}

// scanGlobals classifies b's own loose, semicolon-terminated statements
// (typedefs, global constants, forward function prototypes) that aren't
// already represented by a child block.
func (tb *Table) scanGlobals(file string, b *block.Block) error {
	for _, stmt := range tb.scanOwnStatements(b) {
		typeName, varName, hasParens, hasAssign, _, ok := parseDeclStatement(stmt)
		if !ok {
			continue
		}
		line := stmt[0].Line
		declBegin, declEnd := stmt[0].Offset, stmt[len(stmt)-1].End

		switch {
		case stmt[0].Kind == token.KwTypedef:
			id, err := tb.declare(file, line, b.ID, varName, Symbol{
				Name: varName, Kind: TypeAliasDef, Block: b.ID, Owner: -1,
				DeclBegin: declBegin, DeclEnd: declEnd, Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
			})
			if err != nil {
				return err
			}
			tb.deferType(b.ID, typeName, line, func(tr TypeRef) { tb.symbols[id].Type = tr })

		case hasParens:
			id, err := tb.declare(file, line, b.ID, varName, Symbol{
				Name: varName, Kind: FuncDecl, Block: b.ID, Owner: -1,
				DeclBegin: declBegin, DeclEnd: declEnd, Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
			})
			if err != nil {
				return err
			}
			tb.deferType(b.ID, typeName, line, func(tr TypeRef) { tb.symbols[id].Type = tr })

		default:
			if sid, found := tb.lookup(b.ID, typeName); found && tb.symbols[sid].Kind.Any(UserStruct|TypeAlias) {
				kind := VarDecl
				if hasAssign {
					kind = VarAssignDef
				}
				if _, err := tb.declare(file, line, b.ID, varName, Symbol{
					Name: varName, Kind: kind, Block: b.ID, Owner: -1,
					DeclBegin: declBegin, DeclEnd: declEnd, Type: TypeRef{Symbol: sid}, CBuf: InvalidID,
				}); err != nil {
					return err
				}
				continue
			}
			if isBuiltinType(typeName) {
				kind := VarDecl
				if hasAssign {
					kind = VarAssignDef
				}
				if _, err := tb.declare(file, line, b.ID, varName, Symbol{
					Name: varName, Kind: kind, Block: b.ID, Owner: -1,
					DeclBegin: declBegin, DeclEnd: declEnd,
					Type: TypeRef{Symbol: InvalidID, Builtin: typeName}, CBuf: InvalidID,
				}); err != nil {
					return err
				}
				continue
			}
			// Type is neither a known symbol nor a recognized built-in yet:
			// it may be a struct declared later in this file. Defer.
			id, err := tb.declare(file, line, b.ID, varName, Symbol{
				Name: varName, Kind: Ambiguous, Block: b.ID, Owner: -1,
				DeclBegin: declBegin, DeclEnd: declEnd, Type: TypeRef{Symbol: InvalidID}, CBuf: InvalidID,
			})
			if err != nil {
				return err
			}
			tb.ambiguous = append(tb.ambiguous, pendingAmbiguous{
				id: id, scope: b.ID, typeName: typeName, hasAssign: hasAssign, line: line,
			})
		}
	}
	return nil
}

// scanParams splits a Shader/Function block's parenthesized parameter list
// on top-level commas and classifies each group as "Type Name". Parameter
// types are resolved later via deferType, stashed provisionally as Builtin
// text in the meantime.
func (tb *Table) scanParams(b *block.Block) []Param {
	if b.ParamEnd <= b.ParamBegin {
		return nil
	}
	var group []token.Token
	var groups [][]token.Token
	depth := 0
	for _, tk := range tb.toks {
		if tk.Offset <= b.ParamBegin || tk.Offset >= b.ParamEnd {
			continue
		}
		switch tk.Kind {
		case token.LParen:
			depth++
			group = append(group, tk)
		case token.RParen:
			depth--
			group = append(group, tk)
		case token.Comma:
			if depth == 0 {
				groups = append(groups, group)
				group = nil
			} else {
				group = append(group, tk)
			}
		default:
			group = append(group, tk)
		}
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}

	var params []Param
	for _, g := range groups {
		typeName, varName, _, _, modifier, ok := parseDeclStatement(g)
		if !ok {
			continue
		}
		params = append(params, Param{Name: varName, Modifier: modifier, Type: TypeRef{Symbol: InvalidID, Builtin: typeName}})
	}
	return params
}

// scanOwnStatements returns b's semicolon-terminated statements that aren't
// already represented by one of its child blocks, in source order.
func (tb *Table) scanOwnStatements(b *block.Block) [][]token.Token {
	type rng struct{ begin, end int }
	children := make([]rng, len(b.Children))
	for i, cid := range b.Children {
		c := tb.tree.Get(cid)
		children[i] = rng{c.Begin, c.End}
	}

	// Skip b's own opening brace; the File block has none, so its scan
	// starts at offset 0.
	begin := b.Begin + 1
	if b.Kind == block.File {
		begin = 0
	}

	var stmts [][]token.Token
	var cur []token.Token
	ci := 0
	for _, tk := range tb.toks {
		if tk.Offset < begin || tk.Offset >= b.End {
			continue
		}
		for ci < len(children) && tk.Offset >= children[ci].end {
			ci++
		}
		if ci < len(children) && tk.Offset >= children[ci].begin && tk.Offset < children[ci].end {
			cur = nil
			continue
		}
		if tk.Kind == token.Semi {
			if len(cur) > 0 {
				stmts = append(stmts, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, tk)
	}
	return stmts
}

func (tb *Table) scanIdentList(blk *block.Block) []identRef {
	var out []identRef
	for _, tk := range tb.toks {
		if tk.Offset <= blk.Begin || tk.Offset >= blk.End {
			continue
		}
		if tk.Kind == token.Ident {
			out = append(out, identRef{name: tk.Text, line: tk.Line})
		}
	}
	return out
}

// parseDeclStatement extracts a "[modifiers] Type Name [: Semantic] [=
// expr]" shape from a flat token run, matching only the first two
// identifiers (the type and the declared name) and ignoring everything
// else — the same "freeze on first identifier" discipline the block
// analyzer uses for trailing semantic annotations.
func parseDeclStatement(stmt []token.Token) (typeName, varName string, hasParens, hasAssign bool, modifier token.Kind, ok bool) {
	var idents []string
	for _, tk := range stmt {
		switch {
		case tk.Kind.Any(token.ModifierMask):
			modifier |= tk.Kind
		case tk.Kind == token.Ident:
			idents = append(idents, tk.Text)
		case tk.Kind == token.LParen, tk.Kind == token.RParen:
			hasParens = true
		case tk.Kind == token.Punct && tk.Text == "=":
			hasAssign = true
		}
	}
	if len(idents) < 2 {
		return "", "", false, false, modifier, false
	}
	return idents[0], idents[1], hasParens, hasAssign, modifier, true
}
