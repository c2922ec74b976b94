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

package variant

import (
	"strings"

	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// scanLines walks src line by line, 1-indexed, invoking fn on each.
func scanLines(file, src string, fn func(line int, text string) error) error {
	line := 1
	for _, raw := range strings.Split(src, "\n") {
		if err := fn(line, raw); err != nil {
			return err
		}
		line++
	}
	return nil
}

func isDirectiveLine(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "#")
}

// splitDirective splits "#ifdef FOO" into ("ifdef", "FOO").
func splitDirective(text string) (directive, rest string) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "#")
	t = strings.TrimLeft(t, " \t")
	sp := strings.IndexAny(t, " \t(")
	if sp < 0 {
		return t, ""
	}
	return t[:sp], strings.TrimSpace(t[sp:])
}

// parsePragmaCall parses "flags(A, B, C)" into ("flags", ["A","B","C"], true).
func parsePragmaCall(rest string) (name string, args []string, ok bool) {
	open := strings.IndexByte(rest, '(')
	close := strings.LastIndexByte(rest, ')')
	if open < 0 || close < open {
		return "", nil, false
	}
	name = strings.TrimSpace(rest[:open])
	inner := rest[open+1 : close]
	if strings.TrimSpace(inner) == "" {
		return name, nil, true
	}
	for _, a := range strings.Split(inner, ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, true
}

// conditional tracks nested #if/#ifdef/#ifndef/#else/#elif/#endif state
// against a fixed set of defined macro names.
type conditional struct {
	defined  map[string]bool
	stack    []ccFrame
	lastLine int
}

type ccFrame struct {
	// branchTaken is true once some branch in this chain has been active,
	// so a later #else/#elif in the same chain is correctly suppressed.
	branchTaken bool
	branchLive  bool // is the CURRENT branch active
	parentLive  bool // was the enclosing scope active when this frame opened
}

func newConditional(defined map[string]bool) *conditional {
	if defined == nil {
		defined = map[string]bool{}
	}
	return &conditional{defined: defined}
}

// active reports whether the current position should emit/scan text.
func (c *conditional) active() bool {
	for _, f := range c.stack {
		if !f.branchLive {
			return false
		}
	}
	return true
}

func (c *conditional) balanced() bool { return len(c.stack) == 0 }

func (c *conditional) parentActive() bool {
	if len(c.stack) == 0 {
		return true
	}
	return c.active()
}

func (c *conditional) evalCondition(directive, rest string) bool {
	switch directive {
	case "ifdef":
		return c.defined[strings.TrimSpace(rest)]
	case "ifndef":
		return !c.defined[strings.TrimSpace(rest)]
	case "if", "elif":
		return c.evalIfExpr(rest)
	}
	return false
}

// evalIfExpr supports the subset of #if expressions the effect language
// actually uses: defined(NAME), optionally chained with && / ||, and a
// leading !.
func (c *conditional) evalIfExpr(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	if strings.Contains(expr, "||") {
		for _, part := range strings.Split(expr, "||") {
			if c.evalIfExpr(part) {
				return true
			}
		}
		return false
	}
	if strings.Contains(expr, "&&") {
		for _, part := range strings.Split(expr, "&&") {
			if !c.evalIfExpr(part) {
				return false
			}
		}
		return true
	}
	neg := false
	for strings.HasPrefix(expr, "!") {
		neg = !neg
		expr = strings.TrimSpace(expr[1:])
	}
	var val bool
	if strings.HasPrefix(expr, "defined") {
		inner := strings.TrimPrefix(expr, "defined")
		inner = strings.TrimSpace(inner)
		inner = strings.TrimPrefix(inner, "(")
		inner = strings.TrimSuffix(inner, ")")
		val = c.defined[strings.TrimSpace(inner)]
	} else {
		val = c.defined[expr]
	}
	if neg {
		return !val
	}
	return val
}

// apply advances the conditional state machine by one directive line.
func (c *conditional) apply(file string, line int, directive, rest string) error {
	c.lastLine = line
	switch directive {
	case "ifdef", "ifndef", "if":
		parentLive := c.parentActive()
		live := parentLive && c.evalCondition(directive, rest)
		c.stack = append(c.stack, ccFrame{branchLive: live, branchTaken: live, parentLive: parentLive})
	case "elif":
		if len(c.stack) == 0 {
			return token.NewParseError(file, line, "#elif without #if")
		}
		top := &c.stack[len(c.stack)-1]
		if top.branchTaken || !top.parentLive {
			top.branchLive = false
		} else {
			top.branchLive = c.evalCondition(directive, rest)
			top.branchTaken = top.branchLive
		}
	case "else":
		if len(c.stack) == 0 {
			return token.NewParseError(file, line, "#else without #if")
		}
		top := &c.stack[len(c.stack)-1]
		top.branchLive = top.parentLive && !top.branchTaken
		top.branchTaken = true
	case "endif":
		if len(c.stack) == 0 {
			return token.NewParseError(file, line, "#endif without #if")
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	return nil
}

// define/undef support the rare #define/#undef unrelated to flags/modes
// that a source might use for its own purposes.
func (c *conditional) define(name string)  { c.defined[name] = true }
func (c *conditional) undef(name string)   { delete(c.defined, name) }
