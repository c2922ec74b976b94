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

// Package variant implements the variant preprocessor: it learns the
// flag/mode/entrypoint pragmas declared by one source, enumerates the
// Cartesian product of flag bits and mode values, and expands the source
// once per variant with that variant's macros defined.
package variant

import (
	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// DefaultMode is the reserved mode name occupying modeID 0 in every repo,
// active whenever no other mode is selected.
const DefaultMode = "__DEFAULT_SHADER_MODE__"

// FlagLimit and ModeLimit bound the Cartesian variant space, per §4.C.
const (
	FlagLimit = 8
	ModeLimit = 256
)

// Entrypoint is one (name, stage) pair declared by a #pragma <stage>(name)
// directive and surviving conditional compilation for a given variant.
type Entrypoint struct {
	Name  string
	Stage token.Stage
}

// Preprocessor runs discovery and per-variant expansion over one source.
// Configuration (AddMacro, Add*IncludePath, SetDebug) is only valid before
// the first Generate call; a Preprocessor instance is single-threaded, but
// a library build may run one Preprocessor per repo concurrently.
type Preprocessor struct {
	filePath string
	src      string

	macros          []string
	sysIncludePaths []string
	includePaths    []string
	debug           bool

	frozen bool
	flags  []string // declaration order == bit order
	modes  []string // includes DefaultMode at index 0
}

// New returns a Preprocessor over filePath/src. Discovery has not yet run.
func New(filePath, src string) *Preprocessor {
	return &Preprocessor{filePath: filePath, src: src}
}

// AddMacro adds a preprocessor define visible to every variant in addition
// to the flag/mode macros. It is an error to call after Generate.
func (p *Preprocessor) AddMacro(name string) error {
	if p.frozen {
		return errors.New("variant: preprocessor configuration frozen after first Generate")
	}
	p.macros = append(p.macros, name)
	return nil
}

// AddSystemIncludePath registers a system include search path. Include
// resolution itself is an external-collaborator concern (file I/O is out of
// scope per spec); this call only participates in configuration freezing.
func (p *Preprocessor) AddSystemIncludePath(path string) error {
	if p.frozen {
		return errors.New("variant: preprocessor configuration frozen after first Generate")
	}
	p.sysIncludePaths = append(p.sysIncludePaths, path)
	return nil
}

// AddIncludePath registers a user include search path.
func (p *Preprocessor) AddIncludePath(path string) error {
	if p.frozen {
		return errors.New("variant: preprocessor configuration frozen after first Generate")
	}
	p.includePaths = append(p.includePaths, path)
	return nil
}

// SetDebug marks variants as debug builds (forwarded to the compiler
// contract; has no effect on preprocessing itself).
func (p *Preprocessor) SetDebug(debug bool) error {
	if p.frozen {
		return errors.New("variant: preprocessor configuration frozen after first Generate")
	}
	p.debug = debug
	return nil
}

// Debug reports the debug flag set by SetDebug.
func (p *Preprocessor) Debug() bool { return p.debug }

// discover runs a conditional-compilation pass against an empty flag/mode
// set to learn the declared flags and modes, per §4.C. It is idempotent and
// runs automatically the first time flag/mode counts are needed.
func (p *Preprocessor) discover() error {
	if p.flags != nil || p.modes != nil {
		return nil
	}
	p.modes = []string{DefaultMode}

	seen := map[string]bool{}
	cc := newConditional(nil)
	err := scanLines(p.filePath, p.src, func(line int, text string) error {
		if !isDirectiveLine(text) {
			return nil
		}
		directive, rest := splitDirective(text)
		switch directive {
		case "ifdef", "ifndef", "if", "else", "elif", "endif":
			return cc.apply(p.filePath, line, directive, rest)
		}
		if !cc.active() {
			return nil
		}
		switch directive {
		case "pragma":
			return p.scanPragma(p.filePath, line, rest, seen)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !cc.balanced() {
		return token.NewParseError(p.filePath, cc.lastLine, "unterminated #if/#ifdef block")
	}
	return nil
}

func (p *Preprocessor) scanPragma(file string, line int, rest string, seen map[string]bool) error {
	name, args, ok := parsePragmaCall(rest)
	if !ok {
		return nil
	}
	switch name {
	case "flags":
		for _, f := range args {
			if seen[f] {
				return token.NewParseError(file, line, "flag or mode %q redeclared", f)
			}
			if len(p.flags) >= FlagLimit {
				return token.NewParseError(file, line, "more than %d variant flags declared", FlagLimit)
			}
			seen[f] = true
			p.flags = append(p.flags, f)
		}
	case "modes":
		for _, m := range args {
			if m == DefaultMode {
				return token.NewParseError(file, line, "mode name %q is reserved", m)
			}
			if seen[m] {
				return token.NewParseError(file, line, "flag or mode %q redeclared", m)
			}
			if len(p.modes) >= ModeLimit {
				return token.NewParseError(file, line, "more than %d variant modes declared", ModeLimit)
			}
			seen[m] = true
			p.modes = append(p.modes, m)
		}
	default:
		if _, ok := token.LookupStage(name); ok {
			// Stage pragmas are collected per-variant during Generate, since
			// conditional compilation may hide them in some variants; the
			// discovery pass only needs flags/modes.
			return nil
		}
	}
	return nil
}

// FlagCount returns Fc, the number of declared variant flags (after
// triggering discovery if it hasn't run yet).
func (p *Preprocessor) FlagCount() int {
	p.mustDiscover()
	return len(p.flags)
}

// ModeCount returns Mc = 1 + number of declared modes (the implicit default
// always counts as one).
func (p *Preprocessor) ModeCount() int {
	p.mustDiscover()
	return len(p.modes)
}

// VariantCount returns Vc = 2^Fc * Mc.
func (p *Preprocessor) VariantCount() int {
	p.mustDiscover()
	return (1 << uint(len(p.flags))) * len(p.modes)
}

// FlagNames returns the declared flag names in bit order (index == bit).
func (p *Preprocessor) FlagNames() []string {
	p.mustDiscover()
	return append([]string(nil), p.flags...)
}

// ModeNames returns the declared mode names including DefaultMode at index 0.
func (p *Preprocessor) ModeNames() []string {
	p.mustDiscover()
	return append([]string(nil), p.modes...)
}

func (p *Preprocessor) mustDiscover() {
	if p.flags == nil && p.modes == nil {
		if err := p.discover(); err != nil {
			panic(err) // discovery errors surface through Generate in normal use; a caller querying counts first sees them immediately
		}
	}
}

// FlagModeOf splits a variant ID into its flag bit-set and mode index.
func FlagModeOf(vID, flagCount int) (flagID, modeID int) {
	mask := (1 << uint(flagCount)) - 1
	return vID & mask, vID >> uint(flagCount)
}

// VariantID composes a variant ID from a flag bit-set and mode index.
func VariantID(flagID, modeID, flagCount int) int {
	return flagID + modeID*(1<<uint(flagCount))
}
