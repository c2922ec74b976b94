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

	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/shaderlib/token"
)

// Generate runs the full preprocess pass for vID: defines the flag and
// (if any) mode macro for this variant, walks the source honoring
// conditional compilation, and returns the expanded text plus the
// entrypoints declared by pragmas that survived it. The first call to
// Generate freezes configuration (AddMacro/Add*IncludePath/SetDebug).
func (p *Preprocessor) Generate(vID int) (text string, entrypoints []Entrypoint, err error) {
	if err := p.discover(); err != nil {
		return "", nil, errors.Wrap(err, "variant: discovery pass failed")
	}
	p.frozen = true

	flagCount := len(p.flags)
	vc := (1 << uint(flagCount)) * len(p.modes)
	if vID < 0 || vID >= vc {
		return "", nil, errors.Errorf("variant: vID %d out of range [0, %d)", vID, vc)
	}
	flagID, modeID := FlagModeOf(vID, flagCount)

	defined := map[string]bool{}
	for _, m := range p.macros {
		defined[m] = true
	}
	for i, name := range p.flags {
		if flagID&(1<<uint(i)) != 0 {
			defined[name] = true
		}
	}
	if modeID > 0 {
		defined[p.modes[modeID]] = true
	}

	cc := newConditional(defined)
	var out strings.Builder
	err = scanLines(p.filePath, p.src, func(line int, raw string) error {
		if line > 1 {
			out.WriteByte('\n')
		}
		if !isDirectiveLine(raw) {
			if cc.active() {
				out.WriteString(raw)
			}
			return nil
		}

		directive, rest := splitDirective(raw)
		switch directive {
		case "ifdef", "ifndef", "if", "else", "elif", "endif":
			return cc.apply(p.filePath, line, directive, rest)
		case "define":
			if cc.active() {
				name := rest
				if sp := strings.IndexAny(rest, " \t"); sp >= 0 {
					name = rest[:sp]
				}
				cc.define(strings.TrimSpace(name))
			}
			return nil
		case "undef":
			if cc.active() {
				cc.undef(strings.TrimSpace(rest))
			}
			return nil
		case "pragma":
			if !cc.active() {
				return nil
			}
			name, args, ok := parsePragmaCall(rest)
			if !ok {
				return nil
			}
			if name == "flags" || name == "modes" {
				return nil
			}
			if stage, ok := token.LookupStage(name); ok {
				if len(args) != 1 {
					return token.NewParseError(p.filePath, line, "#pragma %s expects exactly one entrypoint name", name)
				}
				entrypoints = append(entrypoints, Entrypoint{Name: args[0], Stage: stage})
			}
			return nil
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if !cc.balanced() {
		return "", nil, token.NewParseError(p.filePath, cc.lastLine, "unterminated #if/#ifdef block")
	}
	return out.String(), entrypoints, nil
}
