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

// Package app holds the small amount of command-line scaffolding shared by
// the module's cmd/ binaries: flag parsing, a log.Context wired to stderr,
// and panic-to-exit-code translation.
package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/gpueffects/shaderlib/core/log"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

var (
	// Name is the full name of the application, printed in usage text.
	Name string
	// ShortHelp is a one-line description of what the tool does.
	ShortHelp string
	// ShortUsage is the usage text for the tool's non-flag arguments.
	ShortUsage string
	// Verbose enables Debug-severity logging when set via -verbose.
	Verbose bool
	// ExitFuncForTesting can be overridden to observe the exit code without
	// actually terminating the process.
	ExitFuncForTesting = os.Exit
)

func init() {
	flag.BoolVar(&Verbose, "verbose", false, "enable verbose logging")
}

// Run parses the command line, builds a log.Context around os.Stderr, and
// invokes main. A non-nil error from main is logged and causes the process
// to exit with status 1. A panic inside main is recovered, logged, and also
// exits with status 1 rather than crashing with a Go stack trace.
func Run(main func(ctx log.Context) error) {
	ExitFuncForTesting(doRun(main))
}

func doRun(main func(ctx log.Context) error) (code int) {
	if !flag.Parsed() {
		flag.Parse()
	}

	filter := log.Info
	if Verbose {
		filter = log.Debug
	}
	ctx := log.Std(os.Stderr, filter)

	defer func() {
		if r := recover(); r != nil {
			ctx.Fatal().Log("panic: %v", r)
			code = exitFailure
		}
	}()

	if err := main(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return exitSuccess
}

// Usage prints ShortHelp/ShortUsage followed by the registered flags.
func Usage() {
	if ShortHelp != "" {
		fmt.Fprintln(os.Stderr, ShortHelp)
	}
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] %s\n", Name, ShortUsage)
	flag.PrintDefaults()
}
