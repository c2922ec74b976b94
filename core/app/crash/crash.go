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

// Package crash provides functions for reporting application crashes
// (uncaught panics) raised on goroutines spawned with Go.
package crash

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Reporter is a function that reports an uncaught panic that would otherwise
// crash the application.
type Reporter func(e interface{}, stack []byte)

var reporters []Reporter

// Register adds r to the list of functions invoked when an uncaught panic is
// thrown on a goroutine started with Go.
func Register(r Reporter) { reporters = append(reporters, r) }

func handler() {
	if e := recover(); e != nil {
		Crash(e)
	}
}

// Go runs f on a new goroutine, reporting any uncaught panic to the
// registered crash handlers (or stderr if none are registered) instead of
// taking down the whole process.
func Go(f func()) {
	go func() {
		defer handler()
		f()
	}()
}

// Crash invokes each registered crash reporter with e and the current stack.
func Crash(e interface{}) {
	stack := debug.Stack()
	if len(reporters) == 0 {
		fmt.Fprintf(os.Stderr, "panic: %v\n%s", e, stack)
		return
	}
	for _, r := range reporters {
		r(e, stack)
	}
}
