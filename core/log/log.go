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

// Package log provides a logging system that works well with context.Context.
// It wraps a context.Context in a fluent interface so call sites read as
//
//	ctx.Info().Log("built %d variants", count)
//	ctx.Error().V("file", path).V("line", line).Log("parse failure")
//
// Severity filtering and the message destination are both controlled by the
// Handler attached to the context with Put.
package log

import (
	"context"
	"fmt"
)

// Handler receives fully formatted log lines at or above the context's filter
// severity.
type Handler func(s Severity, msg string)

type logKeyTy string

const logKey = logKeyTy("log")

type state struct {
	handler Handler
	filter  Severity
	values  []kv
}

type kv struct {
	key   string
	value interface{}
}

// Context wraps a context.Context with fluent logging helpers.
type Context struct {
	context.Context
}

// Unwrap returns the plain context.Context underlying ctx.
func (ctx Context) Unwrap() context.Context { return ctx.Context }

// Put returns a new Context that writes log lines at or above filter to
// handler.
func Put(ctx context.Context, handler Handler, filter Severity) Context {
	return Context{context.WithValue(ctx, logKey, &state{handler: handler, filter: filter})}
}

// Wrap adapts a plain context.Context into a log.Context, inheriting whatever
// logging state (or lack of it) the parent carries.
func Wrap(ctx context.Context) Context {
	if c, ok := ctx.(Context); ok {
		return c
	}
	return Context{ctx}
}

func getState(ctx context.Context) *state {
	if s, ok := ctx.Value(logKey).(*state); ok {
		return s
	}
	return nil
}

// At constructs a Logger at the given severity. The logger is inactive (Log
// calls are no-ops) if no handler has been attached or the severity is below
// the attached filter.
func (ctx Context) At(s Severity) Logger {
	st := getState(ctx)
	if st == nil || s < st.filter {
		return Logger{}
	}
	return Logger{state: st, severity: s}
}

// Verbose is shorthand for ctx.At(Verbose).
func (ctx Context) Verbose() Logger { return ctx.At(Verbose) }

// Debug is shorthand for ctx.At(Debug).
func (ctx Context) Debug() Logger { return ctx.At(Debug) }

// Info is shorthand for ctx.At(Info).
func (ctx Context) Info() Logger { return ctx.At(Info) }

// Warning is shorthand for ctx.At(Warning).
func (ctx Context) Warning() Logger { return ctx.At(Warning) }

// Error is shorthand for ctx.At(Error).
func (ctx Context) Error() Logger { return ctx.At(Error) }

// Fatal is shorthand for ctx.At(Fatal).
func (ctx Context) Fatal() Logger { return ctx.At(Fatal) }

// Logger accumulates key/value context while building towards a Log call.
// A zero-value Logger is inactive and every method on it is a safe no-op,
// so callers never need to branch on whether logging is enabled.
type Logger struct {
	state    *state
	severity Severity
	values   []kv
}

// Active returns true if this logger will actually emit a message.
func (l Logger) Active() bool { return l.state != nil }

// V attaches a named value to the logger, returning a new Logger that
// includes it in the eventual message.
func (l Logger) V(key string, value interface{}) Logger {
	if !l.Active() {
		return l
	}
	l.values = append(append([]kv{}, l.values...), kv{key, value})
	return l
}

// Log formats msg with args (as fmt.Sprintf) and dispatches it to the
// context's handler, if active.
func (l Logger) Log(msg string, args ...interface{}) {
	if !l.Active() {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	for _, kv := range l.values {
		msg = fmt.Sprintf("%s [%s=%v]", msg, kv.key, kv.value)
	}
	l.state.handler(l.severity, msg)
}
