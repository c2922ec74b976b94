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

// Package assert provides a small fluent assertion library for tests.
//
// Typical usage:
//
//	assert := assert.To(t)
//	assert.For("shaderID").That(got).Equals(want)
package assert

import (
	"fmt"
	"reflect"
)

// Output matches the logging methods of the test host types (testing.T).
type Output interface {
	Fatal(...interface{})
	Error(...interface{})
	Log(...interface{})
}

// Manager is the root of the fluent interface. It wraps an assertion output
// target (normally a *testing.T) in something that can construct assertions.
type Manager struct{ out Output }

// To creates an assertion manager using out for reporting failures.
func To(out Output) Manager { return Manager{out: out} }

// For starts a named assertion. name identifies the value under test in any
// failure message.
func (m Manager) For(name string, args ...interface{}) Assertion {
	if len(args) > 0 {
		name = fmt.Sprintf(name, args...)
	}
	return Assertion{m: m, name: name}
}

// Assertion is a named value under test, ready to be compared.
type Assertion struct {
	m    Manager
	name string
}

// That starts a generic comparison against got.
func (a Assertion) That(got interface{}) Comparison {
	return Comparison{a: a, got: got}
}

// ThatString starts a comparison against the string form of got.
func (a Assertion) ThatString(got interface{}) Comparison {
	return Comparison{a: a, got: fmt.Sprint(got)}
}

// ThatError starts a comparison against an error result.
func (a Assertion) ThatError(err error) ErrorComparison {
	return ErrorComparison{a: a, err: err}
}

// ThatSlice starts a comparison against a slice-like value.
func (a Assertion) ThatSlice(got interface{}) Comparison {
	return Comparison{a: a, got: got}
}

// Comparison holds the value under test, waiting for a terminal assertion.
type Comparison struct {
	a   Assertion
	got interface{}
}

func (c Comparison) fail(format string, args ...interface{}) {
	msg := fmt.Sprintf("%s: %s", c.a.name, fmt.Sprintf(format, args...))
	c.a.m.out.Error(msg)
}

// Equals asserts that the value under test is deeply equal to want.
func (c Comparison) Equals(want interface{}) bool {
	if reflect.DeepEqual(c.got, want) {
		return true
	}
	c.fail("got %v, expected %v", c.got, want)
	return false
}

// DeepNotEquals asserts that the value under test is not deeply equal to want.
func (c Comparison) DeepNotEquals(want interface{}) bool {
	if !reflect.DeepEqual(c.got, want) {
		return true
	}
	c.fail("got %v, expected a value other than %v", c.got, want)
	return false
}

// IsNil asserts that the value under test is nil.
func (c Comparison) IsNil() bool {
	if isNil(c.got) {
		return true
	}
	c.fail("got %v, expected nil", c.got)
	return false
}

// IsTrue asserts that the value under test is the boolean true.
func (c Comparison) IsTrue() bool {
	return c.Equals(true)
}

// IsFalse asserts that the value under test is the boolean false.
func (c Comparison) IsFalse() bool {
	return c.Equals(false)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// ErrorComparison holds an error result, waiting for a terminal assertion.
type ErrorComparison struct {
	a   Assertion
	err error
}

// Succeeded asserts that the error is nil.
func (c ErrorComparison) Succeeded() bool {
	if c.err == nil {
		return true
	}
	c.a.m.out.Error(fmt.Sprintf("%s: unexpected error: %v", c.a.name, c.err))
	return false
}

// Failed asserts that the error is non-nil.
func (c ErrorComparison) Failed() bool {
	if c.err != nil {
		return true
	}
	c.a.m.out.Error(fmt.Sprintf("%s: expected an error, got none", c.a.name))
	return false
}
