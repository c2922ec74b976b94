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

package vle_test

import (
	"bytes"
	"testing"

	"github.com/gpueffects/shaderlib/framework/binary/vle"
)

func TestUint32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0x7f, 0x80, 0x01234567, 0x10abcdef, 0xffffffff}
	buf := &bytes.Buffer{}
	w := vle.Writer(buf)
	for _, v := range values {
		w.Uint32(v)
	}
	if err := w.Error(); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	r := vle.Reader(buf)
	for i, want := range values {
		if got := r.Uint32(); got != want {
			t.Errorf("value %d: got %#x, want %#x", i, got, want)
		}
	}
	if err := r.Error(); err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808}
	buf := &bytes.Buffer{}
	w := vle.Writer(buf)
	for _, v := range values {
		w.Int64(v)
	}
	r := vle.Reader(buf)
	for i, want := range values {
		if got := r.Int64(); got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	values := []float32{0, 1, 64.5, -3.25}
	buf := &bytes.Buffer{}
	w := vle.Writer(buf)
	for _, v := range values {
		w.Float32(v)
	}
	r := vle.Reader(buf)
	for i, want := range values {
		if got := r.Float32(); got != want {
			t.Errorf("value %d: got %v, want %v", i, got, want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	values := []string{"Hello", "", "World", "こんにちは世界"}
	buf := &bytes.Buffer{}
	w := vle.Writer(buf)
	for _, v := range values {
		w.String(v)
	}
	r := vle.Reader(buf)
	for i, want := range values {
		if got := r.String(); got != want {
			t.Errorf("value %d: got %q, want %q", i, got, want)
		}
	}
}

func TestDataRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	buf := &bytes.Buffer{}
	w := vle.Writer(buf)
	w.Uint32(uint32(len(payload)))
	w.Data(payload)
	r := vle.Reader(buf)
	n := r.Uint32()
	got := make([]byte, n)
	r.Data(got)
	if !bytes.Equal(got, payload) {
		t.Errorf("got %x, want %x", got, payload)
	}
}
