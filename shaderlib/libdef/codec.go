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

package libdef

import (
	"io"

	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/framework/binary/vle"
)

// Encode writes lib to w in the variable-length-encoded archive format
// spec.md §6.3 describes. Two libraries built from identical inputs encode
// to byte-identical output.
func Encode(w io.Writer, lib *ShaderLibDef) error {
	vw := vle.Writer(w)
	vw.Simple(*lib)
	if err := vw.Error(); err != nil {
		return errors.Wrap(err, "libdef: encode failed")
	}
	return nil
}

// Decode reads a ShaderLibDef previously written by Encode.
func Decode(r io.Reader) (*ShaderLibDef, error) {
	vr := vle.Reader(r)
	var lib ShaderLibDef
	vr.Simple(&lib)
	if err := vr.Error(); err != nil {
		return nil, errors.Wrap(err, "libdef: decode failed")
	}
	return &lib, nil
}
