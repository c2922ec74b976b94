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

package pod

// Reader is the interface to a stream of plain-old-data values, decoded in
// whatever encoding the underlying implementation chooses (see vle.Reader
// for the variable-length encoding used by the library codec).
type Reader interface {
	Bool() bool
	Int8() int8
	Uint8() uint8
	Int16() int16
	Uint16() uint16
	Int32() int32
	Uint32() uint32
	Int64() int64
	Uint64() uint64
	Float32() float32
	Float64() float64
	String() string
	Data(p []byte)
	Count() uint32
	Simple(o Readable)
	Error() error
	SetError(err error)
}

// Writer is the interface to a stream of plain-old-data values, encoded in
// whatever encoding the underlying implementation chooses.
type Writer interface {
	Bool(v bool)
	Int8(v int8)
	Uint8(v uint8)
	Int16(v int16)
	Uint16(v uint16)
	Int32(v int32)
	Uint32(v uint32)
	Int64(v int64)
	Uint64(v uint64)
	Float32(v float32)
	Float64(v float64)
	String(v string)
	Data(p []byte)
	Simple(o Writable)
	Error() error
	SetError(err error)
}
