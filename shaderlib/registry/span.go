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

package registry

// Span is a non-owning (offset, length) view into one of the registry's
// shared packed arenas (the u32 ID arena or the u8 bytecode arena). It is
// never a pointer: the arenas grow and their backing slices move on append,
// grounded on VectorSpan<Vec<T>> in the original implementation.
type Span struct {
	Offset uint32
	Length uint32
}

// IDs resolves span against the shared u32 arena.
func (s Span) IDs(arena []uint32) []uint32 {
	return arena[s.Offset : s.Offset+s.Length]
}

// Bytes resolves span against the shared byte arena.
func (s Span) Bytes(arena []byte) []byte {
	return arena[s.Offset : s.Offset+s.Length]
}
