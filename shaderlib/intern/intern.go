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

// Package intern implements the string-ID map shared by every resource
// table in shaderlib/registry: a dense, monotonically assigned ID per
// unique string, plus an export form suited to the binary library codec.
package intern

// Table interns strings to dense uint32 IDs. The zero Table is ready to use.
// Table is not safe for concurrent use; callers serialize access the same
// way shaderlib/registry serializes access to its own tables.
type Table struct {
	strings []string
	ids     map[string]uint32
}

// New returns an empty Table.
func New() *Table {
	return &Table{ids: make(map[string]uint32)}
}

// GetOrAdd returns the ID for s, interning it if this is the first
// occurrence. IDs are assigned in first-seen order starting at 0.
func (t *Table) GetOrAdd(s string) uint32 {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// TryGet reports the ID already assigned to s, without interning it.
func (t *Table) TryGet(s string) (uint32, bool) {
	id, ok := t.ids[s]
	return id, ok
}

// Get returns the string for a previously assigned id. It panics if id is
// out of range, the same contract spec.md §4.A gives for an invalid index.
func (t *Table) Get(id uint32) string {
	return t.strings[id]
}

// Len returns the number of unique interned strings.
func (t *Table) Len() int { return len(t.strings) }

// Span is a (offset, length) view into an Export's concatenated byte blob.
type Span struct {
	Offset uint32
	Length uint32
}

// Export flattens the table into one concatenated byte blob plus one
// (offset, length) pair per string, indexed by ID — the on-disk form
// spec.md §4.A and §6.3 describe, avoiding len(strings)+1 redundant
// terminators.
func (t *Table) Export() (blob []byte, spans []Span) {
	spans = make([]Span, len(t.strings))
	var offset uint32
	for i, s := range t.strings {
		spans[i] = Span{Offset: offset, Length: uint32(len(s))}
		blob = append(blob, s...)
		offset += uint32(len(s))
	}
	return blob, spans
}

// Import reconstructs a Table from a previously Exported blob and span list,
// preserving ID assignment (string at spans[i] keeps ID i).
func Import(blob []byte, spans []Span) *Table {
	t := &Table{
		strings: make([]string, len(spans)),
		ids:     make(map[string]uint32, len(spans)),
	}
	for i, sp := range spans {
		s := string(blob[sp.Offset : sp.Offset+sp.Length])
		t.strings[i] = s
		t.ids[s] = uint32(i)
	}
	return t
}
