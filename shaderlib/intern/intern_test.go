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

package intern_test

import (
	"testing"

	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/intern"
)

func TestGetOrAddDedupes(t *testing.T) {
	tbl := intern.New()
	a := tbl.GetOrAdd("foo")
	b := tbl.GetOrAdd("bar")
	c := tbl.GetOrAdd("foo")

	assert.To(t).For("dedup").That(c).Equals(a)
	assert.To(t).For("distinct").That(a).DeepNotEquals(b)
	assert.To(t).For("len").That(tbl.Len()).Equals(2)
}

func TestTryGetMissing(t *testing.T) {
	tbl := intern.New()
	_, ok := tbl.TryGet("missing")
	assert.To(t).For("ok").That(ok).Equals(false)
}

func TestExportImportRoundTrip(t *testing.T) {
	tbl := intern.New()
	tbl.GetOrAdd("alpha")
	tbl.GetOrAdd("beta")
	tbl.GetOrAdd("")

	blob, spans := tbl.Export()
	assert.To(t).For("span count").That(len(spans)).Equals(3)

	round := intern.Import(blob, spans)
	assert.To(t).For("alpha id").That(round.Get(0)).Equals("alpha")
	assert.To(t).For("beta id").That(round.Get(1)).Equals("beta")
	assert.To(t).For("empty id").That(round.Get(2)).Equals("")

	id, ok := round.TryGet("beta")
	assert.To(t).For("ok").That(ok).Equals(true)
	assert.To(t).For("id").That(id).Equals(uint32(1))
}
