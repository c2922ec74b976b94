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

package main

import (
	"io/ioutil"
	"testing"

	"github.com/gpueffects/shaderlib/core/app/flags"
	"github.com/gpueffects/shaderlib/core/assert"
	"github.com/gpueffects/shaderlib/shaderlib/libdef"
)

func bindCLI(t *testing.T) (*cliFlags, flags.Set) {
	t.Helper()
	c := &cliFlags{}
	var set flags.Set
	set.Raw.Usage = func() {}
	set.Raw.SetOutput(ioutil.Discard)
	set.Bind("", c, "")
	return c, set
}

func TestTargetFlagChoosesByName(t *testing.T) {
	c, set := bindCLI(t)
	err := set.Raw.Parse([]string{"-target", "Vulkan"})
	assert.To(t).For("parse error").ThatError(err).Succeeded()
	assert.To(t).For("target").That(c.Target).Equals(libdef.TargetVulkan)
}

func TestTargetFlagRejectsUnknownChoice(t *testing.T) {
	_, set := bindCLI(t)
	err := set.Raw.Parse([]string{"-target", "Metal"})
	assert.To(t).For("parse error").ThatError(err).Failed()
}

func TestTargetFlagDefaultsToZeroValue(t *testing.T) {
	c, set := bindCLI(t)
	err := set.Raw.Parse(nil)
	assert.To(t).For("parse error").ThatError(err).Succeeded()
	assert.To(t).For("default target").That(c.Target).Equals(libdef.TargetDX11)
}

func TestRepoFlagIsRepeatable(t *testing.T) {
	c, set := bindCLI(t)
	err := set.Raw.Parse([]string{"-repo", "a=x/a.fx", "-repo", "b=y/b.fx"})
	assert.To(t).For("parse error").ThatError(err).Succeeded()
	assert.To(t).For("repo values").ThatSlice(c.Repo).Equals([]string{"a=x/a.fx", "b=y/b.fx"})
}

func TestParseExtraReposSplitsNameAndPath(t *testing.T) {
	repos, err := parseExtraRepos([]string{"skin=shaders/skin.fx", "water=shaders/water.fx"})
	assert.To(t).For("parse error").ThatError(err).Succeeded()
	assert.To(t).For("repo count").That(len(repos)).Equals(2)
	assert.To(t).For("first name").That(repos[0].Name).Equals("skin")
	assert.To(t).For("first path").That(repos[0].Path).Equals("shaders/skin.fx")
	assert.To(t).For("second name").That(repos[1].Name).Equals("water")
}

func TestParseExtraReposRejectsMalformed(t *testing.T) {
	_, err := parseExtraRepos([]string{"no-equals-sign"})
	assert.To(t).For("parse error").ThatError(err).Failed()
}
