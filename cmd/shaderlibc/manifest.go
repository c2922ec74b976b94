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
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// manifest is the build-time configuration shaderlibc reads, the CLI-facing
// equivalent of the programmatic AddRepo/SetFeatureLevel/SetDebug calls on
// build.Builder. The target is deliberately not a manifest field: it is
// selected by the -target CLI flag (see cliFlags) so the same manifest can
// be built for any graphics API without editing it.
type manifest struct {
	Name            string         `toml:"name"`
	FeatureLevel    string         `toml:"featureLevel"`
	Debug           bool           `toml:"debug"`
	CompilerVersion string         `toml:"compilerVersion"`
	Repos           []manifestRepo `toml:"repo"`
}

type manifestRepo struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

func loadManifest(path string) (manifest, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return manifest{}, errors.Wrapf(err, "shaderlibc: reading manifest %q", path)
	}
	if len(m.Repos) == 0 {
		return manifest{}, errors.Errorf("shaderlibc: manifest %q declares no [[repo]] entries", path)
	}
	if m.FeatureLevel == "" {
		m.FeatureLevel = "11_0"
	}
	if m.CompilerVersion == "" {
		m.CompilerVersion = "0.0.0"
	}
	return m, nil
}
