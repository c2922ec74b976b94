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

// The shaderlibc command builds a serialized shader library (spec.md §6.3)
// from a TOML build manifest listing effect-language source repos.
//
// It links against compiler.Fake rather than a real platform bytecode
// compiler: the platform compiler is an external collaborator this module
// deliberately treats as out of scope (spec.md §1). A deployment wiring a
// real DX11/DX12/Vulkan compiler swaps in its own compiler.Compiler here.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/core/app"
	"github.com/gpueffects/shaderlib/core/app/crash"
	"github.com/gpueffects/shaderlib/core/app/flags"
	"github.com/gpueffects/shaderlib/core/log"
	"github.com/gpueffects/shaderlib/shaderlib/build"
	"github.com/gpueffects/shaderlib/shaderlib/compiler"
	"github.com/gpueffects/shaderlib/shaderlib/libdef"
)

// cliFlags are shaderlibc's own flags, bound through core/app/flags so
// Target gets Choosable validation against libdef.Target's Chooser (only
// DX11/DX12/Vulkan are accepted) and Repo gets a repeated string flag via
// the package's generic reflect-slice binding.
type cliFlags struct {
	Out    string        `help:"Path to write the serialized library (required)"`
	Target libdef.Target `help:"Graphics API the library's bytecode targets"`
	Repo   []string      `help:"Extra repo as name=path, in addition to the manifest's [[repo]] entries (repeatable)"`
}

var cli = cliFlags{Target: libdef.TargetDX11}

func main() {
	app.Name = "shaderlibc"
	app.ShortHelp = "Builds a serialized shader library from a TOML build manifest"
	app.ShortUsage = "-out <library file> <manifest.toml>"

	var set flags.Set
	set.Raw = *flag.CommandLine
	set.Bind("", &cli, "")
	set.Parse(nil, os.Args[1:]...)

	// Push the parsed flags back into the package-level flag.CommandLine so
	// run (and app.Run's own flag.Parsed check) keep working through the
	// stdlib flag package, as core/app/run.go does for the same reason.
	set.ForceCommandLine()

	app.Run(run)
}

func run(ctx log.Context) error {
	args := flag.Args()
	if len(args) != 1 || cli.Out == "" {
		flag.Usage()
		return errors.New("shaderlibc: expected -out and exactly one manifest path")
	}

	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	extraRepos, err := parseExtraRepos(cli.Repo)
	if err != nil {
		return err
	}
	compilerVersion, err := semver.Parse(m.CompilerVersion)
	if err != nil {
		return errors.Wrapf(err, "shaderlibc: manifest compilerVersion %q", m.CompilerVersion)
	}

	manifestDir := filepath.Dir(args[0])
	repos := make([]manifestRepo, 0, len(m.Repos)+len(extraRepos))
	repos = append(repos, m.Repos...)
	repos = append(repos, extraRepos...)

	sources := make([]string, len(repos))
	readErrs := make([]error, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos[:len(m.Repos)] {
		i, repo := i, repo
		wg.Add(1)
		crash.Go(func() {
			defer wg.Done()
			sources[i], readErrs[i] = readRepoSource(manifestDir, repo)
		})
	}
	for i := len(m.Repos); i < len(repos); i++ {
		i, repo := i, repos[i]
		wg.Add(1)
		crash.Go(func() {
			defer wg.Done()
			sources[i], readErrs[i] = readRepoSource("", repo)
		})
	}
	wg.Wait()
	for _, err := range readErrs {
		if err != nil {
			return err
		}
	}

	b := build.New(compiler.Fake{})
	b.SetTarget(cli.Target)
	b.SetFeatureLevel(m.FeatureLevel)
	b.SetDebug(m.Debug)
	b.SetCompilerVersion(compilerVersion)
	for i, repo := range repos {
		b.AddRepo(repo.Name, repo.Path, sources[i])
	}

	ctx.Info().V("repos", len(repos)).V("target", cli.Target.String()).Log("building shader library")

	def, err := b.GetDefinition(ctx)
	if err != nil {
		return errors.Wrap(err, "shaderlibc: build failed")
	}
	def.Name = m.Name

	f, err := os.Create(cli.Out)
	if err != nil {
		return errors.Wrapf(err, "shaderlibc: creating %q", cli.Out)
	}
	defer f.Close()

	if err := libdef.Encode(f, def); err != nil {
		return errors.Wrap(err, "shaderlibc: encoding library")
	}

	ctx.Info().V("path", cli.Out).V("shaders", len(def.Registry.Shaders)).V("effects", len(def.Registry.Effects)).Log("wrote shader library")
	return nil
}

// readRepoSource reads repo's source file, resolving a relative path against
// dir (the manifest's own directory for manifest repos, the working
// directory for -repo flags passed directly on the command line).
func readRepoSource(dir string, repo manifestRepo) (string, error) {
	full := repo.Path
	if dir != "" && !filepath.IsAbs(full) {
		full = filepath.Join(dir, repo.Path)
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return "", errors.Wrapf(err, "shaderlibc: reading repo %q", repo.Name)
	}
	return string(src), nil
}

// parseExtraRepos turns each -repo name=path flag value into a manifestRepo.
func parseExtraRepos(vals []string) ([]manifestRepo, error) {
	repos := make([]manifestRepo, len(vals))
	for i, v := range vals {
		name, path, ok := strings.Cut(v, "=")
		if !ok || name == "" || path == "" {
			return nil, errors.Errorf("shaderlibc: -repo %q must be of the form name=path", v)
		}
		repos[i] = manifestRepo{Name: name, Path: path}
	}
	return repos, nil
}
