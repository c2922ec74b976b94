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

package compiler

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gpueffects/shaderlib/core/data/id"
	"github.com/gpueffects/shaderlib/shaderlib/registry"
)

// Fake is a Compiler that never touches a real platform compiler. It reads
// its reflection straight out of annotation comments embedded in the source
// it's handed, and derives "bytecode" deterministically from the entrypoint
// text so that two identical entrypoints always compile to identical bytes —
// which is what lets the builder's dedup actually be exercised.
//
// An annotation line looks like:
//
//	// @in POSITION 0 float 4
//	// @out SV_Target 0 float 4
//	// @cbuffer Globals 16
//	// @const Globals Color 0 16
//	// @resource Tex texture2d 0
//	// @threadgroup 8 8 1
//
// Lines with no recognized directive are ignored, so ordinary HLSL-ish
// fixture source can carry annotations without upsetting anything else that
// reads it.
type Fake struct{}

// Compile implements Compiler.
func (Fake) Compile(ctx context.Context, req Request) ([]byte, Reflection, error) {
	var refl Reflection
	cbufs := map[string]*ConstBuffer{}
	var order []string

	for _, line := range strings.Split(req.SrcText, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "//"))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "@in", "@out":
			p, err := parseParameter(fields[1:])
			if err != nil {
				return nil, Reflection{}, errors.Wrapf(err, "fake compile %s", req.EntryName)
			}
			if fields[0] == "@in" {
				refl.Inputs = append(refl.Inputs, p)
			} else {
				refl.Outputs = append(refl.Outputs, p)
			}
		case "@cbuffer":
			if len(fields) != 3 {
				return nil, Reflection{}, errors.Errorf("fake compile %s: malformed @cbuffer %q", req.EntryName, line)
			}
			size, err := strconv.ParseUint(fields[2], 10, 32)
			if err != nil {
				return nil, Reflection{}, errors.Wrapf(err, "fake compile %s: @cbuffer size", req.EntryName)
			}
			name := fields[1]
			if _, ok := cbufs[name]; !ok {
				order = append(order, name)
			}
			cbufs[name] = &ConstBuffer{Name: name, SizeBytes: uint32(size)}
		case "@const":
			if len(fields) != 5 {
				return nil, Reflection{}, errors.Errorf("fake compile %s: malformed @const %q", req.EntryName, line)
			}
			cbuf, ok := cbufs[fields[1]]
			if !ok {
				return nil, Reflection{}, errors.Errorf("fake compile %s: @const references undeclared cbuffer %q", req.EntryName, fields[1])
			}
			offset, err := strconv.ParseUint(fields[3], 10, 32)
			if err != nil {
				return nil, Reflection{}, errors.Wrapf(err, "fake compile %s: @const offset", req.EntryName)
			}
			size, err := strconv.ParseUint(fields[4], 10, 32)
			if err != nil {
				return nil, Reflection{}, errors.Wrapf(err, "fake compile %s: @const size", req.EntryName)
			}
			cbuf.Vars = append(cbuf.Vars, ConstVar{Name: fields[2], Offset: uint32(offset), Size: uint32(size)})
		case "@resource":
			if len(fields) != 4 {
				return nil, Reflection{}, errors.Errorf("fake compile %s: malformed @resource %q", req.EntryName, line)
			}
			flags, err := parseResourceFlags(fields[2])
			if err != nil {
				return nil, Reflection{}, errors.Wrapf(err, "fake compile %s", req.EntryName)
			}
			slot, err := strconv.ParseUint(fields[3], 10, 32)
			if err != nil {
				return nil, Reflection{}, errors.Wrapf(err, "fake compile %s: @resource slot", req.EntryName)
			}
			refl.Resources = append(refl.Resources, Resource{Name: fields[1], TypeFlags: flags, Slot: uint32(slot)})
		case "@threadgroup":
			if len(fields) != 4 {
				return nil, Reflection{}, errors.Errorf("fake compile %s: malformed @threadgroup %q", req.EntryName, line)
			}
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseUint(fields[1+i], 10, 32)
				if err != nil {
					return nil, Reflection{}, errors.Wrapf(err, "fake compile %s: @threadgroup", req.EntryName)
				}
				refl.ThreadGroup[i] = uint32(v)
			}
		}
	}
	for _, name := range order {
		refl.ConstBuffers = append(refl.ConstBuffers, *cbufs[name])
	}

	bc := id.OfString(req.SrcText, req.EntryName, req.Stage.String(), req.FeatureLevel)
	return bc[:], refl, nil
}

func parseParameter(fields []string) (Parameter, error) {
	if len(fields) != 4 {
		return Parameter{}, errors.Errorf("malformed parameter annotation %q", strings.Join(fields, " "))
	}
	index, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Parameter{}, errors.Wrap(err, "parameter semantic index")
	}
	count, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return Parameter{}, errors.Wrap(err, "parameter component count")
	}
	dt, err := parseDataType(fields[2])
	if err != nil {
		return Parameter{}, err
	}
	return Parameter{
		Semantic:       fields[0],
		SemanticIndex:  uint32(index),
		DataType:       dt,
		ComponentCount: uint32(count),
	}, nil
}

func parseDataType(s string) (registry.DataType, error) {
	switch s {
	case "float":
		return registry.DataFloat32, nil
	case "uint":
		return registry.DataUint32, nil
	case "sint", "int":
		return registry.DataSint32, nil
	default:
		return registry.DataUnknown, errors.Errorf("unknown data type %q", s)
	}
}

var resourceFlagNames = map[string]registry.ResourceType{
	"sampler":          registry.ResSampler,
	"buffer":           registry.ResBuffer,
	"texture1d":        registry.ResTexture1D,
	"texture1darray":   registry.ResTexture1DArray,
	"texture2d":        registry.ResTexture2D,
	"texture2darray":   registry.ResTexture2DArray,
	"texture3d":        registry.ResTexture3D,
	"texturecube":      registry.ResTextureCube,
	"texturecubearray": registry.ResTextureCubeArray,
	"structured":       registry.ResStructured,
	"randomwrite":      registry.ResRandomWrite,
}

func parseResourceFlags(s string) (registry.ResourceType, error) {
	var flags registry.ResourceType
	for _, part := range strings.Split(s, ",") {
		f, ok := resourceFlagNames[part]
		if !ok {
			return 0, errors.Errorf("unknown resource flag %q", part)
		}
		flags |= f
	}
	return flags, nil
}
