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

// GetOrAddShaderFrom deep-remaps a shader defined in a foreign registry into
// r: every string it references is re-interned through r.Strings, every
// layout/group through r's own GetOrAdd* group methods, its bytecode
// through GetOrAddByteCode, and finally the remapped ShaderDef through
// GetOrAddShader. A per-foreign-registry cache (keyed on the foreign shader
// ID) makes re-adding the same shader from the same foreign registry O(1);
// the cache is purged wholesale the first time a different foreign registry
// is passed in, per §4.B.
func (r *Registry) GetOrAddShaderFrom(foreign *Registry, foreignID ID) ID {
	if foreign != r.remapForeign {
		r.remapCache.Purge()
		r.remapForeign = foreign
	}
	if cached, ok := r.remapCache.Get(foreignID); ok {
		return cached.(ID)
	}

	fShader := foreign.Shader(foreignID)

	localName := r.Strings.GetOrAdd(foreign.Strings.Get(fShader.NameID))
	localFile := r.Strings.GetOrAdd(foreign.Strings.Get(fShader.FileID))

	local := ShaderDef{
		FileID:      localFile,
		NameID:      localName,
		Stage:       fShader.Stage,
		ThreadGroup: fShader.ThreadGroup,
		InLayoutID:  r.remapIOLayout(foreign, fShader.InLayoutID),
		OutLayoutID: r.remapIOLayout(foreign, fShader.OutLayoutID),
		ResLayoutID: r.remapResGroup(foreign, fShader.ResLayoutID),
		CBufGroupID: r.remapCBufGroup(foreign, fShader.CBufGroupID),
		ByteCodeID:  r.GetOrAddByteCode(foreign.ByteCode(fShader.ByteCodeID)),
	}

	localID := r.GetOrAddShader(local)
	r.remapCache.Add(foreignID, localID)
	return localID
}

func (r *Registry) remapIOLayout(foreign *Registry, layoutID ID) ID {
	if !layoutID.Valid() {
		return InvalidID
	}
	local := make([]uint32, 0, 8)
	for _, elemID := range foreign.IOLayout(layoutID) {
		elem := foreign.IOElement(ID(elemID))
		localElem := elem
		localElem.SemanticID = r.Strings.GetOrAdd(foreign.Strings.Get(elem.SemanticID))
		local = append(local, uint32(r.GetOrAddIOElement(localElem)))
	}
	return r.GetOrAddIOLayout(local)
}

func (r *Registry) remapResGroup(foreign *Registry, groupID ID) ID {
	if !groupID.Valid() {
		return InvalidID
	}
	local := make([]uint32, 0, 8)
	for _, resID := range foreign.ResGroup(groupID) {
		res := foreign.Resource(ID(resID))
		localRes := res
		localRes.StringID = r.Strings.GetOrAdd(foreign.Strings.Get(res.StringID))
		local = append(local, uint32(r.GetOrAddResource(localRes)))
	}
	return r.GetOrAddResGroup(local)
}

func (r *Registry) remapCBufGroup(foreign *Registry, groupID ID) ID {
	if !groupID.Valid() {
		return InvalidID
	}
	local := make([]uint32, 0, 4)
	for _, cbufID := range foreign.CBufGroup(groupID) {
		cbuf := foreign.ConstBuf(ID(cbufID))
		localLayout := make([]uint32, 0, 8)
		for _, constID := range foreign.ConstLayout(cbuf.LayoutID) {
			c := foreign.Const(ID(constID))
			localConst := c
			localConst.StringID = r.Strings.GetOrAdd(foreign.Strings.Get(c.StringID))
			localLayout = append(localLayout, uint32(r.GetOrAddConst(localConst)))
		}
		localCBuf := ConstBufDef{
			StringID:  r.Strings.GetOrAdd(foreign.Strings.Get(cbuf.StringID)),
			SizeBytes: cbuf.SizeBytes,
			LayoutID:  r.GetOrAddConstLayout(localLayout),
		}
		local = append(local, uint32(r.GetOrAddConstBuf(localCBuf)))
	}
	return r.GetOrAddCBufGroup(local)
}
