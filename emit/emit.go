// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"math"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/exprs"
	"pngc.dev/compiler/pngb"
	"pngc.dev/compiler/sema"
	"pngc.dev/compiler/wgslresolve"
)

// FollowsCanvas is the sentinel a #texture's width/height carries when
// it is bound to canvas.width/canvas.height rather than a fixed number:
// the actual dimension is only known at surface-configuration time, so
// the runtime substitutes its current canvas size wherever it sees it.
const FollowsCanvas uint32 = math.MaxUint32

// emitter holds the mutable state threaded through one Emit call.
type emitter struct {
	tree *ast.Tree
	an   *sema.Analysis
	w    *pngb.Writer
	ids  *ids
	env  exprs.Env

	wgslText  map[string]string
	diags     []sema.Diagnostic
	loadedWasm map[string]pngb.ResourceID
}

// Emit lowers tree (already analyzed into an) into a PNGB artifact.
// resolver resolves #wgsl source files; pass nil when no #wgsl
// declaration references a file (only inline `value` text).
func Emit(tree *ast.Tree, an *sema.Analysis, resolver *wgslresolve.Resolver) (*pngb.Writer, []sema.Diagnostic) {
	env, diags := buildDefineEnv(tree)
	e := &emitter{
		tree:       tree,
		an:         an,
		w:          pngb.NewWriter(),
		ids:        newIDs(),
		env:        env,
		wgslText:   map[string]string{},
		diags:      diags,
		loadedWasm: map[string]pngb.ResourceID{},
	}
	e.resolveWGSL(resolver)
	e.emitShaderModules()
	e.emitBuffers()
	e.emitTextures()
	e.emitTextureViews()
	e.emitSamplers()
	e.emitBindGroupLayouts()
	e.emitPipelineLayouts()
	e.emitBindGroups()
	e.emitRenderPipelines()
	e.emitComputePipelines()
	e.emitQuerySets()
	e.emitImageBitmaps()
	e.emitRenderBundles()
	e.emitPassDefinitions()
	e.emitFrames()
	return e.w, e.diags
}

func (e *emitter) errorf(idx ast.Index, kind sema.DiagnosticKind, format string, args ...any) {
	tok := e.tree.Token(idx)
	span := sema.Span{Start: int(tok.Start), End: int(tok.Start + tok.Len)}
	e.diags = append(e.diags, sema.Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (e *emitter) resolveWGSL(resolver *wgslresolve.Resolver) {
	for _, kv := range e.an.Symbols[sema.NSWgsl].Order {
		d := kv.Value.Node
		if file, ok := propString(e.tree, d, "file"); ok {
			if resolver == nil {
				e.errorf(d, sema.WGSLFileNotFound, "wgsl %q declares a file but no base directory is configured", kv.Key)
				continue
			}
			text, diags := resolver.Resolve(file)
			e.diags = append(e.diags, diags...)
			e.wgslText[kv.Key] = text
			continue
		}
		if value, ok := propString(e.tree, d, "value"); ok {
			if resolver != nil {
				e.wgslText[kv.Key] = resolver.ResolveText(value)
			} else {
				e.wgslText[kv.Key] = value
			}
		}
	}
}

func (e *emitter) emitShaderModules() {
	for _, kv := range e.an.Symbols[sema.NSShaderModule].Order {
		d := kv.Value.Node
		code, ok := e.tree.PropByName(d, "code")
		var text string
		if ok && e.tree.Tags[code] == ast.Reference {
			_, nameNode := e.tree.Pair(code)
			text = e.wgslText[e.tree.TokenText(nameNode)]
		}
		id := e.ids.shaderModule.assign(kv.Key)
		e.w.CreateShaderModule(id, text)
	}
}

func (e *emitter) emitBuffers() {
	for _, kv := range e.an.Symbols[sema.NSBuffer].Order {
		d := kv.Value.Node
		size, _ := evalInt(e.tree, d, "size", e.env)
		usage := bufferUsage(propFlags(e.tree, d, "usage"))
		if n, ok := evalInt(e.tree, d, "poolSize", e.env); ok && n > 1 {
			base := e.ids.buffer.assignRun(kv.Key, int(n))
			for i := int64(0); i < n; i++ {
				e.w.CreateBuffer(base+pngb.ResourceID(i), uint32(size), usage)
			}
			continue
		}
		id := e.ids.buffer.assign(kv.Key)
		e.w.CreateBuffer(id, uint32(size), usage)
	}
}

// resolveDim resolves a #texture width/height property, which is either
// a plain expression or a canvas.width/canvas.height built-in reference.
func (e *emitter) resolveDim(obj ast.Index, prop string) uint32 {
	v, ok := e.tree.PropByName(obj, prop)
	if !ok {
		return 0
	}
	if e.tree.Tags[v] == ast.UniformAccess && e.an.DottedClass[v] == sema.ClassBuiltinRef {
		return FollowsCanvas
	}
	val, err := exprs.Eval(e.tree, v, e.env)
	if err != nil {
		return 0
	}
	return uint32(val.Int)
}

func (e *emitter) emitTextures() {
	for _, kv := range e.an.Symbols[sema.NSTexture].Order {
		d := kv.Value.Node
		width := e.resolveDim(d, "width")
		height := e.resolveDim(d, "height")
		format := textureFormats[formatName(e.tree, d, "format")]
		usage := textureUsage(propFlags(e.tree, d, "usage"))
		id := e.ids.texture.assign(kv.Key)
		e.w.CreateTexture(id, width, height, format, usage)
	}
}

// formatName reads a string- or bare-identifier-valued format property
// (DSL authors may write either "RGBA8Unorm" or the bare identifier).
func formatName(tree *ast.Tree, obj ast.Index, prop string) string {
	if s, ok := propString(tree, obj, prop); ok {
		return s
	}
	s, _ := propIdentifier(tree, obj, prop)
	return s
}

func (e *emitter) resolveRefID(refNode ast.Index) (pngb.ResourceID, bool) {
	nsNode, nameNode := e.tree.Pair(refNode)
	nsName := e.tree.TokenText(nsNode)
	name := e.tree.TokenText(nameNode)
	return e.resolveNamed(nsName, name)
}

// resolveNamed looks a declared symbol's resource id up by its
// namespace keyword spelling, trying every resource-producing namespace
// when nsName is empty (a bare identifier with no namespace prefix).
func (e *emitter) resolveNamed(nsName, name string) (pngb.ResourceID, bool) {
	if ns, ok := sema.NamespaceByKeyword(nsName); ok {
		if t := e.ids.table(ns); t != nil {
			return t.lookup(name)
		}
	}
	for _, t := range []*idTable{e.ids.buffer, e.ids.texture, e.ids.textureView, e.ids.sampler, e.ids.bindGroup, e.ids.bindGroupLayout, e.ids.renderPipeline, e.ids.computePipeline, e.ids.renderBundle, e.ids.imageBitmap, e.ids.wasmCall, e.ids.shaderModule, e.ids.pipelineLayout, e.ids.querySet} {
		if id, ok := t.lookup(name); ok {
			return id, true
		}
	}
	return 0, false
}

func (e *emitter) emitTextureViews() {
	for _, kv := range e.an.Symbols[sema.NSTextureView].Order {
		d := kv.Value.Node
		id := e.ids.textureView.assign(kv.Key)
		tex, ok := e.tree.PropByName(d, "texture")
		var texID pngb.ResourceID
		if ok && e.tree.Tags[tex] == ast.Reference {
			texID, _ = e.resolveRefID(tex)
		}
		e.w.CreateTextureView(id, texID)
	}
}

func (e *emitter) emitSamplers() {
	for _, kv := range e.an.Symbols[sema.NSSampler].Order {
		id := e.ids.sampler.assign(kv.Key)
		e.w.CreateSampler(id)
	}
}

// emitImageBitmaps assigns each #imageBitmap declaration a resource id
// and records its source path; decoding the image itself is a runtime
// concern (spec.md's Non-goals exclude image decoding at compile time).
func (e *emitter) emitImageBitmaps() {
	for _, kv := range e.an.Symbols[sema.NSImageBitmap].Order {
		d := kv.Value.Node
		source, _ := propString(e.tree, d, "file")
		id := e.ids.imageBitmap.assign(kv.Key)
		e.w.CreateImageBitmap(id, source)
	}
}

func (e *emitter) emitBindGroupLayouts() {
	for _, kv := range e.an.Symbols[sema.NSBindGroupLayout].Order {
		d := kv.Value.Node
		id := e.ids.bindGroupLayout.assign(kv.Key)
		entriesProp, ok := e.tree.PropByName(d, "entries")
		var bindings []uint32
		var kinds []pngb.BindGroupEntryKind
		if ok && e.tree.Tags[entriesProp] == ast.Array {
			for _, entry := range e.tree.Elements(entriesProp) {
				binding, _ := evalInt(e.tree, entry, "binding", e.env)
				kind := bindKindForUsage(propFlags(e.tree, entry, "usage"))
				bindings = append(bindings, uint32(binding))
				kinds = append(kinds, kind)
			}
		}
		e.w.CreateBindGroupLayout(id, bindings, kinds)
	}
}

func (e *emitter) emitPipelineLayouts() {
	for _, kv := range e.an.Symbols[sema.NSPipelineLayout].Order {
		d := kv.Value.Node
		id := e.ids.pipelineLayout.assign(kv.Key)
		var layouts []pngb.ResourceID
		if arr, ok := e.tree.PropByName(d, "bindGroupLayouts"); ok && e.tree.Tags[arr] == ast.Array {
			for _, el := range e.tree.Elements(arr) {
				if rid, ok := e.resolveValueID(el); ok {
					layouts = append(layouts, rid)
				}
			}
		}
		e.w.CreatePipelineLayout(id, layouts)
	}
}

// resolveValueID resolves any value node that names a declared symbol:
// a $namespace.name [ast.Reference], or a bare/namespace-dotted
// identifier the Analyzer classified as [sema.ClassNamespaceDotted].
func (e *emitter) resolveValueID(v ast.Index) (pngb.ResourceID, bool) {
	switch e.tree.Tags[v] {
	case ast.Reference:
		return e.resolveRefID(v)
	case ast.UniformAccess:
		if e.an.DottedClass[v] == sema.ClassNamespaceDotted {
			lhs, rhs := e.tree.Pair(v)
			return e.resolveNamed(e.tree.TokenText(lhs), e.tree.TokenText(rhs))
		}
	case ast.IdentifierValue:
		return e.resolveNamed("", e.tree.TokenText(v))
	}
	return 0, false
}

func (e *emitter) emitBindGroups() {
	for _, kv := range e.an.Symbols[sema.NSBindGroup].Order {
		d := kv.Value.Node
		var layoutID pngb.ResourceID
		if l, ok := e.tree.PropByName(d, "layout"); ok {
			layoutID, _ = e.resolveValueID(l)
		}
		var resources []pngb.ResourceID
		if arr, ok := e.tree.PropByName(d, "entries"); ok && e.tree.Tags[arr] == ast.Array {
			for _, el := range e.tree.Elements(arr) {
				if rid, ok := e.resolveValueID(el); ok {
					resources = append(resources, rid)
				}
			}
		}
		if n, ok := evalInt(e.tree, d, "poolSize", e.env); ok && n > 1 {
			base := e.ids.bindGroup.assignRun(kv.Key, int(n))
			for i := int64(0); i < n; i++ {
				e.w.CreateBindGroup(base+pngb.ResourceID(i), layoutID, resources)
			}
			continue
		}
		id := e.ids.bindGroup.assign(kv.Key)
		e.w.CreateBindGroup(id, layoutID, resources)
	}
}
