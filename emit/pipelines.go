// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"github.com/cogentcore/webgpu/wgpu"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/pngb"
	"pngc.dev/compiler/sema"
)

func (e *emitter) emitRenderPipelines() {
	for _, kv := range e.an.Symbols[sema.NSRenderPipeline].Order {
		d := kv.Value.Node
		id := e.ids.renderPipeline.assign(kv.Key)

		var layout, vert, frag pngb.ResourceID
		if l, ok := e.tree.PropByName(d, "layout"); ok {
			layout, _ = e.resolveValueID(l)
		}
		if v, ok := e.tree.PropByName(d, "vertex"); ok {
			vert, _ = e.resolveValueID(v)
		}
		if f, ok := e.tree.PropByName(d, "fragment"); ok {
			frag, _ = e.resolveValueID(f)
		}

		topology := primitiveTopologies[formatName(e.tree, d, "topology")]
		cullMode := cullModes[formatName(e.tree, d, "cullMode")]

		var attrs []pngb.VertexAttr
		stride, _ := evalInt(e.tree, d, "stride", e.env)
		if layoutArr, ok := e.tree.PropByName(d, "vertexLayout"); ok && e.tree.Tags[layoutArr] == ast.Array {
			for _, el := range e.tree.Elements(layoutArr) {
				loc, _ := evalInt(e.tree, el, "location", e.env)
				off, _ := evalInt(e.tree, el, "offset", e.env)
				format := vertexFormats[formatName(e.tree, el, "format")]
				attrs = append(attrs, pngb.VertexAttr{ShaderLocation: uint32(loc), Offset: uint32(off), Format: format})
			}
		}

		colorFormat := e.colorFormatOf(d, "colorFormat")
		depthFormatName := formatName(e.tree, d, "depthFormat")
		hasDepth := depthFormatName != ""
		var depthFormat wgpu.TextureFormat
		if hasDepth {
			depthFormat = textureFormats[depthFormatName]
		}

		e.w.CreateRenderPipeline(id, layout, vert, frag, topology, cullMode, attrs, uint32(stride), colorFormat, depthFormat, hasDepth)
	}
}

// colorFormatOf resolves a render pipeline's color target format,
// special-casing the bare "preferredCanvasFormat" builtin (spec.md
// §4.6): the actual format is only known once a surface is configured,
// so the artifact carries [wgpu.TextureFormatUndefined] as a "follow
// the canvas" marker there too.
func (e *emitter) colorFormatOf(obj ast.Index, prop string) wgpu.TextureFormat {
	v, ok := e.tree.PropByName(obj, prop)
	if !ok {
		return wgpu.TextureFormatUndefined
	}
	if e.tree.Tags[v] == ast.IdentifierValue && e.tree.TokenText(v) == "preferredCanvasFormat" {
		return wgpu.TextureFormatUndefined
	}
	return textureFormats[formatName(e.tree, obj, prop)]
}

func (e *emitter) emitComputePipelines() {
	for _, kv := range e.an.Symbols[sema.NSComputePipeline].Order {
		d := kv.Value.Node
		id := e.ids.computePipeline.assign(kv.Key)
		var layout, module pngb.ResourceID
		if l, ok := e.tree.PropByName(d, "layout"); ok {
			layout, _ = e.resolveValueID(l)
		}
		if m, ok := e.tree.PropByName(d, "module"); ok {
			module, _ = e.resolveValueID(m)
		}
		entry, _ := propString(e.tree, d, "entryPoint")
		if entry == "" {
			entry = "main"
		}
		e.w.CreateComputePipeline(id, layout, module, entry)
	}
}

func (e *emitter) emitQuerySets() {
	for _, kv := range e.an.Symbols[sema.NSQuerySet].Order {
		d := kv.Value.Node
		count, _ := evalInt(e.tree, d, "count", e.env)
		id := e.ids.querySet.assign(kv.Key)
		e.w.CreateQuerySet(id, uint32(count))
	}
}

// emitRenderBundles records a #renderBundle's draw commands (pipeline,
// bind groups, vertex/index buffers, one draw call) onto a headerless
// sub-writer and embeds the result as the bundle's operand, so a frame
// can later replay many bundles in one execute_bundles instruction
// instead of re-recording the same commands per pass. A bundle body
// recognizes the same render-relevant properties a #renderPass body
// does (spec.md §4.6), minus the begin/end pass wrapper.
func (e *emitter) emitRenderBundles() {
	for _, kv := range e.an.Symbols[sema.NSRenderBundle].Order {
		d := kv.Value.Node
		id := e.ids.renderBundle.assign(kv.Key)
		commands := pngb.RecordCommands(func(w *pngb.Writer) {
			e.emitPassCommands(w, d, passRender)
		})
		e.w.CreateRenderBundle(id, commands)
	}
}
