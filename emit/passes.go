// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"github.com/cogentcore/webgpu/wgpu"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/exprs"
	"pngc.dev/compiler/pngb"
	"pngc.dev/compiler/sema"
)

// emitPassDefinitions walks every top-level declaration in source order
// and, for each #renderPass, #computePass, or #init, records its body as
// a named, reusable pass definition (spec.md §4.7/§4.8): frames replay
// it later via exec_pass rather than re-recording its commands.
func (e *emitter) emitPassDefinitions() {
	for _, d := range e.tree.Elements(0) {
		name := e.tree.TokenText(d)
		switch e.tree.Tags[d] {
		case ast.MacroRenderPass:
			e.w.DefinePass(name)
			e.emitRenderPassBody(d)
			e.w.EndPassDef()
		case ast.MacroComputePass:
			e.w.DefinePass(name)
			e.emitComputePassBody(d)
			e.w.EndPassDef()
		case ast.MacroInit:
			e.w.DefinePass(name)
			e.emitInitBody(d)
			e.w.EndPassDef()
		}
	}
}

// maxSlots bounds vertex-buffer and bind-group slot arrays; maxBundles
// bounds one execute_bundles call; maxCommands bounds the number of
// per-property commands a single pass body emits. Runaway declarative
// input (e.g. a generated array far past what any real pipeline binds)
// is truncated rather than emitted unbounded (spec.md §5, §4.6).
const (
	maxSlots    = 64
	maxBundles  = 16
	maxCommands = 64
)

// passKind selects which of a pass object's properties emitPassCommands
// recognizes: a render pass and a render bundle share the render-only
// set (vertexBuffers/indexBuffer/draw/drawIndexed/executeBundles), a
// compute pass gets dispatch/dispatchWorkgroups instead (spec.md §4.6:
// "identical to above but ... only compute-relevant commands").
type passKind int

const (
	passRender passKind = iota
	passCompute
)

// slotRef is a bindGroups/vertexBuffers array element resolved to both
// its resource id and its declared name, since a pool-registered slot
// (spec.md §4.6 point 5's "if the group name has a pool registration")
// is recognized by name, not by id.
type slotRef struct {
	name string
	id   pngb.ResourceID
}

func (e *emitter) slotRefOf(v ast.Index) (slotRef, bool) {
	id, ok := e.resolveValueID(v)
	if !ok {
		return slotRef{}, false
	}
	return slotRef{name: e.valueName(v), id: id}, true
}

// valueName returns the declared symbol name a resolved value node
// refers to, for the same three shapes [emitter.resolveValueID] accepts.
func (e *emitter) valueName(v ast.Index) string {
	switch e.tree.Tags[v] {
	case ast.Reference:
		_, nameNode := e.tree.Pair(v)
		return e.tree.TokenText(nameNode)
	case ast.UniformAccess:
		_, rhs := e.tree.Pair(v)
		return e.tree.TokenText(rhs)
	case ast.IdentifierValue:
		return e.tree.TokenText(v)
	}
	return ""
}

// bindGroupsOf resolves a pass body's bindGroup/bindGroups properties to
// their resource ids, in slot order, truncated to maxSlots. It exists
// alongside emitPassCommands for callers that only need the resolved
// ids rather than emitted instructions.
func (e *emitter) bindGroupsOf(obj ast.Index) []pngb.ResourceID {
	var out []pngb.ResourceID
	if v, ok := e.tree.PropByName(obj, "bindGroup"); ok {
		if ref, ok := e.slotRefOf(v); ok {
			out = append(out, ref.id)
		}
	}
	if arr, ok := e.tree.PropByName(obj, "bindGroups"); ok && e.tree.Tags[arr] == ast.Array {
		for _, el := range e.tree.Elements(arr) {
			if len(out) >= maxSlots {
				break
			}
			if ref, ok := e.slotRefOf(el); ok {
				out = append(out, ref.id)
			}
		}
	}
	return out
}

// executeBundlesOf reads a pass body's `executeBundles=[...]` property,
// resolving each named #renderBundle and truncating to maxBundles.
func (e *emitter) executeBundlesOf(obj ast.Index) []pngb.ResourceID {
	arr, ok := e.tree.PropByName(obj, "executeBundles")
	if !ok || e.tree.Tags[arr] != ast.Array {
		return nil
	}
	var out []pngb.ResourceID
	for _, el := range e.tree.Elements(arr) {
		if len(out) >= maxBundles {
			break
		}
		if id, ok := e.resolveValueID(el); ok {
			out = append(out, id)
		}
	}
	return out
}

// intOffsetsOf evaluates a pass body's `*PoolOffsets=[...]` property,
// one per slot index, used only for pool-registered bindGroups/
// vertexBuffers entries.
func intOffsetsOf(tree *ast.Tree, obj ast.Index, prop string, env exprs.Env) []int64 {
	arr, ok := tree.PropByName(obj, prop)
	if !ok || tree.Tags[arr] != ast.Array {
		return nil
	}
	var out []int64
	for _, el := range tree.Elements(arr) {
		v, err := exprs.Eval(tree, el, env)
		if err != nil {
			out = append(out, 0)
			continue
		}
		out = append(out, valInt(v))
	}
	return out
}

func offsetAt(offsets []int64, i int) uint32 {
	if i < 0 || i >= len(offsets) {
		return 0
	}
	return uint32(offsets[i])
}

// valInt collapses an [exprs.Value] to an int64 regardless of which
// numeric kind it evaluated as.
func valInt(v exprs.Value) int64 {
	if v.IsFloat {
		return int64(v.Float)
	}
	return v.Int
}

func evalIntDefault(tree *ast.Tree, obj ast.Index, prop string, env exprs.Env, def int64) int64 {
	if n, ok := evalInt(tree, obj, prop, env); ok {
		return n
	}
	return def
}

// setBindGroupSlot emits set_bind_group, or set_bind_group_pool when
// ref's name was declared with a poolSize (spec.md §4.6 point 5).
func (e *emitter) setBindGroupSlot(w *pngb.Writer, slot uint32, ref slotRef, offsets []int64) {
	if size, ok := e.ids.bindGroup.poolSize(ref.name); ok {
		pool := e.ids.bindGroup.poolIDs(ref.name, size)
		w.SetBindGroupPool(slot, pool, offsetAt(offsets, int(slot)))
		return
	}
	w.SetBindGroup(slot, ref.id)
}

// setVertexBufferSlot is setBindGroupSlot's vertexBuffers analog.
func (e *emitter) setVertexBufferSlot(w *pngb.Writer, slot uint32, ref slotRef, offsets []int64) {
	if size, ok := e.ids.buffer.poolSize(ref.name); ok {
		pool := e.ids.buffer.poolIDs(ref.name, size)
		w.SetVertexBufferPool(slot, pool, offsetAt(offsets, int(slot)))
		return
	}
	w.SetVertexBuffer(slot, ref.id)
}

// drawArgs resolves a `draw` property's value across its three
// documented shapes (spec.md §4.6 point 5): a bare scalar, a two-element
// array, or an object with named fields. A value that fails to evaluate
// falls back to draw(3, 1, 0, 0), spec.md §8's boundary behavior for a
// malformed draw value.
func (e *emitter) drawArgs(v ast.Index) (vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	instanceCount = 1
	switch e.tree.Tags[v] {
	case ast.Array:
		els := e.tree.Elements(v)
		if len(els) >= 1 {
			if n, err := exprs.Eval(e.tree, els[0], e.env); err == nil {
				vertexCount = uint32(valInt(n))
			}
		}
		if len(els) >= 2 {
			if n, err := exprs.Eval(e.tree, els[1], e.env); err == nil {
				instanceCount = uint32(valInt(n))
			}
		}
	case ast.Object:
		vertexCount = uint32(evalIntDefault(e.tree, v, "vertexCount", e.env, 3))
		instanceCount = uint32(evalIntDefault(e.tree, v, "instanceCount", e.env, 1))
		firstVertex = uint32(evalIntDefault(e.tree, v, "firstVertex", e.env, 0))
		firstInstance = uint32(evalIntDefault(e.tree, v, "firstInstance", e.env, 0))
	default:
		n, err := exprs.Eval(e.tree, v, e.env)
		if err != nil {
			vertexCount = 3
			return
		}
		vertexCount = uint32(valInt(n))
	}
	return
}

// drawIndexedArgs is drawArgs's five-parameter analog for `drawIndexed`.
func (e *emitter) drawIndexedArgs(v ast.Index) (indexCount, instanceCount, firstIndex, baseVertex, firstInstance uint32) {
	instanceCount = 1
	switch e.tree.Tags[v] {
	case ast.Array:
		els := e.tree.Elements(v)
		if len(els) >= 1 {
			if n, err := exprs.Eval(e.tree, els[0], e.env); err == nil {
				indexCount = uint32(valInt(n))
			}
		}
		if len(els) >= 2 {
			if n, err := exprs.Eval(e.tree, els[1], e.env); err == nil {
				instanceCount = uint32(valInt(n))
			}
		}
	case ast.Object:
		indexCount = uint32(evalIntDefault(e.tree, v, "indexCount", e.env, 3))
		instanceCount = uint32(evalIntDefault(e.tree, v, "instanceCount", e.env, 1))
		firstIndex = uint32(evalIntDefault(e.tree, v, "firstIndex", e.env, 0))
		baseVertex = uint32(evalIntDefault(e.tree, v, "baseVertex", e.env, 0))
		firstInstance = uint32(evalIntDefault(e.tree, v, "firstInstance", e.env, 0))
	default:
		n, err := exprs.Eval(e.tree, v, e.env)
		if err != nil {
			indexCount = 3
			return
		}
		indexCount = uint32(valInt(n))
	}
	return
}

// dispatchArrayArgs resolves a `dispatch=[x,y,z]` property, defaulting
// any missing trailing element to 1 (spec.md §4.6 point 5).
func (e *emitter) dispatchArrayArgs(v ast.Index) (x, y, z uint32) {
	x, y, z = 1, 1, 1
	if e.tree.Tags[v] != ast.Array {
		return
	}
	slots := [3]*uint32{&x, &y, &z}
	for i, el := range e.tree.Elements(v) {
		if i >= 3 {
			break
		}
		if n, err := exprs.Eval(e.tree, el, e.env); err == nil {
			*slots[i] = uint32(valInt(n))
		}
	}
	return
}

// emitPassCommands iterates d's properties in source order, dispatching
// each recognized name to the matching pngb instruction (spec.md §4.6
// point 5), writing to w rather than always e.w so a #renderBundle can
// record the same command set onto a headerless sub-writer.
func (e *emitter) emitPassCommands(w *pngb.Writer, d ast.Index, kind passKind) {
	cmds := 0
	bgOffsets := intOffsetsOf(e.tree, d, "bindGroupsPoolOffsets", e.env)
	vbOffsets := intOffsetsOf(e.tree, d, "vertexBuffersPoolOffsets", e.env)

	for _, p := range e.tree.Properties(d) {
		if cmds >= maxCommands {
			break
		}
		name := e.tree.Tokens[p.NameTok].Text(e.tree.Source)
		v := p.Value

		switch name {
		case "pipeline":
			if id, ok := e.resolveValueID(v); ok {
				w.SetPipeline(id)
				cmds++
			}
		case "bindGroup":
			if ref, ok := e.slotRefOf(v); ok {
				e.setBindGroupSlot(w, 0, ref, bgOffsets)
				cmds++
			}
		case "bindGroups":
			if e.tree.Tags[v] != ast.Array {
				continue
			}
			for i, el := range e.tree.Elements(v) {
				if cmds >= maxCommands || i >= maxSlots {
					break
				}
				if ref, ok := e.slotRefOf(el); ok {
					e.setBindGroupSlot(w, uint32(i), ref, bgOffsets)
					cmds++
				}
			}
		case "vertexBuffer":
			if kind != passRender {
				continue
			}
			if ref, ok := e.slotRefOf(v); ok {
				e.setVertexBufferSlot(w, 0, ref, vbOffsets)
				cmds++
			}
		case "vertexBuffers":
			if kind != passRender || e.tree.Tags[v] != ast.Array {
				continue
			}
			for i, el := range e.tree.Elements(v) {
				if cmds >= maxCommands || i >= maxSlots {
					break
				}
				if ref, ok := e.slotRefOf(el); ok {
					e.setVertexBufferSlot(w, uint32(i), ref, vbOffsets)
					cmds++
				}
			}
		case "indexBuffer":
			if kind != passRender {
				continue
			}
			if id, ok := e.resolveValueID(v); ok {
				format := wgpu.IndexFormatUint16
				if fname := formatName(e.tree, d, "indexFormat"); fname != "" {
					if f, ok := indexFormats[fname]; ok {
						format = f
					}
				}
				w.SetIndexBuffer(id, format)
				cmds++
			}
		case "draw":
			if kind != passRender {
				continue
			}
			vc, ic, fv, fi := e.drawArgs(v)
			w.Draw(vc, ic, fv, fi)
			cmds++
		case "drawIndexed":
			if kind != passRender {
				continue
			}
			ic, inst, fidx, bv, fi := e.drawIndexedArgs(v)
			w.DrawIndexed(ic, inst, fidx, bv, fi)
			cmds++
		case "dispatch":
			if kind != passCompute {
				continue
			}
			x, y, z := e.dispatchArrayArgs(v)
			w.Dispatch(x, y, z)
			cmds++
		case "dispatchWorkgroups":
			if kind != passCompute {
				continue
			}
			x := uint32(1)
			if n, err := exprs.Eval(e.tree, v, e.env); err == nil {
				x = uint32(valInt(n))
			}
			w.Dispatch(x, 1, 1)
			cmds++
		case "executeBundles":
			if kind != passRender {
				continue
			}
			if bundles := e.executeBundlesOf(d); len(bundles) > 0 {
				w.ExecuteBundles(bundles)
				cmds++
			}
		}
	}
}

// colorAttachmentsOf resolves a render pass's `colorAttachments=[...]`
// array (spec.md §4.6 points 2-3), defaulting to a single canvas-backed
// attachment when absent so existing single-attachment sources keep
// their previous behavior.
func (e *emitter) colorAttachmentsOf(d ast.Index) []pngb.ColorAttachment {
	def := pngb.ColorAttachment{View: pngb.CanvasTexture, LoadOp: wgpu.LoadOpClear, StoreOp: wgpu.StoreOpStore, ClearA: 1}
	arr, ok := e.tree.PropByName(d, "colorAttachments")
	if !ok || e.tree.Tags[arr] != ast.Array {
		return []pngb.ColorAttachment{def}
	}
	var out []pngb.ColorAttachment
	for _, el := range e.tree.Elements(arr) {
		out = append(out, e.colorAttachmentOf(el, def))
	}
	if len(out) == 0 {
		out = append(out, def)
	}
	return out
}

func (e *emitter) colorAttachmentOf(ca ast.Index, def pngb.ColorAttachment) pngb.ColorAttachment {
	color := def
	if e.tree.Tags[ca] != ast.Object {
		return color
	}
	if view, ok := e.tree.PropByName(ca, "view"); ok {
		if e.tree.Tags[view] == ast.IdentifierValue && e.tree.TokenText(view) == "contextCurrentTexture" {
			color.View = pngb.CanvasTexture
		} else if id, ok := e.resolveValueID(view); ok {
			color.View = id
		}
	}
	if op := formatName(e.tree, ca, "loadOp"); op != "" {
		if lo, ok := loadOps[op]; ok {
			color.LoadOp = lo
		}
	}
	if op := formatName(e.tree, ca, "storeOp"); op != "" {
		if so, ok := storeOps[op]; ok {
			color.StoreOp = so
		}
	}
	if cc, ok := e.tree.PropByName(ca, "clearColor"); ok && e.tree.Tags[cc] == ast.Array {
		vals := e.tree.Elements(cc)
		floats := [4]*float32{&color.ClearR, &color.ClearG, &color.ClearB, &color.ClearA}
		for i, v := range vals {
			if i >= 4 {
				break
			}
			if f, err := evalAsFloat(e.tree, v, e.env); err == nil {
				*floats[i] = f
			}
		}
	}
	return color
}

// depthAttachmentOf resolves `depthStencilAttachment.view`, defaulting
// to [pngb.NoDepth] when the property is absent (spec.md §4.6 point 2).
func (e *emitter) depthAttachmentOf(d ast.Index) (id pngb.ResourceID, load wgpu.LoadOp, store wgpu.StoreOp, clear float32) {
	id, load, store, clear = pngb.NoDepth, wgpu.LoadOpClear, wgpu.StoreOpStore, 1
	ds, ok := e.tree.PropByName(d, "depthStencilAttachment")
	if !ok || e.tree.Tags[ds] != ast.Object {
		return
	}
	if view, ok := e.tree.PropByName(ds, "view"); ok {
		if rid, ok := e.resolveValueID(view); ok {
			id = rid
		}
	}
	return
}

func (e *emitter) emitRenderPassBody(d ast.Index) {
	colors := e.colorAttachmentsOf(d)
	depthID, depthLoad, depthStore, depthClear := e.depthAttachmentOf(d)
	e.w.BeginRenderPass(colors, depthID, depthLoad, depthStore, depthClear)
	e.emitPassCommands(e.w, d, passRender)
	e.w.EndPass()
}

func (e *emitter) emitComputePassBody(d ast.Index) {
	e.w.BeginComputePass()
	e.emitPassCommands(e.w, d, passCompute)
	e.w.EndPass()
}

// bufferSymbolOf resolves a `buffer=` value to the #buffer declaration
// node it names, so emitInitBody can read the buffer's own declared
// `size` rather than just its assigned resource id.
func (e *emitter) bufferSymbolOf(v ast.Index) (ast.Index, bool) {
	name := e.valueName(v)
	if name == "" {
		return 0, false
	}
	sym, ok := e.an.Symbols.Lookup(sema.NSBuffer, name)
	if !ok {
		return 0, false
	}
	return sym.Node, true
}

// initWorkgroupCount computes #init's dispatch size: ceil(buffer_size /
// 64) clamped to a minimum of 1 (spec.md §4.8). buffer_size comes from
// B's declared `size` only when that property is a bare number literal;
// any other shape (an expression, a #define reference) falls back to
// the spec's 1024-byte default, matching its "if size is not a literal
// number" wording exactly.
func (e *emitter) initWorkgroupCount(d ast.Index) int64 {
	bufferSize := int64(1024)
	if b, ok := e.tree.PropByName(d, "buffer"); ok {
		if sym, ok := e.bufferSymbolOf(b); ok {
			if sv, ok := e.tree.PropByName(sym, "size"); ok && e.tree.Tags[sv] == ast.NumberValue {
				if n, err := exprs.Eval(e.tree, sv, e.env); err == nil {
					bufferSize = valInt(n)
				}
			}
		}
	}
	n := ceilDiv(bufferSize, 64)
	if n < 1 {
		n = 1
	}
	return n
}

// emitInitBody expands a #init declaration per spec.md §4.8: a fresh
// params buffer (when `params` is given), a fresh compute pipeline from
// `shader`, and a fresh bind group (entry 0 = `buffer`, optional entry 1
// = the params buffer) are synthesized for this #init alone, then a
// compute pass dispatches against them.
func (e *emitter) emitInitBody(d ast.Index) {
	name := e.tree.TokenText(d)

	var bufferID pngb.ResourceID
	if b, ok := e.tree.PropByName(d, "buffer"); ok {
		bufferID, _ = e.resolveValueID(b)
	}
	var shaderID pngb.ResourceID
	if s, ok := e.tree.PropByName(d, "shader"); ok {
		shaderID, _ = e.resolveValueID(s)
	}

	resources := []pngb.ResourceID{bufferID}
	if params, ok := e.tree.PropByName(d, "params"); ok && e.tree.Tags[params] == ast.Array {
		data := e.encodeNumericArray(params)
		paramsID := e.ids.buffer.assign(name + ".params")
		e.w.CreateBuffer(paramsID, uint32(len(data)), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		e.w.WriteBuffer(paramsID, 0, data)
		resources = append(resources, paramsID)
	}

	var pipelineLayout pngb.ResourceID
	pipelineID := e.ids.computePipeline.assign(name + ".pipeline")
	e.w.CreateComputePipeline(pipelineID, pipelineLayout, shaderID, "main")

	bindGroupID := e.ids.bindGroup.assign(name + ".bindGroup")
	e.w.CreateBindGroup(bindGroupID, pipelineID, resources)

	workgroups := e.initWorkgroupCount(d)

	e.w.BeginComputePass()
	e.w.SetPipeline(pipelineID)
	e.w.SetBindGroup(0, bindGroupID)
	e.w.Dispatch(uint32(workgroups), 1, 1)
	e.w.EndPass()
}

// ceilDiv computes ceil(n / d).
func ceilDiv(n, d int64) int64 {
	if d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
