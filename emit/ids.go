// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"github.com/cogentcore/webgpu/wgpu"

	"pngc.dev/compiler/pngb"
	"pngc.dev/compiler/sema"
)

// idTable assigns a monotonically increasing [pngb.ResourceID] to each
// symbol name within one namespace, in the order assign is called — the
// same order the symbol was declared, since the Emitter always walks
// sema.SymbolTables in insertion order.
type idTable struct {
	ids       map[string]pngb.ResourceID
	poolSizes map[string]int
	next      pngb.ResourceID
}

func newIDTable() *idTable {
	return &idTable{ids: map[string]pngb.ResourceID{}, poolSizes: map[string]int{}}
}

func (t *idTable) assign(name string) pngb.ResourceID {
	id := t.next
	t.next++
	t.ids[name] = id
	return id
}

// assignRun reserves n contiguous ids under name, for a bind group or
// vertex buffer declared with a `poolSize` property: a pass body that
// references name by its slot-array entry then selects one of the n
// ids at submit time via set_bind_group_pool / set_vertex_buffer_pool
// (spec.md §4.6 point 5, glossary "pool-aware opcode"). The base id is
// recorded the same as assign, so ordinary lookup(name) still resolves
// it; poolSize additionally remembers the run length.
func (t *idTable) assignRun(name string, n int) pngb.ResourceID {
	if n < 1 {
		n = 1
	}
	base := t.next
	t.next += pngb.ResourceID(n)
	t.ids[name] = base
	t.poolSizes[name] = n
	return base
}

func (t *idTable) lookup(name string) (pngb.ResourceID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// poolSize reports whether name was declared with a pool registration,
// and if so, how many ids its run spans.
func (t *idTable) poolSize(name string) (int, bool) {
	n, ok := t.poolSizes[name]
	return n, ok
}

// poolIDs returns the contiguous run of n ids starting at name's base id.
func (t *idTable) poolIDs(name string, n int) []pngb.ResourceID {
	base, ok := t.ids[name]
	if !ok {
		return nil
	}
	out := make([]pngb.ResourceID, n)
	for i := range out {
		out[i] = base + pngb.ResourceID(i)
	}
	return out
}

// ids holds one [idTable] per resource-producing namespace the Emitter
// assigns PNGB resource ids for.
type ids struct {
	shaderModule, buffer, texture, textureView, sampler    *idTable
	bindGroupLayout, bindGroup, pipelineLayout              *idTable
	renderPipeline, computePipeline, querySet, renderBundle *idTable
	imageBitmap, wasmCall                                   *idTable
}

func newIDs() *ids {
	return &ids{
		shaderModule:    newIDTable(),
		buffer:          newIDTable(),
		texture:         newIDTable(),
		textureView:     newIDTable(),
		sampler:         newIDTable(),
		bindGroupLayout: newIDTable(),
		bindGroup:       newIDTable(),
		pipelineLayout:  newIDTable(),
		renderPipeline:  newIDTable(),
		computePipeline: newIDTable(),
		querySet:        newIDTable(),
		renderBundle:    newIDTable(),
		imageBitmap:     newIDTable(),
		wasmCall:        newIDTable(),
	}
}

func (ids *ids) table(ns sema.Namespace) *idTable {
	switch ns {
	case sema.NSShaderModule:
		return ids.shaderModule
	case sema.NSBuffer:
		return ids.buffer
	case sema.NSTexture:
		return ids.texture
	case sema.NSTextureView:
		return ids.textureView
	case sema.NSSampler:
		return ids.sampler
	case sema.NSBindGroupLayout:
		return ids.bindGroupLayout
	case sema.NSBindGroup:
		return ids.bindGroup
	case sema.NSPipelineLayout:
		return ids.pipelineLayout
	case sema.NSRenderPipeline:
		return ids.renderPipeline
	case sema.NSComputePipeline:
		return ids.computePipeline
	case sema.NSQuerySet:
		return ids.querySet
	case sema.NSRenderBundle:
		return ids.renderBundle
	case sema.NSImageBitmap:
		return ids.imageBitmap
	case sema.NSWasmCall:
		return ids.wasmCall
	default:
		return nil
	}
}

// bufferUsageFlags maps the DSL's usage array identifiers to
// [wgpu.BufferUsage] bits (spec.md §4.5).
var bufferUsageFlags = map[string]wgpu.BufferUsage{
	"VERTEX":     wgpu.BufferUsageVertex,
	"INDEX":      wgpu.BufferUsageIndex,
	"UNIFORM":    wgpu.BufferUsageUniform,
	"STORAGE":    wgpu.BufferUsageStorage,
	"COPY_SRC":   wgpu.BufferUsageCopySrc,
	"COPY_DST":   wgpu.BufferUsageCopyDst,
	"INDIRECT":   wgpu.BufferUsageIndirect,
	"MAP_READ":   wgpu.BufferUsageMapRead,
	"MAP_WRITE":  wgpu.BufferUsageMapWrite,
	"QUERY_RESOLVE": wgpu.BufferUsageQueryResolve,
}

// textureUsageFlags maps the DSL's usage array identifiers to
// [wgpu.TextureUsage] bits.
var textureUsageFlags = map[string]wgpu.TextureUsage{
	"TEXTURE_BINDING":   wgpu.TextureUsageTextureBinding,
	"STORAGE_BINDING":   wgpu.TextureUsageStorageBinding,
	"RENDER_ATTACHMENT": wgpu.TextureUsageRenderAttachment,
	"COPY_SRC":          wgpu.TextureUsageCopySrc,
	"COPY_DST":          wgpu.TextureUsageCopyDst,
}

// textureFormats maps the DSL's format identifiers to [wgpu.TextureFormat].
var textureFormats = map[string]wgpu.TextureFormat{
	"RGBA8Unorm":    wgpu.TextureFormatRGBA8Unorm,
	"BGRA8Unorm":    wgpu.TextureFormatBGRA8Unorm,
	"R8Unorm":       wgpu.TextureFormatR8Unorm,
	"Depth24Plus":   wgpu.TextureFormatDepth24Plus,
	"Depth32Float":  wgpu.TextureFormatDepth32Float,
	"RGBA16Float":   wgpu.TextureFormatRGBA16Float,
	"RGBA32Float":   wgpu.TextureFormatRGBA32Float,
}

var primitiveTopologies = map[string]wgpu.PrimitiveTopology{
	"TriangleList":  wgpu.PrimitiveTopologyTriangleList,
	"TriangleStrip": wgpu.PrimitiveTopologyTriangleStrip,
	"LineList":      wgpu.PrimitiveTopologyLineList,
	"LineStrip":     wgpu.PrimitiveTopologyLineStrip,
	"PointList":     wgpu.PrimitiveTopologyPointList,
}

var cullModes = map[string]wgpu.CullMode{
	"None":  wgpu.CullModeNone,
	"Front": wgpu.CullModeFront,
	"Back":  wgpu.CullModeBack,
}

var vertexFormats = map[string]wgpu.VertexFormat{
	"Float32":   wgpu.VertexFormatFloat32,
	"Float32x2": wgpu.VertexFormatFloat32x2,
	"Float32x3": wgpu.VertexFormatFloat32x3,
	"Float32x4": wgpu.VertexFormatFloat32x4,
	"Uint32":    wgpu.VertexFormatUint32,
}

var indexFormats = map[string]wgpu.IndexFormat{
	"Uint16": wgpu.IndexFormatUint16,
	"Uint32": wgpu.IndexFormatUint32,
}

var loadOps = map[string]wgpu.LoadOp{
	"clear": wgpu.LoadOpClear,
	"load":  wgpu.LoadOpLoad,
}

var storeOps = map[string]wgpu.StoreOp{
	"store":    wgpu.StoreOpStore,
	"discard":  wgpu.StoreOpDiscard,
}

func bufferUsage(flags []string) wgpu.BufferUsage {
	var u wgpu.BufferUsage
	for _, f := range flags {
		u |= bufferUsageFlags[f]
	}
	return u
}

func textureUsage(flags []string) wgpu.TextureUsage {
	var u wgpu.TextureUsage
	for _, f := range flags {
		u |= textureUsageFlags[f]
	}
	return u
}

func bindKindForUsage(flags []string) pngb.BindGroupEntryKind {
	for _, f := range flags {
		switch f {
		case "SAMPLER":
			return pngb.BindSampler
		case "TEXTURE":
			return pngb.BindTexture
		}
	}
	return pngb.BindBuffer
}
