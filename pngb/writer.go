// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pngb

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// Writer accumulates PNGB instructions into a byte buffer. It holds no
// knowledge of the DSL or of resolved symbol names; the emit package is
// responsible for turning compiler-level concepts into the ids and
// descriptor values Writer's methods take.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with the PNGB magic and version header
// already written.
func NewWriter() *Writer {
	w := &Writer{}
	w.buf = append(w.buf, Magic[:]...)
	w.buf = append(w.buf, Version)
	return w
}

// newRawWriter returns a Writer with no header, for recording a
// self-contained instruction sequence (a render bundle's commands)
// that is embedded as a byte string inside another instruction rather
// than written as its own artifact.
func newRawWriter() *Writer { return &Writer{} }

// RecordCommands runs record against a headerless Writer and returns
// the bytes it wrote, for embedding a self-contained command sequence
// (spec.md §4.7's render bundle) inside another instruction's operand.
func RecordCommands(record func(*Writer)) []byte {
	w := newRawWriter()
	record(w)
	return w.Bytes()
}

// Bytes returns the accumulated PNGB artifact.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) u16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *Writer) u32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *Writer) f32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}
func (w *Writer) id(v ResourceID) { w.u16(uint16(v)) }
func (w *Writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}
func (w *Writer) ids(vs []ResourceID) {
	w.u16(uint16(len(vs)))
	for _, v := range vs {
		w.id(v)
	}
}
func (w *Writer) op(o Opcode) { w.u8(uint8(o)) }

// CreateShaderModule emits the module id and its resolved WGSL source.
func (w *Writer) CreateShaderModule(id ResourceID, wgsl string) {
	w.op(OpCreateShaderModule)
	w.id(id)
	w.str(wgsl)
}

// CreateBuffer emits a GPUBufferDescriptor-equivalent instruction.
func (w *Writer) CreateBuffer(id ResourceID, size uint32, usage wgpu.BufferUsage) {
	w.op(OpCreateBuffer)
	w.id(id)
	w.u32(size)
	w.u32(uint32(usage))
}

// CreateTexture emits a GPUTextureDescriptor-equivalent instruction.
func (w *Writer) CreateTexture(id ResourceID, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) {
	w.op(OpCreateTexture)
	w.id(id)
	w.u32(width)
	w.u32(height)
	w.u32(uint32(format))
	w.u32(uint32(usage))
}

// CreateTextureView emits a texture view of an existing texture.
func (w *Writer) CreateTextureView(id, texture ResourceID) {
	w.op(OpCreateTextureView)
	w.id(id)
	w.id(texture)
}

// CreateSampler emits a sampler resource.
func (w *Writer) CreateSampler(id ResourceID) {
	w.op(OpCreateSampler)
	w.id(id)
}

// BindGroupEntryKind distinguishes a bind group layout entry's resource
// type, since each binds a different PNGB resource namespace.
type BindGroupEntryKind uint8

const (
	BindBuffer BindGroupEntryKind = iota
	BindSampler
	BindTexture
)

// CreateBindGroupLayout emits a bind group layout from its entry kinds
// and binding slots, in declaration order.
func (w *Writer) CreateBindGroupLayout(id ResourceID, bindings []uint32, kinds []BindGroupEntryKind) {
	w.op(OpCreateBindGroupLayout)
	w.id(id)
	w.u16(uint16(len(bindings)))
	for i, b := range bindings {
		w.u32(b)
		w.u8(uint8(kinds[i]))
	}
}

// CreatePipelineLayout emits a pipeline layout from its ordered bind
// group layout ids.
func (w *Writer) CreatePipelineLayout(id ResourceID, bindGroupLayouts []ResourceID) {
	w.op(OpCreatePipelineLayout)
	w.id(id)
	w.ids(bindGroupLayouts)
}

// CreateBindGroup emits a bind group from its layout and ordered
// resource bindings.
func (w *Writer) CreateBindGroup(id, layout ResourceID, resources []ResourceID) {
	w.op(OpCreateBindGroup)
	w.id(id)
	w.id(layout)
	w.ids(resources)
}

// VertexAttr describes one vertex attribute slot: a shader location,
// byte offset, and WGSL vertex format.
type VertexAttr struct {
	ShaderLocation uint32
	Offset         uint32
	Format         wgpu.VertexFormat
}

// CreateRenderPipeline emits a render pipeline descriptor.
func (w *Writer) CreateRenderPipeline(id, layout, vertModule, fragModule ResourceID, topology wgpu.PrimitiveTopology, cullMode wgpu.CullMode, attrs []VertexAttr, stride uint32, colorFormat wgpu.TextureFormat, depthFormat wgpu.TextureFormat, hasDepth bool) {
	w.op(OpCreateRenderPipeline)
	w.id(id)
	w.id(layout)
	w.id(vertModule)
	w.id(fragModule)
	w.u32(uint32(topology))
	w.u32(uint32(cullMode))
	w.u32(stride)
	w.u16(uint16(len(attrs)))
	for _, a := range attrs {
		w.u32(a.ShaderLocation)
		w.u32(a.Offset)
		w.u32(uint32(a.Format))
	}
	w.u32(uint32(colorFormat))
	if hasDepth {
		w.u32(uint32(depthFormat))
	} else {
		w.u32(uint32(wgpu.TextureFormatUndefined))
	}
}

// CreateComputePipeline emits a compute pipeline descriptor.
func (w *Writer) CreateComputePipeline(id, layout, module ResourceID, entryPoint string) {
	w.op(OpCreateComputePipeline)
	w.id(id)
	w.id(layout)
	w.id(module)
	w.str(entryPoint)
}

// CreateQuerySet emits a query set descriptor.
func (w *Writer) CreateQuerySet(id ResourceID, count uint32) {
	w.op(OpCreateQuerySet)
	w.id(id)
	w.u32(count)
}

// CreateImageBitmap emits an image bitmap id and the source path a
// runtime decodes it from; no decoding happens at compile time.
func (w *Writer) CreateImageBitmap(id ResourceID, source string) {
	w.op(OpCreateImageBitmap)
	w.id(id)
	w.str(source)
}

// CreateRenderBundle emits a render bundle id and the pass commands
// recorded onto it (already encoded by emit's pass recorder).
func (w *Writer) CreateRenderBundle(id ResourceID, commands []byte) {
	w.op(OpCreateRenderBundle)
	w.id(id)
	w.str(string(commands))
}

// DefineFrame begins a named frame's instruction sequence.
func (w *Writer) DefineFrame(name string) {
	w.op(OpDefineFrame)
	w.str(name)
}

// Submit emits a queue submission boundary within a frame.
func (w *Writer) Submit() { w.op(OpSubmit) }

// EndFrame closes the current frame's instruction sequence.
func (w *Writer) EndFrame() { w.op(OpEndFrame) }

// DefinePass begins a named, reusable pass definition.
func (w *Writer) DefinePass(name string) {
	w.op(OpDefinePass)
	w.str(name)
}

// EndPassDef closes a pass definition begun with DefinePass.
func (w *Writer) EndPassDef() { w.op(OpEndPassDef) }

// ColorAttachment describes one render pass color attachment.
type ColorAttachment struct {
	View    ResourceID
	LoadOp  wgpu.LoadOp
	StoreOp wgpu.StoreOp
	ClearR, ClearG, ClearB, ClearA float32
}

// BeginRenderPass opens a render pass with its color attachments and
// optional depth attachment (depth == [NoDepth] when absent).
func (w *Writer) BeginRenderPass(colors []ColorAttachment, depth ResourceID, depthLoad wgpu.LoadOp, depthStore wgpu.StoreOp, depthClear float32) {
	w.op(OpBeginRenderPass)
	w.u16(uint16(len(colors)))
	for _, c := range colors {
		w.id(c.View)
		w.u32(uint32(c.LoadOp))
		w.u32(uint32(c.StoreOp))
		w.f32(c.ClearR)
		w.f32(c.ClearG)
		w.f32(c.ClearB)
		w.f32(c.ClearA)
	}
	w.id(depth)
	if depth != NoDepth {
		w.u32(uint32(depthLoad))
		w.u32(uint32(depthStore))
		w.f32(depthClear)
	}
}

// BeginComputePass opens a compute pass.
func (w *Writer) BeginComputePass() { w.op(OpBeginComputePass) }

// EndPass closes the current render or compute pass.
func (w *Writer) EndPass() { w.op(OpEndPass) }

// ExecPass references a previously defined pass by name from within a
// frame, rather than re-recording its commands.
func (w *Writer) ExecPass(name string) {
	w.op(OpExecPass)
	w.str(name)
}

// SetPipeline binds a render or compute pipeline.
func (w *Writer) SetPipeline(pipeline ResourceID) {
	w.op(OpSetPipeline)
	w.id(pipeline)
}

// SetBindGroup binds a single bind group at an index.
func (w *Writer) SetBindGroup(index uint32, bindGroup ResourceID) {
	w.op(OpSetBindGroup)
	w.u32(index)
	w.id(bindGroup)
}

// SetBindGroupPool binds a bind group selected at submit time from a
// pool of candidates sharing the same layout (spec.md §4.9's per-frame
// bind group pooling).
func (w *Writer) SetBindGroupPool(index uint32, pool []ResourceID, selected uint32) {
	w.op(OpSetBindGroupPool)
	w.u32(index)
	w.ids(pool)
	w.u32(selected)
}

// SetVertexBuffer binds a vertex buffer at a slot.
func (w *Writer) SetVertexBuffer(slot uint32, buffer ResourceID) {
	w.op(OpSetVertexBuffer)
	w.u32(slot)
	w.id(buffer)
}

// SetVertexBufferPool binds a vertex buffer selected at submit time
// from a pool.
func (w *Writer) SetVertexBufferPool(slot uint32, pool []ResourceID, selected uint32) {
	w.op(OpSetVertexBufferPool)
	w.u32(slot)
	w.ids(pool)
	w.u32(selected)
}

// SetIndexBuffer binds the index buffer and its index format.
func (w *Writer) SetIndexBuffer(buffer ResourceID, format wgpu.IndexFormat) {
	w.op(OpSetIndexBuffer)
	w.id(buffer)
	w.u32(uint32(format))
}

// Draw emits a non-indexed draw call (spec.md §4.6/§6's four operands).
func (w *Writer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	w.op(OpDraw)
	w.u32(vertexCount)
	w.u32(instanceCount)
	w.u32(firstVertex)
	w.u32(firstInstance)
}

// DrawIndexed emits an indexed draw call (spec.md §4.6/§6's five operands).
func (w *Writer) DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance uint32) {
	w.op(OpDrawIndexed)
	w.u32(indexCount)
	w.u32(instanceCount)
	w.u32(firstIndex)
	w.u32(baseVertex)
	w.u32(firstInstance)
}

// Dispatch emits a compute workgroup dispatch.
func (w *Writer) Dispatch(x, y, z uint32) {
	w.op(OpDispatch)
	w.u32(x)
	w.u32(y)
	w.u32(z)
}

// ExecuteBundles replays a set of pre-recorded render bundles.
func (w *Writer) ExecuteBundles(bundles []ResourceID) {
	w.op(OpExecuteBundles)
	w.ids(bundles)
}

// WriteBuffer emits an immediate CPU-to-GPU buffer write with inline
// data bytes.
func (w *Writer) WriteBuffer(buffer ResourceID, offset uint32, data []byte) {
	w.op(OpWriteBuffer)
	w.id(buffer)
	w.u32(offset)
	w.str(string(data))
}

// WriteTimeUniform emits the per-frame write of a host-supplied uniform
// (time.total/time.delta, pngineInputs, sceneTimeInputs, or a shader
// module's uniform_access-sized inputs struct) whose bytes the runtime
// substitutes at submit time rather than the compiler inlining them.
func (w *Writer) WriteTimeUniform(buffer ResourceID, offset, sizeBytes uint32) {
	w.op(OpWriteTimeUniform)
	w.id(buffer)
	w.u32(offset)
	w.u32(sizeBytes)
}

// CopyExternalImageToTexture emits a copy from a decoded image bitmap
// resource into a texture (spec.md §4.7/§6's mip level and origin
// operands, defaulting to mip 0 / origin (0,0) at the call site).
func (w *Writer) CopyExternalImageToTexture(bitmap, texture ResourceID, mipLevel, originX, originY uint32) {
	w.op(OpCopyExternalImageToTexture)
	w.id(bitmap)
	w.id(texture)
	w.u32(mipLevel)
	w.u32(originX)
	w.u32(originY)
}

// WriteBufferFromWasm emits a buffer write whose source bytes come from
// a wasmCall's result rather than inline data.
func (w *Writer) WriteBufferFromWasm(buffer ResourceID, offset uint32, wasmCall ResourceID) {
	w.op(OpWriteBufferFromWasm)
	w.id(buffer)
	w.u32(offset)
	w.id(wasmCall)
}

// InitWasmModule emits a wasm module load, deduplicated by the emit
// package before this is ever called twice for the same file.
func (w *Writer) InitWasmModule(id ResourceID, path string) {
	w.op(OpInitWasmModule)
	w.id(id)
	w.str(path)
}

// CallWasmFunc emits a wasm function invocation with its argument bytes
// already encoded by the caller.
func (w *Writer) CallWasmFunc(id ResourceID, module ResourceID, funcName string, args []byte) {
	w.op(OpCallWasmFunc)
	w.id(id)
	w.id(module)
	w.str(funcName)
	w.str(string(args))
}
