// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pngb implements the binary PNGB artifact format: a tag byte
// followed by little-endian fixed-width operands per instruction, as
// spec.md §7 describes. It is the lowest layer of the Emitter — it knows
// nothing about the DSL, only how to serialize already-resolved
// resource ids and descriptor values.
package pngb

// Opcode tags one PNGB instruction.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	OpCreateShaderModule
	OpCreateBuffer
	OpCreateTexture
	OpCreateTextureView
	OpCreateSampler
	OpCreateBindGroupLayout
	OpCreatePipelineLayout
	OpCreateBindGroup
	OpCreateRenderPipeline
	OpCreateComputePipeline
	OpCreateQuerySet
	OpCreateImageBitmap
	OpCreateRenderBundle

	OpDefineFrame
	OpSubmit
	OpEndFrame

	OpDefinePass
	OpEndPassDef
	OpBeginRenderPass
	OpBeginComputePass
	OpEndPass
	OpExecPass

	OpSetPipeline
	OpSetBindGroup
	OpSetBindGroupPool
	OpSetVertexBuffer
	OpSetVertexBufferPool
	OpSetIndexBuffer
	OpDraw
	OpDrawIndexed
	OpDispatch
	OpExecuteBundles

	OpWriteBuffer
	OpWriteTimeUniform
	OpCopyExternalImageToTexture
	OpWriteBufferFromWasm
	OpInitWasmModule
	OpCallWasmFunc

	opcodeCount
)

var opcodeNames = [...]string{
	OpInvalid:                     "invalid",
	OpCreateShaderModule:          "create_shader_module",
	OpCreateBuffer:                "create_buffer",
	OpCreateTexture:               "create_texture",
	OpCreateTextureView:           "create_texture_view",
	OpCreateSampler:               "create_sampler",
	OpCreateBindGroupLayout:       "create_bind_group_layout",
	OpCreatePipelineLayout:        "create_pipeline_layout",
	OpCreateBindGroup:             "create_bind_group",
	OpCreateRenderPipeline:        "create_render_pipeline",
	OpCreateComputePipeline:       "create_compute_pipeline",
	OpCreateQuerySet:              "create_query_set",
	OpCreateImageBitmap:           "create_image_bitmap",
	OpCreateRenderBundle:          "create_render_bundle",
	OpDefineFrame:                 "define_frame",
	OpSubmit:                      "submit",
	OpEndFrame:                    "end_frame",
	OpDefinePass:                  "define_pass",
	OpEndPassDef:                  "end_pass_def",
	OpBeginRenderPass:             "begin_render_pass",
	OpBeginComputePass:            "begin_compute_pass",
	OpEndPass:                     "end_pass",
	OpExecPass:                    "exec_pass",
	OpSetPipeline:                 "set_pipeline",
	OpSetBindGroup:                "set_bind_group",
	OpSetBindGroupPool:            "set_bind_group_pool",
	OpSetVertexBuffer:             "set_vertex_buffer",
	OpSetVertexBufferPool:         "set_vertex_buffer_pool",
	OpSetIndexBuffer:              "set_index_buffer",
	OpDraw:                        "draw",
	OpDrawIndexed:                 "draw_indexed",
	OpDispatch:                    "dispatch",
	OpExecuteBundles:              "execute_bundles",
	OpWriteBuffer:                 "write_buffer",
	OpWriteTimeUniform:            "write_time_uniform",
	OpCopyExternalImageToTexture:  "copy_external_image_to_texture",
	OpWriteBufferFromWasm:         "write_buffer_from_wasm",
	OpInitWasmModule:              "init_wasm_module",
	OpCallWasmFunc:                "call_wasm_func",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "unknown"
}

// ResourceID identifies one emitted resource within its own namespace.
// Namespaces are scoped per spec.md §5: a buffer id and a texture id of
// the same numeric value refer to different resources.
type ResourceID uint16

const (
	// NoDepth marks an absence of a depth-stencil attachment.
	NoDepth ResourceID = 0xFFFF
	// CanvasTexture marks the swap-chain's current texture view, which
	// has no emitted create_texture_view instruction of its own.
	CanvasTexture ResourceID = 0xFFFE
)

// Magic is the 4-byte file signature every PNGB artifact starts with.
var Magic = [4]byte{'P', 'N', 'G', 'B'}

// Version is the PNGB format version written in the header.
const Version uint8 = 1
