// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sema

import (
	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/base/ordmap"
)

// Span is a byte-offset range into the compiled source, used for
// diagnostics.
type Span struct {
	Start, End int
}

// Symbol is one entry in a namespace's symbol table: the declaration node
// it came from and the source span of its name, for diagnostics.
type Symbol struct {
	Node ast.Index
	Span Span
}

// Namespace identifies one of the 23 declaration namespaces spec.md §4.2
// enumerates. Each has its own insertion-ordered symbol table and its own
// monotonic id counter in the emitter.
type Namespace int

const (
	NSWgsl Namespace = iota
	NSShaderModule
	NSBuffer
	NSTexture
	NSTextureView
	NSSampler
	NSBindGroupLayout
	NSBindGroup
	NSPipelineLayout
	NSRenderPipeline
	NSComputePipeline
	NSRenderPass
	NSComputePass
	NSRenderBundle
	NSQuerySet
	NSQueue
	NSFrame
	// NSBufferInit corresponds to spec.md §4.2's "buffer_init" namespace:
	// the names registered by #init expansions so frames may reference
	// them as passes (spec.md §4.8).
	NSBufferInit
	NSAnimation
	NSData
	NSWasmCall
	NSImageBitmap
	NSDefine

	nsCount
)

// namespaceForMacro maps a top-level macro's AST kind to the namespace
// its declared name is inserted into.
var namespaceForMacro = map[ast.Kind]Namespace{
	ast.MacroWgsl:            NSWgsl,
	ast.MacroShaderModule:    NSShaderModule,
	ast.MacroBuffer:          NSBuffer,
	ast.MacroTexture:         NSTexture,
	ast.MacroTextureView:     NSTextureView,
	ast.MacroSampler:         NSSampler,
	ast.MacroBindGroupLayout: NSBindGroupLayout,
	ast.MacroBindGroup:       NSBindGroup,
	ast.MacroPipelineLayout:  NSPipelineLayout,
	ast.MacroRenderPipeline:  NSRenderPipeline,
	ast.MacroComputePipeline: NSComputePipeline,
	ast.MacroRenderPass:      NSRenderPass,
	ast.MacroComputePass:     NSComputePass,
	ast.MacroRenderBundle:    NSRenderBundle,
	ast.MacroQuerySet:        NSQuerySet,
	ast.MacroQueue:           NSQueue,
	ast.MacroFrame:           NSFrame,
	ast.MacroInit:            NSBufferInit,
	ast.MacroAnimation:       NSAnimation,
	ast.MacroData:            NSData,
	ast.MacroWasmCall:        NSWasmCall,
	ast.MacroImageBitmap:     NSImageBitmap,
	ast.MacroDefine:          NSDefine,
}

// namespaceKeyword maps the bare-identifier spelling used on the left of a
// dotted reference ("$renderPass.x", or a namespace-dotted identifier
// value) to the Namespace it names. spec.md §4.1's illustrative list
// covers the namespaces a #renderPass/#frame body references most often;
// every other resource-producing namespace a $-prefixed reference can
// legally name is included too (shaderModule, so a pipeline or #init can
// name its module by reference; pipelineLayout and bindGroupLayout, so a
// #bindGroup or #pipelineLayout can name its layout by reference;
// computePass and querySet, for parity with renderPass/renderBundle;
// wasmCall and data, since #queue write bodies reference both by name).
// Namespaces with no $-prefixed reference form anywhere in the grammar
// (animation, define, imageBitmap, buffer_init) are reachable only by
// bare identifier within their own declaration context and are
// deliberately left out.
var namespaceKeyword = map[string]Namespace{
	"shaderModule":    NSShaderModule,
	"renderPass":      NSRenderPass,
	"computePass":     NSComputePass,
	"frame":           NSFrame,
	"queue":           NSQueue,
	"wgsl":            NSWgsl,
	"renderPipeline":  NSRenderPipeline,
	"computePipeline": NSComputePipeline,
	"buffer":          NSBuffer,
	"texture":         NSTexture,
	"textureView":     NSTextureView,
	"sampler":         NSSampler,
	"bindGroup":       NSBindGroup,
	"renderBundle":    NSRenderBundle,
	"pipelineLayout":  NSPipelineLayout,
	"bindGroupLayout": NSBindGroupLayout,
	"querySet":        NSQuerySet,
	"wasmCall":        NSWasmCall,
	"data":            NSData,
}

// SymbolTables holds one insertion-ordered map per namespace. Using
// [ordmap.Map] (adapted from cogentcore.org/core/base/ordmap) guarantees
// iteration follows declaration order, which is the order the Emitter
// assigns ids in — the determinism spec.md §3 and §5 require.
type SymbolTables [nsCount]*ordmap.Map[string, Symbol]

func newSymbolTables() SymbolTables {
	var st SymbolTables
	for i := range st {
		st[i] = ordmap.New[string, Symbol]()
	}
	return st
}

// Lookup returns the symbol named name in namespace ns, and whether it
// was found.
func (st SymbolTables) Lookup(ns Namespace, name string) (Symbol, bool) {
	return st[ns].ValueByKeyTry(name)
}

// NamespaceByKeyword exposes namespaceKeyword to other packages (the
// emit package uses it to resolve a $namespace.name reference's
// namespace component to the same [Namespace] the Analyzer validated it
// against).
func NamespaceByKeyword(name string) (Namespace, bool) {
	ns, ok := namespaceKeyword[name]
	return ns, ok
}
