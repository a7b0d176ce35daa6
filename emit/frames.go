// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"encoding/binary"
	"math"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/exprs"
	"pngc.dev/compiler/pngb"
	"pngc.dev/compiler/sema"
)

// bareBuiltinTimeUniformSize gives the write_time_uniform size for a
// bare built-in uniform struct reference (spec.md §4.7): both are
// written by the runtime at submit time, never inlined by the compiler.
var bareBuiltinTimeUniformSize = map[string]int{
	"pngineInputs":    16,
	"sceneTimeInputs": 12,
}

func (e *emitter) emitDataBlocks() map[string][]byte {
	blocks := map[string][]byte{}
	for _, kv := range e.an.Symbols[sema.NSData].Order {
		d := kv.Value.Node
		arr, ok := e.tree.PropByName(d, "data")
		if !ok || e.tree.Tags[arr] != ast.Array {
			continue
		}
		blocks[kv.Key] = e.encodeNumericArray(arr)
	}
	return blocks
}

// encodeNumericArray encodes an array of numeric values as little-endian
// 4-byte words: u32 for integers, IEEE-754 f32 for floats.
func (e *emitter) encodeNumericArray(arr ast.Index) []byte {
	var out []byte
	for _, el := range e.tree.Elements(arr) {
		v, err := exprs.Eval(e.tree, el, e.env)
		if err != nil {
			continue
		}
		buf := make([]byte, 4)
		if v.IsFloat {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v.Float))
		} else {
			binary.LittleEndian.PutUint32(buf, uint32(v.Int))
		}
		out = append(out, buf...)
	}
	return out
}

func (e *emitter) ensureWasmModule(path string) pngb.ResourceID {
	if id, ok := e.loadedWasm[path]; ok {
		return id
	}
	id := e.ids.wasmCall.assign(path)
	e.w.InitWasmModule(id, path)
	e.loadedWasm[path] = id
	return id
}

// emitWasmCallOp expands a $wasmCall.name reference into its
// init_wasm_module (deduplicated per distinct module path) and
// call_wasm_func instructions.
func (e *emitter) emitWasmCallOp(name string) pngb.ResourceID {
	sym, ok := e.an.Symbols.Lookup(sema.NSWasmCall, name)
	if !ok {
		return 0
	}
	d := sym.Node
	modulePath, _ := propString(e.tree, d, "module")
	funcName, _ := propString(e.tree, d, "func")
	moduleID := e.ensureWasmModule(modulePath)

	var args []byte
	if arr, ok := e.tree.PropByName(d, "args"); ok && e.tree.Tags[arr] == ast.Array {
		args = e.encodeNumericArray(arr)
	}
	callID := e.ids.wasmCall.assign(name)
	e.w.CallWasmFunc(callID, moduleID, funcName, args)
	return callID
}

// emitQueueOp expands a #queue declaration's single inlined operation
// (spec.md §4.9): a buffer write, an external-image-to-texture copy, or
// a wasm-call-sourced buffer write.
func (e *emitter) emitQueueOp(name string, dataBlocks map[string][]byte) {
	sym, ok := e.an.Symbols.Lookup(sema.NSQueue, name)
	if !ok {
		return
	}
	d := sym.Node

	if wb, ok := e.tree.PropByName(d, "writeBuffer"); ok && e.tree.Tags[wb] == ast.Object {
		var bufferID pngb.ResourceID
		if bv, ok := e.tree.PropByName(wb, "buffer"); ok {
			bufferID, _ = e.resolveValueID(bv)
		}
		offset, _ := evalInt(e.tree, wb, "bufferOffset", e.env)
		if dataVal, ok := e.tree.PropByName(wb, "data"); ok {
			if fromWasm, id, ok := e.dataFromWasm(dataVal); ok && fromWasm {
				e.w.WriteBufferFromWasm(bufferID, uint32(offset), id)
			} else {
				wd := e.resolveWriteData(dataVal, dataBlocks)
				if wd.isTimeUniform {
					e.w.WriteTimeUniform(bufferID, uint32(offset), wd.size)
				} else {
					e.w.WriteBuffer(bufferID, uint32(offset), wd.bytes)
				}
			}
		}
		return
	}

	if cp, ok := e.tree.PropByName(d, "copyExternalImageToTexture"); ok && e.tree.Tags[cp] == ast.Object {
		var bitmapID, texID pngb.ResourceID
		var mipLevel, originX, originY int64
		if src, ok := e.tree.PropByName(cp, "source"); ok && e.tree.Tags[src] == ast.Object {
			if bv, ok := e.tree.PropByName(src, "source"); ok {
				bitmapID, _ = e.resolveValueID(bv)
			}
		}
		if dst, ok := e.tree.PropByName(cp, "destination"); ok && e.tree.Tags[dst] == ast.Object {
			if tv, ok := e.tree.PropByName(dst, "texture"); ok {
				texID, _ = e.resolveValueID(tv)
			}
			mipLevel, _ = evalInt(e.tree, dst, "mipLevel", e.env)
			if origin, ok := e.tree.PropByName(dst, "origin"); ok && e.tree.Tags[origin] == ast.Array {
				els := e.tree.Elements(origin)
				if len(els) >= 1 {
					if n, err := exprs.Eval(e.tree, els[0], e.env); err == nil {
						originX = valInt(n)
					}
				}
				if len(els) >= 2 {
					if n, err := exprs.Eval(e.tree, els[1], e.env); err == nil {
						originY = valInt(n)
					}
				}
			}
		}
		e.w.CopyExternalImageToTexture(bitmapID, texID, uint32(mipLevel), uint32(originX), uint32(originY))
	}
}

// dataFromWasm reports whether dataVal is a $wasmCall.name reference,
// returning the wasm call's emitted id so the caller can use
// write_buffer_from_wasm instead of inlining bytes.
func (e *emitter) dataFromWasm(dataVal ast.Index) (isWasm bool, id pngb.ResourceID, ok bool) {
	if e.tree.Tags[dataVal] != ast.Reference {
		return false, 0, false
	}
	nsNode, nameNode := e.tree.Pair(dataVal)
	if e.tree.TokenText(nsNode) != "wasmCall" {
		return false, 0, false
	}
	callID := e.emitWasmCallOp(e.tree.TokenText(nameNode))
	return true, callID, true
}

// writeData is resolveWriteData's result: either inline bytes ready for
// write_buffer, or a size for write_time_uniform — a value the runtime
// substitutes at submit time rather than the compiler inlining it
// (spec.md §4.7).
type writeData struct {
	bytes         []byte
	size          uint32
	isTimeUniform bool
}

// resolveWriteData resolves a queue write's `data` value, for every form
// spec.md §4.7 allows other than a $wasmCall reference (handled
// separately by dataFromWasm): a numeric array or named #data block
// become inline bytes; a bare built-in struct reference or a
// uniform_access (e.g. `code.inputs`) become a write_time_uniform size.
func (e *emitter) resolveWriteData(dataVal ast.Index, dataBlocks map[string][]byte) writeData {
	switch e.tree.Tags[dataVal] {
	case ast.Array:
		return writeData{bytes: e.encodeNumericArray(dataVal)}
	case ast.Reference:
		nsNode, nameNode := e.tree.Pair(dataVal)
		if e.tree.TokenText(nsNode) == "data" {
			return writeData{bytes: dataBlocks[e.tree.TokenText(nameNode)]}
		}
	case ast.IdentifierValue:
		name := e.tree.TokenText(dataVal)
		if size, ok := bareBuiltinTimeUniformSize[name]; ok {
			return writeData{size: uint32(size), isTimeUniform: true}
		}
		return writeData{bytes: dataBlocks[name]}
	case ast.UniformAccess:
		if e.an.DottedClass[dataVal] == sema.ClassUniformAccess {
			size := e.an.UniformSize[dataVal]
			if size <= 0 {
				size = 12
			}
			return writeData{size: uint32(size), isTimeUniform: true}
		}
	}
	return writeData{}
}

// emitFrames walks every #frame in declaration order, replaying each
// name in its `before`, `perform`, and `after` lists, in that order
// (spec.md §4.7 point 2), against whichever kind of symbol it names: a
// predefined pass, a queue operation, or a wasm call.
func (e *emitter) emitFrames() {
	dataBlocks := e.emitDataBlocks()
	for _, kv := range e.an.Symbols[sema.NSFrame].Order {
		d := kv.Value.Node
		e.w.DefineFrame(kv.Key)
		for _, prop := range []string{"before", "perform", "after"} {
			if arr, ok := e.tree.PropByName(d, prop); ok && e.tree.Tags[arr] == ast.Array {
				for _, el := range e.tree.Elements(arr) {
					name := e.tree.TokenText(el)
					e.performStep(name, dataBlocks)
				}
			}
		}
		e.w.Submit()
		e.w.EndFrame()
	}
}

func (e *emitter) performStep(name string, dataBlocks map[string][]byte) {
	if _, ok := e.an.Symbols.Lookup(sema.NSRenderPass, name); ok {
		e.w.ExecPass(name)
		return
	}
	if _, ok := e.an.Symbols.Lookup(sema.NSComputePass, name); ok {
		e.w.ExecPass(name)
		return
	}
	if _, ok := e.an.Symbols.Lookup(sema.NSBufferInit, name); ok {
		e.w.ExecPass(name)
		return
	}
	if _, ok := e.an.Symbols.Lookup(sema.NSQueue, name); ok {
		e.emitQueueOp(name, dataBlocks)
		return
	}
	if _, ok := e.an.Symbols.Lookup(sema.NSWasmCall, name); ok {
		e.emitWasmCallOp(name)
		return
	}
}
