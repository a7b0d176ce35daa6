// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast holds the struct-of-arrays abstract syntax tree produced by
// the parser: parallel tag/token/data arrays plus a side pool for
// variable-length children, as spec.md §3 requires.
package ast

import (
	"fmt"

	"pngc.dev/compiler/token"
)

// Kind tags every AST node.
type Kind uint8

const (
	Invalid Kind = iota

	// Top-level declarations, one per DSL macro kind.
	MacroWgsl
	MacroShaderModule
	MacroBuffer
	MacroTexture
	MacroTextureView
	MacroSampler
	MacroBindGroupLayout
	MacroBindGroup
	MacroPipelineLayout
	MacroRenderPipeline
	MacroComputePipeline
	MacroRenderPass
	MacroComputePass
	MacroRenderBundle
	MacroQuerySet
	MacroQueue
	MacroFrame
	MacroInit
	MacroAnimation
	MacroData
	MacroWasmCall
	MacroImageBitmap
	MacroDefine

	// Value nodes.
	Object      // extra_range of PropRef entries in ExtraProp
	Property    // pair: (name token implicit via MainToken, value Index)
	Array       // extra_range of value Indexes
	NumberValue
	StringValue
	IdentifierValue
	Reference       // pair: (namespace Index, name Index)
	UniformAccess   // pair: (lhs Index, rhs Index)
	BuiltinRef      // pair: (lhs Index, rhs Index)

	// Expression nodes.
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprNegate
	ExprParen
)

// Index identifies a node within a [Tree]. Index 0 is always the root.
type Index uint32

// ExtraIndex identifies a slot within a [Tree]'s Extra pool.
type ExtraIndex uint32

// DataShape classifies how a node's Data field is interpreted. It is
// derived from Kind, never stored directly.
type DataShape uint8

const (
	ShapeNone DataShape = iota
	ShapeSingle
	ShapePair
	ShapeRange
)

// Data is the tagged-union payload every node carries. Which of its
// fields are meaningful (LHS alone, or both) depends on that node's Kind
// and is read via [Tree.Single], [Tree.Pair], or [Tree.Range].
type Data struct {
	LHS Index // single-child form, or pair left
	RHS Index // pair right (also reused as the extra_range end for Range)
}

// PropRef is a side-table entry used only by Object nodes: it pairs the
// property name's token with its value node. PropRefs are stored in
// ExtraProp rather than as full Node entries so iterating an Object's
// fields in source order never requires walking through Kind dispatch.
type PropRef struct {
	NameTok token.Index
	Value   Index
}

// Tree is the struct-of-arrays AST: parallel Tag/MainToken/Data arrays
// indexed by [Index], plus Extra and ExtraProp pools holding the
// variable-length children of Array and Object nodes. Every Index stored
// anywhere is guaranteed < len(Tags); every extra_range is guaranteed
// within its pool. The root is always node 0.
type Tree struct {
	Source []byte
	Tokens []token.Token

	Tags      []Kind
	MainToken []token.Index
	NodeData  []Data

	// Extra holds the elements of Array nodes; ExtraProp holds the
	// properties of Object nodes.
	// An Object's Data.LHS/RHS is an [start,end) range into ExtraProp;
	// an Array's Data.LHS/RHS is an [start,end) range into Extra.
	Extra     []Index
	ExtraProp []PropRef
}

// New returns an empty Tree with no nodes; the parser's first AddNode
// call creates the root as node 0.
func New(src []byte, toks []token.Token) *Tree {
	return &Tree{Source: src, Tokens: toks}
}

// AddNode appends a new node and returns its Index.
func (t *Tree) AddNode(kind Kind, mainTok token.Index, data Data) Index {
	idx := Index(len(t.Tags))
	t.Tags = append(t.Tags, kind)
	t.MainToken = append(t.MainToken, mainTok)
	t.NodeData = append(t.NodeData, data)
	return idx
}

// AddExtra appends indexes to the Extra pool and returns the [start,end)
// range as a Data pair suitable for an Array node.
func (t *Tree) AddExtra(idxs []Index) (start, end Index) {
	start = Index(len(t.Extra))
	t.Extra = append(t.Extra, idxs...)
	end = Index(len(t.Extra))
	return start, end
}

// AddExtraProps appends property refs to the ExtraProp pool and returns
// the [start,end) range as a Data pair suitable for an Object node.
func (t *Tree) AddExtraProps(props []PropRef) (start, end Index) {
	start = Index(len(t.ExtraProp))
	t.ExtraProp = append(t.ExtraProp, props...)
	end = Index(len(t.ExtraProp))
	return start, end
}

// Valid reports whether idx names an existing node.
func (t *Tree) Valid(idx Index) bool {
	return int(idx) < len(t.Tags)
}

// Token returns the main token of node idx.
func (t *Tree) Token(idx Index) token.Token {
	return t.Tokens[t.MainToken[idx]]
}

// TokenText returns the source text of node idx's main token.
func (t *Tree) TokenText(idx Index) string {
	return t.Token(idx).Text(t.Source)
}

// Single returns the single child of idx. It panics if idx's tag is not
// one that uses the single-child shape; this is an internal invariant
// check, not a user-facing error path (spec.md §9: "assertions intended
// to be fatal").
func (t *Tree) Single(idx Index) Index {
	switch t.Tags[idx] {
	case ExprNegate, ExprParen:
		return t.NodeData[idx].LHS
	default:
		panic(fmt.Sprintf("ast: node %d (kind %v) is not a single-child node", idx, t.Tags[idx]))
	}
}

// Pair returns the (lhs, rhs) pair of idx.
func (t *Tree) Pair(idx Index) (Index, Index) {
	switch t.Tags[idx] {
	case Reference, UniformAccess, BuiltinRef, ExprAdd, ExprSub, ExprMul, ExprDiv:
		d := t.NodeData[idx]
		return d.LHS, d.RHS
	default:
		panic(fmt.Sprintf("ast: node %d (kind %v) is not a pair node", idx, t.Tags[idx]))
	}
}

// Range returns the extra_range of idx. For Object nodes it indexes
// ExtraProp; for Array nodes it indexes Extra. Every macro declaration
// node other than MacroDefine carries its body object's Data verbatim
// (decl() copies it in rather than re-tagging the node as Object), so
// it is range-shaped too; MacroDefine's Data is a single-child value and
// is excluded.
func (t *Tree) Range(idx Index) (start, end Index) {
	kind := t.Tags[idx]
	if kind == Object || kind == Array || (kind.IsMacro() && kind != MacroDefine) {
		d := t.NodeData[idx]
		return d.LHS, d.RHS
	}
	panic(fmt.Sprintf("ast: node %d (kind %v) is not a range node", idx, kind))
}

// Properties returns the Object node's properties in source order.
func (t *Tree) Properties(idx Index) []PropRef {
	start, end := t.Range(idx)
	return t.ExtraProp[start:end]
}

// Elements returns the Array node's element indexes in source order.
func (t *Tree) Elements(idx Index) []Index {
	start, end := t.Range(idx)
	return t.Extra[start:end]
}

// PropByName returns the value node of the first property named name in
// the given Object, and whether it was found.
func (t *Tree) PropByName(obj Index, name string) (Index, bool) {
	for _, p := range t.Properties(obj) {
		if t.Tokens[p.NameTok].Text(t.Source) == name {
			return p.Value, true
		}
	}
	return 0, false
}

// IsMacro reports whether kind is one of the top-level macro kinds.
func (k Kind) IsMacro() bool {
	return k >= MacroWgsl && k <= MacroDefine
}
