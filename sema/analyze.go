// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sema implements the Analyzer: it walks a parsed [ast.Tree],
// builds the 23 per-namespace symbol tables, resolves every $namespace.name
// reference and dotted identifier value, and collects diagnostics for
// anything the Emitter must not be handed.
package sema

import (
	"pngc.dev/compiler/ast"
)

// DottedClass is the tag the Analyzer assigns to a dotted value the
// parser recorded uniformly as [ast.UniformAccess]: the grammar cannot
// tell a uniform-buffer field access, a GPU built-in reference, or a
// namespace-dotted bare identifier apart without the symbol tables, so
// that three-way split happens here instead of in the parser.
type DottedClass int

const (
	ClassInvalid DottedClass = iota
	ClassUniformAccess
	ClassBuiltinRef
	ClassNamespaceDotted
)

// bareBuiltins are bare (non-dotted) identifier values the Analyzer
// recognizes as references to host-supplied uniform structs rather than
// declared symbols.
var bareBuiltins = map[string]bool{
	"pngineInputs":          true,
	"sceneTimeInputs":       true,
	"contextCurrentTexture": true,
	"preferredCanvasFormat": true,
}

var canvasFields = map[string]bool{"width": true, "height": true}
var timeFields = map[string]bool{"total": true, "delta": true}

// uniformAccessNamespaces are the namespaces a bare left-hand identifier
// in a dotted uniform_access value (e.g. "code.inputs") is resolved
// against, in preference order.
var uniformAccessNamespaces = [...]Namespace{NSData, NSWasmCall, NSBuffer}

// Analysis is the result of [Analyze]: the resolved symbol tables plus
// every dotted value's classification, ready for the Emitter to consume
// without re-deriving any of it.
type Analysis struct {
	Tree        *ast.Tree
	Symbols     SymbolTables
	Diagnostics []Diagnostic

	// DottedClass classifies every ast.UniformAccess node the parser
	// produced, keyed by node index.
	DottedClass map[ast.Index]DottedClass

	// UniformSize holds the resolved byte size of every node classified
	// ClassUniformAccess.
	UniformSize map[ast.Index]int

	// Builtins records bare identifier-value nodes recognized as one of
	// bareBuiltins, keyed by node index and valued by the builtin name.
	Builtins map[ast.Index]string
}

// HasErrors reports whether analysis produced any error-severity
// diagnostic (spec.md §4.2 point 5); warnings (e.g. duplicate_definition)
// and info notes never abort the compile on their own.
func (a *Analysis) HasErrors() bool {
	for _, d := range a.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func spanOfNode(t *ast.Tree, idx ast.Index) Span {
	tok := t.Token(idx)
	return Span{Start: int(tok.Start), End: int(tok.Start + tok.Len)}
}

// Analyze builds symbol tables for every top-level declaration in tree,
// then walks each declaration's body resolving references and dotted
// values. It never returns a non-nil error for malformed-but-parseable
// DSL input — those conditions become [Diagnostic]s on the returned
// [Analysis] instead; the error return is reserved for a tree that
// violates ast.Tree's own structural invariants.
func Analyze(tree *ast.Tree) (*Analysis, error) {
	a := &Analysis{
		Tree:        tree,
		Symbols:     newSymbolTables(),
		DottedClass: map[ast.Index]DottedClass{},
		UniformSize: map[ast.Index]int{},
		Builtins:    map[ast.Index]string{},
	}

	decls := tree.Elements(0)
	for _, d := range decls {
		kind := tree.Tags[d]
		ns, ok := namespaceForMacro[kind]
		if !ok {
			continue
		}
		name := tree.TokenText(d)
		span := spanOfNode(tree, d)
		if existing, found := a.Symbols.Lookup(ns, name); found {
			a.Diagnostics = append(a.Diagnostics, newWarnDiag(DuplicateDefinition, span,
				"%q redefines a name first declared at offset %d", name, existing.Span.Start))
			continue
		}
		a.Symbols[ns].Add(name, Symbol{Node: d, Span: span})
	}

	for _, d := range decls {
		kind := tree.Tags[d]
		switch kind {
		case ast.MacroDefine:
			// #define's value is an arithmetic expression, handled by
			// the exprs evaluator rather than the value walker below.
			continue
		}
		data := tree.NodeData[d]
		// Every macro other than #define shares the Object shape
		// (LHS/RHS is the property extra_range), copied verbatim from
		// the parsed object onto the declaration node itself.
		for _, p := range tree.ExtraProp[data.LHS:data.RHS] {
			a.walkValue(p.Value)
		}
	}

	return a, nil
}

func (a *Analysis) walkValue(idx ast.Index) {
	t := a.Tree
	switch t.Tags[idx] {
	case ast.Object:
		for _, p := range t.Properties(idx) {
			a.walkValue(p.Value)
		}
	case ast.Array:
		for _, e := range t.Elements(idx) {
			a.walkValue(e)
		}
	case ast.Reference:
		a.validateReference(idx)
	case ast.UniformAccess:
		a.classifyDotted(idx)
	case ast.ExprAdd, ast.ExprSub, ast.ExprMul, ast.ExprDiv:
		l, r := t.Pair(idx)
		a.walkValue(l)
		a.walkValue(r)
	case ast.ExprNegate, ast.ExprParen:
		a.walkValue(t.Single(idx))
	case ast.IdentifierValue:
		name := t.TokenText(idx)
		if bareBuiltins[name] {
			a.Builtins[idx] = name
		}
	case ast.NumberValue, ast.StringValue:
		// Leaves; nothing to resolve.
	}
}

func (a *Analysis) validateReference(idx ast.Index) {
	t := a.Tree
	nsNode, nameNode := t.Pair(idx)
	nsName := t.TokenText(nsNode)
	name := t.TokenText(nameNode)
	span := spanOfNode(t, idx)

	ns, ok := namespaceKeyword[nsName]
	if !ok {
		a.Diagnostics = append(a.Diagnostics, newDiag(UndefinedReference, span,
			"%q is not a valid reference namespace", nsName))
		return
	}
	if _, found := a.Symbols.Lookup(ns, name); !found {
		a.Diagnostics = append(a.Diagnostics, newDiag(UndefinedReference, span,
			"undefined %s %q", nsName, name))
	}
}

// classifyDotted resolves a parser-produced ast.UniformAccess node into
// one of the three semantics spec.md §4.1 describes for a dotted value:
// a GPU built-in reference (canvas.*, time.*), a namespace-dotted bare
// identifier naming a declared symbol, or a uniform-buffer field access
// on a declared data/wasmCall/buffer symbol.
func (a *Analysis) classifyDotted(idx ast.Index) {
	t := a.Tree
	lhsNode, rhsNode := t.Pair(idx)
	lhsName := t.TokenText(lhsNode)
	rhsName := t.TokenText(rhsNode)
	span := spanOfNode(t, idx)

	switch lhsName {
	case "canvas":
		if canvasFields[rhsName] {
			a.DottedClass[idx] = ClassBuiltinRef
		} else {
			a.Diagnostics = append(a.Diagnostics, newDiag(InvalidUniformAccess, span,
				"canvas has no field %q", rhsName))
		}
		return
	case "time":
		if timeFields[rhsName] {
			a.DottedClass[idx] = ClassBuiltinRef
		} else {
			a.Diagnostics = append(a.Diagnostics, newDiag(InvalidUniformAccess, span,
				"time has no field %q", rhsName))
		}
		return
	}

	if ns, ok := namespaceKeyword[lhsName]; ok {
		if _, found := a.Symbols.Lookup(ns, rhsName); !found {
			a.Diagnostics = append(a.Diagnostics, newDiag(UndefinedReference, span,
				"undefined %s %q", lhsName, rhsName))
			return
		}
		a.DottedClass[idx] = ClassNamespaceDotted
		return
	}

	for _, ns := range uniformAccessNamespaces {
		if _, found := a.Symbols.Lookup(ns, lhsName); found {
			a.DottedClass[idx] = ClassUniformAccess
			a.UniformSize[idx] = uniformFieldSize(rhsName)
			return
		}
	}

	a.Diagnostics = append(a.Diagnostics, newDiag(UndefinedReference, span,
		"%q does not name a declared buffer, data, or wasmCall symbol", lhsName))
}

// uniformFieldSize resolves a uniform_access field name to its byte
// size. "inputs" fields mirror the 12-byte vec3<u32> built-in input
// struct; every other field defaults to a 16-byte (vec4-aligned) slot,
// matching std140-style uniform buffer alignment.
func uniformFieldSize(field string) int {
	if field == "inputs" {
		return 12
	}
	return 16
}
