// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package anim encodes a #animation declaration into its JSON sidecar,
// per spec.md §4.10. The encoder is hand-rolled rather than built on
// encoding/json: it must preserve the DSL's declared property order
// exactly, emit no incidental whitespace, and never produce the
// non-standard NaN/Infinity tokens Go's json package would reject on
// decode — none of which encoding/json's struct-tag-driven model gives
// direct control over.
package anim

import (
	"math"
	"strconv"
	"strings"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/exprs"
)

// First returns the first #animation declaration in source order, and
// whether one exists. spec.md §4.10's "first #animation wins" policy:
// a file may declare more than one, but only the first is emitted.
func First(tree *ast.Tree) (ast.Index, bool) {
	for _, d := range tree.Elements(0) {
		if tree.Tags[d] == ast.MacroAnimation {
			return d, true
		}
	}
	return 0, false
}

// Encode serializes decl's properties as a JSON object, evaluating any
// arithmetic expression values against env.
func Encode(tree *ast.Tree, env exprs.Env, decl ast.Index) []byte {
	var b strings.Builder
	encodeObjectBody(&b, tree, env, decl)
	return []byte(b.String())
}

// encodeObjectBody writes decl's properties as a JSON object body; decl
// may be an Object node or a macro declaration node sharing the Object
// data shape (both expose their fields via ExtraProp).
func encodeObjectBody(b *strings.Builder, tree *ast.Tree, env exprs.Env, decl ast.Index) {
	data := tree.NodeData[decl]
	props := tree.ExtraProp[data.LHS:data.RHS]
	b.WriteByte('{')
	for i, p := range props {
		if i > 0 {
			b.WriteByte(',')
		}
		writeJSONString(b, tree.Tokens[p.NameTok].Text(tree.Source))
		b.WriteByte(':')
		encodeValue(b, tree, env, p.Value)
	}
	b.WriteByte('}')
}

func encodeValue(b *strings.Builder, tree *ast.Tree, env exprs.Env, v ast.Index) {
	switch tree.Tags[v] {
	case ast.Object:
		b.WriteByte('{')
		for i, p := range tree.Properties(v) {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, tree.Tokens[p.NameTok].Text(tree.Source))
			b.WriteByte(':')
			encodeValue(b, tree, env, p.Value)
		}
		b.WriteByte('}')
	case ast.Array:
		b.WriteByte('[')
		for i, e := range tree.Elements(v) {
			if i > 0 {
				b.WriteByte(',')
			}
			encodeValue(b, tree, env, e)
		}
		b.WriteByte(']')
	case ast.StringValue:
		writeJSONString(b, decodeStringLiteral(tree.TokenText(v)))
	case ast.IdentifierValue:
		writeJSONString(b, tree.TokenText(v))
	case ast.Reference:
		nsNode, nameNode := tree.Pair(v)
		writeJSONString(b, tree.TokenText(nsNode)+"."+tree.TokenText(nameNode))
	case ast.UniformAccess:
		lhs, rhs := tree.Pair(v)
		writeJSONString(b, tree.TokenText(lhs)+"."+tree.TokenText(rhs))
	default:
		val, err := exprs.Eval(tree, v, env)
		if err != nil {
			b.WriteString("null")
			return
		}
		writeNumber(b, val)
	}
}

// writeNumber formats an evaluated value as a JSON number, substituting
// "null" for NaN and Infinity since JSON has no token for either.
func writeNumber(b *strings.Builder, v exprs.Value) {
	if !v.IsFloat {
		b.WriteString(strconv.FormatInt(v.Int, 10))
		return
	}
	f := float64(v.Float)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.WriteString("null")
		return
	}
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 32))
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func decodeStringLiteral(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	inner := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
