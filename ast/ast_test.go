// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/token"
)

func TestTreeObjectRoundTrip(t *testing.T) {
	src := []byte(`size=16`)
	toks := []token.Token{
		{Kind: token.Identifier, Start: 0, Len: 4},
		{Kind: token.Equals, Start: 4, Len: 1},
		{Kind: token.Number, Start: 5, Len: 2},
	}
	tr := New(src, toks)
	val := tr.AddNode(NumberValue, 2, Data{})
	start, end := tr.AddExtraProps([]PropRef{{NameTok: 0, Value: val}})
	obj := tr.AddNode(Object, 0, Data{LHS: start, RHS: end})

	require.True(t, tr.Valid(obj))
	props := tr.Properties(obj)
	require.Len(t, props, 1)
	assert.Equal(t, "size", toks[props[0].NameTok].Text(src))
	assert.Equal(t, val, props[0].Value)

	v, ok := tr.PropByName(obj, "size")
	assert.True(t, ok)
	assert.Equal(t, val, v)
	assert.Equal(t, "16", tr.TokenText(v))
}

func TestTreeArray(t *testing.T) {
	tr := New(nil, nil)
	a := tr.AddNode(NumberValue, 0, Data{})
	b := tr.AddNode(NumberValue, 0, Data{})
	start, end := tr.AddExtra([]Index{a, b})
	arr := tr.AddNode(Array, 0, Data{LHS: start, RHS: end})
	assert.Equal(t, []Index{a, b}, tr.Elements(arr))
}

func TestTreePairAndSingle(t *testing.T) {
	tr := New(nil, nil)
	lhs := tr.AddNode(NumberValue, 0, Data{})
	add := tr.AddNode(ExprAdd, 0, Data{LHS: lhs, RHS: lhs})
	l, r := tr.Pair(add)
	assert.Equal(t, lhs, l)
	assert.Equal(t, lhs, r)

	neg := tr.AddNode(ExprNegate, 0, Data{LHS: lhs})
	assert.Equal(t, lhs, tr.Single(neg))
}

func TestTreePairPanicsOnWrongShape(t *testing.T) {
	tr := New(nil, nil)
	n := tr.AddNode(NumberValue, 0, Data{})
	assert.Panics(t, func() { tr.Pair(n) })
}

func TestIsMacro(t *testing.T) {
	assert.True(t, MacroBuffer.IsMacro())
	assert.False(t, Object.IsMacro())
}
