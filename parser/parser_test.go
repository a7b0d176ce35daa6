// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/ast"
)

func TestParseSimpleBuffer(t *testing.T) {
	tr, err := Parse([]byte(`#buffer u {size=16 usage=[UNIFORM COPY_DST]}`))
	require.NoError(t, err)

	decls := tr.Elements(0)
	require.Len(t, decls, 1)
	assert.Equal(t, ast.MacroBuffer, tr.Tags[decls[0]])
	assert.Equal(t, "u", tr.TokenText(decls[0]))

	sizeVal, ok := tr.PropByName(decls[0], "size")
	require.True(t, ok)
	assert.Equal(t, ast.NumberValue, tr.Tags[sizeVal])
	assert.Equal(t, "16", tr.TokenText(sizeVal))

	usageVal, ok := tr.PropByName(decls[0], "usage")
	require.True(t, ok)
	require.Equal(t, ast.Array, tr.Tags[usageVal])
	assert.Len(t, tr.Elements(usageVal), 2)
}

func TestParseReference(t *testing.T) {
	tr, err := Parse([]byte(`#renderPass p {pipeline=$renderPipeline.tri draw=3}`))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	v, ok := tr.PropByName(decl, "pipeline")
	require.True(t, ok)
	require.Equal(t, ast.Reference, tr.Tags[v])
	ns, nm := tr.Pair(v)
	assert.Equal(t, "renderPipeline", tr.TokenText(ns))
	assert.Equal(t, "tri", tr.TokenText(nm))
}

func TestParseUniformAccessDotted(t *testing.T) {
	tr, err := Parse([]byte(`#queue w {writeBuffer={buffer=u bufferOffset=0 data=code.inputs}}`))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	wb, ok := tr.PropByName(decl, "writeBuffer")
	require.True(t, ok)
	data, ok := tr.PropByName(wb, "data")
	require.True(t, ok)
	require.Equal(t, ast.UniformAccess, tr.Tags[data])
	lhs, rhs := tr.Pair(data)
	assert.Equal(t, "code", tr.TokenText(lhs))
	assert.Equal(t, "inputs", tr.TokenText(rhs))
}

func TestParseExpression(t *testing.T) {
	tr, err := Parse([]byte(`#define VEC4_SIZE=(4+4)*8/2`))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	require.Equal(t, ast.MacroDefine, tr.Tags[decl])
	val := tr.NodeData[decl].LHS
	assert.Equal(t, ast.ExprDiv, tr.Tags[val])
}

func TestParseNegativeNumber(t *testing.T) {
	tr, err := Parse([]byte(`#buffer b {size=-4}`))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	v, _ := tr.PropByName(decl, "size")
	assert.Equal(t, ast.ExprNegate, tr.Tags[v])
}

func TestParseArrayOfIdentifiers(t *testing.T) {
	tr, err := Parse([]byte(`#frame main {perform=[w drawPass]}`))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	perform, ok := tr.PropByName(decl, "perform")
	require.True(t, ok)
	elems := tr.Elements(perform)
	require.Len(t, elems, 2)
	assert.Equal(t, "w", tr.TokenText(elems[0]))
	assert.Equal(t, "drawPass", tr.TokenText(elems[1]))
}

func TestParseRootIsNodeZero(t *testing.T) {
	tr, err := Parse([]byte(`#buffer a {size=1} #buffer b {size=2}`))
	require.NoError(t, err)
	assert.Equal(t, ast.Array, tr.Tags[0])
	assert.Len(t, tr.Elements(0), 2)
}

func TestParseUnterminatedObjectErrors(t *testing.T) {
	_, err := Parse([]byte(`#buffer u {size=16`))
	require.Error(t, err)
}

func TestParseUnknownMacroErrors(t *testing.T) {
	_, err := Parse([]byte(`#notAThing x {}`))
	require.Error(t, err)
}

func TestParseDeepNestingRejected(t *testing.T) {
	src := "#define D="
	for i := 0; i < 100; i++ {
		src += "("
	}
	src += "1"
	for i := 0; i < 100; i++ {
		src += ")"
	}
	_, err := Parse([]byte(src))
	require.Error(t, err)
}

func TestParseMultiLineString(t *testing.T) {
	tr, err := Parse([]byte("#wgsl s {value=\"line one\nline two\"}"))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	v, ok := tr.PropByName(decl, "value")
	require.True(t, ok)
	assert.Equal(t, ast.StringValue, tr.Tags[v])
}
