// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/parser"
)

func defineValue(t *testing.T, src string) ast.Index {
	t.Helper()
	tr, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	decl := tr.Elements(0)[0]
	return tr.NodeData[decl].LHS
}

func TestEvalIntegerDivisionTruncates(t *testing.T) {
	tr, err := parser.Parse([]byte(`#define X=7/2`))
	require.NoError(t, err)
	v, err := Eval(tr, tr.NodeData[tr.Elements(0)[0]].LHS, Env{})
	require.NoError(t, err)
	assert.False(t, v.IsFloat)
	assert.Equal(t, int64(3), v.Int)
}

func TestEvalFloatPromotion(t *testing.T) {
	tr, err := parser.Parse([]byte(`#define X=7/2.0`))
	require.NoError(t, err)
	v, err := Eval(tr, tr.NodeData[tr.Elements(0)[0]].LHS, Env{})
	require.NoError(t, err)
	assert.True(t, v.IsFloat)
	assert.InDelta(t, 3.5, v.Float, 1e-6)
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	tr, err := parser.Parse([]byte(`#define X=(4+4)*8/2`))
	require.NoError(t, err)
	v, err := Eval(tr, tr.NodeData[tr.Elements(0)[0]].LHS, Env{})
	require.NoError(t, err)
	assert.Equal(t, int64(32), v.Int)
}

func TestEvalReferencesPriorDefine(t *testing.T) {
	tr, err := parser.Parse([]byte(`#define VEC4_SIZE=FLOAT_SIZE*4`))
	require.NoError(t, err)
	idx := tr.NodeData[tr.Elements(0)[0]].LHS
	v, err := Eval(tr, idx, Env{"FLOAT_SIZE": intVal(4)})
	require.NoError(t, err)
	assert.Equal(t, int64(16), v.Int)
}

func TestEvalUndefinedIdentifierErrors(t *testing.T) {
	tr, err := parser.Parse([]byte(`#define X=MISSING*2`))
	require.NoError(t, err)
	_, err = Eval(tr, tr.NodeData[tr.Elements(0)[0]].LHS, Env{})
	require.Error(t, err)
}

func TestEvalNegativeNumber(t *testing.T) {
	tr, err := parser.Parse([]byte(`#define X=-4`))
	require.NoError(t, err)
	v, err := Eval(tr, tr.NodeData[tr.Elements(0)[0]].LHS, Env{})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), v.Int)
}
