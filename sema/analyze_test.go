// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/parser"
)

func analyze(t *testing.T, src string) *Analysis {
	t.Helper()
	tr, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	a, err := Analyze(tr)
	require.NoError(t, err)
	return a
}

func TestAnalyzeDuplicateDefinition(t *testing.T) {
	a := analyze(t, `#buffer u {size=4} #buffer u {size=8}`)
	require.False(t, a.HasErrors(), "a warning-severity duplicate_definition must not abort the compile")
	require.Len(t, a.Diagnostics, 1)
	assert.Equal(t, DuplicateDefinition, a.Diagnostics[0].Kind)
	assert.Equal(t, SeverityWarning, a.Diagnostics[0].Severity)
	_, ok := a.Symbols.Lookup(NSBuffer, "u")
	assert.True(t, ok, "the first declaration still wins the symbol table slot")
}

func TestAnalyzeReferenceResolves(t *testing.T) {
	a := analyze(t, `#renderPipeline rp {} #renderPass p {pipeline=$renderPipeline.rp draw=3}`)
	assert.False(t, a.HasErrors())
}

func TestAnalyzeUndefinedReference(t *testing.T) {
	a := analyze(t, `#renderPass p {pipeline=$renderPipeline.missing draw=3}`)
	require.True(t, a.HasErrors())
	assert.Equal(t, UndefinedReference, a.Diagnostics[0].Kind)
}

func TestAnalyzeBuiltinRefCanvas(t *testing.T) {
	a := analyze(t, `#texture t {width=canvas.width height=canvas.height}`)
	require.False(t, a.HasErrors())
	for idx, cls := range a.DottedClass {
		_ = idx
		assert.Equal(t, ClassBuiltinRef, cls)
	}
}

func TestAnalyzeInvalidCanvasField(t *testing.T) {
	a := analyze(t, `#texture t {width=canvas.bogus}`)
	require.True(t, a.HasErrors())
	assert.Equal(t, InvalidUniformAccess, a.Diagnostics[0].Kind)
}

func TestAnalyzeUniformAccessOnDeclaredBuffer(t *testing.T) {
	a := analyze(t, `#buffer code {size=16} #queue w {writeBuffer={buffer=code bufferOffset=0 data=code.inputs}}`)
	require.False(t, a.HasErrors())
	found := false
	for _, cls := range a.DottedClass {
		if cls == ClassUniformAccess {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeUndefinedUniformAccessSymbol(t *testing.T) {
	a := analyze(t, `#queue w {writeBuffer={buffer=u bufferOffset=0 data=nosuch.inputs}}`)
	require.True(t, a.HasErrors())
	assert.Equal(t, UndefinedReference, a.Diagnostics[0].Kind)
}

func TestAnalyzeNamespaceDottedIdentifier(t *testing.T) {
	a := analyze(t, `#renderPipeline rp {} #renderPass p {pipeline=renderPipeline.rp draw=3}`)
	require.False(t, a.HasErrors())
	found := false
	for _, cls := range a.DottedClass {
		if cls == ClassNamespaceDotted {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeBareBuiltinRecognized(t *testing.T) {
	a := analyze(t, `#queue w {writeBuffer={buffer=u bufferOffset=0 data=pngineInputs}}`)
	require.False(t, a.HasErrors())
	found := false
	for _, name := range a.Builtins {
		if name == "pngineInputs" {
			found = true
		}
	}
	assert.True(t, found)
}
