// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wgslresolve

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/sema"
)

func TestResolveSimpleSubstitution(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": &fstest.MapFile{Data: []byte("const n: u32 = VEC4_SIZE;")},
	}
	r := New(fsys, map[string]string{"VEC4_SIZE": "16"})
	text, diags := r.Resolve("main.wgsl")
	require.Empty(t, diags)
	assert.Equal(t, "const n: u32 = 16;\n", text)
}

func TestResolveDeclarationSiteNotSubstituted(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": &fstest.MapFile{Data: []byte("struct S { VEC4_SIZE : u32 }")},
	}
	r := New(fsys, map[string]string{"VEC4_SIZE": "16"})
	text, diags := r.Resolve("main.wgsl")
	require.Empty(t, diags)
	assert.Contains(t, text, "VEC4_SIZE : u32")
}

func TestResolveStringLiteralNotSubstituted(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": &fstest.MapFile{Data: []byte(`// "VEC4_SIZE"` + "\nconst n = VEC4_SIZE;")},
	}
	r := New(fsys, map[string]string{"VEC4_SIZE": "16"})
	text, _ := r.Resolve("main.wgsl")
	assert.Contains(t, text, `"VEC4_SIZE"`)
	assert.Contains(t, text, "const n = 16;")
}

func TestResolveDiamondImport(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wgsl": &fstest.MapFile{Data: []byte("#import \"common.wgsl\"\n#import \"b.wgsl\"\n#import \"c.wgsl\"\n")},
		"b.wgsl": &fstest.MapFile{Data: []byte("#import \"common.wgsl\"\nfn b() {}")},
		"c.wgsl": &fstest.MapFile{Data: []byte("#import \"common.wgsl\"\nfn c() {}")},
		"common.wgsl": &fstest.MapFile{Data: []byte("const COMMON = 1;")},
	}
	r := New(fsys, nil)
	text, diags := r.Resolve("a.wgsl")
	require.Empty(t, diags)
	assert.Contains(t, text, "fn b() {}")
	assert.Contains(t, text, "fn c() {}")
	assert.Contains(t, text, "const COMMON = 1;")
}

func TestResolveImportCycleDetected(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wgsl": &fstest.MapFile{Data: []byte("#import \"b.wgsl\"")},
		"b.wgsl": &fstest.MapFile{Data: []byte("#import \"a.wgsl\"")},
	}
	r := New(fsys, nil)
	_, diags := r.Resolve("a.wgsl")
	require.Len(t, diags, 1)
	assert.Equal(t, sema.WGSLImportCycle, diags[0].Kind)
}

func TestResolveMissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wgsl": &fstest.MapFile{Data: []byte("#import \"missing.wgsl\"")},
	}
	r := New(fsys, nil)
	_, diags := r.Resolve("a.wgsl")
	require.Len(t, diags, 1)
	assert.Equal(t, sema.WGSLFileNotFound, diags[0].Kind)
}

func TestResolveMathConstants(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": &fstest.MapFile{Data: []byte("const p = PI;")},
	}
	r := New(fsys, nil)
	text, diags := r.Resolve("main.wgsl")
	require.Empty(t, diags)
	assert.Contains(t, text, "const p = 3.141592653589793;")
}
