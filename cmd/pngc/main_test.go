// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/compile"
)

func TestLoadConfigEmptyPath(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config{}, c)
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pngc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_dir: shaders\noutput: out.pngb\n"), 0o644))

	c, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "shaders", c.BaseDir)
	assert.Equal(t, "out.pngb", c.Output)
}

func TestWriteOutputDerivesDefaultPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scene.pngl")
	result := &compile.Result{PNGB: []byte{'P', 'N', 'G', 'B', 1}}

	require.NoError(t, writeOutput("", src, result))

	out, err := os.ReadFile(filepath.Join(dir, "scene.pngb"))
	require.NoError(t, err)
	assert.Equal(t, result.PNGB, out)
}

func TestWriteOutputWritesAnimationSidecar(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "scene.pngb")
	result := &compile.Result{PNGB: []byte{'P', 'N', 'G', 'B', 1}, Animation: []byte(`{"duration":1}`)}

	require.NoError(t, writeOutput(out, filepath.Join(dir, "scene.pngl"), result))

	anim, err := os.ReadFile(filepath.Join(dir, "scene.anim.json"))
	require.NoError(t, err)
	assert.Equal(t, result.Animation, anim)
}

func TestRunReportsMissingSource(t *testing.T) {
	code := run([]string{filepath.Join(t.TempDir(), "missing.pngl")})
	assert.Equal(t, 1, code)
}

func TestRunUsageErrorOnWrongArgCount(t *testing.T) {
	code := run([]string{})
	assert.Equal(t, 2, code)
}
