// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/pngb"
)

func TestCompileTriangle(t *testing.T) {
	src := `
#wgsl vs {value="@vertex fn main() {}"}
#wgsl fs {value="@fragment fn main() {}"}
#shaderModule v {code=$wgsl.vs}
#shaderModule f {code=$wgsl.fs}
#pipelineLayout pl {bindGroupLayouts=[]}
#renderPipeline tri {layout=$pipelineLayout.pl vertex=$shaderModule.v fragment=$shaderModule.f topology=TriangleList cullMode=None colorFormat=RGBA8Unorm}
#renderPass drawPass {pipeline=$renderPipeline.tri draw=3}
#frame main {perform=[drawPass]}
`
	res, err := Compile([]byte(src), Options{})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.NotEmpty(t, res.PNGB)
	assert.Equal(t, pngb.Magic[:], res.PNGB[:4])
}

func TestCompileAnimatedUniform(t *testing.T) {
	src := `
#buffer u {size=16 usage=[UNIFORM COPY_DST]}
#animation a {target=$buffer.u duration=2 loop=1}
`
	res, err := Compile([]byte(src), Options{})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.NotNil(t, res.Animation)
	assert.Equal(t, `{"target":"buffer.u","duration":2,"loop":1}`, string(res.Animation))
}

func TestCompileArithmeticBufferSize(t *testing.T) {
	src := `
#define FLOAT_SIZE=4
#define VEC4_SIZE=FLOAT_SIZE*4
#buffer u {size=VEC4_SIZE*2 usage=[UNIFORM COPY_DST]}
`
	res, err := Compile([]byte(src), Options{})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.NotEmpty(t, res.PNGB)
}

func TestCompileInitExpansion(t *testing.T) {
	src := `
#wgsl cs {value="@compute @workgroup_size(64) fn main() {}"}
#shaderModule c {code=$wgsl.cs}
#buffer b {size=4096 usage=[STORAGE COPY_DST]}
#init setup {buffer=$buffer.b shader=$shaderModule.c params=[1.0 2.0]}
#frame main {perform=[setup]}
`
	res, err := Compile([]byte(src), Options{})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.NotEmpty(t, res.PNGB)
}

func TestCompileUndefinedReferenceProducesDiagnostic(t *testing.T) {
	src := `#renderPass p {pipeline=$renderPipeline.missing draw=3}`
	res, err := Compile([]byte(src), Options{})
	require.NoError(t, err)
	require.True(t, res.HasErrors())
	assert.Empty(t, res.PNGB)
}

func TestCompileSyntaxErrorReturnsGoError(t *testing.T) {
	_, err := Compile([]byte(`#buffer u {size=16`), Options{})
	require.Error(t, err)
}
