// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/parser"
	"pngc.dev/compiler/pngb"
	"pngc.dev/compiler/sema"
)

func mustEmit(t *testing.T, src string) []byte {
	t.Helper()
	tree, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	an, err := sema.Analyze(tree)
	require.NoError(t, err)
	require.False(t, an.HasErrors(), "%v", an.Diagnostics)
	w, diags := Emit(tree, an, nil)
	require.Empty(t, diags)
	return w.Bytes()
}

func TestEmitBufferInstructionBytes(t *testing.T) {
	out := mustEmit(t, `#buffer u {size=16 usage=[UNIFORM COPY_DST]}`)

	want := pngb.RecordCommands(func(w *pngb.Writer) {
		w.CreateBuffer(0, 16, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	})
	assert.True(t, bytes.Contains(out, want), "expected create_buffer instruction bytes in output")
	assert.Equal(t, pngb.Magic[:], out[:4])
	assert.Equal(t, pngb.Version, out[4])
}

func TestEmitTextureFollowsCanvasSentinel(t *testing.T) {
	out := mustEmit(t, `#texture t {width=canvas.width height=canvas.height format=RGBA8Unorm usage=[RENDER_ATTACHMENT]}`)

	want := pngb.RecordCommands(func(w *pngb.Writer) {
		w.CreateTexture(0, FollowsCanvas, FollowsCanvas, wgpu.TextureFormatRGBA8Unorm, wgpu.TextureUsageRenderAttachment)
	})
	assert.True(t, bytes.Contains(out, want))
}

func TestEmitImageBitmapRecordsSourcePath(t *testing.T) {
	out := mustEmit(t, `#imageBitmap logo {file="assets/logo.png"}`)

	want := pngb.RecordCommands(func(w *pngb.Writer) {
		w.CreateImageBitmap(0, "assets/logo.png")
	})
	assert.True(t, bytes.Contains(out, want))
}

func TestEmitRenderBundleRecordsNestedCommands(t *testing.T) {
	src := `
#wgsl vs {value="@vertex fn main() {}"}
#wgsl fs {value="@fragment fn main() {}"}
#shaderModule v {code=$wgsl.vs}
#shaderModule f {code=$wgsl.fs}
#pipelineLayout pl {bindGroupLayouts=[]}
#renderPipeline tri {layout=$pipelineLayout.pl vertex=$shaderModule.v fragment=$shaderModule.f topology=TriangleList cullMode=None colorFormat=RGBA8Unorm}
#renderBundle rb {pipeline=$renderPipeline.tri draw=3}
`
	out := mustEmit(t, src)

	bundleCommands := pngb.RecordCommands(func(w *pngb.Writer) {
		w.SetPipeline(0)
		w.Draw(3, 1, 0, 0)
	})
	want := pngb.RecordCommands(func(w *pngb.Writer) {
		w.CreateRenderBundle(0, bundleCommands)
	})
	assert.True(t, bytes.Contains(out, want))
}

func TestEmitRenderPassExecutesBundles(t *testing.T) {
	src := `
#wgsl vs {value="@vertex fn main() {}"}
#wgsl fs {value="@fragment fn main() {}"}
#shaderModule v {code=$wgsl.vs}
#shaderModule f {code=$wgsl.fs}
#pipelineLayout pl {bindGroupLayouts=[]}
#renderPipeline tri {layout=$pipelineLayout.pl vertex=$shaderModule.v fragment=$shaderModule.f topology=TriangleList cullMode=None colorFormat=RGBA8Unorm}
#renderBundle rb {pipeline=$renderPipeline.tri draw=3}
#renderPass drawPass {pipeline=$renderPipeline.tri executeBundles=[$renderBundle.rb]}
`
	out := mustEmit(t, src)

	want := pngb.RecordCommands(func(w *pngb.Writer) {
		w.ExecuteBundles([]pngb.ResourceID{0})
	})
	assert.True(t, bytes.Contains(out, want))
}

func TestEmitBindGroupsTruncatedToMaxSlots(t *testing.T) {
	var src bytes.Buffer
	src.WriteString(`#bindGroupLayout bgl {entries=[]}` + "\n")
	for i := 0; i < maxSlots+10; i++ {
		fmt.Fprintf(&src, "#bindGroup g%d {layout=$bindGroupLayout.bgl entries=[]}\n", i)
	}
	src.WriteString(`#pipelineLayout pl {bindGroupLayouts=[]}` + "\n")
	src.WriteString(`#wgsl cs {value="@compute @workgroup_size(1) fn main() {}"}` + "\n")
	src.WriteString(`#shaderModule c {code=$wgsl.cs}` + "\n")
	src.WriteString(`#computePipeline cp {layout=$pipelineLayout.pl module=$shaderModule.c entryPoint=main}` + "\n")
	src.WriteString("#computePass cpass {pipeline=$computePipeline.cp bindGroups=[")
	for i := 0; i < maxSlots+10; i++ {
		if i > 0 {
			src.WriteByte(' ')
		}
		fmt.Fprintf(&src, "$bindGroup.g%d", i)
	}
	src.WriteString("]}\n")

	tree, err := parser.Parse(src.Bytes())
	require.NoError(t, err)
	an, err := sema.Analyze(tree)
	require.NoError(t, err)
	require.False(t, an.HasErrors(), "%v", an.Diagnostics)

	env, _ := buildDefineEnv(tree)
	e := &emitter{tree: tree, an: an, ids: newIDs(), env: env, w: pngb.NewWriter()}
	e.emitBindGroupLayouts()
	e.emitBindGroups()

	var passNode ast.Index
	for _, d := range tree.Elements(0) {
		if tree.Tags[d] == ast.MacroComputePass {
			passNode = d
		}
	}
	require.NotZero(t, passNode)

	groups := e.bindGroupsOf(passNode)
	assert.Len(t, groups, maxSlots)
}
