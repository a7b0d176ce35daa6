// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pngb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewWriterHeader(t *testing.T) {
	w := NewWriter()
	b := w.Bytes()
	require.Len(t, b, 5)
	assert.Equal(t, Magic[:], b[:4])
	assert.Equal(t, Version, b[4])
}

func TestCreateBufferEncoding(t *testing.T) {
	w := NewWriter()
	w.CreateBuffer(3, 64, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	b := w.Bytes()[5:]
	require.Equal(t, byte(OpCreateBuffer), b[0])
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(b[1:3]))
	assert.Equal(t, uint32(64), binary.LittleEndian.Uint32(b[3:7]))
}

func TestDrawEncoding(t *testing.T) {
	w := NewWriter()
	w.Draw(3, 1, 0, 0)
	b := w.Bytes()[5:]
	require.Equal(t, byte(OpDraw), b[0])
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(b[1:5]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[5:9]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[9:13]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[13:17]))
}

func TestSentinelIDs(t *testing.T) {
	assert.Equal(t, ResourceID(0xFFFF), NoDepth)
	assert.Equal(t, ResourceID(0xFFFE), CanvasTexture)
}

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "create_buffer", OpCreateBuffer.String())
	assert.Equal(t, "dispatch", OpDispatch.String())
}

func TestWriteBufferInlinesData(t *testing.T) {
	w := NewWriter()
	w.WriteBuffer(1, 0, []byte{1, 2, 3, 4})
	b := w.Bytes()[5:]
	require.Equal(t, byte(OpWriteBuffer), b[0])
	length := binary.LittleEndian.Uint32(b[3:7])
	assert.Equal(t, uint32(4), length)
	assert.Equal(t, []byte{1, 2, 3, 4}, b[7:11])
}
