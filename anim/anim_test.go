// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/exprs"
	"pngc.dev/compiler/parser"
)

func TestFirstAnimationWins(t *testing.T) {
	tr, err := parser.Parse([]byte(`#animation a {duration=1} #animation b {duration=2}`))
	require.NoError(t, err)
	d, ok := First(tr)
	require.True(t, ok)
	assert.Equal(t, "a", tr.TokenText(d))
}

func TestEncodePreservesKeyOrder(t *testing.T) {
	tr, err := parser.Parse([]byte(`#animation a {duration=2 loop=1 target=$buffer.u}`))
	require.NoError(t, err)
	d, _ := First(tr)
	out := Encode(tr, exprs.Env{}, d)
	assert.Equal(t, `{"duration":2,"loop":1,"target":"buffer.u"}`, string(out))
}

func TestEncodeNestedKeyframes(t *testing.T) {
	tr, err := parser.Parse([]byte(`#animation a {keyframes=[{time=0 value=0}{time=1 value=1}]}`))
	require.NoError(t, err)
	d, _ := First(tr)
	out := Encode(tr, exprs.Env{}, d)
	assert.Equal(t, `{"keyframes":[{"time":0,"value":0},{"time":1,"value":1}]}`, string(out))
}

func TestEncodeNoAnimation(t *testing.T) {
	tr, err := parser.Parse([]byte(`#buffer u {size=4}`))
	require.NoError(t, err)
	_, ok := First(tr)
	assert.False(t, ok)
}

func TestEncodeStringValue(t *testing.T) {
	tr, err := parser.Parse([]byte(`#animation a {easing="linear"}`))
	require.NoError(t, err)
	d, _ := First(tr)
	out := Encode(tr, exprs.Env{}, d)
	assert.Equal(t, `{"easing":"linear"}`, string(out))
}

func TestEncodeUnknownIdentifierBecomesNull(t *testing.T) {
	tr, err := parser.Parse([]byte(`#animation a {value=MISSING*2}`))
	require.NoError(t, err)
	d, _ := First(tr)
	out := Encode(tr, exprs.Env{}, d)
	assert.Equal(t, `{"value":null}`, string(out))
}
