// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pngc.dev/compiler/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeMacroAndObject(t *testing.T) {
	src := []byte(`#buffer u {size=16 usage=[UNIFORM COPY_DST]}`)
	toks, err := Tokenize(src)
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.Macro, token.Identifier, token.LBrace,
		token.Identifier, token.Equals, token.Number,
		token.Identifier, token.Equals, token.LBracket,
		token.Identifier, token.Identifier, token.RBracket,
		token.RBrace, token.EOF,
	}, kinds(toks))
}

func TestTokenizeReferenceAndDotted(t *testing.T) {
	src := []byte(`$queue.reset`)
	toks, err := Tokenize(src)
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Dollar, token.Identifier, token.Dot, token.Identifier, token.EOF}, kinds(toks))
}

func TestTokenizeExpression(t *testing.T) {
	src := []byte(`(4+4)*8/2`)
	toks, err := Tokenize(src)
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.LParen, token.Number, token.Plus, token.Number, token.RParen,
		token.Star, token.Number, token.Slash, token.Number, token.EOF,
	}, kinds(toks))
}

func TestTokenizeScientificNumber(t *testing.T) {
	src := []byte(`1.5e6`)
	toks, err := Tokenize(src)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "1.5e6", toks[0].Text(src))
}

func TestTokenizeString(t *testing.T) {
	src := []byte(`"let x = \"PI\";"`)
	toks, err := Tokenize(src)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize([]byte(`"abc`))
	require.Error(t, err)
}

func TestTokenizeNeverPanics(t *testing.T) {
	// Arbitrary byte soup must not panic; it may return an error.
	inputs := [][]byte{
		{0x00, 0xff, 0x01},
		[]byte("#"),
		[]byte("$"),
		[]byte(`"`),
		[]byte("\xe2\x98\x83"),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = Tokenize(in)
		})
	}
}
