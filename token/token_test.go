// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{EOF, "eof"},
		{Hash, "'#'"},
		{Macro, "macro"},
		{Identifier, "identifier"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.k.String())
	}
}

func TestTokenText(t *testing.T) {
	src := []byte(`#buffer myBuf`)
	tok := Token{Kind: Identifier, Start: 8, Len: 5}
	assert.Equal(t, "myBuf", tok.Text(src))
}

func TestMacroNames(t *testing.T) {
	assert.True(t, MacroNames["renderPass"])
	assert.True(t, MacroNames["wasmCall"])
	assert.False(t, MacroNames["notAMacro"])
}
