// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token defines the lexical token kinds produced by the lexer
// and the flat token stream the parser walks.
package token

import "fmt"

// Kind identifies the lexical class of a [Token].
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Hash        // '#'
	Dollar      // '$'
	Dot         // '.'
	Equals      // '='
	LBrace      // '{'
	RBrace      // '}'
	LBracket    // '['
	RBracket    // ']'
	LParen      // '('
	RParen      // ')'
	Plus        // '+'
	Minus       // '-'
	Star        // '*'
	Slash       // '/'
	Comma       // ',' (tolerated but not required between array elements)

	Identifier
	Number
	String

	// Macro is a '#' followed immediately by a reserved declaration-kind
	// identifier (wgsl, buffer, renderPass, ...). The lexer classifies it
	// so the parser does not need to re-check a keyword table per token.
	Macro
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Hash:       "'#'",
	Dollar:     "'$'",
	Dot:        "'.'",
	Equals:     "'='",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
	LParen:     "'('",
	RParen:     "')'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Comma:      "','",
	Identifier: "identifier",
	Number:     "number",
	String:     "string",
	Macro:      "macro",
}

// String returns the human-readable name of the kind, for diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Index is the position of a [Token] within a [Token] stream.
type Index uint32

// Token is a single lexical token: its kind plus the byte offset and
// length of its source text. No token stores a copy of its text; callers
// slice the original source with Start/Len when the text is needed.
type Token struct {
	Kind  Kind
	Start uint32
	Len   uint32
}

// Text returns the token's source text, slicing src at [Start, Start+Len).
func (t Token) Text(src []byte) string {
	return string(src[t.Start : t.Start+t.Len])
}

// MacroNames is the closed set of declaration-kind identifiers that follow
// a '#' to form a [Macro] token, per spec.md's grammar sketch.
var MacroNames = map[string]bool{
	"wgsl":             true,
	"shaderModule":     true,
	"buffer":           true,
	"texture":          true,
	"textureView":      true,
	"sampler":          true,
	"bindGroupLayout":  true,
	"bindGroup":        true,
	"pipelineLayout":   true,
	"renderPipeline":   true,
	"computePipeline":  true,
	"renderPass":       true,
	"computePass":      true,
	"renderBundle":     true,
	"querySet":         true,
	"queue":            true,
	"frame":            true,
	"init":             true,
	"animation":        true,
	"data":             true,
	"wasmCall":         true,
	"imageBitmap":      true,
	"define":           true,
}
