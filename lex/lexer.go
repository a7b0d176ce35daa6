// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lex tokenizes DSL source text into a flat [token.Token] stream.
package lex

import (
	"fmt"

	"pngc.dev/compiler/token"
)

// Error reports a lexical failure at a source byte offset.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Message)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// Lexer tokenizes a nul-terminated source buffer. The zero value is not
// usable; construct with [New].
type Lexer struct {
	src []byte
	pos int
}

// New returns a Lexer over src. src need not actually be nul-terminated;
// the sentinel described in spec.md §4.1 is simulated by bounds-checking
// every read instead of relying on a trailing zero byte.
func New(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Tokenize runs the lexer to completion, returning every token including
// a trailing [token.EOF], or the first lexical error encountered.
func Tokenize(src []byte) ([]token.Token, error) {
	lx := New(src)
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (lx *Lexer) byteAt(i int) byte {
	if i < 0 || i >= len(lx.src) {
		return 0
	}
	return lx.src[i]
}

func (lx *Lexer) cur() byte { return lx.byteAt(lx.pos) }

func (lx *Lexer) skipTrivia() {
	for lx.pos < len(lx.src) {
		b := lx.cur()
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			lx.pos++
		case b == '/' && lx.byteAt(lx.pos+1) == '/':
			for lx.pos < len(lx.src) && lx.cur() != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

// Next scans and returns the next token, advancing the lexer. At end of
// input it returns a [token.EOF] token repeatedly.
func (lx *Lexer) Next() (token.Token, error) {
	lx.skipTrivia()
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return token.Token{Kind: token.EOF, Start: uint32(start), Len: 0}, nil
	}

	b := lx.cur()
	switch {
	case b == '#':
		lx.pos++
		return lx.lexAfterHash(start)
	case b == '$':
		lx.pos++
		return token.Token{Kind: token.Dollar, Start: uint32(start), Len: 1}, nil
	case b == '.':
		lx.pos++
		return token.Token{Kind: token.Dot, Start: uint32(start), Len: 1}, nil
	case b == '=':
		lx.pos++
		return token.Token{Kind: token.Equals, Start: uint32(start), Len: 1}, nil
	case b == '{':
		lx.pos++
		return token.Token{Kind: token.LBrace, Start: uint32(start), Len: 1}, nil
	case b == '}':
		lx.pos++
		return token.Token{Kind: token.RBrace, Start: uint32(start), Len: 1}, nil
	case b == '[':
		lx.pos++
		return token.Token{Kind: token.LBracket, Start: uint32(start), Len: 1}, nil
	case b == ']':
		lx.pos++
		return token.Token{Kind: token.RBracket, Start: uint32(start), Len: 1}, nil
	case b == '(':
		lx.pos++
		return token.Token{Kind: token.LParen, Start: uint32(start), Len: 1}, nil
	case b == ')':
		lx.pos++
		return token.Token{Kind: token.RParen, Start: uint32(start), Len: 1}, nil
	case b == '+':
		lx.pos++
		return token.Token{Kind: token.Plus, Start: uint32(start), Len: 1}, nil
	case b == '-':
		lx.pos++
		return token.Token{Kind: token.Minus, Start: uint32(start), Len: 1}, nil
	case b == '*':
		lx.pos++
		return token.Token{Kind: token.Star, Start: uint32(start), Len: 1}, nil
	case b == '/':
		lx.pos++
		return token.Token{Kind: token.Slash, Start: uint32(start), Len: 1}, nil
	case b == ',':
		lx.pos++
		return token.Token{Kind: token.Comma, Start: uint32(start), Len: 1}, nil
	case b == '"':
		return lx.lexString(start)
	case isDigit(b):
		return lx.lexNumber(start)
	case isIdentStart(b):
		return lx.lexIdentifier(start)
	default:
		return token.Token{}, &Error{Offset: start, Message: fmt.Sprintf("unexpected byte %q", b)}
	}
}

func (lx *Lexer) lexAfterHash(start int) (token.Token, error) {
	identStart := lx.pos
	if !isIdentStart(lx.cur()) {
		return token.Token{}, &Error{Offset: start, Message: "expected identifier after '#'"}
	}
	for lx.pos < len(lx.src) && isIdentCont(lx.cur()) {
		lx.pos++
	}
	name := string(lx.src[identStart:lx.pos])
	kind := token.Identifier
	if token.MacroNames[name] {
		kind = token.Macro
	}
	return token.Token{Kind: kind, Start: uint32(start), Len: uint32(lx.pos - start)}, nil
}

func (lx *Lexer) lexIdentifier(start int) (token.Token, error) {
	for lx.pos < len(lx.src) && isIdentCont(lx.cur()) {
		lx.pos++
	}
	return token.Token{Kind: token.Identifier, Start: uint32(start), Len: uint32(lx.pos - start)}, nil
}

func (lx *Lexer) lexNumber(start int) (token.Token, error) {
	for lx.pos < len(lx.src) && isDigit(lx.cur()) {
		lx.pos++
	}
	if lx.cur() == '.' && isDigit(lx.byteAt(lx.pos+1)) {
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.cur()) {
			lx.pos++
		}
	}
	if lx.cur() == 'e' || lx.cur() == 'E' {
		save := lx.pos
		lx.pos++
		if lx.cur() == '+' || lx.cur() == '-' {
			lx.pos++
		}
		if isDigit(lx.cur()) {
			for lx.pos < len(lx.src) && isDigit(lx.cur()) {
				lx.pos++
			}
		} else {
			lx.pos = save
		}
	}
	return token.Token{Kind: token.Number, Start: uint32(start), Len: uint32(lx.pos - start)}, nil
}

func (lx *Lexer) lexString(start int) (token.Token, error) {
	lx.pos++ // opening quote
	for {
		if lx.pos >= len(lx.src) {
			return token.Token{}, &Error{Offset: start, Message: "unterminated string"}
		}
		b := lx.cur()
		if b == '\\' {
			lx.pos += 2
			continue
		}
		if b == '"' {
			lx.pos++
			return token.Token{Kind: token.String, Start: uint32(start), Len: uint32(lx.pos - start)}, nil
		}
		lx.pos++
	}
}
