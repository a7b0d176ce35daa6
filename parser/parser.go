// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser implements the recursive-descent parser described in
// spec.md §4.1: DSL source text to a typed [ast.Tree].
package parser

import (
	"fmt"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/lex"
	"pngc.dev/compiler/token"
)

// maxDepth bounds recursive grammar nesting (object/array/expr) so
// adversarial input fails with a [Error] instead of exhausting the
// goroutine stack, per spec.md §5/§9.
const maxDepth = 64

// maxArrayElems bounds the number of elements parsed from a single array
// literal, per spec.md §5's "Max array elements parsed: 256".
const maxArrayElems = 256

// Error reports a syntax error at a source byte offset.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

var macroKind = map[string]ast.Kind{
	"wgsl":            ast.MacroWgsl,
	"shaderModule":    ast.MacroShaderModule,
	"buffer":          ast.MacroBuffer,
	"texture":         ast.MacroTexture,
	"textureView":     ast.MacroTextureView,
	"sampler":         ast.MacroSampler,
	"bindGroupLayout": ast.MacroBindGroupLayout,
	"bindGroup":       ast.MacroBindGroup,
	"pipelineLayout":  ast.MacroPipelineLayout,
	"renderPipeline":  ast.MacroRenderPipeline,
	"computePipeline": ast.MacroComputePipeline,
	"renderPass":      ast.MacroRenderPass,
	"computePass":     ast.MacroComputePass,
	"renderBundle":    ast.MacroRenderBundle,
	"querySet":        ast.MacroQuerySet,
	"queue":           ast.MacroQueue,
	"frame":           ast.MacroFrame,
	"init":            ast.MacroInit,
	"animation":       ast.MacroAnimation,
	"data":            ast.MacroData,
	"wasmCall":        ast.MacroWasmCall,
	"imageBitmap":     ast.MacroImageBitmap,
	"define":          ast.MacroDefine,
}

// parser holds the mutable state of a single parse.
type parser struct {
	tree  *ast.Tree
	toks  []token.Token
	src   []byte
	pos   token.Index
	depth int
}

// Parse tokenizes and parses src into an [ast.Tree]. The root node (index
// 0) is a synthetic Array node: top-level declarations are collected
// into Tree's Extra pool and exposed via [ast.Tree.Elements] on the
// returned root, the same way any Array node exposes its elements.
func Parse(src []byte) (*ast.Tree, error) {
	toks, err := lex.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(src, toks)
}

// ParseTokens parses an already-tokenized source buffer.
func ParseTokens(src []byte, toks []token.Token) (*ast.Tree, error) {
	p := &parser{tree: ast.New(src, toks), toks: toks, src: src}
	// Node 0 is reserved for the root (spec.md §3 invariant); it is
	// populated once the full set of top-level declarations is known.
	root := p.tree.AddNode(ast.Array, 0, ast.Data{})

	var decls []ast.Index
	for p.cur().Kind != token.EOF {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	start, end := p.tree.AddExtra(decls)
	p.tree.NodeData[root] = ast.Data{LHS: start, RHS: end}
	return p.tree, nil
}

func (p *parser) cur() token.Token { return p.toks[p.pos] }
func (p *parser) offset() int      { return int(p.cur().Start) }
func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k token.Kind) (token.Index, error) {
	if p.cur().Kind != k {
		return 0, &Error{Offset: p.offset(), Message: fmt.Sprintf("expected %v, got %v", k, p.cur().Kind)}
	}
	idx := p.pos
	p.advance()
	return idx, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return &Error{Offset: p.offset(), Message: "max nesting depth exceeded"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// decl parses '#' macroName identifier object, or the special
// '#define' identifier '=' value form (spec.md does not brace #define).
func (p *parser) decl() (ast.Index, error) {
	macroTok, err := p.expect(token.Macro)
	if err != nil {
		return 0, err
	}
	// A Macro token's text includes its leading '#'.
	name := p.toks[macroTok].Text(p.src)[1:]
	kind, ok := macroKind[name]
	if !ok {
		return 0, &Error{Offset: int(p.toks[macroTok].Start), Message: "unknown macro " + name}
	}

	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return 0, err
	}

	if name == "define" {
		if _, err := p.expect(token.Equals); err != nil {
			return 0, err
		}
		val, err := p.value()
		if err != nil {
			return 0, err
		}
		return p.tree.AddNode(kind, nameTok, ast.Data{LHS: val}), nil
	}

	obj, err := p.object()
	if err != nil {
		return 0, err
	}
	return p.tree.AddNode(kind, nameTok, p.tree.NodeData[obj]), nil
}

// object parses '{' property* '}'.
func (p *parser) object() (ast.Index, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	start, err := p.expect(token.LBrace)
	if err != nil {
		return 0, err
	}
	var props []ast.PropRef
	for p.cur().Kind != token.RBrace {
		if p.cur().Kind == token.EOF {
			return 0, &Error{Offset: p.offset(), Message: "unterminated object"}
		}
		nameTok, err := p.expect(token.Identifier)
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.Equals); err != nil {
			return 0, err
		}
		val, err := p.value()
		if err != nil {
			return 0, err
		}
		props = append(props, ast.PropRef{NameTok: nameTok, Value: val})
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return 0, err
	}
	s, e := p.tree.AddExtraProps(props)
	return p.tree.AddNode(ast.Object, start, ast.Data{LHS: s, RHS: e}), nil
}

// array parses '[' value* ']', whitespace-separated, truncated to
// maxArrayElems per spec.md §5.
func (p *parser) array() (ast.Index, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	start, err := p.expect(token.LBracket)
	if err != nil {
		return 0, err
	}
	var elems []ast.Index
	for p.cur().Kind != token.RBracket {
		if p.cur().Kind == token.EOF {
			return 0, &Error{Offset: p.offset(), Message: "unterminated array"}
		}
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		v, err := p.value()
		if err != nil {
			return 0, err
		}
		if len(elems) < maxArrayElems {
			elems = append(elems, v)
		}
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return 0, err
	}
	s, e := p.tree.AddExtra(elems)
	return p.tree.AddNode(ast.Array, start, ast.Data{LHS: s, RHS: e}), nil
}

// value parses a single DSL value per spec.md §4.1's grammar. A value
// that starts with a number, '-', '(', or an identifier all enter the
// expr/term/factor chain, so an identifier-led value may continue as an
// arithmetic expression ("FLOAT_SIZE*4") rather than stopping at the
// identifier itself.
func (p *parser) value() (ast.Index, error) {
	tk := p.cur()
	switch tk.Kind {
	case token.Number, token.Minus, token.LParen, token.Identifier:
		return p.expr()
	case token.String:
		idx := p.pos
		p.advance()
		return p.tree.AddNode(ast.StringValue, idx, ast.Data{}), nil
	case token.Dollar:
		return p.reference()
	case token.LBrace:
		return p.object()
	case token.LBracket:
		return p.array()
	default:
		return 0, &Error{Offset: p.offset(), Message: fmt.Sprintf("unexpected token %v in value position", tk.Kind)}
	}
}

// reference parses '$' identifier '.' identifier.
func (p *parser) reference() (ast.Index, error) {
	start := p.pos
	if _, err := p.expect(token.Dollar); err != nil {
		return 0, err
	}
	nsTok, err := p.expect(token.Identifier)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.Dot); err != nil {
		return 0, err
	}
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return 0, err
	}
	ns := p.tree.AddNode(ast.IdentifierValue, nsTok, ast.Data{})
	nm := p.tree.AddNode(ast.IdentifierValue, nameTok, ast.Data{})
	return p.tree.AddNode(ast.Reference, start, ast.Data{LHS: ns, RHS: nm}), nil
}

// identifierValue parses a bare identifier, which may continue as a
// dotted value (uniform_access / builtin_ref / namespace-dotted
// identifier_value; disambiguation is postponed to the Analyzer per
// spec.md §4.1) if followed directly by '.'. Called from factor() as the
// identifier case of the expr chain, so the result can still take part
// in an enclosing arithmetic expression.
func (p *parser) identifierValue() (ast.Index, error) {
	idTok := p.pos
	p.advance()
	lhs := p.tree.AddNode(ast.IdentifierValue, idTok, ast.Data{})
	if p.cur().Kind != token.Dot {
		return lhs, nil
	}
	p.advance() // '.'
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return 0, err
	}
	rhs := p.tree.AddNode(ast.IdentifierValue, nameTok, ast.Data{})
	// The Analyzer assigns the final dotted-tag semantics (uniform access,
	// builtin ref, or namespace-dotted identifier); the parser only
	// records the (lhs, rhs) pair, per spec.md §4.1.
	return p.tree.AddNode(ast.UniformAccess, idTok, ast.Data{LHS: lhs, RHS: rhs}), nil
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (ast.Index, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	lhs, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.cur().Kind {
		case token.Plus:
			tok := p.pos
			p.advance()
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			lhs = p.tree.AddNode(ast.ExprAdd, tok, ast.Data{LHS: lhs, RHS: rhs})
		case token.Minus:
			tok := p.pos
			p.advance()
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			lhs = p.tree.AddNode(ast.ExprSub, tok, ast.Data{LHS: lhs, RHS: rhs})
		default:
			return lhs, nil
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *parser) term() (ast.Index, error) {
	lhs, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.cur().Kind {
		case token.Star:
			tok := p.pos
			p.advance()
			rhs, err := p.factor()
			if err != nil {
				return 0, err
			}
			lhs = p.tree.AddNode(ast.ExprMul, tok, ast.Data{LHS: lhs, RHS: rhs})
		case token.Slash:
			tok := p.pos
			p.advance()
			rhs, err := p.factor()
			if err != nil {
				return 0, err
			}
			lhs = p.tree.AddNode(ast.ExprDiv, tok, ast.Data{LHS: lhs, RHS: rhs})
		default:
			return lhs, nil
		}
	}
}

// factor := '-' factor | '(' expr ')' | number | identifier ('.' identifier)?
func (p *parser) factor() (ast.Index, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.cur().Kind {
	case token.Minus:
		tok := p.pos
		p.advance()
		inner, err := p.factor()
		if err != nil {
			return 0, err
		}
		return p.tree.AddNode(ast.ExprNegate, tok, ast.Data{LHS: inner}), nil
	case token.LParen:
		tok := p.pos
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return 0, err
		}
		return p.tree.AddNode(ast.ExprParen, tok, ast.Data{LHS: inner}), nil
	case token.Number:
		idx := p.pos
		p.advance()
		return p.tree.AddNode(ast.NumberValue, idx, ast.Data{}), nil
	case token.Identifier:
		// May be a bare identifier or a dotted value (uniform_access /
		// builtin_ref / namespace-dotted identifier); identifierValue
		// handles both, and either result can still be the left/right
		// operand of an enclosing '+'/'-'/'*'/'/'.
		return p.identifierValue()
	default:
		return 0, &Error{Offset: p.offset(), Message: fmt.Sprintf("unexpected token %v in expression", p.cur().Kind)}
	}
}
