// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exprs evaluates the arithmetic expressions #define declarations
// and other numeric values hold, per spec.md §4.3: integer arithmetic
// truncates like Go's "/", while any operand touched by a non-integral
// #define becomes f32 float arithmetic for the rest of that expression.
package exprs

import (
	"fmt"

	"pngc.dev/compiler/ast"
)

// maxDepth bounds expression-tree recursion during evaluation so a very
// deeply nested expression fails with an [Error].
const maxDepth = 32

// Error reports a failure to evaluate an expression.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("expression error at offset %d: %s", e.Offset, e.Message)
}

// Value is the result of evaluating an expression: either an integer or
// an f32-typed float, never both.
type Value struct {
	IsFloat bool
	Int     int64
	Float   float32
}

func intVal(v int64) Value  { return Value{Int: v} }
func fltVal(v float32) Value { return Value{IsFloat: true, Float: v} }

// Float32 returns v as a float32 regardless of its own kind.
func (v Value) Float32() float32 {
	if v.IsFloat {
		return v.Float
	}
	return float32(v.Int)
}

// Env resolves a bare identifier encountered in an expression to the
// value of a previously evaluated #define, per spec.md §4.3's "unknown
// identifier evaluates to None" rule: a missing binding is not itself an
// error, it only becomes one if the expression actually needs the value.
type Env map[string]Value

// Eval evaluates the expression rooted at idx within tree, using env to
// resolve bare identifiers (#define references) to already-evaluated
// values; identifiers are looked up, never evaluated recursively. The
// depth limit counts expression-tree nesting.
func Eval(tree *ast.Tree, idx ast.Index, env Env) (Value, error) {
	return eval(tree, idx, env, 0)
}

func eval(tree *ast.Tree, idx ast.Index, env Env, depth int) (Value, error) {
	if depth > maxDepth {
		tok := tree.Token(idx)
		return Value{}, &Error{Offset: int(tok.Start), Message: "expression evaluation exceeded max depth"}
	}

	switch tree.Tags[idx] {
	case ast.NumberValue:
		return evalNumber(tree, idx)
	case ast.IdentifierValue:
		name := tree.TokenText(idx)
		v, ok := env[name]
		if !ok {
			tok := tree.Token(idx)
			return Value{}, &Error{Offset: int(tok.Start), Message: fmt.Sprintf("undefined identifier %q in expression", name)}
		}
		return v, nil
	case ast.ExprNegate:
		v, err := eval(tree, tree.Single(idx), env, depth+1)
		if err != nil {
			return Value{}, err
		}
		if v.IsFloat {
			return fltVal(-v.Float), nil
		}
		return intVal(-v.Int), nil
	case ast.ExprParen:
		return eval(tree, tree.Single(idx), env, depth+1)
	case ast.ExprAdd, ast.ExprSub, ast.ExprMul, ast.ExprDiv:
		l, r := tree.Pair(idx)
		lv, err := eval(tree, l, env, depth+1)
		if err != nil {
			return Value{}, err
		}
		rv, err := eval(tree, r, env, depth+1)
		if err != nil {
			return Value{}, err
		}
		return applyOp(tree.Tags[idx], lv, rv)
	default:
		tok := tree.Token(idx)
		return Value{}, &Error{Offset: int(tok.Start), Message: "node is not a valid expression"}
	}
}

func evalNumber(tree *ast.Tree, idx ast.Index) (Value, error) {
	text := tree.TokenText(idx)
	var i int64
	var isFloat bool
	var f float64
	n, err := fmt.Sscanf(text, "%d", &i)
	if err != nil || n != 1 || hasFloatSyntax(text) {
		isFloat = true
		if _, err := fmt.Sscanf(text, "%g", &f); err != nil {
			tok := tree.Token(idx)
			return Value{}, &Error{Offset: int(tok.Start), Message: fmt.Sprintf("malformed number %q", text)}
		}
	}
	if isFloat {
		return fltVal(float32(f)), nil
	}
	return intVal(i), nil
}

func hasFloatSyntax(text string) bool {
	for _, r := range text {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}

// applyOp combines two values, promoting the result to f32 the moment
// either operand is already float, per spec.md §4.3. Integer division
// truncates toward zero like Go's native "/"; float division follows
// IEEE-754 semantics, including producing Inf/NaN rather than erroring.
func applyOp(kind ast.Kind, l, r Value) (Value, error) {
	if l.IsFloat || r.IsFloat {
		lf, rf := l.Float32(), r.Float32()
		switch kind {
		case ast.ExprAdd:
			return fltVal(lf + rf), nil
		case ast.ExprSub:
			return fltVal(lf - rf), nil
		case ast.ExprMul:
			return fltVal(lf * rf), nil
		case ast.ExprDiv:
			return fltVal(lf / rf), nil
		}
	}
	switch kind {
	case ast.ExprAdd:
		return intVal(l.Int + r.Int), nil
	case ast.ExprSub:
		return intVal(l.Int - r.Int), nil
	case ast.ExprMul:
		return intVal(l.Int * r.Int), nil
	case ast.ExprDiv:
		if r.Int == 0 {
			return Value{}, &Error{Message: "integer division by zero"}
		}
		return intVal(l.Int / r.Int), nil
	}
	return Value{}, &Error{Message: "unsupported operator"}
}
