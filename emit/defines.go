// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit lowers an analyzed [ast.Tree] into a PNGB artifact, per
// spec.md §4.5–§4.9: it assigns each declared symbol a per-namespace
// resource id in declaration order, then walks #frame/#queue/#renderPass/
// #computePass bodies emitting the corresponding [pngb] instructions.
package emit

import (
	"strconv"
	"strings"

	"pngc.dev/compiler/ast"
	"pngc.dev/compiler/exprs"
	"pngc.dev/compiler/sema"
)

// DefineEnv evaluates every #define in tree, for use by callers (such
// as the anim package) that need the same resolved constants the
// Emitter uses but run outside of an Emit call.
func DefineEnv(tree *ast.Tree) (exprs.Env, []sema.Diagnostic) {
	return buildDefineEnv(tree)
}

// buildDefineEnv evaluates every #define in source order, accumulating
// an [exprs.Env] later #defines (and every other numeric value in the
// file) resolve identifiers against.
func buildDefineEnv(tree *ast.Tree) (exprs.Env, []sema.Diagnostic) {
	env := exprs.Env{}
	var diags []sema.Diagnostic
	for _, d := range tree.Elements(0) {
		if tree.Tags[d] != ast.MacroDefine {
			continue
		}
		name := tree.TokenText(d)
		val, err := exprs.Eval(tree, tree.NodeData[d].LHS, env)
		if err != nil {
			tok := tree.Token(d)
			diags = append(diags, sema.Diagnostic{
				Kind:    sema.InvalidExpression,
				Span:    sema.Span{Start: int(tok.Start), End: int(tok.Start + tok.Len)},
				Message: err.Error(),
			})
			continue
		}
		env[name] = val
	}
	return env, diags
}

// DefineTextEnv renders every bound define as substitution text for the
// WGSL resolver (spec.md §4.4).
func DefineTextEnv(env exprs.Env) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		if v.IsFloat {
			out[k] = strconv.FormatFloat(float64(v.Float), 'f', -1, 32)
		} else {
			out[k] = strconv.FormatInt(v.Int, 10)
		}
	}
	return out
}

// evalInt evaluates an Object property as an integer-valued expression.
func evalInt(tree *ast.Tree, obj ast.Index, prop string, env exprs.Env) (int64, bool) {
	v, ok := tree.PropByName(obj, prop)
	if !ok {
		return 0, false
	}
	val, err := exprs.Eval(tree, v, env)
	if err != nil {
		return 0, false
	}
	if val.IsFloat {
		return int64(val.Float), true
	}
	return val.Int, true
}

// evalAsFloat evaluates a value node directly (rather than looking it
// up as an Object property) as a float-valued expression.
func evalAsFloat(tree *ast.Tree, node ast.Index, env exprs.Env) (float32, error) {
	val, err := exprs.Eval(tree, node, env)
	if err != nil {
		return 0, err
	}
	return val.Float32(), nil
}

// evalFloat evaluates an Object property as a float-valued expression.
func evalFloat(tree *ast.Tree, obj ast.Index, prop string, env exprs.Env) (float32, bool) {
	v, ok := tree.PropByName(obj, prop)
	if !ok {
		return 0, false
	}
	val, err := exprs.Eval(tree, v, env)
	if err != nil {
		return 0, false
	}
	return val.Float32(), true
}

// propString returns an Object's string-valued property, decoded from
// its quoted and escaped source form. It reports false when the property
// is absent or its value is not a string literal.
func propString(tree *ast.Tree, obj ast.Index, prop string) (string, bool) {
	v, ok := tree.PropByName(obj, prop)
	if !ok || tree.Tags[v] != ast.StringValue {
		return "", false
	}
	return decodeString(tree.TokenText(v)), true
}

// propIdentifier returns an Object's bare-identifier-valued property
// (e.g. a reference target's unquoted name).
func propIdentifier(tree *ast.Tree, obj ast.Index, prop string) (string, bool) {
	v, ok := tree.PropByName(obj, prop)
	if !ok {
		return "", false
	}
	return tree.TokenText(v), true
}

// propFlags returns the identifier names of an Object's array-valued
// property (e.g. usage=[UNIFORM COPY_DST]).
func propFlags(tree *ast.Tree, obj ast.Index, prop string) []string {
	v, ok := tree.PropByName(obj, prop)
	if !ok {
		return nil
	}
	if tree.Tags[v] != ast.Array {
		return nil
	}
	var out []string
	for _, e := range tree.Elements(v) {
		out = append(out, tree.TokenText(e))
	}
	return out
}

func decodeString(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	inner := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
