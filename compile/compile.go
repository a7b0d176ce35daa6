// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile orchestrates the full pipeline spec.md §2 describes:
// lex, parse, analyze, then emit — producing a PNGB artifact and,
// when the source declares one, an #animation JSON sidecar.
package compile

import (
	"os"

	"pngc.dev/compiler/anim"
	"pngc.dev/compiler/emit"
	"pngc.dev/compiler/parser"
	"pngc.dev/compiler/sema"
	"pngc.dev/compiler/wgslresolve"
)

// Options configures a single Compile call.
type Options struct {
	// BaseDir is the directory #wgsl `file` properties resolve against.
	// It may be empty if the source only uses inline #wgsl `value` text.
	BaseDir string
	// Filename names the source for diagnostic messages; it does not
	// affect compilation.
	Filename string
}

// Result is everything Compile produces from one source file.
type Result struct {
	PNGB        []byte
	Animation   []byte // nil if the source declares no #animation
	Diagnostics []sema.Diagnostic
}

// HasErrors reports whether compilation produced any error-severity
// diagnostic; warnings (e.g. duplicate_definition) do not fail the
// compile, matching [sema.Analysis.HasErrors].
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == sema.SeverityError {
			return true
		}
	}
	return false
}

// Compile runs the full pipeline over source. A syntax error aborts
// immediately and is returned as a Go error, since no tree exists to
// analyze; every other kind of problem becomes a [sema.Diagnostic] on
// the returned Result instead, with PNGB left empty if analysis failed
// before emission could run.
func Compile(source []byte, opts Options) (*Result, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	an, err := sema.Analyze(tree)
	if err != nil {
		return nil, err
	}
	if an.HasErrors() {
		return &Result{Diagnostics: an.Diagnostics}, nil
	}

	var resolver *wgslresolve.Resolver
	if opts.BaseDir != "" {
		env, _ := emit.DefineEnv(tree)
		resolver = wgslresolve.New(os.DirFS(opts.BaseDir), emit.DefineTextEnv(env))
	}

	w, diags := emit.Emit(tree, an, resolver)
	result := &Result{PNGB: w.Bytes(), Diagnostics: diags}

	if decl, ok := anim.First(tree); ok {
		env, _ := emit.DefineEnv(tree)
		result.Animation = anim.Encode(tree, env, decl)
	}

	return result, nil
}
