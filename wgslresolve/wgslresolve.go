// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wgslresolve resolves a #wgsl declaration's source file into its
// final WGSL text: recursive `#import "path"` directives are inlined
// depth-first with memoization and cycle detection, then every #define
// constant (plus the built-in math constants) is substituted in, per
// spec.md §4.4.
package wgslresolve

import (
	"bufio"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"pngc.dev/compiler/exprs"
	"pngc.dev/compiler/sema"
)

// mathConstants are merged under the user's #define environment so WGSL
// source may reference them without a matching #define in the DSL file.
var mathConstants = map[string]string{
	"PI":  "3.141592653589793",
	"TAU": "6.283185307179586",
	"E":   "2.718281828459045",
}

// Resolver resolves #import directives against an [fs.FS] rooted at the
// compile's base directory, memoizing each file's resolved text so a
// diamond-shaped import graph is read and substituted only once per file.
type Resolver struct {
	fsys    fs.FS
	cache   map[string]string
	Defines map[string]string
}

// New returns a Resolver rooted at fsys. defines holds the already
// evaluated #define constants (spec.md §4.3), formatted for textual
// substitution.
func New(fsys fs.FS, defines map[string]string) *Resolver {
	env := make(map[string]string, len(defines)+len(mathConstants))
	for k, v := range mathConstants {
		env[k] = v
	}
	for k, v := range defines {
		env[k] = v
	}
	return &Resolver{fsys: fsys, cache: map[string]string{}, Defines: env}
}

// ValueText renders an evaluated #define [exprs.Value] the way WGSL
// substitution expects it: integers without a decimal point, floats with
// one, and never in exponential notation (WGSL float literals don't
// support it as cleanly as %g does).
func ValueText(v exprs.Value) string {
	if !v.IsFloat {
		return strconv.FormatInt(v.Int, 10)
	}
	s := strconv.FormatFloat(float64(v.Float), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ResolveText substitutes #define constants into an already-in-memory
// WGSL string (a #wgsl declaration's inline `value` property, which has
// no file path and so cannot itself contain #import directives).
func (r *Resolver) ResolveText(text string) string {
	return substituteDefines(text, r.Defines)
}

// Resolve reads the WGSL file at path, inlines every #import it
// transitively reaches, substitutes #define constants, and returns the
// final text plus any diagnostics encountered.
func (r *Resolver) Resolve(path string) (string, []sema.Diagnostic) {
	var diags []sema.Diagnostic
	text := r.resolveImports(path, nil, &diags)
	return substituteDefines(text, r.Defines), diags
}

func (r *Resolver) resolveImports(path string, stack []string, diags *[]sema.Diagnostic) string {
	if cached, ok := r.cache[path]; ok {
		return cached
	}
	for _, p := range stack {
		if p == path {
			*diags = append(*diags, sema.Diagnostic{
				Kind:    sema.WGSLImportCycle,
				Message: fmt.Sprintf("import cycle detected: %s -> %s", strings.Join(stack, " -> "), path),
			})
			return ""
		}
	}

	raw, err := fs.ReadFile(r.fsys, path)
	if err != nil {
		*diags = append(*diags, sema.Diagnostic{
			Kind:    sema.WGSLFileNotFound,
			Message: fmt.Sprintf("wgsl file not found: %s", path),
		})
		return ""
	}

	var out strings.Builder
	stack = append(stack, path)
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if imp, ok := parseImportDirective(line); ok {
			out.WriteString(r.resolveImports(imp, stack, diags))
			out.WriteByte('\n')
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	resolved := out.String()
	r.cache[path] = resolved
	return resolved
}

// parseImportDirective recognizes a line of the form
// `#import "relative/path.wgsl"`, ignoring leading whitespace.
func parseImportDirective(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	const prefix = "#import "
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[len(prefix):])
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

// substituteDefines replaces whole-word occurrences of each key in env
// with its value text, skipping occurrences inside string literals and
// at declaration sites (an identifier followed, within 16 whitespace
// characters, by ':' — a WGSL struct field or let/var type annotation,
// which must keep its own name).
func substituteDefines(src string, env map[string]string) string {
	var out strings.Builder
	out.Grow(len(src))
	inString := false
	i := 0
	for i < len(src) {
		c := src[i]
		if c == '"' {
			inString = !inString
			out.WriteByte(c)
			i++
			continue
		}
		if inString || !isIdentStart(c) {
			out.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(src) && isIdentCont(src[j]) {
			j++
		}
		word := src[i:j]
		val, ok := env[word]
		if !ok || isDeclarationSite(src, j) {
			out.WriteString(word)
		} else {
			out.WriteString(val)
		}
		i = j
	}
	return out.String()
}

func isDeclarationSite(src string, from int) bool {
	budget := 17 // up to 16 whitespace bytes, then the ':' itself
	for k := from; k < len(src) && budget > 0; k, budget = k+1, budget-1 {
		switch src[k] {
		case ' ', '\t', '\r', '\n':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
