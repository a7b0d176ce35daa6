// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sema

import "fmt"

// DiagnosticKind classifies a [Diagnostic]. The string values are used
// verbatim in diagnostic output, so they must not change once emitted.
type DiagnosticKind string

const (
	DuplicateDefinition  DiagnosticKind = "duplicate_definition"
	UndefinedReference   DiagnosticKind = "undefined_reference"
	WGSLImportCycle      DiagnosticKind = "wgsl_import_cycle"
	WGSLFileNotFound     DiagnosticKind = "wgsl_file_not_found"
	WASMFileNotFound     DiagnosticKind = "wasm_file_not_found"
	InvalidUniformAccess DiagnosticKind = "invalid_uniform_access"
	InvalidExpression    DiagnosticKind = "invalid_expression"
)

// Severity grades a [Diagnostic]. Only SeverityError diagnostics make
// Analysis.HasErrors true and abort emission; warnings and info notes
// are informational and still allow the compile to produce a PNGB.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is one finding from analysis. The compiler never panics on
// malformed-but-syntactically-valid DSL input; every such condition
// becomes a Diagnostic instead.
type Diagnostic struct {
	Severity Severity
	Kind     DiagnosticKind
	Span     Span
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at [%d:%d]: %s", d.Severity, d.Kind, d.Span.Start, d.Span.End, d.Message)
}

// newDiag builds an error-severity diagnostic, the default for
// everything except duplicate_definition (see newWarnDiag).
func newDiag(kind DiagnosticKind, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

// newWarnDiag builds a warning-severity diagnostic: recorded, but never
// makes HasErrors true. spec.md §4.2 point 1 requires duplicate_definition
// to be reported without aborting the compile.
func newWarnDiag(kind DiagnosticKind, span Span, format string, args ...any) Diagnostic {
	d := newDiag(kind, span, format, args...)
	d.Severity = SeverityWarning
	return d
}
