// Package compiler provides the compilation pipeline for tape programs.
// This file defines the CompileError type for structured error reporting.
package compiler

import (
	"fmt"
	"strings"
)

// Compilation phases reported in CompileError.Phase.
const (
	PhaseLoad    = "load"
	PhaseBracket = "bracket"
)

// CompileError represents a structured error raised before execution starts:
// a source that cannot be loaded, or an unbalanced bracket found by Check.
type CompileError struct {
	// Phase indicates which step generated the error.
	// Valid values: "load", "bracket"
	Phase string

	// File is the source file name, if known.
	File string

	// Message is the human-readable error description.
	Message string

	// Line is the 1-indexed line number where the error occurred, 0 if unknown.
	Line int

	// Column is the 1-indexed column number where the error occurred.
	Column int

	// Context contains the source code around the error location
	// with a pointer (^) indicating the error column.
	Context string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Phase)
	sb.WriteString(" error")
	if e.File != "" {
		fmt.Fprintf(&sb, " in %s", e.File)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d, column %d", e.Line, e.Column)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if e.Context != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Context)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a CompileError for a source that could not be loaded.
func NewLoadError(file string, err error) *CompileError {
	return &CompileError{
		Phase:   PhaseLoad,
		File:    file,
		Message: "failed to load source",
		Err:     err,
	}
}

// NewBracketErrorWithContext creates a CompileError for an unbalanced bracket
// with source context.
func NewBracketErrorWithContext(message string, line, column int, source string) *CompileError {
	return &CompileError{
		Phase:   PhaseBracket,
		Message: message,
		Line:    line,
		Column:  column,
		Context: GenerateErrorContext(source, line, column),
	}
}

// GenerateErrorContext generates source code context around an error location.
// It includes 2 lines before and 2 lines after the error line, with line numbers
// and a pointer (^) indicating the error column.
//
// Example output:
//
//	  2 | ++++
//	  3 | [>++<-
//	> 4 | ]]
//	       ^
//	  5 | .
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder

	lineNumWidth := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		lineContent := strings.TrimRight(lines[i], "\r")

		if lineNum == line {
			fmt.Fprintf(&buf, "> %*d | %s\n", lineNumWidth, lineNum, lineContent)
			// "> " + lineNumWidth + " | "
			pointerIndent := 2 + lineNumWidth + 3
			if column > 0 {
				fmt.Fprintf(&buf, "%s%s^\n", strings.Repeat(" ", pointerIndent), strings.Repeat(" ", column-1))
			} else {
				fmt.Fprintf(&buf, "%s^\n", strings.Repeat(" ", pointerIndent))
			}
		} else {
			fmt.Fprintf(&buf, "  %*d | %s\n", lineNumWidth, lineNum, lineContent)
		}
	}

	return buf.String()
}
