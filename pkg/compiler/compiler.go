// Package compiler provides the compilation pipeline for tape programs.
// It transforms source text into OpCode through two phases:
// 1. Lexer: one unit OpCode per command character
// 2. Optimizer: folding of adjacent cell arithmetic and pointer moves
//
// This package provides a unified API:
// - Compile: Compiles source text to OpCode
// - CompileFile: Loads, decodes and compiles a file from an fs.FS
// - CompilePath: CompileFile for an operating system path
// - Check: Reports unbalanced brackets with source locations
package compiler

import (
	"io/fs"

	"github.com/zurustar/bfi/pkg/compiler/lexer"
	"github.com/zurustar/bfi/pkg/compiler/optimizer"
	"github.com/zurustar/bfi/pkg/opcode"
	"github.com/zurustar/bfi/pkg/source"
)

// CompileOptions provides configuration options for compilation.
type CompileOptions struct {
	// Optimize runs the peephole optimizer after lexing.
	Optimize bool

	// Encoding is the source file encoding label used by CompileFile.
	Encoding string
}

// DefaultOptions returns the options used by the command-line tool.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Optimize: true,
		Encoding: source.DefaultEncoding,
	}
}

// Stats describes how much the pipeline shrank a program.
type Stats struct {
	SourceBytes int // length of the decoded source text
	LexedOps    int // ops produced by the lexer
	EmittedOps  int // ops after optimization (== LexedOps when disabled)
}

// Result is a compiled program.
type Result struct {
	File    string // source file name, empty for Compile
	Source  string // decoded source text
	Program []opcode.OpCode
	Stats   Stats
}

// Compile compiles source text to OpCode.
// Compilation itself cannot fail: unknown characters are comments and
// bracket structure is only enforced when the program runs.
func Compile(src string, opts CompileOptions) *Result {
	ops := lexer.Lex(src)
	stats := Stats{
		SourceBytes: len(src),
		LexedOps:    len(ops),
	}

	if opts.Optimize {
		ops = optimizer.Optimize(ops)
	}
	stats.EmittedOps = len(ops)

	return &Result{
		Source:  src,
		Program: ops,
		Stats:   stats,
	}
}

// CompileFile loads name from fsys, decodes it with opts.Encoding and
// compiles it. A missing or undecodable file yields a load-phase
// CompileError; nothing is lexed in that case.
func CompileFile(fsys fs.FS, name string, opts CompileOptions) (*Result, error) {
	file, err := source.NewLoader(fsys, opts.Encoding).Load(name)
	if err != nil {
		return nil, NewLoadError(name, err)
	}

	return compileLoaded(file, opts), nil
}

// CompilePath compiles the file at an operating system path.
func CompilePath(path string, opts CompileOptions) (*Result, error) {
	file, err := source.LoadPath(path, opts.Encoding)
	if err != nil {
		return nil, NewLoadError(path, err)
	}
	return compileLoaded(file, opts), nil
}

func compileLoaded(file *source.File, opts CompileOptions) *Result {
	result := Compile(file.Content, opts)
	result.File = file.Name
	return result
}

// Check scans source text for unbalanced brackets and returns one
// CompileError per offending bracket, in source order. Unclosed loop starts
// are reported after unmatched loop ends.
func Check(src string) []error {
	type pos struct{ line, column int }

	var errs []error
	var open []pos

	line, column := 1, 0
	for _, r := range src {
		column++
		switch r {
		case '\n':
			line++
			column = 0
		case '[':
			open = append(open, pos{line, column})
		case ']':
			if len(open) == 0 {
				errs = append(errs, NewBracketErrorWithContext("loop end has no matching loop start", line, column, src))
				continue
			}
			open = open[:len(open)-1]
		}
	}

	for _, p := range open {
		errs = append(errs, NewBracketErrorWithContext("loop start is never closed", p.line, p.column, src))
	}

	return errs
}
