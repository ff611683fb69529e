package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/zurustar/bfi/pkg/opcode"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opts     CompileOptions
		expected []opcode.OpCode
		stats    Stats
	}{
		{
			name:     "without optimization",
			src:      "++ >",
			opts:     CompileOptions{},
			expected: []opcode.OpCode{opcode.Inc(1), opcode.Inc(1), opcode.Right(1)},
			stats:    Stats{SourceBytes: 4, LexedOps: 3, EmittedOps: 3},
		},
		{
			name:     "with optimization",
			src:      "++ >",
			opts:     CompileOptions{Optimize: true},
			expected: []opcode.OpCode{opcode.Inc(2), opcode.Right(1)},
			stats:    Stats{SourceBytes: 4, LexedOps: 3, EmittedOps: 2},
		},
		{
			name:     "comments only",
			src:      "nothing to see here",
			opts:     DefaultOptions(),
			expected: []opcode.OpCode{},
			stats:    Stats{SourceBytes: 19, LexedOps: 0, EmittedOps: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compile(tt.src, tt.opts)
			if !reflect.DeepEqual(result.Program, tt.expected) {
				t.Errorf("Program = %v, want %v", result.Program, tt.expected)
			}
			if result.Stats != tt.stats {
				t.Errorf("Stats = %+v, want %+v", result.Stats, tt.stats)
			}
			if result.Source != tt.src {
				t.Errorf("Source = %q, want %q", result.Source, tt.src)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.Optimize {
		t.Error("optimization should be enabled by default")
	}
	if opts.Encoding != "utf-8" {
		t.Errorf("expected utf-8, got %q", opts.Encoding)
	}
}

func TestCompileFile(t *testing.T) {
	fsys := fstest.MapFS{
		"Add.bf": {Data: []byte("++>+++++[<+>-]<.")},
	}

	result, err := CompileFile(fsys, "add.bf", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.File != "Add.bf" {
		t.Errorf("expected file Add.bf, got %q", result.File)
	}
	if result.Stats.LexedOps != 16 {
		t.Errorf("expected 16 lexed ops, got %d", result.Stats.LexedOps)
	}
	if result.Stats.EmittedOps != 11 {
		t.Errorf("expected 11 emitted ops, got %d", result.Stats.EmittedOps)
	}
}

func TestCompileFile_Missing(t *testing.T) {
	_, err := CompileFile(fstest.MapFS{}, "missing.bf", DefaultOptions())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Phase != PhaseLoad {
		t.Errorf("expected phase %q, got %q", PhaseLoad, ce.Phase)
	}
	if !strings.Contains(err.Error(), "missing.bf") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestCompilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echo.bf")
	if err := os.WriteFile(path, []byte(",.\n"), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	result, err := CompilePath(path, CompileOptions{Encoding: "utf-8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []opcode.OpCode{opcode.Plain(opcode.Input), opcode.Plain(opcode.Output)}
	if !reflect.DeepEqual(result.Program, expected) {
		t.Errorf("expected %v, got %v", expected, result.Program)
	}

	if _, err := CompilePath(filepath.Join(dir, "none.bf"), DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		positions [][2]int
	}{
		{"balanced", "+[->[+]<]", nil},
		{"comments with brackets count", "[ comment ]", nil},
		{"lone loop end", "]", [][2]int{{1, 1}}},
		{"unclosed loop start", "+\n+[-", [][2]int{{2, 2}}},
		{"both", "]\n[[]", [][2]int{{1, 1}, {2, 1}}},
		{"multibyte columns", "あい]", [][2]int{{1, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Check(tt.src)
			if len(errs) != len(tt.positions) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.positions), len(errs), errs)
			}
			for i, err := range errs {
				ce := err.(*CompileError)
				if ce.Phase != PhaseBracket {
					t.Errorf("expected phase %q, got %q", PhaseBracket, ce.Phase)
				}
				if ce.Line != tt.positions[i][0] || ce.Column != tt.positions[i][1] {
					t.Errorf("error %d at %d:%d, want %d:%d", i, ce.Line, ce.Column, tt.positions[i][0], tt.positions[i][1])
				}
			}
		})
	}
}
