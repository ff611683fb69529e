// Package opcode defines the instruction set for the tape machine.
// This package is the foundation that both the compiler and VM depend on.
// The lexer and optimizer produce OpCode sequences, and the VM executes them.
package opcode

import (
	"fmt"
	"strings"
)

// Cmd represents an OpCode command type.
// Each Cmd corresponds to a specific operation that the VM can execute.
type Cmd string

// OpCode command types for all supported operations.
const (
	// IncrementCell adds Count to the current cell, modulo 256.
	IncrementCell Cmd = "IncrementCell"

	// DecrementCell subtracts Count from the current cell, modulo 256.
	DecrementCell Cmd = "DecrementCell"

	// MoveRight advances the tape pointer by Count cells.
	MoveRight Cmd = "MoveRight"

	// MoveLeft moves the tape pointer back by Count cells.
	MoveLeft Cmd = "MoveLeft"

	// LoopStart opens a loop. The body runs while the current cell is non-zero.
	LoopStart Cmd = "LoopStart"

	// LoopEnd closes the innermost open loop.
	LoopEnd Cmd = "LoopEnd"

	// Output writes the current cell as one byte.
	Output Cmd = "Output"

	// Input reads one byte into the current cell.
	Input Cmd = "Input"
)

// OpCode represents a single instruction for the VM.
// Count is meaningful only for counted commands (cell arithmetic and pointer
// moves); control flow and I/O commands always carry a zero Count.
type OpCode struct {
	Cmd   Cmd
	Count int
}

// Inc returns IncrementCell(n).
func Inc(n int) OpCode { return OpCode{Cmd: IncrementCell, Count: n} }

// Dec returns DecrementCell(n).
func Dec(n int) OpCode { return OpCode{Cmd: DecrementCell, Count: n} }

// Right returns MoveRight(n).
func Right(n int) OpCode { return OpCode{Cmd: MoveRight, Count: n} }

// Left returns MoveLeft(n).
func Left(n int) OpCode { return OpCode{Cmd: MoveLeft, Count: n} }

// Plain returns an uncounted OpCode for control flow and I/O commands.
func Plain(cmd Cmd) OpCode { return OpCode{Cmd: cmd} }

// IsArithmetic reports whether the command changes the current cell value.
func (c Cmd) IsArithmetic() bool {
	return c == IncrementCell || c == DecrementCell
}

// IsPointer reports whether the command moves the tape pointer.
func (c Cmd) IsPointer() bool {
	return c == MoveRight || c == MoveLeft
}

// IsCounted reports whether the command carries a repeat count.
func (c Cmd) IsCounted() bool {
	return c.IsArithmetic() || c.IsPointer()
}

// Symbol returns the source character for the command.
func (c Cmd) Symbol() byte {
	switch c {
	case IncrementCell:
		return '+'
	case DecrementCell:
		return '-'
	case MoveRight:
		return '>'
	case MoveLeft:
		return '<'
	case LoopStart:
		return '['
	case LoopEnd:
		return ']'
	case Output:
		return '.'
	case Input:
		return ','
	}
	return '?'
}

// String renders counted commands as Cmd(n) and the rest as the bare name.
func (op OpCode) String() string {
	if op.Cmd.IsCounted() {
		return fmt.Sprintf("%s(%d)", op.Cmd, op.Count)
	}
	return string(op.Cmd)
}

// Format returns a one-op-per-line listing with op indexes, used by --dump.
func Format(ops []OpCode) string {
	var sb strings.Builder
	for i, op := range ops {
		fmt.Fprintf(&sb, "%5d  %s\n", i, op)
	}
	return sb.String()
}

// Preview renders at most maxCount ops on a single line for log output.
func Preview(ops []OpCode, maxCount int) string {
	if len(ops) == 0 {
		return "[]"
	}

	count := len(ops)
	if count > maxCount {
		count = maxCount
	}

	parts := make([]string, 0, count+1)
	for i := 0; i < count; i++ {
		parts = append(parts, ops[i].String())
	}
	if len(ops) > maxCount {
		parts = append(parts, fmt.Sprintf("... (%d more)", len(ops)-maxCount))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// Source expands an op sequence back into source characters.
// Counted ops are repeated Count times.
func Source(ops []OpCode) string {
	var sb strings.Builder
	for _, op := range ops {
		n := 1
		if op.Cmd.IsCounted() {
			n = op.Count
		}
		for i := 0; i < n; i++ {
			sb.WriteByte(op.Cmd.Symbol())
		}
	}
	return sb.String()
}
