package vm

import (
	"fmt"
	"strings"
)

const (
	// TapeSize is the number of cells on the tape.
	TapeSize = 3000

	// TapeOrigin is where the pointer starts.
	TapeOrigin = TapeSize / 2
)

// Tape is a fixed array of 8-bit cells and a pointer into it.
// Cell arithmetic wraps modulo 256 in both directions.
type Tape struct {
	cells [TapeSize]byte
	ptr   int
}

// NewTape returns a zeroed tape with the pointer at TapeOrigin.
func NewTape() *Tape {
	return &Tape{ptr: TapeOrigin}
}

// Pointer returns the current cell index.
func (t *Tape) Pointer() int {
	return t.ptr
}

// Cell returns the value of the current cell.
func (t *Tape) Cell() byte {
	return t.cells[t.ptr]
}

// Set stores v in the current cell.
func (t *Tape) Set(v byte) {
	t.cells[t.ptr] = v
}

// Add adds n to the current cell. byte arithmetic supplies the wraparound.
func (t *Tape) Add(n byte) {
	t.cells[t.ptr] += n
}

// Sub subtracts n from the current cell.
func (t *Tape) Sub(n byte) {
	t.cells[t.ptr] -= n
}

// Move shifts the pointer by delta. It returns false, leaving the pointer
// unchanged, when the result would fall outside [0, TapeSize).
func (t *Tape) Move(delta int) bool {
	next := t.ptr + delta
	if next < 0 || next >= TapeSize {
		return false
	}
	t.ptr = next
	return true
}

// At returns the value of cell i.
func (t *Tape) At(i int) byte {
	return t.cells[i]
}

// Cells returns a copy of the whole tape.
func (t *Tape) Cells() []byte {
	out := make([]byte, TapeSize)
	copy(out, t.cells[:])
	return out
}

// Window renders cells [from, to) as a row of zero-padded values with a
// caret under the pointer when it falls inside the range.
//
//	|000|007|000|
//	  ^
func (t *Tape) Window(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > TapeSize {
		to = TapeSize
	}

	var sb strings.Builder
	sb.WriteString("|")
	for i := from; i < to; i++ {
		fmt.Fprintf(&sb, "%03d|", t.cells[i])
	}
	sb.WriteString("\n ")
	for i := from; i < to; i++ {
		if i == t.ptr {
			sb.WriteString(" ^  ")
		} else {
			sb.WriteString("    ")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
