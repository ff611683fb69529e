// Package optimizer folds runs of adjacent cell arithmetic and pointer moves
// into single counted OpCodes.
//
// The scan is a small state machine:
//
//	Idle ──arith──▶ AccumulatingArithmetic ──move──▶ AccumulatingPointer
//	 ▲                    │  ▲                              │
//	 └────barrier─────────┘  └────────────arith─────────────┘
//
// A transition between the two accumulating states flushes the accumulator
// being left. Barriers (loops and I/O) flush both, arithmetic first, and are
// emitted unchanged. End of input flushes both once more.
package optimizer

import (
	"github.com/zurustar/bfi/pkg/opcode"
)

// State is the coalescer's current mode.
type State int

const (
	Idle State = iota
	AccumulatingArithmetic
	AccumulatingPointer
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AccumulatingArithmetic:
		return "AccumulatingArithmetic"
	case AccumulatingPointer:
		return "AccumulatingPointer"
	}
	return "Unknown"
}

// cellModulus is the cell width; arithmetic deltas are reduced by it on flush.
const cellModulus = 256

// Coalescer holds the running accumulators for one scan.
// Accumulators are plain ints so that arbitrarily long runs never overflow
// before they are reduced into a counted OpCode.
type Coalescer struct {
	state   State
	arith   int
	pointer int
	out     []opcode.OpCode
}

// NewCoalescer returns a Coalescer in the Idle state.
func NewCoalescer(sizeHint int) *Coalescer {
	return &Coalescer{
		state: Idle,
		out:   make([]opcode.OpCode, 0, sizeHint),
	}
}

// State returns the current state.
func (c *Coalescer) State() State {
	return c.state
}

// Feed consumes one OpCode.
func (c *Coalescer) Feed(op opcode.OpCode) {
	switch {
	case op.Cmd.IsArithmetic():
		if c.state == AccumulatingPointer {
			c.flushPointer()
		}
		c.state = AccumulatingArithmetic
		if op.Cmd == opcode.IncrementCell {
			c.arith += op.Count
		} else {
			c.arith -= op.Count
		}

	case op.Cmd.IsPointer():
		if c.state == AccumulatingArithmetic {
			c.flushArithmetic()
		}
		c.state = AccumulatingPointer
		if op.Cmd == opcode.MoveRight {
			c.pointer += op.Count
		} else {
			c.pointer -= op.Count
		}

	default:
		c.flush()
		c.out = append(c.out, op)
	}
}

// Finish flushes any trailing run and returns the coalesced sequence.
func (c *Coalescer) Finish() []opcode.OpCode {
	c.flush()
	return c.out
}

func (c *Coalescer) flush() {
	c.flushArithmetic()
	c.flushPointer()
	c.state = Idle
}

func (c *Coalescer) flushArithmetic() {
	delta := c.arith % cellModulus
	c.arith = 0

	switch {
	case delta > 0:
		c.out = append(c.out, opcode.Inc(delta))
	case delta < 0:
		c.out = append(c.out, opcode.Dec(-delta))
	}
}

func (c *Coalescer) flushPointer() {
	delta := c.pointer
	c.pointer = 0

	switch {
	case delta > 0:
		c.out = append(c.out, opcode.Right(delta))
	case delta < 0:
		c.out = append(c.out, opcode.Left(-delta))
	}
}

// Optimize returns a new sequence in which every run of adjacent cell
// arithmetic, and every run of adjacent pointer moves, is replaced by at most
// one counted OpCode with the same net effect. The input is not modified.
// Already-counted input is folded by its Count.
func Optimize(ops []opcode.OpCode) []opcode.OpCode {
	c := NewCoalescer(len(ops))
	for _, op := range ops {
		c.Feed(op)
	}
	return c.Finish()
}
