// Package vm provides the execution engine for compiled OpCode sequences.
// It implements:
// - A fixed 3000-cell byte tape with the pointer starting at the midpoint
// - Cell arithmetic with 8-bit wraparound
// - Loops without a precomputed jump table
// - Line-oriented byte input and byte output
package vm

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/zurustar/bfi/pkg/logger"
	"github.com/zurustar/bfi/pkg/opcode"
)

// VM executes an OpCode sequence against a Tape.
//
// Dispatch is a single iterative loop. A LoopStart over a zero cell is
// skipped with a forward nesting scan. A LoopStart over a non-zero cell
// pushes the index of the first body op onto loops; the matching LoopEnd
// re-tests the cell and either jumps back to that index or pops it.
type VM struct {
	program []opcode.OpCode
	pc      int // Program counter

	tape  *Tape
	loops []int // body start of each loop currently running

	in  *bufio.Reader
	out *bufio.Writer

	steps int

	log *slog.Logger
}

// Option is a functional option for configuring the VM.
type Option func(*VM)

// WithInput sets the reader consumed by Input ops.
func WithInput(r io.Reader) Option {
	return func(vm *VM) {
		vm.in = bufio.NewReader(r)
	}
}

// WithOutput sets the writer that receives Output bytes.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = bufio.NewWriter(w)
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// New creates a VM for program. Without options it reads os.Stdin and
// writes os.Stdout.
func New(program []opcode.OpCode, opts ...Option) *VM {
	vm := &VM{
		program: program,
		tape:    NewTape(),
		log:     logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.in == nil {
		vm.in = bufio.NewReader(os.Stdin)
	}
	if vm.out == nil {
		vm.out = bufio.NewWriter(os.Stdout)
	}

	return vm
}

// Run executes the program on a fresh tape until pc passes the last op or a
// fatal error occurs. Output is flushed before Run returns in both cases.
func (vm *VM) Run() (err error) {
	vm.reset()

	defer func() {
		if ferr := vm.out.Flush(); ferr != nil && err == nil {
			err = newIOError(-1, "failed to flush output", ferr)
		}
	}()

	vm.log.Debug("VM started", "op_count", len(vm.program), "pointer", vm.tape.Pointer())

	for vm.pc < len(vm.program) {
		op := vm.program[vm.pc]
		vm.steps++

		switch op.Cmd {
		case opcode.IncrementCell:
			vm.tape.Add(byte(op.Count))

		case opcode.DecrementCell:
			vm.tape.Sub(byte(op.Count))

		case opcode.MoveRight:
			if !vm.tape.Move(op.Count) {
				return newPointerOutOfBoundsError(vm.pc, vm.tape.Pointer(), op.Count)
			}

		case opcode.MoveLeft:
			if !vm.tape.Move(-op.Count) {
				return newPointerOutOfBoundsError(vm.pc, vm.tape.Pointer(), -op.Count)
			}

		case opcode.Output:
			if err := vm.out.WriteByte(vm.tape.Cell()); err != nil {
				return newIOError(vm.pc, "failed to write output", err)
			}

		case opcode.Input:
			if err := vm.readInput(); err != nil {
				return err
			}

		case opcode.LoopStart:
			if err := vm.enterLoop(); err != nil {
				return err
			}
			continue

		case opcode.LoopEnd:
			if err := vm.endLoop(); err != nil {
				return err
			}
			continue
		}

		vm.pc++
	}

	if n := len(vm.loops); n > 0 {
		return newUnmatchedLoopStartError(vm.loops[n-1] - 1)
	}

	vm.log.Debug("VM finished", "steps", vm.steps, "pointer", vm.tape.Pointer())
	return nil
}

func (vm *VM) reset() {
	vm.pc = 0
	vm.tape = NewTape()
	vm.loops = vm.loops[:0]
	vm.steps = 0
}

// enterLoop handles LoopStart at pc.
func (vm *VM) enterLoop() error {
	bodyStart := vm.pc + 1

	if vm.tape.Cell() != 0 {
		vm.loops = append(vm.loops, bodyStart)
		vm.pc = bodyStart
		return nil
	}

	return vm.skipLoop(bodyStart)
}

// skipLoop scans forward from bodyStart for the LoopEnd that closes the
// loop opened just before it, and moves pc one past it. The scan is linear
// in the length of the skipped body; nothing is cached between calls.
func (vm *VM) skipLoop(bodyStart int) error {
	depth := 1
	for i := bodyStart; i < len(vm.program); i++ {
		switch vm.program[i].Cmd {
		case opcode.LoopStart:
			depth++
		case opcode.LoopEnd:
			depth--
			if depth == 0 {
				vm.pc = i + 1
				return nil
			}
		}
	}
	return newUnmatchedLoopStartError(bodyStart - 1)
}

// endLoop handles LoopEnd at pc. A LoopEnd with no running body is an
// unmatched closing bracket.
func (vm *VM) endLoop() error {
	n := len(vm.loops)
	if n == 0 {
		return newUnmatchedLoopEndError(vm.pc)
	}

	if vm.tape.Cell() != 0 {
		vm.pc = vm.loops[n-1]
		return nil
	}

	vm.loops = vm.loops[:n-1]
	vm.pc++
	return nil
}

// readInput blocks until a line with non-whitespace content arrives and
// stores its first character in the current cell. Blank lines are retried.
// A last line without a trailing newline still counts.
func (vm *VM) readInput() error {
	if err := vm.out.Flush(); err != nil {
		return newIOError(vm.pc, "failed to flush output", err)
	}

	for {
		line, err := vm.in.ReadString('\n')

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			r, _ := utf8.DecodeRuneInString(trimmed)
			vm.tape.Set(byte(r))
			return nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return newInputExhaustedError(vm.pc, err)
			}
			return newIOError(vm.pc, "failed to read input", err)
		}
	}
}

// Pointer returns the current tape pointer.
func (vm *VM) Pointer() int {
	return vm.tape.Pointer()
}

// Cell returns the value under the tape pointer.
func (vm *VM) Cell() byte {
	return vm.tape.Cell()
}

// Tape returns a copy of the tape cells.
func (vm *VM) Tape() []byte {
	return vm.tape.Cells()
}

// Window renders a slice of the tape; see Tape.Window.
func (vm *VM) Window(from, to int) string {
	return vm.tape.Window(from, to)
}

// Steps returns how many ops were dispatched by the last Run.
func (vm *VM) Steps() int {
	return vm.steps
}

// PC returns the program counter. After a failed Run it is the index of the
// op that failed.
func (vm *VM) PC() int {
	return vm.pc
}
