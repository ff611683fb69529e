// Package vm provides error handling for the tape machine.
package vm

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of runtime error.
type ErrorType string

// Every runtime error is fatal: the run stops at the first one.
// Cell wraparound is defined behaviour and never produces an error.
const (
	// Structural errors
	ErrorUnmatchedLoopEnd   ErrorType = "UNMATCHED_LOOP_END"
	ErrorUnmatchedLoopStart ErrorType = "UNMATCHED_LOOP_START"

	// Bounds errors
	ErrorPointerOutOfBounds ErrorType = "POINTER_OUT_OF_BOUNDS"

	// I/O errors
	ErrorInputExhausted ErrorType = "INPUT_EXHAUSTED"
	ErrorIO             ErrorType = "IO_ERROR"
)

// RuntimeError represents a runtime error in the VM.
type RuntimeError struct {
	Type    ErrorType
	Message string
	PC      int   // Index of the offending OpCode, -1 if unknown
	Err     error // Underlying I/O error, if any
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.PC >= 0 {
		return fmt.Sprintf("[%s] %s at op %d", e.Type, msg, e.PC)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying I/O error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error is fatal and execution should stop.
// There is no recoverable runtime error in this machine.
func (e *RuntimeError) IsFatal() bool {
	return true
}

// NewRuntimeError creates a new RuntimeError at the given op index.
func NewRuntimeError(errType ErrorType, message string, pc int) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
		PC:      pc,
	}
}

// IsErrorType reports whether err is, or wraps, a RuntimeError of type t.
func IsErrorType(err error, t ErrorType) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Type == t
}

func newUnmatchedLoopEndError(pc int) *RuntimeError {
	return NewRuntimeError(ErrorUnmatchedLoopEnd, "unexpected loop end", pc)
}

func newUnmatchedLoopStartError(pc int) *RuntimeError {
	return NewRuntimeError(ErrorUnmatchedLoopStart, "loop start has no matching loop end", pc)
}

func newPointerOutOfBoundsError(pc, from, delta int) *RuntimeError {
	return NewRuntimeError(ErrorPointerOutOfBounds,
		fmt.Sprintf("tape pointer %d moved by %d leaves tape [0, %d)", from, delta, TapeSize), pc)
}

func newInputExhaustedError(pc int, err error) *RuntimeError {
	e := NewRuntimeError(ErrorInputExhausted, "input ended before a non-blank line was read", pc)
	e.Err = err
	return e
}

func newIOError(pc int, message string, err error) *RuntimeError {
	e := NewRuntimeError(ErrorIO, message, pc)
	e.Err = err
	return e
}
