// Package lexer translates source text into unit-count OpCodes.
package lexer

import (
	"github.com/zurustar/bfi/pkg/opcode"
)

// Lexer scans source text for command characters.
// Every other character is a comment and is skipped.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
}

// New creates a new Lexer.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Next returns the next OpCode, or false once the input is exhausted.
func (l *Lexer) Next() (opcode.OpCode, bool) {
	for l.ch != 0 || l.position < len(l.input) {
		ch := l.ch
		l.readChar()

		switch ch {
		case '>':
			return opcode.Right(1), true
		case '<':
			return opcode.Left(1), true
		case '+':
			return opcode.Inc(1), true
		case '-':
			return opcode.Dec(1), true
		case '[':
			return opcode.Plain(opcode.LoopStart), true
		case ']':
			return opcode.Plain(opcode.LoopEnd), true
		case ',':
			return opcode.Plain(opcode.Input), true
		case '.':
			return opcode.Plain(opcode.Output), true
		}
	}
	return opcode.OpCode{}, false
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
	} else {
		l.ch = l.input[l.readPosition]
		l.position = l.readPosition
	}
	l.readPosition++
}

// Lex maps each command character to exactly one unit OpCode, in order.
func Lex(source string) []opcode.OpCode {
	ops := make([]opcode.OpCode, 0, len(source))
	l := New(source)
	for {
		op, ok := l.Next()
		if !ok {
			return ops
		}
		ops = append(ops, op)
	}
}
