package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zurustar/bfi/pkg/opcode"
)

// Feature: execution-engine, Property 1: セル演算は256を法として折り返す
func TestProperty1_CellArithmeticWraps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("increments and decrements agree with byte arithmetic", prop.ForAll(
		func(inc, dec int) bool {
			vm := New([]opcode.OpCode{opcode.Inc(inc), opcode.Dec(dec)})
			if err := vm.Run(); err != nil {
				return false
			}
			return vm.Cell() == byte(inc-dec)
		},
		gen.IntRange(1, 2000),
		gen.IntRange(1, 2000),
	))

	properties.Property("unit ops wrap one at a time", prop.ForAll(
		func(n int) bool {
			program := make([]opcode.OpCode, n)
			for i := range program {
				program[i] = opcode.Dec(1)
			}
			vm := New(program)
			if err := vm.Run(); err != nil {
				return false
			}
			return vm.Cell() == byte(256-n%256)
		},
		gen.IntRange(1, 600),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: execution-engine, Property 2: ループ本体はn回実行される
func TestProperty2_LoopBodyRunsCellTimes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("a countdown loop runs its body once per unit", prop.ForAll(
		func(n int) bool {
			// [->+>.<<]: each iteration adds one to the next cell and prints once.
			program := []opcode.OpCode{
				opcode.Inc(n),
				opcode.Plain(opcode.LoopStart),
				opcode.Dec(1),
				opcode.Right(1),
				opcode.Inc(1),
				opcode.Right(1),
				opcode.Plain(opcode.Output),
				opcode.Left(2),
				opcode.Plain(opcode.LoopEnd),
			}
			var out bytes.Buffer
			vm := New(program, WithOutput(&out))
			if err := vm.Run(); err != nil {
				return false
			}
			tape := vm.Tape()
			return out.Len() == n && int(tape[TapeOrigin+1]) == n && tape[TapeOrigin] == 0
		},
		gen.IntRange(0, 255),
	))

	properties.Property("a loop over zero never runs, whatever it contains", prop.ForAll(
		func(depth int, body string) bool {
			src := strings.Repeat("[", depth) + body + strings.Repeat("]", depth) + "+."
			var ops []opcode.OpCode
			for _, c := range []byte(src) {
				switch c {
				case '[':
					ops = append(ops, opcode.Plain(opcode.LoopStart))
				case ']':
					ops = append(ops, opcode.Plain(opcode.LoopEnd))
				case '.':
					ops = append(ops, opcode.Plain(opcode.Output))
				case '+':
					ops = append(ops, opcode.Inc(1))
				}
			}
			var out bytes.Buffer
			vm := New(ops, WithOutput(&out))
			if err := vm.Run(); err != nil {
				return false
			}
			return bytes.Equal(out.Bytes(), []byte{1})
		},
		gen.IntRange(1, 5),
		gen.SliceOfN(20, gen.IntRange(0, 1)).Map(func(choices []int) string {
			var sb strings.Builder
			for _, c := range choices {
				sb.WriteByte("+."[c])
			}
			return sb.String()
		}),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: execution-engine, Property 3: 入力は最初の非空行の先頭文字
func TestProperty3_InputTakesFirstNonBlankLine(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("blank lines before the value are skipped", prop.ForAll(
		func(blanks int, ch int) bool {
			stdin := strings.Repeat(" \n", blanks) + string(rune(ch)) + "rest\n"
			var out bytes.Buffer
			program := []opcode.OpCode{opcode.Plain(opcode.Input), opcode.Plain(opcode.Output)}
			vm := New(program, WithInput(strings.NewReader(stdin)), WithOutput(&out))
			if err := vm.Run(); err != nil {
				return false
			}
			return bytes.Equal(out.Bytes(), []byte{byte(ch)})
		},
		gen.IntRange(0, 10),
		gen.IntRange('!', '~'),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
