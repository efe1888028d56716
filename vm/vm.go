package vm

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nilan/compiler"
)

// VM executes a single Chunk. Debug enables per-instruction tracing:
// stack contents and a disassembled instruction are written to Out
// before each dispatch, mirroring the kind of trace a bytecode VM
// typically offers for diagnosing the compiler itself.
type VM struct {
	stack Stack
	ip    int
	Debug bool
	Out   io.Writer
}

// New constructs a VM. out defaults to os.Stdout when nil.
func New(debug bool, out io.Writer) *VM {
	if out == nil {
		out = os.Stdout
	}
	return &VM{Debug: debug, Out: out}
}

// Run executes chunk to completion and returns the value produced by its
// single top-level expression (the operand OpReturn pops).
func (v *VM) Run(chunk *compiler.Chunk) (any, error) {
	v.ip = 0
	v.stack = nil

	for v.ip < len(chunk.Code) {
		if v.Debug {
			v.traceInstruction(chunk)
		}

		op := compiler.Opcode(chunk.Code[v.ip])
		line := chunk.Lines[v.ip]
		v.ip++

		switch op {
		case compiler.OpConstant:
			index := compiler.ReadUint16(chunk.Code, v.ip)
			v.ip += 2
			v.stack.Push(chunk.Constants[index])

		case compiler.OpNil:
			v.stack.Push(nil)
		case compiler.OpTrue:
			v.stack.Push(true)
		case compiler.OpFalse:
			v.stack.Push(false)

		case compiler.OpEqual:
			b, a, err := v.popPair(line)
			if err != nil {
				return nil, err
			}
			v.stack.Push(isEqual(a, b))

		case compiler.OpGreater, compiler.OpLess, compiler.OpAdd,
			compiler.OpSubtract, compiler.OpMultiply, compiler.OpDivide:
			if err := v.binaryNumberOp(op, line); err != nil {
				return nil, err
			}

		case compiler.OpNot:
			a, err := v.pop(line)
			if err != nil {
				return nil, err
			}
			v.stack.Push(!isTruthy(a))

		case compiler.OpNegate:
			a, err := v.pop(line)
			if err != nil {
				return nil, err
			}
			num, ok := a.(float64)
			if !ok {
				return nil, &RuntimeError{Line: line, Message: "Operand must be a number."}
			}
			v.stack.Push(-num)

		case compiler.OpReturn:
			result, err := v.pop(line)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(v.Out, stringify(result))
			return result, nil

		default:
			return nil, &RuntimeError{Line: line, Message: fmt.Sprintf("Unknown opcode %d.", op)}
		}
	}

	return nil, &RuntimeError{Line: 0, Message: "Chunk ended without a return."}
}

func (v *VM) pop(line int32) (any, error) {
	value, err := v.stack.Pop()
	if err != nil {
		return nil, &RuntimeError{Line: line, Message: "Stack underflow."}
	}
	return value, nil
}

func (v *VM) popPair(line int32) (b, a any, err error) {
	b, err = v.stack.Pop()
	if err != nil {
		return nil, nil, &RuntimeError{Line: line, Message: "Stack underflow."}
	}
	a, err = v.stack.Pop()
	if err != nil {
		return nil, nil, &RuntimeError{Line: line, Message: "Stack underflow."}
	}
	return b, a, nil
}

func (v *VM) binaryNumberOp(op compiler.Opcode, line int32) error {
	b, a, err := v.popPair(line)
	if err != nil {
		return err
	}
	aNum, aOk := a.(float64)
	bNum, bOk := b.(float64)
	if !aOk || !bOk {
		return &RuntimeError{Line: line, Message: "Operands must be numbers."}
	}

	switch op {
	case compiler.OpGreater:
		v.stack.Push(aNum > bNum)
	case compiler.OpLess:
		v.stack.Push(aNum < bNum)
	case compiler.OpAdd:
		v.stack.Push(aNum + bNum)
	case compiler.OpSubtract:
		v.stack.Push(aNum - bNum)
	case compiler.OpMultiply:
		v.stack.Push(aNum * bNum)
	case compiler.OpDivide:
		v.stack.Push(aNum / bNum)
	}
	return nil
}

func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

func stringify(value any) string {
	if value == nil {
		return "nil"
	}
	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		text := strconv.FormatFloat(v, 'f', -1, 64)
		if strings.Contains(text, ".") {
			text = strings.TrimRight(text, "0")
			text = strings.TrimRight(text, ".")
		}
		return text
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (v *VM) traceInstruction(chunk *compiler.Chunk) {
	fmt.Fprintf(v.Out, "          ")
	for _, slot := range v.stack {
		fmt.Fprintf(v.Out, "[ %s ]", stringify(slot))
	}
	fmt.Fprintln(v.Out)
	fmt.Fprintln(v.Out, compiler.DisassembleInstruction(chunk, v.ip).Text)
}
