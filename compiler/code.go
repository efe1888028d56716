package compiler

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Opcode is a single bytecode instruction tag.
type Opcode byte

const (
	OpConstant Opcode = iota
	OpNil
	OpTrue
	OpFalse
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpReturn

	// The following are defined, per the single-expression scope this
	// compiler targets (see Compiler's doc comment), but never emitted:
	// a future statement-level compiler would use them for globals and
	// control flow, mirroring the opcode set a full implementation would
	// need without building the statement compiler itself.
	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal
	OpJump
	OpJumpIfFalse
	OpLoop
)

// OpCodeDefinition names an opcode and the byte width of each of its
// inline operands, in order.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*OpCodeDefinition{
	OpConstant:     {"OpConstant", []int{2}},
	OpNil:          {"OpNil", nil},
	OpTrue:         {"OpTrue", nil},
	OpFalse:        {"OpFalse", nil},
	OpEqual:        {"OpEqual", nil},
	OpGreater:      {"OpGreater", nil},
	OpLess:         {"OpLess", nil},
	OpAdd:          {"OpAdd", nil},
	OpSubtract:     {"OpSubtract", nil},
	OpMultiply:     {"OpMultiply", nil},
	OpDivide:       {"OpDivide", nil},
	OpNot:          {"OpNot", nil},
	OpNegate:       {"OpNegate", nil},
	OpReturn:       {"OpReturn", nil},
	OpDefineGlobal: {"OpDefineGlobal", []int{2}},
	OpGetGlobal:    {"OpGetGlobal", []int{2}},
	OpSetGlobal:    {"OpSetGlobal", []int{2}},
	OpJump:         {"OpJump", []int{2}},
	OpJumpIfFalse:  {"OpJumpIfFalse", []int{2}},
	OpLoop:         {"OpLoop", []int{2}},
}

// Get looks up an opcode's definition, failing on anything not declared
// above (there is no such thing as an unknown opcode reaching this VM).
func Get(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, &CompileError{Message: "undefined opcode"}
	}
	return def, nil
}

// MakeInstruction encodes an opcode and its operands (big-endian, widths
// per the opcode's definition) into a single instruction.
func MakeInstruction(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}

	length := 1
	for _, width := range def.OperandWidths {
		length += width
	}

	instruction := make([]byte, length)
	instruction[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		}
		offset += width
	}

	return instruction
}

// ReadUint16 decodes a big-endian 2-byte operand at offset.
func ReadUint16(instructions []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(instructions[offset:])
}

// Disassemble renders every instruction in chunk as human-readable text,
// one line per instruction, for the `compile` command and debug traces.
func Disassemble(chunk *Chunk) string {
	var out strings.Builder
	for offset := 0; offset < len(chunk.Code); {
		next := DisassembleInstruction(chunk, offset)
		fmt.Fprintln(&out, next.Text)
		offset = next.NextOffset
	}
	return out.String()
}

// Disassembled is one disassembled instruction plus the offset of the
// instruction following it.
type Disassembled struct {
	Text       string
	NextOffset int
}

// DisassembleInstruction renders the single instruction at offset.
func DisassembleInstruction(chunk *Chunk, offset int) Disassembled {
	op := Opcode(chunk.Code[offset])
	def, err := Get(op)
	if err != nil {
		return Disassembled{fmt.Sprintf("%04d unknown opcode %d", offset, op), offset + 1}
	}
	line := fmt.Sprintf("%4d", chunk.Lines[offset])
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		line = "   |"
	}
	if len(def.OperandWidths) == 0 {
		return Disassembled{fmt.Sprintf("%04d %s %s", offset, line, def.Name), offset + 1}
	}
	operand := ReadUint16(chunk.Code, offset+1)
	text := fmt.Sprintf("%04d %s %-16s %4d", offset, line, def.Name, operand)
	if op == OpConstant {
		text = fmt.Sprintf("%s ; %v", text, chunk.Constants[operand])
	}
	return Disassembled{text, offset + 1 + len(def.OperandWidths)*2}
}
