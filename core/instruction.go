package core

import (
	"fmt"
	"strings"
)

// Opcode represents the operation code for an instruction
type Opcode string

// The instruction set.
const (
	OpData  Opcode = "DATA"
	OpMov   Opcode = "MOV"
	OpAdd   Opcode = "ADD"
	OpSub   Opcode = "SUB"
	OpInc   Opcode = "INC"
	OpDec   Opcode = "DEC"
	OpAnd   Opcode = "AND"
	OpOr    Opcode = "OR"
	OpNot   Opcode = "NOT"
	OpCmp   Opcode = "CMP"
	OpLabel Opcode = "LABEL"
	OpJmp   Opcode = "JMP"
	OpJz    Opcode = "JZ"
	OpJs    Opcode = "JS"
	OpOne   Opcode = "ONE"
	OpOnez  Opcode = "ONEZ"
	OpOnes  Opcode = "ONES"
)

// operandShape says which operand slots an opcode uses.
type operandShape struct {
	dst    bool // lvalue, except for CMP which reads it
	src    bool
	symbol bool
}

var opcodeShapes = map[Opcode]operandShape{
	OpData:  {src: true, symbol: true},
	OpMov:   {dst: true, src: true},
	OpAdd:   {dst: true, src: true},
	OpSub:   {dst: true, src: true},
	OpInc:   {dst: true},
	OpDec:   {dst: true},
	OpAnd:   {dst: true, src: true},
	OpOr:    {dst: true, src: true},
	OpNot:   {dst: true},
	OpCmp:   {dst: true, src: true},
	OpLabel: {symbol: true},
	OpJmp:   {symbol: true},
	OpJz:    {symbol: true},
	OpJs:    {symbol: true},
	OpOne:   {dst: true},
	OpOnez:  {dst: true},
	OpOnes:  {dst: true},
}

// ParseOpcode looks up an opcode by its case-insensitive mnemonic.
func ParseOpcode(s string) (Opcode, bool) {
	op := Opcode(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := opcodeShapes[op]

	return op, ok
}

// IsJump tells if the opcode transfers control to a label.
func (op Opcode) IsJump() bool {
	return op == OpJmp || op == OpJz || op == OpJs
}

// Instruction is one operation with its operands bound at construction.
type Instruction struct {
	Opcode Opcode
	Dst    Operand
	Src    Operand
	Symbol string

	// Raw is the source text the instruction was parsed from, if any.
	Raw string

	id Identifier
}

// Data declares variable name with an initial value.
func Data(name string, init Operand) Instruction {
	return Instruction{Opcode: OpData, Symbol: name, Src: init}
}

// Mov copies src into dst.
func Mov(dst, src Operand) Instruction {
	return Instruction{Opcode: OpMov, Dst: dst, Src: src}
}

// Add adds src to dst.
func Add(dst, src Operand) Instruction {
	return Instruction{Opcode: OpAdd, Dst: dst, Src: src}
}

// Sub subtracts src from dst.
func Sub(dst, src Operand) Instruction {
	return Instruction{Opcode: OpSub, Dst: dst, Src: src}
}

// Inc adds one to dst.
func Inc(dst Operand) Instruction {
	return Instruction{Opcode: OpInc, Dst: dst}
}

// Dec subtracts one from dst.
func Dec(dst Operand) Instruction {
	return Instruction{Opcode: OpDec, Dst: dst}
}

// And stores dst & src in dst.
func And(dst, src Operand) Instruction {
	return Instruction{Opcode: OpAnd, Dst: dst, Src: src}
}

// Or stores dst | src in dst.
func Or(dst, src Operand) Instruction {
	return Instruction{Opcode: OpOr, Dst: dst, Src: src}
}

// Not flips every bit of dst.
func Not(dst Operand) Instruction {
	return Instruction{Opcode: OpNot, Dst: dst}
}

// Cmp sets the flags from a - b without storing the difference.
func Cmp(a, b Operand) Instruction {
	return Instruction{Opcode: OpCmp, Dst: a, Src: b}
}

// Label marks a jump target.
func Label(name string) Instruction {
	return Instruction{Opcode: OpLabel, Symbol: name}
}

// Jmp jumps to label name.
func Jmp(name string) Instruction {
	return Instruction{Opcode: OpJmp, Symbol: name}
}

// Jz jumps to label name if the zero flag is set.
func Jz(name string) Instruction {
	return Instruction{Opcode: OpJz, Symbol: name}
}

// Js jumps to label name if the sign flag is set.
func Js(name string) Instruction {
	return Instruction{Opcode: OpJs, Symbol: name}
}

// One stores 1 in dst.
func One(dst Operand) Instruction {
	return Instruction{Opcode: OpOne, Dst: dst}
}

// Onez stores 1 in dst if the zero flag is set.
func Onez(dst Operand) Instruction {
	return Instruction{Opcode: OpOnez, Dst: dst}
}

// Ones stores 1 in dst if the sign flag is set.
func Ones(dst Operand) Instruction {
	return Instruction{Opcode: OpOnes, Dst: dst}
}

// SymbolID returns the validated label or variable name of the instruction.
// It is only meaningful on instructions taken from a Program.
func (inst Instruction) SymbolID() Identifier {
	return inst.id
}

func (inst Instruction) String() string {
	if inst.Opcode == OpLabel {
		return inst.Symbol + ":"
	}

	shape := opcodeShapes[inst.Opcode]
	var args []string
	if shape.symbol {
		args = append(args, inst.Symbol)
	}
	if shape.dst {
		args = append(args, inst.Dst.String())
	}
	if shape.src {
		args = append(args, inst.Src.String())
	}

	if len(args) == 0 {
		return string(inst.Opcode)
	}

	return string(inst.Opcode) + " " + strings.Join(args, ", ")
}

// bind validates the instruction and resolves its names.
func (inst Instruction) bind() (Instruction, error) {
	shape, ok := opcodeShapes[inst.Opcode]
	if !ok {
		return inst, fmt.Errorf("%w: unknown opcode %q",
			ErrInvalidOperand, inst.Opcode)
	}

	var err error
	if shape.symbol {
		if inst.id, err = NewIdentifier(inst.Symbol); err != nil {
			return inst, err
		}
	}

	if shape.dst {
		if inst.Dst, err = inst.Dst.bind(); err != nil {
			return inst, err
		}
		if inst.Opcode != OpCmp && !inst.Dst.IsLvalue() {
			return inst, fmt.Errorf("%w: %s needs a memory destination, got %v",
				ErrInvalidOperand, inst.Opcode, inst.Dst)
		}
	}

	if shape.src {
		if inst.Src, err = inst.Src.bind(); err != nil {
			return inst, err
		}
		if inst.Opcode == OpData && inst.Src.Kind != OperandNum {
			return inst, fmt.Errorf("%w: DATA needs an immediate value, got %v",
				ErrInvalidOperand, inst.Src)
		}
	}

	return inst, nil
}
