package core

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadProgramFile loads a program from an .asm or .yaml file.
func LoadProgramFile(path string) (*Program, error) {
	insts, err := ParseProgramFile(path)
	if err != nil {
		return nil, err
	}

	return NewProgram(insts...)
}

// ParseProgramFile reads the instructions of an .asm or .yaml file without
// validating them.
func ParseProgramFile(path string) ([]Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseASM(string(data))
	}
}

// LoadProgramFileFromASM reads and parses an assembly file.
func LoadProgramFileFromASM(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return LoadProgramFromASM(string(data))
}

// LoadProgramFromASM parses assembly text. Each line holds one instruction,
//
//	DATA x, 5
//	loop:
//	INC [@x]
//	CMP [@x], #3
//	JZ end
//
// where #n is an immediate, @name a variable address and [op] the word at the
// address op evaluates to. Text after ";" or "//" is ignored, as are lines
// starting with "#".
func LoadProgramFromASM(src string) (*Program, error) {
	insts, err := ParseASM(src)
	if err != nil {
		return nil, err
	}

	return NewProgram(insts...)
}

// ParseASM parses assembly text into instructions without validating names.
func ParseASM(src string) ([]Instruction, error) {
	var insts []Instruction

	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripASMComment(scanner.Text())
		if line == "" {
			continue
		}

		inst, err := parseASMInstruction(line)
		if err != nil {
			return nil, &SyntaxError{Line: lineNo, Text: line, Msg: err.Error()}
		}

		insts = append(insts, inst)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return insts, nil
}

func stripASMComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}

	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}

	return line
}

func parseASMInstruction(line string) (Instruction, error) {
	if strings.HasSuffix(line, ":") {
		name := strings.TrimSpace(strings.TrimSuffix(line, ":"))
		return Instruction{Opcode: OpLabel, Symbol: name, Raw: line}, nil
	}

	mnemonic, rest := line, ""
	if idx := strings.IndexAny(line, " \t,"); idx >= 0 {
		mnemonic = line[:idx]
		rest = strings.TrimLeft(line[idx:], " \t,")
	}

	op, ok := ParseOpcode(mnemonic)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown instruction %q", mnemonic)
	}

	args := splitASMOperands(rest)
	shape := opcodeShapes[op]

	want := 0
	for _, used := range []bool{shape.symbol, shape.dst, shape.src} {
		if used {
			want++
		}
	}
	if len(args) != want {
		return Instruction{}, fmt.Errorf("%s takes %d operands, got %d",
			op, want, len(args))
	}

	inst := Instruction{Opcode: op, Raw: line}
	if shape.symbol {
		inst.Symbol = args[0]
		args = args[1:]
	}

	var err error
	if shape.dst {
		if inst.Dst, err = parseASMOperand(args[0]); err != nil {
			return Instruction{}, err
		}
		args = args[1:]
	}

	if shape.src {
		if inst.Src, err = parseASMOperand(args[0]); err != nil {
			return Instruction{}, err
		}
	}

	return inst, nil
}

// splitASMOperands splits on commas that are not inside brackets.
func splitASMOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	return append(parts, strings.TrimSpace(s[start:]))
}

func parseASMOperand(text string) (Operand, error) {
	text = strings.TrimSpace(text)

	switch {
	case text == "":
		return Operand{}, fmt.Errorf("empty operand")
	case strings.HasPrefix(text, "["):
		if !strings.HasSuffix(text, "]") {
			return Operand{}, fmt.Errorf("unterminated memory operand %q", text)
		}
		inner, err := parseASMOperand(text[1 : len(text)-1])
		if err != nil {
			return Operand{}, err
		}
		return Mem(inner), nil
	case strings.HasPrefix(text, "@"):
		return Lea(text[1:]), nil
	}

	v, err := strconv.ParseInt(strings.TrimPrefix(text, "#"), 0, 64)
	if err != nil {
		return Operand{}, fmt.Errorf("invalid operand %q", text)
	}

	return Num(v), nil
}
