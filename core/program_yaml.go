package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlProgram is the on-disk YAML layout of a program.
//
//	program:
//	  - {op: DATA, name: x, value: 0}
//	  - {label: loop}
//	  - {op: INC, dst: "[@x]"}
//	  - {op: CMP, dst: "[@x]", src: "#3"}
//	  - {op: JZ, target: end}
type yamlProgram struct {
	Program []yamlInstruction `yaml:"program"`
}

type yamlInstruction struct {
	Op     string `yaml:"op"`
	Label  string `yaml:"label"`
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
	Value  *int64 `yaml:"value"`
	Dst    string `yaml:"dst"`
	Src    string `yaml:"src"`

	line int
}

// LoadProgramFileFromYAML reads and parses a YAML program file.
func LoadProgramFileFromYAML(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return LoadProgramFromYAML(data)
}

// LoadProgramFromYAML parses a YAML program.
func LoadProgramFromYAML(data []byte) (*Program, error) {
	insts, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}

	return NewProgram(insts...)
}

// ParseYAML parses a YAML program into instructions without validating names.
func ParseYAML(data []byte) ([]Instruction, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	var doc yamlProgram
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	recordYAMLLines(&root, doc.Program)

	insts := make([]Instruction, 0, len(doc.Program))
	for _, yi := range doc.Program {
		inst, err := yi.toInstruction()
		if err != nil {
			return nil, &SyntaxError{Line: yi.line, Text: yi.describe(), Msg: err.Error()}
		}
		insts = append(insts, inst)
	}

	return insts, nil
}

// recordYAMLLines copies the source line of every program item for error
// messages.
func recordYAMLLines(root *yaml.Node, items []yamlInstruction) {
	if len(root.Content) == 0 {
		return
	}

	mapping := root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != "program" {
			continue
		}

		seq := mapping.Content[i+1]
		for j := 0; j < len(seq.Content) && j < len(items); j++ {
			items[j].line = seq.Content[j].Line
		}
	}
}

func (yi yamlInstruction) describe() string {
	if yi.Label != "" {
		return yi.Label + ":"
	}

	return yi.Op
}

func (yi yamlInstruction) toInstruction() (Instruction, error) {
	if yi.Label != "" {
		if yi.Op != "" {
			return Instruction{}, fmt.Errorf("label entry cannot also have op %q", yi.Op)
		}
		return Label(yi.Label), nil
	}

	op, ok := ParseOpcode(yi.Op)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown instruction %q", yi.Op)
	}

	shape := opcodeShapes[op]
	inst := Instruction{Opcode: op}

	switch {
	case op == OpData:
		if yi.Value == nil {
			return Instruction{}, fmt.Errorf("DATA needs a value")
		}
		inst.Symbol = yi.Name
		inst.Src = Num(*yi.Value)
		return inst, nil
	case shape.symbol:
		inst.Symbol = yi.Target
		if inst.Symbol == "" {
			inst.Symbol = yi.Name
		}
		return inst, nil
	}

	var err error
	if inst.Dst, err = parseASMOperand(yi.Dst); err != nil {
		return Instruction{}, fmt.Errorf("dst: %w", err)
	}

	if shape.src {
		if inst.Src, err = parseASMOperand(yi.Src); err != nil {
			return Instruction{}, fmt.Errorf("src: %w", err)
		}
	}

	return inst, nil
}
