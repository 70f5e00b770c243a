package core

import "fmt"

// Program is an immutable sequence of instructions together with the table of
// its labels.
type Program struct {
	insts  []Instruction
	labels map[Identifier]int
}

// NewProgram validates the instructions and resolves the labels. Jumps to
// labels that do not exist are not rejected here; they fail when executed.
func NewProgram(insts ...Instruction) (*Program, error) {
	p := &Program{
		insts:  make([]Instruction, len(insts)),
		labels: make(map[Identifier]int),
	}

	for i, inst := range insts {
		bound, err := inst.bind()
		if err != nil {
			return nil, &InstError{Index: i, Opcode: inst.Opcode, Err: err}
		}

		if bound.Opcode == OpLabel {
			if prev, dup := p.labels[bound.id]; dup {
				return nil, &InstError{
					Index:  i,
					Opcode: bound.Opcode,
					Err: fmt.Errorf("%w: %q already defined at instruction %d",
						ErrDuplicateLabel, bound.id, prev),
				}
			}
			p.labels[bound.id] = i
		}

		p.insts[i] = bound
	}

	return p, nil
}

// MustProgram is like NewProgram but panics on error.
func MustProgram(insts ...Instruction) *Program {
	p, err := NewProgram(insts...)
	if err != nil {
		panic(err)
	}

	return p
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insts)
}

// Instruction returns the instruction at index i.
func (p *Program) Instruction(i int) Instruction {
	return p.insts[i]
}

// Instructions returns a copy of the instruction list.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, len(p.insts))
	copy(out, p.insts)

	return out
}

// LabelAddress returns the index of the label named id.
func (p *Program) LabelAddress(id Identifier) (int, error) {
	addr, ok := p.labels[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUndefinedLabel, id)
	}

	return addr, nil
}
