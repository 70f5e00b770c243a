package core

import "fmt"

// Processor executes programs against a memory. It owns the zero and sign
// flags and the instruction pointer.
type Processor struct {
	// StepLimit bounds the number of executed instructions per run. Zero
	// means no limit.
	StepLimit uint64

	state coreState
	emu   instEmulator
	steps uint64
}

// NewProcessor creates a processor with cleared flags.
func NewProcessor() *Processor {
	return &Processor{}
}

// ZeroFlag reports whether the last flag-setting result was zero.
func (p *Processor) ZeroFlag() bool {
	return p.state.ZeroFlag
}

// SignFlag reports whether the last flag-setting result was negative.
func (p *Processor) SignFlag() bool {
	return p.state.SignFlag
}

// IP returns the index of the next instruction to execute.
func (p *Processor) IP() int {
	return p.state.PC
}

// Steps returns the number of instructions executed in the current run.
func (p *Processor) Steps() uint64 {
	return p.steps
}

// Halted tells if the loaded program has run off its end.
func (p *Processor) Halted() bool {
	return p.state.Code == nil || p.state.PC >= p.state.Code.Len()
}

// Load clears the memory and the flags and runs the declaration phase of
// every instruction, in program order.
func (p *Processor) Load(prog *Program, mem *Memory) error {
	mem.Reset()
	p.state = coreState{Memory: mem, Code: prog}
	p.steps = 0

	for idx, inst := range prog.insts {
		if err := p.emu.PrepareInst(inst, &p.state); err != nil {
			return &InstError{Index: idx, Opcode: inst.Opcode, Err: err}
		}
	}

	Trace("Run", "Behavior", "Prepared",
		"Instructions", prog.Len(),
		"Variables", len(mem.variables))

	return nil
}

// Step executes the instruction at the instruction pointer. It reports done
// once the pointer has moved past the last instruction.
func (p *Processor) Step() (done bool, err error) {
	if p.Halted() {
		return true, nil
	}

	if p.StepLimit > 0 && p.steps >= p.StepLimit {
		return false, fmt.Errorf("%w: %d instructions executed",
			ErrStepLimit, p.steps)
	}

	inst := p.state.Code.insts[p.state.PC]
	if err := p.emu.RunInst(inst, &p.state); err != nil {
		return false, err
	}
	p.steps++

	return p.Halted(), nil
}

// Run loads prog into mem and executes it until it falls off the end or an
// instruction fails. Memory is left as it was at the point of failure.
func (p *Processor) Run(prog *Program, mem *Memory) error {
	if err := p.Load(prog, mem); err != nil {
		return err
	}

	for {
		done, err := p.Step()
		if err != nil {
			Trace("Run", "Behavior", "Failed", "PC", p.state.PC, "Error", err)
			return err
		}

		if done {
			break
		}
	}

	Trace("Run", "Behavior", "Finished", "Steps", p.steps)

	return nil
}
