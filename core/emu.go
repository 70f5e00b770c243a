package core

import (
	"fmt"
)

type coreState struct {
	PC       int
	ZeroFlag bool
	SignFlag bool

	Memory *Memory
	Code   *Program
}

// updateFlags sets both flags from an arithmetic result.
func (s *coreState) updateFlags(result int64) {
	s.ZeroFlag = result == 0
	s.SignFlag = result < 0
}

type instEmulator struct {
}

// PrepareInst runs the declaration phase of an instruction. Only DATA has an
// effect.
func (i instEmulator) PrepareInst(inst Instruction, state *coreState) error {
	if inst.Opcode != OpData {
		return nil
	}

	return state.Memory.DeclareVariable(inst.id, inst.Src.Value)
}

// RunInst executes one instruction and moves the PC.
func (i instEmulator) RunInst(inst Instruction, state *coreState) error {
	var err error

	switch inst.Opcode {
	case OpData, OpLabel:
		state.PC++
	case OpMov:
		err = i.runMov(inst, state)
	case OpAdd, OpSub, OpInc, OpDec:
		err = i.runArith(inst, state)
	case OpAnd, OpOr, OpNot:
		err = i.runBitwise(inst, state)
	case OpCmp:
		err = i.runCmp(inst, state)
	case OpJmp:
		err = i.runJmp(inst, state)
	case OpJz:
		err = i.runCondJump(inst, state, state.ZeroFlag)
	case OpJs:
		err = i.runCondJump(inst, state, state.SignFlag)
	case OpOne:
		err = i.runSetOne(inst, state, true)
	case OpOnez:
		err = i.runSetOne(inst, state, state.ZeroFlag)
	case OpOnes:
		err = i.runSetOne(inst, state, state.SignFlag)
	default:
		err = fmt.Errorf("%w: unknown opcode %q", ErrInvalidOperand, inst.Opcode)
	}

	if err != nil {
		return &InstError{Index: state.PC, Opcode: inst.Opcode, Err: err}
	}

	return nil
}

func (i instEmulator) runMov(inst Instruction, state *coreState) error {
	addr, err := evalLvalue(&inst.Dst, state.Memory)
	if err != nil {
		return err
	}

	value, err := evalRvalue(&inst.Src, state.Memory)
	if err != nil {
		return err
	}

	if err := state.Memory.Write(addr, value); err != nil {
		return err
	}

	Trace("Inst", "Behavior", "MOV", "PC", state.PC, "Addr", addr, "Data", value)
	state.PC++

	return nil
}

// runArith handles ADD, SUB, INC and DEC, which all update both flags.
func (i instEmulator) runArith(inst Instruction, state *coreState) error {
	addr, err := evalLvalue(&inst.Dst, state.Memory)
	if err != nil {
		return err
	}

	target, err := state.Memory.Read(addr)
	if err != nil {
		return err
	}

	var delta int64 = 1
	if inst.Opcode == OpAdd || inst.Opcode == OpSub {
		if delta, err = evalRvalue(&inst.Src, state.Memory); err != nil {
			return err
		}
	}

	if inst.Opcode == OpSub || inst.Opcode == OpDec {
		delta = -delta
	}

	result := state.Memory.WordCast(target + delta)
	if err := state.Memory.Write(addr, result); err != nil {
		return err
	}

	state.updateFlags(result)
	Trace("Inst", "Behavior", string(inst.Opcode), "PC", state.PC,
		"Addr", addr, "Data", result)
	state.PC++

	return nil
}

// runBitwise handles AND, OR and NOT, which only update the zero flag.
func (i instEmulator) runBitwise(inst Instruction, state *coreState) error {
	addr, err := evalLvalue(&inst.Dst, state.Memory)
	if err != nil {
		return err
	}

	target, err := state.Memory.Read(addr)
	if err != nil {
		return err
	}

	var result int64
	switch inst.Opcode {
	case OpNot:
		result = ^target
	default:
		src, err := evalRvalue(&inst.Src, state.Memory)
		if err != nil {
			return err
		}
		if inst.Opcode == OpAnd {
			result = target & src
		} else {
			result = target | src
		}
	}

	result = state.Memory.WordCast(result)
	if err := state.Memory.Write(addr, result); err != nil {
		return err
	}

	state.ZeroFlag = result == 0
	Trace("Inst", "Behavior", string(inst.Opcode), "PC", state.PC,
		"Addr", addr, "Data", result)
	state.PC++

	return nil
}

func (i instEmulator) runCmp(inst Instruction, state *coreState) error {
	a, err := evalRvalue(&inst.Dst, state.Memory)
	if err != nil {
		return err
	}

	b, err := evalRvalue(&inst.Src, state.Memory)
	if err != nil {
		return err
	}

	state.updateFlags(state.Memory.WordCast(a - b))
	Trace("Inst", "Behavior", "CMP", "PC", state.PC,
		"Zero", state.ZeroFlag, "Sign", state.SignFlag)
	state.PC++

	return nil
}

func (i instEmulator) runJmp(inst Instruction, state *coreState) error {
	target, err := state.Code.LabelAddress(inst.id)
	if err != nil {
		return err
	}

	Trace("Inst", "Behavior", string(inst.Opcode), "PC", state.PC,
		"Target", target)
	state.PC = target

	return nil
}

func (i instEmulator) runCondJump(
	inst Instruction,
	state *coreState,
	taken bool,
) error {
	if !taken {
		state.PC++
		return nil
	}

	return i.runJmp(inst, state)
}

func (i instEmulator) runSetOne(
	inst Instruction,
	state *coreState,
	cond bool,
) error {
	if cond {
		addr, err := evalLvalue(&inst.Dst, state.Memory)
		if err != nil {
			return err
		}

		if err := state.Memory.Write(addr, 1); err != nil {
			return err
		}
	}

	state.PC++

	return nil
}
