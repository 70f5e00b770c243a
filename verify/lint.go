package verify

import (
	"errors"
	"fmt"

	"github.com/sarchlab/wordvm/core"
)

// RunLint performs static lint checks on a program that has already passed
// construction. Its instruction shapes are known to be valid, so only the
// SYMBOL checks and the machine limits can report anything.
func RunLint(p *core.Program, arch *ArchInfo) []Issue {
	return LintInstructions(p.Instructions(), arch)
}

// LintInstructions performs static lint checks on unvalidated instructions,
// such as the output of core.ParseASM. Unlike core.NewProgram it does not stop
// at the first problem.
// Returns a list of issues found, or empty list if no issues.
func LintInstructions(insts []core.Instruction, arch *ArchInfo) []Issue {
	wordBits := arch.WordBits
	if wordBits == 0 {
		wordBits = core.DefaultWordBits
	}

	l := &linter{
		arch:     arch,
		scratch:  core.NewMemory(0, wordBits),
		labels:   make(map[core.Identifier]int),
		declared: make(map[core.Identifier]int),
	}

	for i, inst := range insts {
		l.checkShape(i, inst)
		l.collectSymbol(i, inst)
	}

	for i, inst := range insts {
		l.checkReferences(i, inst)
	}

	if uint64(len(l.declared)) > arch.MemCapacity {
		l.report(IssueStruct, -1, core.Instruction{},
			map[string]interface{}{
				"variables": len(l.declared),
				"capacity":  arch.MemCapacity,
			},
			"%d variables do not fit in %d memory words",
			len(l.declared), arch.MemCapacity)
	}

	if arch.MemCapacity > core.MaxCapacity(wordBits) {
		l.report(IssueStruct, -1, core.Instruction{},
			map[string]interface{}{
				"capacity": arch.MemCapacity,
				"wordBits": wordBits,
			},
			"%d memory words cannot be addressed with %d-bit words",
			arch.MemCapacity, wordBits)
	}

	return l.issues
}

type linter struct {
	arch    *ArchInfo
	scratch *core.Memory

	labels   map[core.Identifier]int
	declared map[core.Identifier]int
	issues   []Issue
}

func (l *linter) report(
	t IssueType,
	index int,
	inst core.Instruction,
	details map[string]interface{},
	format string,
	args ...interface{},
) {
	issue := Issue{
		Type:    t,
		Index:   index,
		Message: fmt.Sprintf(format, args...),
		Details: details,
	}
	if index >= 0 {
		issue.Inst = inst.Raw
		if issue.Inst == "" {
			issue.Inst = inst.String()
		}
	}

	l.issues = append(l.issues, issue)
}

// checkShape validates the instruction on its own, the same way program
// construction does.
func (l *linter) checkShape(i int, inst core.Instruction) {
	if _, err := core.NewProgram(inst); err != nil {
		l.report(IssueStruct, i, inst, nil, "%v", unwrapInst(err))
		return
	}

	for _, op := range []core.Operand{inst.Dst, inst.Src} {
		l.checkOperand(i, inst, op)
	}
}

func (l *linter) checkOperand(i int, inst core.Instruction, op core.Operand) {
	switch op.Kind {
	case core.OperandNum:
		if l.scratch.WordCast(op.Value) != op.Value {
			l.report(IssueStruct, i, inst,
				map[string]interface{}{"value": op.Value, "wordBits": l.scratch.WordBits()},
				"immediate %d does not fit in a %d-bit word",
				op.Value, l.scratch.WordBits())
		}
	case core.OperandMem:
		if op.Addr.Kind != core.OperandNum {
			l.checkOperand(i, inst, *op.Addr)
			return
		}

		addr := op.Addr.Value
		if addr < 0 || uint64(addr) >= l.arch.MemCapacity {
			l.report(IssueStruct, i, inst,
				map[string]interface{}{"address": addr, "capacity": l.arch.MemCapacity},
				"address %d is outside the %d memory words",
				addr, l.arch.MemCapacity)
		}
	}
}

func (l *linter) collectSymbol(i int, inst core.Instruction) {
	if inst.Opcode != core.OpLabel && inst.Opcode != core.OpData {
		return
	}

	id, err := core.NewIdentifier(inst.Symbol)
	if err != nil {
		return
	}

	if inst.Opcode == core.OpLabel {
		if prev, dup := l.labels[id]; dup {
			l.report(IssueSymbol, i, inst,
				map[string]interface{}{"label": id.String(), "first": prev},
				"label %s already defined at instruction %d", id, prev)
			return
		}
		l.labels[id] = i
		return
	}

	if prev, dup := l.declared[id]; dup {
		l.report(IssueSymbol, i, inst,
			map[string]interface{}{"variable": id.String(), "first": prev},
			"variable %s already declared at instruction %d, its value is overwritten",
			id, prev)
		return
	}
	l.declared[id] = i
}

func (l *linter) checkReferences(i int, inst core.Instruction) {
	if inst.Opcode.IsJump() {
		id, err := core.NewIdentifier(inst.Symbol)
		if err != nil {
			return
		}
		if _, ok := l.labels[id]; !ok {
			l.report(IssueSymbol, i, inst,
				map[string]interface{}{"label": id.String()},
				"jump to undefined label %s", id)
		}
		return
	}

	for _, name := range referencedNames(inst.Dst, inst.Src) {
		id, err := core.NewIdentifier(name)
		if err != nil {
			continue
		}
		if _, ok := l.declared[id]; !ok {
			l.report(IssueSymbol, i, inst,
				map[string]interface{}{"variable": id.String()},
				"variable %s is never declared", id)
		}
	}
}

func referencedNames(ops ...core.Operand) []string {
	var names []string
	for _, op := range ops {
		switch op.Kind {
		case core.OperandLea:
			names = append(names, op.Name)
		case core.OperandMem:
			names = append(names, referencedNames(*op.Addr)...)
		}
	}

	return names
}

func unwrapInst(err error) error {
	var instErr *core.InstError
	if errors.As(err, &instErr) {
		return instErr.Err
	}

	return err
}
