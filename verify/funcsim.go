package verify

import (
	"fmt"

	"github.com/sarchlab/wordvm/core"
)

// FunctionalSimulator runs a program on a bare processor, without an engine.
type FunctionalSimulator struct {
	program   *core.Program
	arch      *ArchInfo
	memory    *core.Memory
	processor *core.Processor

	// Optional tracing hooks
	TraceInstPre  func(pc int, inst core.Instruction)
	TraceInstPost func(pc int, inst core.Instruction, p *core.Processor)
	TraceStore    func(pc int, addr uint64, old, value int64)
}

// NewFunctionalSimulator creates a new functional simulator
func NewFunctionalSimulator(p *core.Program, arch *ArchInfo) *FunctionalSimulator {
	fs := &FunctionalSimulator{
		program:   p,
		arch:      arch,
		processor: core.NewProcessor(),
	}

	if arch != nil {
		wordBits := arch.WordBits
		if wordBits == 0 {
			wordBits = core.DefaultWordBits
		}
		if arch.MemCapacity <= core.MaxCapacity(wordBits) {
			fs.memory = core.NewMemory(arch.MemCapacity, wordBits)
		}
	}

	return fs
}

// Run executes the program for up to maxSteps instructions, 0 meaning no
// limit. Returns the error that stopped the program, if any.
func (fs *FunctionalSimulator) Run(maxSteps uint64) error {
	if fs.program == nil || fs.arch == nil {
		return fmt.Errorf("FunctionalSimulator not properly initialized")
	}
	if fs.memory == nil {
		return fmt.Errorf("%d words cannot be addressed with %d-bit words",
			fs.arch.MemCapacity, fs.arch.WordBits)
	}

	fs.processor.StepLimit = maxSteps
	if err := fs.processor.Load(fs.program, fs.memory); err != nil {
		return err
	}

	for !fs.processor.Halted() {
		pc := fs.processor.IP()
		inst := fs.program.Instruction(pc)

		if fs.TraceInstPre != nil {
			fs.TraceInstPre(pc, inst)
		}

		var before []int64
		if fs.TraceStore != nil {
			before = fs.memory.Words()
		}

		if _, err := fs.processor.Step(); err != nil {
			return err
		}

		if fs.TraceStore != nil {
			fs.reportStores(pc, before)
		}

		if fs.TraceInstPost != nil {
			fs.TraceInstPost(pc, inst, fs.processor)
		}
	}

	return nil
}

func (fs *FunctionalSimulator) reportStores(pc int, before []int64) {
	for addr, w := range fs.memory.Words() {
		if w != before[addr] {
			fs.TraceStore(pc, uint64(addr), before[addr], w)
		}
	}
}

// Memory returns the simulated memory.
func (fs *FunctionalSimulator) Memory() *core.Memory {
	return fs.memory
}

// Processor returns the simulated processor.
func (fs *FunctionalSimulator) Processor() *core.Processor {
	return fs.processor
}

// GetMemoryValue reads one word.
func (fs *FunctionalSimulator) GetMemoryValue(addr uint64) (int64, error) {
	return fs.memory.Read(addr)
}

// GetMemoryRange returns the words in [addrStart, addrEnd).
func (fs *FunctionalSimulator) GetMemoryRange(addrStart, addrEnd uint64) []int64 {
	words := fs.memory.Words()
	if addrEnd > uint64(len(words)) {
		addrEnd = uint64(len(words))
	}
	if addrStart >= addrEnd {
		return nil
	}

	return words[addrStart:addrEnd]
}

// GetVariableValue reads the word of a declared variable.
func (fs *FunctionalSimulator) GetVariableValue(name string) (int64, error) {
	id, err := core.NewIdentifier(name)
	if err != nil {
		return 0, err
	}

	addr, err := fs.memory.VariableAddress(id)
	if err != nil {
		return 0, err
	}

	return fs.memory.Read(addr)
}
