// Package api defines the computer API of the word machine.
package api

import (
	"io"

	"github.com/sarchlab/wordvm/core"
)

// Computer owns a memory and a processor and runs programs on them.
type Computer interface {
	// Boot clears the memory, registers every declaration of the program and
	// executes it until it falls off the end or fails. Effects of the
	// instructions executed before a failure stay visible.
	Boot(program *core.Program) error

	// MemoryDump writes every word in address order, each followed by a
	// single space.
	MemoryDump(w io.Writer) error

	// Words returns a copy of the memory contents.
	Words() []int64

	// VariableAddress returns the address of a declared variable.
	VariableAddress(name string) (uint64, error)

	ZeroFlag() bool
	SignFlag() bool

	// Steps returns how many instructions the last boot executed.
	Steps() uint64

	Memory() *core.Memory
	Processor() *core.Processor

	// Core returns the simulated core, or nil if the computer runs programs
	// directly.
	Core() *core.Core
}

type computerImpl struct {
	name string

	memory    *core.Memory
	processor *core.Processor

	engine runner
	core   *core.Core
}

type runner interface {
	Run() error
}

func (c *computerImpl) Boot(program *core.Program) error {
	core.Trace("Computer",
		"Behavior", "Boot",
		"Name", c.name,
		"Instructions", program.Len(),
		"Simulated", c.core != nil,
	)

	if c.core == nil {
		return c.processor.Run(program, c.memory)
	}

	if err := c.core.MapProgram(program); err != nil {
		return err
	}

	if err := c.engine.Run(); err != nil {
		return err
	}

	return c.core.Err()
}

func (c *computerImpl) MemoryDump(w io.Writer) error {
	return c.memory.Dump(w)
}

func (c *computerImpl) Words() []int64 {
	return c.memory.Words()
}

func (c *computerImpl) VariableAddress(name string) (uint64, error) {
	id, err := core.NewIdentifier(name)
	if err != nil {
		return 0, err
	}

	return c.memory.VariableAddress(id)
}

func (c *computerImpl) ZeroFlag() bool {
	return c.processor.ZeroFlag()
}

func (c *computerImpl) SignFlag() bool {
	return c.processor.SignFlag()
}

func (c *computerImpl) Steps() uint64 {
	return c.processor.Steps()
}

func (c *computerImpl) Memory() *core.Memory {
	return c.memory
}

func (c *computerImpl) Processor() *core.Processor {
	return c.processor
}

func (c *computerImpl) Core() *core.Core {
	return c.core
}
