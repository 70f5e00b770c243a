package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// HookPosInstRetired marks when the core finishes executing an instruction.
var HookPosInstRetired = &sim.HookPos{Name: "Inst Retired"}

// Core runs a program inside an akita simulation, one instruction per cycle.
type Core struct {
	*sim.TickingComponent

	memory    *Memory
	processor *Processor

	program *Program
	err     error
}

// Memory returns the memory the core executes against.
func (c *Core) Memory() *Memory {
	return c.memory
}

// Processor returns the processor holding the flags.
func (c *Core) Processor() *Processor {
	return c.processor
}

// Err returns the error that stopped the program, if any.
func (c *Core) Err() error {
	return c.err
}

// Halted tells if the mapped program has finished, successfully or not.
func (c *Core) Halted() bool {
	return c.program == nil || c.err != nil || c.processor.Halted()
}

// Cycles returns how many instructions have been retired.
func (c *Core) Cycles() uint64 {
	return c.processor.Steps()
}

// MapProgram loads the program into the core memory and schedules the first
// tick.
func (c *Core) MapProgram(program *Program) error {
	c.program = program
	c.err = c.processor.Load(program, c.memory)
	if c.err != nil {
		return c.err
	}

	Trace("Core",
		"Behavior", "MapProgram",
		"Name", c.Name(),
		"Instructions", program.Len(),
	)

	if !c.processor.Halted() {
		c.TickLater()
	}

	return nil
}

// Tick retires one instruction.
func (c *Core) Tick() (madeProgress bool) {
	if c.Halted() {
		return false
	}

	pc := c.processor.IP()
	inst := c.program.Instruction(pc)

	_, err := c.processor.Step()
	if err != nil {
		c.err = err
		Trace("Core",
			"Behavior", "Fault",
			"Name", c.Name(),
			"Time", float64(c.Engine.CurrentTime()*1e9),
			"PC", pc,
			"Error", err,
		)
		return false
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosInstRetired,
		Item:   inst,
		Detail: pc,
	})

	return !c.processor.Halted()
}
