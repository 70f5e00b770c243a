package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/wordvm/core"
)

// ComputerBuilder creates a new instance of Computer.
type ComputerBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	memorySize uint64
	wordBits   int
	stepLimit  uint64
	traceInsts bool
}

// WithEngine makes the computer run programs on a simulated core driven by
// the engine.
func (b ComputerBuilder) WithEngine(engine sim.Engine) ComputerBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the simulated core.
func (b ComputerBuilder) WithFreq(freq sim.Freq) ComputerBuilder {
	b.freq = freq
	return b
}

// WithMemorySize sets the number of memory words. A computer built without it
// has 1024 words. Every address must fit in a word, so 8-bit words allow at
// most 256 words and 16-bit words at most 65536.
func (b ComputerBuilder) WithMemorySize(words uint64) ComputerBuilder {
	if words == 0 {
		panic("memory size must be positive")
	}
	b.memorySize = words
	return b
}

// WithWordBits sets the word width. Only 8, 16, 32 and 64 are supported.
func (b ComputerBuilder) WithWordBits(bits int) ComputerBuilder {
	b.wordBits = bits
	return b
}

// WithStepLimit bounds the number of instructions a boot may execute.
func (b ComputerBuilder) WithStepLimit(steps uint64) ComputerBuilder {
	b.stepLimit = steps
	return b
}

// WithInstTrace logs every retired instruction of the simulated core.
func (b ComputerBuilder) WithInstTrace(enabled bool) ComputerBuilder {
	b.traceInsts = enabled
	return b
}

// Build creates a computer.
func (b ComputerBuilder) Build(name string) Computer {
	if b.memorySize == 0 {
		b.memorySize = 1024
	}
	if b.wordBits == 0 {
		b.wordBits = core.DefaultWordBits
	}

	c := &computerImpl{name: name}

	if b.engine == nil {
		c.memory = core.NewMemory(b.memorySize, b.wordBits)
		c.processor = core.NewProcessor()
		c.processor.StepLimit = b.stepLimit
		return c
	}

	if b.freq == 0 {
		b.freq = 1 * sim.GHz
	}

	c.engine = b.engine
	c.core = core.NewBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		WithMemorySize(b.memorySize).
		WithWordBits(b.wordBits).
		WithStepLimit(b.stepLimit).
		Build(name + ".Core")
	c.memory = c.core.Memory()
	c.processor = c.core.Processor()

	if b.traceInsts {
		c.core.AcceptHook(instTracer{})
	}

	return c
}
