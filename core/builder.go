package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	memorySize uint64
	wordBits   int
	stepLimit  uint64
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMemorySize sets the number of words of the core memory.
func (b Builder) WithMemorySize(words uint64) Builder {
	if words == 0 {
		panic("memory size must be positive")
	}
	b.memorySize = words
	return b
}

func (b Builder) WithWordBits(bits int) Builder {
	switch bits {
	case 8, 16, 32, 64:
	default:
		panic(fmt.Sprintf("word width must be 8, 16, 32 or 64, got %d", bits))
	}
	b.wordBits = bits
	return b
}

// WithStepLimit bounds how many instructions one program may execute.
func (b Builder) WithStepLimit(steps uint64) Builder {
	b.stepLimit = steps
	return b
}

func NewBuilder() Builder {
	return Builder{
		freq:       1 * sim.GHz,
		memorySize: 1024,
		wordBits:   DefaultWordBits,
	}
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.wordBits == 0 {
		b.wordBits = DefaultWordBits
	}

	c := &Core{
		memory:    NewMemory(b.memorySize, b.wordBits),
		processor: NewProcessor(),
	}
	c.processor.StepLimit = b.stepLimit

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
