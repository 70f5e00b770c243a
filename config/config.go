// Package config describes how a word machine is built.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/wordvm/api"
	"github.com/sarchlab/wordvm/core"
)

// Config is the machine configuration, usually read from a YAML file.
//
//	memory_size: 256
//	word_bits: 16
//	simulate: true
//	freq_mhz: 500
//	step_limit: 100000
//	log_level: debug
type Config struct {
	MemorySize uint64  `yaml:"memory_size"`
	WordBits   int     `yaml:"word_bits"`
	Simulate   bool    `yaml:"simulate"`
	FreqMHz    float64 `yaml:"freq_mhz"`
	StepLimit  uint64  `yaml:"step_limit"`
	LogLevel   string  `yaml:"log_level"`

	// TraceInstructions logs every instruction a simulated core retires.
	TraceInstructions bool `yaml:"trace_instructions"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MemorySize: 1024,
		WordBits:   core.DefaultWordBits,
		FreqMHz:    1000,
		StepLimit:  1_000_000,
		LogLevel:   "info",
	}
}

// Load reads a YAML configuration file. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	return Parse(data)
}

// Parse decodes a YAML configuration on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the values that the builders would otherwise panic on.
func (c Config) Validate() error {
	switch c.WordBits {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("config: word_bits must be 8, 16, 32 or 64, got %d",
			c.WordBits)
	}

	if c.MemorySize == 0 {
		return fmt.Errorf("config: memory_size must be positive")
	}

	if c.MemorySize > core.MaxCapacity(c.WordBits) {
		return fmt.Errorf("config: memory_size %d cannot be addressed with %d-bit words",
			c.MemorySize, c.WordBits)
	}

	if c.Simulate && c.FreqMHz <= 0 {
		return fmt.Errorf("config: freq_mhz must be positive, got %v", c.FreqMHz)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel converts the configured log level name.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return core.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
}

// Builder returns a computer builder set up from the configuration. The
// engine is only used when Simulate is set.
func (c Config) Builder(engine sim.Engine) api.ComputerBuilder {
	b := api.ComputerBuilder{}.
		WithMemorySize(c.MemorySize).
		WithWordBits(c.WordBits).
		WithStepLimit(c.StepLimit)

	if c.Simulate {
		b = b.WithEngine(engine).
			WithFreq(sim.Freq(c.FreqMHz) * sim.MHz).
			WithInstTrace(c.TraceInstructions)
	}

	return b
}

// Build creates a computer. A serial engine is created for simulated
// computers.
func (c Config) Build(name string) api.Computer {
	var engine sim.Engine
	if c.Simulate {
		engine = sim.NewSerialEngine()
	}

	return c.Builder(engine).Build(name)
}
