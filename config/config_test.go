package config_test

import (
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wordvm/config"
	"github.com/sarchlab/wordvm/core"
)

var _ = Describe("Config", func() {
	It("should keep defaults for missing keys", func() {
		cfg, err := config.Parse([]byte("word_bits: 8\n"))
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.WordBits).To(Equal(8))
		Expect(cfg.MemorySize).To(Equal(uint64(1024)))
		Expect(cfg.Simulate).To(BeFalse())
	})

	It("should load a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "machine.yaml")
		Expect(os.WriteFile(path, []byte(`
memory_size: 16
word_bits: 32
simulate: true
freq_mhz: 500
step_limit: 50
log_level: trace
trace_instructions: true
`), 0o644)).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Config{
			MemorySize:        16,
			WordBits:          32,
			Simulate:          true,
			FreqMHz:           500,
			StepLimit:         50,
			LogLevel:          "trace",
			TraceInstructions: true,
		}))

		level, err := cfg.SlogLevel()
		Expect(err).NotTo(HaveOccurred())
		Expect(level).To(Equal(core.LevelTrace))
	})

	It("should reject bad values", func() {
		for _, src := range []string{
			"word_bits: 12",
			"memory_size: 0",
			"simulate: true\nfreq_mhz: 0",
			"log_level: loud",
			"memory_size: [1, 2]",
		} {
			_, err := config.Parse([]byte(src))
			Expect(err).To(HaveOccurred(), src)
		}
	})

	It("should reject memories that words cannot address", func() {
		_, err := config.Parse([]byte("word_bits: 8\nmemory_size: 257"))
		Expect(err).To(MatchError(ContainSubstring("cannot be addressed")))

		cfg, err := config.Parse([]byte("word_bits: 8\nmemory_size: 256"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.MemorySize).To(Equal(uint64(256)))
	})

	It("should fail on a missing file", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "none.yaml"))
		Expect(err).To(HaveOccurred())
	})

	It("should map level names", func() {
		cfg := config.Default()
		for name, want := range map[string]slog.Level{
			"":      slog.LevelInfo,
			"DEBUG": slog.LevelDebug,
			"warn":  slog.LevelWarn,
			"error": slog.LevelError,
		} {
			cfg.LogLevel = name
			Expect(cfg.SlogLevel()).To(Equal(want), name)
		}
	})

	It("should build computers that agree in both modes", func() {
		prog := core.MustProgram(
			core.Data("x", core.Num(250)),
			core.Add(core.Mem(core.Lea("x")), core.Num(10)),
		)

		cfg := config.Default()
		cfg.MemorySize = 2
		cfg.WordBits = 8

		eager := cfg.Build("Eager")
		Expect(eager.Core()).To(BeNil())
		Expect(eager.Boot(prog)).To(Succeed())

		cfg.Simulate = true
		simulated := cfg.Build("Simulated")
		Expect(simulated.Core()).NotTo(BeNil())
		Expect(simulated.Boot(prog)).To(Succeed())

		Expect(eager.Words()).To(Equal([]int64{4, 0}))
		Expect(simulated.Words()).To(Equal(eager.Words()))
		Expect(simulated.SignFlag()).To(Equal(eager.SignFlag()))
	})
})
