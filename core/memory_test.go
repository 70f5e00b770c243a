package core_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wordvm/core"
)

var _ = Describe("Identifier", func() {
	It("should accept names of 1 to 10 alphanumeric characters", func() {
		for _, name := range []string{"x", "loop", "A1b2C3", "abcdefghij"} {
			_, err := core.NewIdentifier(name)
			Expect(err).NotTo(HaveOccurred(), name)
		}
	})

	It("should reject empty, long and non-alphanumeric names", func() {
		for _, name := range []string{"", "abcdefghijk", "a_b", "x-1", "ß", "a b"} {
			_, err := core.NewIdentifier(name)
			Expect(err).To(MatchError(core.ErrInvalidIdentifier), name)
		}
	})

	It("should fold case", func() {
		Expect(core.MustIdentifier("Loop")).To(Equal(core.MustIdentifier("lOOP")))
	})

	It("should not confuse short names with longer ones", func() {
		Expect(core.MustIdentifier("a")).NotTo(Equal(core.MustIdentifier("aa")))
		Expect(core.MustIdentifier("z")).NotTo(Equal(core.MustIdentifier("a0")))
	})

	It("should encode six characters into 32 bits", func() {
		Expect(core.MustIdentifier("999999").Key()).To(BeNumerically("<", uint64(1)<<32))
	})

	It("should decode to the lower-case spelling", func() {
		Expect(core.MustIdentifier("Cnt42").String()).To(Equal("cnt42"))
	})

	It("should panic in MustIdentifier on bad names", func() {
		Expect(func() { core.MustIdentifier("") }).To(Panic())
	})
})

var _ = Describe("Memory", func() {
	var m *core.Memory

	BeforeEach(func() {
		m = core.NewMemory(4, 64)
	})

	It("should start zeroed", func() {
		Expect(m.Words()).To(Equal([]int64{0, 0, 0, 0}))
		Expect(m.Capacity()).To(Equal(uint64(4)))
	})

	It("should read and write inside bounds", func() {
		Expect(m.Write(3, -7)).To(Succeed())
		Expect(m.Read(3)).To(Equal(int64(-7)))
	})

	It("should fail outside bounds", func() {
		_, err := m.Read(4)
		Expect(err).To(MatchError(core.ErrOutOfBounds))
		Expect(m.Write(100, 1)).To(MatchError(core.ErrOutOfBounds))
	})

	It("should give variables consecutive addresses", func() {
		Expect(m.DeclareVariable(core.MustIdentifier("a"), 10)).To(Succeed())
		Expect(m.DeclareVariable(core.MustIdentifier("b"), 20)).To(Succeed())

		Expect(m.VariableAddress(core.MustIdentifier("a"))).To(Equal(uint64(0)))
		Expect(m.VariableAddress(core.MustIdentifier("b"))).To(Equal(uint64(1)))
		Expect(m.Words()).To(Equal([]int64{10, 20, 0, 0}))
	})

	It("should reuse the address of a redeclared variable", func() {
		Expect(m.DeclareVariable(core.MustIdentifier("a"), 10)).To(Succeed())
		Expect(m.DeclareVariable(core.MustIdentifier("a"), 30)).To(Succeed())
		Expect(m.DeclareVariable(core.MustIdentifier("b"), 20)).To(Succeed())

		Expect(m.VariableAddress(core.MustIdentifier("b"))).To(Equal(uint64(1)))
		Expect(m.Words()).To(Equal([]int64{30, 20, 0, 0}))
	})

	It("should fail when variables exceed capacity", func() {
		for _, name := range []string{"a", "b", "c", "d"} {
			Expect(m.DeclareVariable(core.MustIdentifier(name), 1)).To(Succeed())
		}

		err := m.DeclareVariable(core.MustIdentifier("e"), 1)
		Expect(err).To(MatchError(core.ErrTooManyVariables))
	})

	It("should report undefined variables", func() {
		_, err := m.VariableAddress(core.MustIdentifier("nope"))
		Expect(err).To(MatchError(core.ErrUndefinedVariable))
	})

	It("should forget everything on reset", func() {
		Expect(m.DeclareVariable(core.MustIdentifier("a"), 5)).To(Succeed())
		m.Reset()

		Expect(m.Words()).To(Equal([]int64{0, 0, 0, 0}))
		Expect(m.Variables()).To(BeEmpty())
		Expect(m.DeclareVariable(core.MustIdentifier("b"), 1)).To(Succeed())
		Expect(m.VariableAddress(core.MustIdentifier("b"))).To(Equal(uint64(0)))
	})

	It("should list variables in address order", func() {
		Expect(m.DeclareVariable(core.MustIdentifier("z"), 1)).To(Succeed())
		Expect(m.DeclareVariable(core.MustIdentifier("a"), 2)).To(Succeed())

		Expect(m.Variables()).To(Equal([]core.Variable{
			{Name: core.MustIdentifier("z"), Address: 0},
			{Name: core.MustIdentifier("a"), Address: 1},
		}))
	})

	It("should dump words separated by spaces", func() {
		Expect(m.Write(1, 5)).To(Succeed())
		var buf bytes.Buffer
		Expect(m.Dump(&buf)).To(Succeed())
		Expect(buf.String()).To(Equal("0 5 0 0 "))
	})

	It("should restore a snapshot", func() {
		Expect(m.DeclareVariable(core.MustIdentifier("a"), 5)).To(Succeed())
		snap := m.Snapshot()

		Expect(m.Write(0, 99)).To(Succeed())
		m.Reset()
		m.Restore(snap)

		Expect(m.Words()).To(Equal([]int64{5, 0, 0, 0}))
		Expect(m.VariableAddress(core.MustIdentifier("a"))).To(Equal(uint64(0)))
	})

	Context("with 8-bit words", func() {
		BeforeEach(func() {
			m = core.NewMemory(4, 8)
		})

		It("should wrap stored values", func() {
			Expect(m.Write(0, 127+1)).To(Succeed())
			Expect(m.Read(0)).To(Equal(int64(-128)))
			Expect(m.Write(0, 255)).To(Succeed())
			Expect(m.Read(0)).To(Equal(int64(-1)))
		})

		It("should read negative words as unsigned addresses", func() {
			Expect(m.AddressCast(-1)).To(Equal(uint64(255)))
		})
	})

	It("should panic on unsupported word widths", func() {
		Expect(func() { core.NewMemory(4, 12) }).To(Panic())
	})

	It("should panic when words cannot address every cell", func() {
		Expect(core.MaxCapacity(8)).To(Equal(uint64(256)))
		Expect(core.MaxCapacity(16)).To(Equal(uint64(65536)))

		Expect(func() { core.NewMemory(256, 8) }).NotTo(Panic())
		Expect(func() { core.NewMemory(257, 8) }).To(Panic())
		Expect(func() { core.NewMemory(1<<20, 64) }).NotTo(Panic())
	})

	It("should render a table of words", func() {
		Expect(m.Write(2, 42)).To(Succeed())
		out := core.RenderMemory(m)
		Expect(out).To(ContainSubstring("42"))
		Expect(strings.Count(out, "\n")).To(BeNumerically(">", 2))
	})
})
