package api_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/wordvm/api"
	"github.com/sarchlab/wordvm/core"
)

func countProgram() *core.Program {
	return core.MustProgram(
		core.Data("x", core.Num(0)),
		core.Data("y", core.Num(40)),
		core.Label("loop"),
		core.Inc(core.Mem(core.Lea("x"))),
		core.Cmp(core.Mem(core.Lea("x")), core.Num(3)),
		core.Jz("end"),
		core.Jmp("loop"),
		core.Label("end"),
		core.Add(core.Mem(core.Lea("y")), core.Mem(core.Lea("x"))),
	)
}

var _ = Describe("Computer", func() {
	for _, simulated := range []bool{false, true} {
		simulated := simulated

		Context("simulated="+map[bool]string{false: "no", true: "yes"}[simulated], func() {
			var computer api.Computer

			BeforeEach(func() {
				b := api.ComputerBuilder{}.
					WithMemorySize(4).
					WithWordBits(16)
				if simulated {
					b = b.WithEngine(sim.NewSerialEngine()).
						WithFreq(1 * sim.GHz).
						WithInstTrace(true)
				}
				computer = b.Build("Computer")
			})

			It("should boot a program and expose the memory", func() {
				Expect(computer.Boot(countProgram())).To(Succeed())

				Expect(computer.Words()).To(Equal([]int64{3, 43, 0, 0}))
				Expect(computer.ZeroFlag()).To(BeFalse())
				Expect(computer.SignFlag()).To(BeFalse())
				Expect(computer.Steps()).To(Equal(uint64(18)))
				Expect(computer.Core() != nil).To(Equal(simulated))
			})

			It("should dump the memory", func() {
				Expect(computer.Boot(countProgram())).To(Succeed())

				var buf bytes.Buffer
				Expect(computer.MemoryDump(&buf)).To(Succeed())
				Expect(buf.String()).To(Equal("3 43 0 0 "))
			})

			It("should look up variables by name", func() {
				Expect(computer.Boot(countProgram())).To(Succeed())

				Expect(computer.VariableAddress("Y")).To(Equal(uint64(1)))

				_, err := computer.VariableAddress("z")
				Expect(err).To(MatchError(core.ErrUndefinedVariable))

				_, err = computer.VariableAddress("not_valid")
				Expect(err).To(MatchError(core.ErrInvalidIdentifier))
			})

			It("should return the first failure", func() {
				prog := core.MustProgram(
					core.Data("x", core.Num(7)),
					core.Mov(core.Mem(core.Num(4)), core.Mem(core.Lea("x"))),
				)

				err := computer.Boot(prog)
				Expect(err).To(MatchError(core.ErrOutOfBounds))
				Expect(computer.Words()[0]).To(Equal(int64(7)))
			})

			It("should wrap values to the word width", func() {
				prog := core.MustProgram(
					core.Data("x", core.Num(32767)),
					core.Inc(core.Mem(core.Lea("x"))),
				)

				Expect(computer.Boot(prog)).To(Succeed())
				Expect(computer.Words()[0]).To(Equal(int64(-32768)))
				Expect(computer.SignFlag()).To(BeTrue())
			})

			It("should boot again from a clean state", func() {
				Expect(computer.Boot(countProgram())).To(Succeed())
				Expect(computer.Boot(core.MustProgram(
					core.Data("a", core.Num(9)),
				))).To(Succeed())

				Expect(computer.Words()).To(Equal([]int64{9, 0, 0, 0}))
			})
		})
	}

	It("should refuse memories that words cannot address", func() {
		Expect(func() { api.ComputerBuilder{}.WithMemorySize(0) }).To(Panic())
		Expect(func() {
			api.ComputerBuilder{}.WithWordBits(8).Build("Computer")
		}).To(Panic())
		Expect(func() {
			api.ComputerBuilder{}.
				WithMemorySize(300).
				WithWordBits(8).
				WithEngine(sim.NewSerialEngine()).
				Build("Computer")
		}).To(Panic())
	})

	It("should not fold constant addresses into the word width", func() {
		computer := api.ComputerBuilder{}.
			WithMemorySize(256).
			WithWordBits(8).
			Build("Computer")

		err := computer.Boot(core.MustProgram(
			core.Mov(core.Mem(core.Num(300)), core.Num(1)),
		))
		Expect(err).To(MatchError(core.ErrOutOfBounds))
		Expect(computer.Words()[44]).To(Equal(int64(0)))
	})

	It("should stop runaway programs at the step limit", func() {
		computer := api.ComputerBuilder{}.
			WithStepLimit(100).
			Build("Computer")

		err := computer.Boot(core.MustProgram(core.Label("a"), core.Jmp("a")))
		Expect(err).To(MatchError(core.ErrStepLimit))
		Expect(computer.Memory().Capacity()).To(Equal(uint64(1024)))
		Expect(computer.Memory().WordBits()).To(Equal(64))
	})
})
