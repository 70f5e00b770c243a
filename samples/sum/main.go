package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/wordvm/api"
	"github.com/sarchlab/wordvm/core"
)

//go:embed sum.asm
var sumKernel string

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: core.LevelTrace})))

	program, err := core.LoadProgramFromASM(sumKernel)
	if err != nil {
		fmt.Println("Failed to load program:", err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()

	computer := api.ComputerBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMemorySize(16).
		WithInstTrace(true).
		Build("Computer")

	if err := computer.Boot(program); err != nil {
		fmt.Println("Boot failed:", err)
		atexit.Exit(1)
	}

	addr, _ := computer.VariableAddress("sum")
	fmt.Printf("Sum: %d (%d cycles, %.0f ns)\n",
		computer.Words()[addr], computer.Steps(), float64(engine.CurrentTime()*1e9))

	atexit.Exit(0)
}
