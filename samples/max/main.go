package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/wordvm/api"
	"github.com/sarchlab/wordvm/core"
)

//go:embed max.yaml
var maxKernel []byte

func main() {
	program, err := core.LoadProgramFromYAML(maxKernel)
	if err != nil {
		fmt.Println("Failed to load program:", err)
		atexit.Exit(1)
	}

	computer := api.ComputerBuilder{}.
		WithMemorySize(8).
		WithWordBits(16).
		Build("Computer")

	if err := computer.Boot(program); err != nil {
		fmt.Println("Boot failed:", err)
		atexit.Exit(1)
	}

	fmt.Println(core.RenderVariables(computer.Memory()))
	fmt.Println(core.RenderState(computer.Processor()))

	fmt.Print("Memory: ")
	_ = computer.MemoryDump(os.Stdout)
	fmt.Println()

	atexit.Exit(0)
}
