// Command wordvm runs, checks and interactively builds word machine programs.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/wordvm/api"
	"github.com/sarchlab/wordvm/config"
	"github.com/sarchlab/wordvm/core"
	"github.com/sarchlab/wordvm/verify"
)

const appName = "wordvm"

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		atexit.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		atexit.Exit(cmdRun(os.Args[2:]))
	case "lint":
		atexit.Exit(cmdLint(os.Args[2:]))
	case "repl":
		atexit.Exit(cmdRepl(os.Args[2:]))
	case "-h", "--help", "help":
		usage()
		atexit.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		atexit.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Usage:
  %s run [flags] <program.asm|program.yaml>    Boot a program and dump the memory
  %s lint [flags] <program.asm|program.yaml>   Lint a program and simulate it
  %s repl [flags]                              Build and run programs interactively

Common flags:
  -config <file>   machine configuration (YAML)
  -mem <words>     memory size
  -bits <n>        word width: 8, 16, 32 or 64
  -steps <n>       step limit, 0 for none
  -sim             run on a simulated core
  -log <level>     trace, debug, info, warn or error
`, appName, appName, appName)
}

// machineFlags are the flags every subcommand accepts. Flags that are set on
// the command line override the configuration file.
type machineFlags struct {
	configPath string
	memorySize uint64
	wordBits   int
	stepLimit  uint64
	simulate   bool
	logLevel   string
}

func (m *machineFlags) register(fs *flag.FlagSet) {
	def := config.Default()
	fs.StringVar(&m.configPath, "config", "", "machine configuration file")
	fs.Uint64Var(&m.memorySize, "mem", def.MemorySize, "memory size in words")
	fs.IntVar(&m.wordBits, "bits", def.WordBits, "word width in bits")
	fs.Uint64Var(&m.stepLimit, "steps", def.StepLimit, "step limit, 0 for none")
	fs.BoolVar(&m.simulate, "sim", def.Simulate, "run on a simulated core")
	fs.StringVar(&m.logLevel, "log", def.LogLevel, "log level")
}

func (m *machineFlags) load(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if m.configPath != "" {
		var err error
		if cfg, err = config.Load(m.configPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mem":
			cfg.MemorySize = m.memorySize
		case "bits":
			cfg.WordBits = m.wordBits
		case "steps":
			cfg.StepLimit = m.stepLimit
		case "sim":
			cfg.Simulate = m.simulate
		case "log":
			cfg.LogLevel = m.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))

	return cfg, nil
}

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var m machineFlags
	m.register(fs)
	tables := fs.Bool("tables", false, "print memory, variable and processor tables")
	monitor := fs.Bool("monitor", false, "serve the akita monitor while running")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [flags] <program>\n", appName)
		return 2
	}

	cfg, err := m.load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 2
	}

	prog, err := core.LoadProgramFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", appName, red(err.Error()))
		return 1
	}

	var computer api.Computer
	if *monitor {
		computer = buildMonitored(cfg)
	} else {
		computer = cfg.Build("Computer")
	}

	bootErr := computer.Boot(prog)
	core.LogState(computer.Processor(), computer.Memory())

	if err := computer.MemoryDump(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	fmt.Println()

	if *tables {
		fmt.Println(core.RenderVariables(computer.Memory()))
		fmt.Println(core.RenderState(computer.Processor()))
		fmt.Println(core.RenderMemory(computer.Memory()))
	}

	if *monitor {
		fmt.Println("Monitor is running, press Enter to exit.")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}

	if bootErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", appName, red(bootErr.Error()))
		return 1
	}

	return 0
}

func buildMonitored(cfg config.Config) api.Computer {
	cfg.Simulate = true

	monitor := monitoring.NewMonitor()

	engine := sim.NewSerialEngine()
	monitor.RegisterEngine(engine)

	computer := cfg.Builder(engine).Build("Computer")
	monitor.RegisterComponent(computer.Core())

	monitor.StartServer()

	return computer
}

func cmdLint(args []string) int {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	var m machineFlags
	m.register(fs)
	out := fs.String("o", "", "also save the report to this file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s lint [flags] <program>\n", appName)
		return 2
	}

	cfg, err := m.load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 2
	}

	insts, err := core.ParseProgramFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", appName, red(err.Error()))
		return 1
	}

	report := verify.GenerateReport(insts, verify.LoadArchInfoFromConfig(cfg), cfg.StepLimit)
	report.WriteReport(os.Stdout)

	if *out != "" {
		if err := report.SaveReportToFile(*out); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
	}

	if !report.Passed() {
		return 1
	}

	return 0
}
