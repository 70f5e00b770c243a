package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/wordvm/api"
	"github.com/sarchlab/wordvm/core"
	"github.com/sarchlab/wordvm/verify"
)

const (
	historyFile = ".wordvm_history"
	prompt      = "wordvm> "
)

const replHelp = `Type assembly lines to append them to the program. Commands:
  :run           boot the program and dump the memory
  :list          print the program
  :undo          drop the last instruction
  :clear         start a new program
  :load <file>   append the instructions of a file
  :lint          lint the program
  :mem           print the memory table
  :vars          print the variables
  :state         print the processor flags
  :save          remember the current memory
  :restore       bring back the remembered memory
  :help          print this text
  :quit          exit`

// session holds the program being built in the REPL and the computer it
// boots on.
type session struct {
	computer api.Computer
	arch     *verify.ArchInfo
	insts    []core.Instruction
	saved    *core.MemorySnapshot
}

// handle runs one line of input and tells if the REPL should exit.
func (s *session) handle(line string, out, errOut io.Writer) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, ":") {
		insts, err := core.ParseASM(line)
		if err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
			return false
		}
		s.insts = append(s.insts, insts...)
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(out, replHelp)
	case ":run":
		s.run(out, errOut)
	case ":list":
		for i, inst := range s.insts {
			fmt.Fprintf(out, "%4d  %s\n", i, inst)
		}
	case ":undo":
		if len(s.insts) > 0 {
			s.insts = s.insts[:len(s.insts)-1]
		}
	case ":clear":
		s.insts = nil
	case ":load":
		insts, err := core.ParseProgramFile(arg)
		if err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
			return false
		}
		s.insts = append(s.insts, insts...)
		fmt.Fprintf(out, "loaded %d instructions\n", len(insts))
	case ":lint":
		issues := verify.LintInstructions(s.insts, s.arch)
		if len(issues) == 0 {
			fmt.Fprintln(out, green("no issues"))
		}
		for _, issue := range issues {
			fmt.Fprintf(out, "%s %d: %s\n", issue.Type, issue.Index, issue.Message)
		}
	case ":mem":
		fmt.Fprintln(out, core.RenderMemory(s.computer.Memory()))
	case ":vars":
		fmt.Fprintln(out, core.RenderVariables(s.computer.Memory()))
	case ":state":
		fmt.Fprintln(out, core.RenderState(s.computer.Processor()))
	case ":save":
		snap := s.computer.Memory().Snapshot()
		s.saved = &snap
	case ":restore":
		if s.saved == nil {
			fmt.Fprintln(errOut, "nothing saved")
			return false
		}
		s.computer.Memory().Restore(*s.saved)
	default:
		fmt.Fprintf(errOut, "unknown command %s. Type :help for help.\n", cmd)
	}

	return false
}

func (s *session) run(out, errOut io.Writer) {
	prog, err := core.NewProgram(s.insts...)
	if err != nil {
		fmt.Fprintln(errOut, red(err.Error()))
		return
	}

	bootErr := s.computer.Boot(prog)
	core.LogState(s.computer.Processor(), s.computer.Memory())

	_ = s.computer.MemoryDump(out)
	fmt.Fprintln(out)

	if bootErr != nil {
		fmt.Fprintln(errOut, red(bootErr.Error()))
	}
}

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	var m machineFlags
	m.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := m.load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 2
	}

	s := &session{
		computer: cfg.Build("Computer"),
		arch:     verify.LoadArchInfoFromConfig(cfg),
	}

	fmt.Printf("%s REPL, %d words of %d bits. Type :help for help, Ctrl+D exits.\n",
		appName, cfg.MemorySize, cfg.WordBits)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	saveHistory := func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	defer saveHistory()

	done := make(chan struct{})
	defer close(done)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go watchSignals(sigc, done, func() {
		saveHistory()
		ln.Close()
		atexit.Exit(130)
	})

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}

		if s.handle(line, os.Stdout, os.Stderr) {
			return 0
		}
	}
}

// watchSignals calls onSignal when a signal arrives on sigc, and returns
// without calling it once done is closed.
func watchSignals(sigc <-chan os.Signal, done <-chan struct{}, onSignal func()) {
	select {
	case <-sigc:
		onSignal()
	case <-done:
	}
}
