package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/wordvm/core"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	InstructionCount int
	LintIssues       []Issue
	StructIssues     []Issue
	SymbolIssues     []Issue
	SimulationErr    error
	SimulationOK     bool
	SimulationRan    bool
	Arch             *ArchInfo
	Simulator        *FunctionalSimulator
}

// GenerateReport runs both lint and functional simulation, returns a report.
// The simulation is skipped when the instructions do not form a valid program.
func GenerateReport(insts []core.Instruction, arch *ArchInfo, maxSimSteps uint64) *VerificationReport {
	report := &VerificationReport{
		InstructionCount: len(insts),
		Arch:             arch,
	}

	// Run lint
	report.LintIssues = LintInstructions(insts, arch)

	// Categorize issues
	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.SymbolIssues = append(report.SymbolIssues, issue)
		}
	}

	prog, err := core.NewProgram(insts...)
	if err != nil {
		report.SimulationErr = err
		return report
	}

	// Run functional simulation
	report.Simulator = NewFunctionalSimulator(prog, arch)
	report.SimulationRan = true
	report.SimulationErr = report.Simulator.Run(maxSimSteps)
	report.SimulationOK = report.SimulationErr == nil

	return report
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ Loaded %d instructions for %d words of %d bits\n",
		r.InstructionCount, r.Arch.MemCapacity, r.Arch.WordBits)

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n\n", len(r.LintIssues))
		fmt.Fprintln(w, renderIssues(r.LintIssues))
	}

	// STAGE 2: FUNCTIONAL SIMULATION
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	switch {
	case !r.SimulationRan:
		fmt.Fprintf(w, "⚠ Simulation skipped: %v\n", r.SimulationErr)
	case r.SimulationOK:
		fmt.Fprintf(w, "✓ Simulation completed successfully in %d steps\n",
			r.Simulator.Processor().Steps())
	default:
		fmt.Fprintf(w, "⚠ Simulation error after %d steps: %v\n",
			r.Simulator.Processor().Steps(), r.SimulationErr)
	}

	if r.SimulationRan {
		fmt.Fprintln(w, core.RenderState(r.Simulator.Processor()))
		if mem := r.Simulator.Memory(); mem != nil {
			fmt.Fprintln(w, core.RenderVariables(mem))
		}
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d SYMBOL)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.SymbolIssues))
	simStatus := "SUCCESS"
	if !r.SimulationOK {
		simStatus = "FAILED: " + r.SimulationErr.Error()
	}
	fmt.Fprintf(w, "Simulation Result: %s\n", simStatus)

	if r.Passed() {
		fmt.Fprintln(w, "\n✓ PROGRAM PASSED ALL CHECKS")
	}

	fmt.Fprintln(w)
}

// Passed tells if lint found nothing and the simulation finished.
func (r *VerificationReport) Passed() bool {
	return len(r.LintIssues) == 0 && r.SimulationOK
}

func renderIssues(issues []Issue) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Type", "Inst", "Text", "Message"})

	for _, issue := range issues {
		index := "-"
		if issue.Index >= 0 {
			index = fmt.Sprint(issue.Index)
		}
		t.AppendRow(table.Row{issue.Type, index, issue.Inst, issue.Message})
	}

	return t.Render()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
