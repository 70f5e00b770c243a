// Package verify provides debugging tools for word machine programs.
//
// Verification runs in two stages:
//
// 1. Static Lint (lint.go): checks that need no execution
//   - STRUCT checks: instruction shape, immediates that do not fit a word,
//     constant addresses outside memory, more variables than memory words
//   - SYMBOL checks: jumps to missing labels, duplicate labels, variables that
//     are never declared, variables declared more than once
//
// 2. Functional Simulator (funcsim.go): runs the program on a bare processor
//   - No akita engine, no timing
//   - Per-instruction trace callbacks
//   - Step limit so that non-terminating programs are reported, not hung on
//
// # Architecture Model
//
// ArchInfo captures the machine the program is meant for:
//
//   - MemCapacity: number of memory words
//   - WordBits: word width (8, 16, 32 or 64)
//
// # Usage Example
//
//	arch := verify.LoadArchInfoFromConfig(cfg)
//	report := verify.GenerateReport(insts, arch, 100000)
//	report.WriteReport(os.Stdout)
package verify

import (
	"github.com/sarchlab/wordvm/config"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Malformed instruction or machine limit
	IssueSymbol IssueType = "SYMBOL" // Label or variable name problem
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT or SYMBOL
	Index   int                    // Instruction index or -1
	Inst    string                 // Instruction text, if Index >= 0
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

// ArchInfo describes the target machine.
type ArchInfo struct {
	MemCapacity uint64
	WordBits    int
}

// LoadArchInfoFromConfig describes the machine a configuration builds.
func LoadArchInfoFromConfig(cfg config.Config) *ArchInfo {
	return &ArchInfo{
		MemCapacity: cfg.MemorySize,
		WordBits:    cfg.WordBits,
	}
}
