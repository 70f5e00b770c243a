package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	// LevelTrace sits below debug; per-instruction records are only emitted
	// when a handler is configured for it.
	LevelTrace slog.Level = slog.LevelDebug - 4

	memoryTableColumns = 8
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// RenderMemory draws the memory words as a table, eight words per row.
func RenderMemory(mem *Memory) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Memory (%d words, %d-bit)", mem.Capacity(), mem.WordBits()))

	header := table.Row{"Addr"}
	for col := 0; col < memoryTableColumns; col++ {
		header = append(header, fmt.Sprintf("+%d", col))
	}
	t.AppendHeader(header)

	words := mem.Words()
	for base := 0; base < len(words); base += memoryTableColumns {
		row := table.Row{base}
		for col := 0; col < memoryTableColumns && base+col < len(words); col++ {
			row = append(row, words[base+col])
		}
		t.AppendRow(row)
	}

	return t.Render()
}

// RenderVariables draws the variable table with the current values.
func RenderVariables(mem *Memory) string {
	t := table.NewWriter()
	t.SetTitle("Variables")
	t.AppendHeader(table.Row{"Name", "Address", "Value"})

	for _, v := range mem.Variables() {
		value, _ := mem.Read(v.Address)
		t.AppendRow(table.Row{v.Name.String(), v.Address, value})
	}

	return t.Render()
}

// RenderState draws the processor flags and pointer.
func RenderState(p *Processor) string {
	t := table.NewWriter()
	t.SetTitle("Processor")
	t.AppendHeader(table.Row{"IP", "Zero", "Sign", "Steps"})
	t.AppendRow(table.Row{p.IP(), p.ZeroFlag(), p.SignFlag(), p.Steps()})

	return t.Render()
}

func LogState(p *Processor, mem *Memory) {
	slog.Debug("StateCheckpoint",
		"IP", p.IP(),
		"ZeroFlag", p.ZeroFlag(),
		"SignFlag", p.SignFlag(),
		"Steps", p.Steps(),
		"Memory", mem.Words(),
	)
}
