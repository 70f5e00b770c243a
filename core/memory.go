package core

import (
	"fmt"
	"io"
	"math"
	"sort"
)

// DefaultWordBits is the word width used when none is configured.
const DefaultWordBits = 64

// Variable is a declared name and the address it was given.
type Variable struct {
	Name    Identifier
	Address uint64
}

// Memory is a fixed-size array of signed words plus the table that maps
// variable names to addresses.
type Memory struct {
	words    []int64
	wordBits int

	variableCount uint64
	variables     map[Identifier]uint64
}

// MaxCapacity returns the number of words an unsigned word of wordBits bits
// can address.
func MaxCapacity(wordBits int) uint64 {
	if wordBits >= 64 {
		return math.MaxUint64
	}

	return 1 << wordBits
}

// NewMemory creates a memory of capacity words. The word width must be one of
// 8, 16, 32 or 64 bits, and every address must fit in a word.
func NewMemory(capacity uint64, wordBits int) *Memory {
	switch wordBits {
	case 8, 16, 32, 64:
	default:
		panic(fmt.Sprintf("unsupported word width %d", wordBits))
	}

	if capacity > MaxCapacity(wordBits) {
		panic(fmt.Sprintf("%d words cannot be addressed with %d-bit words",
			capacity, wordBits))
	}

	return &Memory{
		words:     make([]int64, capacity),
		wordBits:  wordBits,
		variables: make(map[Identifier]uint64),
	}
}

// Capacity returns the number of words.
func (m *Memory) Capacity() uint64 {
	return uint64(len(m.words))
}

// WordBits returns the machine word width.
func (m *Memory) WordBits() int {
	return m.wordBits
}

// Read returns the word at addr.
func (m *Memory) Read(addr uint64) (int64, error) {
	if addr >= m.Capacity() {
		return 0, fmt.Errorf("%w: read at %d, capacity %d",
			ErrOutOfBounds, addr, m.Capacity())
	}

	return m.words[addr], nil
}

// Write stores w at addr, wrapped to the word width.
func (m *Memory) Write(addr uint64, w int64) error {
	if addr >= m.Capacity() {
		return fmt.Errorf("%w: write at %d, capacity %d",
			ErrOutOfBounds, addr, m.Capacity())
	}

	m.words[addr] = m.WordCast(w)

	return nil
}

// DeclareVariable gives id the next free address and stores init there. A
// name that is already declared keeps its address and only gets init stored
// again.
func (m *Memory) DeclareVariable(id Identifier, init int64) error {
	if addr, ok := m.variables[id]; ok {
		m.words[addr] = m.WordCast(init)
		return nil
	}

	if m.variableCount >= m.Capacity() {
		return fmt.Errorf("%w: cannot place %q in %d words",
			ErrTooManyVariables, id, m.Capacity())
	}

	addr := m.variableCount
	m.variableCount++
	m.variables[id] = addr
	m.words[addr] = m.WordCast(init)

	return nil
}

// VariableAddress returns the address of a declared variable.
func (m *Memory) VariableAddress(id Identifier) (uint64, error) {
	addr, ok := m.variables[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUndefinedVariable, id)
	}

	return addr, nil
}

// Variables lists the declared variables in address order.
func (m *Memory) Variables() []Variable {
	vars := make([]Variable, 0, len(m.variables))
	for id, addr := range m.variables {
		vars = append(vars, Variable{Name: id, Address: addr})
	}

	sort.Slice(vars, func(i, j int) bool {
		return vars[i].Address < vars[j].Address
	})

	return vars
}

// Reset zeroes all words and forgets all variables.
func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = 0
	}

	m.variableCount = 0
	m.variables = make(map[Identifier]uint64)
}

// Words returns a copy of the memory contents in address order.
func (m *Memory) Words() []int64 {
	out := make([]int64, len(m.words))
	copy(out, m.words)

	return out
}

// Dump writes every word followed by a space.
func (m *Memory) Dump(w io.Writer) error {
	for _, word := range m.words {
		if _, err := fmt.Fprintf(w, "%d ", word); err != nil {
			return err
		}
	}

	return nil
}

// MemorySnapshot is a saved copy of a Memory.
type MemorySnapshot struct {
	words         []int64
	variableCount uint64
	variables     map[Identifier]uint64
}

// Snapshot copies the words and the variable table.
func (m *Memory) Snapshot() MemorySnapshot {
	vars := make(map[Identifier]uint64, len(m.variables))
	for id, addr := range m.variables {
		vars[id] = addr
	}

	return MemorySnapshot{
		words:         m.Words(),
		variableCount: m.variableCount,
		variables:     vars,
	}
}

// Restore brings back a snapshot taken from a memory of the same capacity.
func (m *Memory) Restore(s MemorySnapshot) {
	if len(s.words) != len(m.words) {
		panic("snapshot capacity mismatch")
	}

	copy(m.words, s.words)
	m.variableCount = s.variableCount
	m.variables = make(map[Identifier]uint64, len(s.variables))
	for id, addr := range s.variables {
		m.variables[id] = addr
	}
}

// WordCast wraps v to the machine word width, sign-extending the result.
func (m *Memory) WordCast(v int64) int64 {
	shift := 64 - m.wordBits
	return (v << shift) >> shift
}

// AddressCast reinterprets a word as an unsigned address of the same width.
func (m *Memory) AddressCast(w int64) uint64 {
	if m.wordBits == 64 {
		return uint64(w)
	}

	return uint64(w) & (1<<uint(m.wordBits) - 1)
}
