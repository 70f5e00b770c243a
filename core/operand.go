package core

import (
	"fmt"
	"strconv"
)

// OperandKind tags the variant held by an Operand.
type OperandKind uint8

// Operand kinds.
const (
	OperandNone OperandKind = iota
	OperandNum
	OperandMem
	OperandLea
)

// Operand is an immediate, a memory reference or a variable address. Only
// memory references can be written to.
type Operand struct {
	Kind  OperandKind
	Value int64
	Name  string
	Addr  *Operand

	id Identifier
}

// Num is an immediate value.
func Num(v int64) Operand {
	return Operand{Kind: OperandNum, Value: v}
}

// Mem refers to the word whose address addr evaluates to.
func Mem(addr Operand) Operand {
	return Operand{Kind: OperandMem, Addr: &addr}
}

// Lea evaluates to the address of the variable name.
func Lea(name string) Operand {
	return Operand{Kind: OperandLea, Name: name}
}

// IsLvalue tells if the operand designates a storage address.
func (o Operand) IsLvalue() bool {
	return o.Kind == OperandMem
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNum:
		return "#" + strconv.FormatInt(o.Value, 10)
	case OperandMem:
		return "[" + o.Addr.String() + "]"
	case OperandLea:
		return "@" + o.Name
	default:
		return ""
	}
}

// bind validates every name in the operand tree and caches the identifiers.
func (o Operand) bind() (Operand, error) {
	switch o.Kind {
	case OperandNum:
		return o, nil
	case OperandLea:
		id, err := NewIdentifier(o.Name)
		if err != nil {
			return o, err
		}
		o.id = id
		return o, nil
	case OperandMem:
		if o.Addr == nil {
			return o, fmt.Errorf("%w: memory reference without address",
				ErrInvalidOperand)
		}
		addr, err := o.Addr.bind()
		if err != nil {
			return o, err
		}
		o.Addr = &addr
		return o, nil
	default:
		return o, fmt.Errorf("%w: missing operand", ErrInvalidOperand)
	}
}

// evalRvalue computes the value of an operand.
func evalRvalue(o *Operand, m *Memory) (int64, error) {
	switch o.Kind {
	case OperandNum:
		return m.WordCast(o.Value), nil
	case OperandLea:
		addr, err := m.VariableAddress(o.id)
		if err != nil {
			return 0, err
		}
		return m.WordCast(int64(addr)), nil
	case OperandMem:
		addr, err := evalLvalue(o, m)
		if err != nil {
			return 0, err
		}
		return m.Read(addr)
	default:
		return 0, fmt.Errorf("%w: %v is not a value", ErrInvalidOperand, o)
	}
}

// evalLvalue computes the address an operand designates.
func evalLvalue(o *Operand, m *Memory) (uint64, error) {
	if o.Kind != OperandMem {
		return 0, fmt.Errorf("%w: %v is not addressable", ErrInvalidOperand, o)
	}

	switch o.Addr.Kind {
	case OperandNum:
		if o.Addr.Value < 0 {
			return 0, fmt.Errorf("%w: negative address %d",
				ErrOutOfBounds, o.Addr.Value)
		}
		return uint64(o.Addr.Value), nil
	case OperandLea:
		return m.VariableAddress(o.Addr.id)
	}

	w, err := evalRvalue(o.Addr, m)
	if err != nil {
		return 0, err
	}

	return m.AddressCast(w), nil
}
