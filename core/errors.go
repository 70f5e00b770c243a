package core

import (
	"errors"
	"fmt"
)

// Errors reported while building or running a program. All of them abort the
// current run.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedLabel    = errors.New("undefined label")
	ErrOutOfBounds       = errors.New("access outside memory")
	ErrTooManyVariables  = errors.New("maximum number of variables exceeded")
	ErrDuplicateLabel    = errors.New("duplicate label")
	ErrInvalidOperand    = errors.New("invalid operand")
	ErrSyntax            = errors.New("syntax error")
	ErrStepLimit         = errors.New("step limit exceeded")
)

// InstError locates a failure at one instruction of a program.
type InstError struct {
	Index  int
	Opcode Opcode
	Err    error
}

func (e *InstError) Error() string {
	return fmt.Sprintf("%s at instruction %d: %v", e.Opcode, e.Index, e.Err)
}

func (e *InstError) Unwrap() error {
	return e.Err
}

// SyntaxError reports a malformed line of program text.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
