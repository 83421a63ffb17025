package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalOpcode is returned for the eleven undefined primary opcodes.
	// The CPU stays locked on the same error until Reset.
	ErrIllegalOpcode = errors.New("illegal opcode")
	// ErrInternal means a decode entry named a register its addressing mode
	// cannot use.
	ErrInternal = errors.New("inconsistent instruction descriptor")
)

// OpcodeError reports where execution failed.
type OpcodeError struct {
	PC       uint16
	Opcode   byte
	Prefixed bool
	Err      error
}

func (e *OpcodeError) Error() string {
	op := fmt.Sprintf("%02X", e.Opcode)
	if e.Prefixed {
		op = "CB " + op
	}
	return fmt.Sprintf("cpu: opcode %s at %04X: %v", op, e.PC, e.Err)
}

func (e *OpcodeError) Unwrap() error { return e.Err }
