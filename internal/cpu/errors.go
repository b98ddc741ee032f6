package cpu

import "fmt"

// UnknownOpcodeError is returned by Step() for an opcode with no handler. It
// is a diagnostic, not a failure: the opcode byte (and the CB prefix for an
// extended opcode) has been consumed and the CPU can keep stepping.
type UnknownOpcodeError struct {
	PC       uint16 // address of the first byte of the instruction
	Opcode   byte
	Extended bool // opcode is from the CB-prefixed table
}

func (e *UnknownOpcodeError) Error() string {
	if e.Extended {
		return fmt.Sprintf("unknown CB opcode %#02x at %#04x", e.Opcode, e.PC)
	}
	return fmt.Sprintf("unknown opcode %#02x at %#04x", e.Opcode, e.PC)
}
