package cpu

import (
	"fmt"
	"strings"
)

// Mnemonic returns the assembler name of an opcode. Opcodes without a handler
// are reported as "??".
func Mnemonic(code byte, cb bool) string {
	op := primary[code]
	if cb {
		op = extended[code]
	}
	if op.mnemonic == "" {
		return "??"
	}
	return op.mnemonic
}

// operandBytes is the number of immediate bytes following the opcode.
func operandBytes(mnemonic string) int {
	switch {
	case strings.Contains(mnemonic, "d16"), strings.Contains(mnemonic, "a16"):
		return 2
	case strings.Contains(mnemonic, "d8"), strings.Contains(mnemonic, "a8"), strings.Contains(mnemonic, "r8"):
		return 1
	case mnemonic == "STOP":
		return 1
	}
	return 0
}

// Disassemble decodes the instruction at addr without executing it. It
// returns the text and the instruction length in bytes.
func Disassemble(mem Memory, addr uint16) (string, int) {
	code := mem.Read(addr)
	if code == prefixCB {
		return Mnemonic(mem.Read(addr+1), true), 2
	}

	m := Mnemonic(code, false)
	switch operandBytes(m) {
	case 2:
		v := uint16(mem.Read(addr+1)) | uint16(mem.Read(addr+2))<<8
		m = strings.NewReplacer("d16", fmt.Sprintf("$%04X", v), "a16", fmt.Sprintf("$%04X", v)).Replace(m)
		return m, 3
	case 1:
		if m == "STOP" {
			return m, 2
		}
		v := mem.Read(addr + 1)
		if strings.Contains(m, "r8") {
			// the offset supplies its own sign, so "SP+r8" becomes "SP-3"
			off := fmt.Sprintf("%+d", int8(v))
			m = strings.Replace(m, "+r8", "r8", 1)
			return strings.Replace(m, "r8", off, 1), 2
		}
		m = strings.NewReplacer("d8", fmt.Sprintf("$%02X", v), "a8", fmt.Sprintf("$%02X", v)).Replace(m)
		return m, 2
	}
	return m, 1
}

// Trace formats the register file and the next instruction on a single line.
func (c *CPU) Trace() string {
	text, _ := Disassemble(c.mem, c.PC)
	return fmt.Sprintf("PC=%04X SP=%04X AF=%04X BC=%04X DE=%04X HL=%04X  %s",
		c.PC, c.SP, c.AF(), c.BC(), c.DE(), c.HL(), text)
}
