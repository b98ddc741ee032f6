package cpu

import "fmt"

const prefixCB = 0xCB

// opcode is one entry of a dispatch table. cycles is the nominal cost when
// the instruction does not branch; it is only reported when base cycles are
// enabled.
type opcode struct {
	mnemonic string
	cycles   int
	exec     func(c *CPU)
}

var (
	primary  [256]opcode
	extended [256]opcode
)

// Operand encodings shared by both tables. Index 6 of the 8-bit register
// encoding is the byte at (HL).
var (
	reg8Names  = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	reg16Names = [4]string{"BC", "DE", "HL", "SP"}
	stkNames   = [4]string{"BC", "DE", "HL", "AF"}
	condNames  = [4]string{"NZ", "Z", "NC", "C"}
)

// illegal opcodes have no handler on real hardware either.
var illegal = []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}

func init() {
	buildPrimary()
	buildExtended()
}

func (c *CPU) reg8(i byte) byte {
	switch i & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.HL())
	}
	return c.A
}

func (c *CPU) setReg8(i byte, v byte) {
	switch i & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.HL(), v)
	default:
		c.A = v
	}
}

func (c *CPU) reg16(i byte) uint16 {
	switch i & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	}
	return c.SP
}

func (c *CPU) setReg16(i byte, v uint16) {
	switch i & 3 {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

func (c *CPU) cond(i byte) bool {
	switch i & 3 {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	}
	return c.flag(flagC)
}

func (c *CPU) jr(taken bool) {
	e := int8(c.fetch8())
	if taken {
		c.PC = uint16(int32(c.PC) + int32(e))
	}
}

func (c *CPU) jp(taken bool) {
	addr := c.fetch16()
	if taken {
		c.PC = addr
	}
}

func (c *CPU) call(taken bool) {
	addr := c.fetch16()
	if taken {
		c.push16(c.PC)
		c.PC = addr
	}
}

func (c *CPU) ret(taken bool) {
	if taken {
		c.PC = c.pop16()
	}
}

func def(code byte, mnemonic string, cycles int, exec func(c *CPU)) {
	primary[code] = opcode{mnemonic: mnemonic, cycles: cycles, exec: exec}
}

func buildPrimary() {
	def(0x00, "NOP", 4, func(c *CPU) {})
	def(0x10, "STOP", 4, func(c *CPU) { c.fetch8() })
	def(0x76, "HALT", 4, func(c *CPU) { c.Halted = true })
	def(0xF3, "DI", 4, func(c *CPU) { c.IME = false })
	def(0xFB, "EI", 4, func(c *CPU) { c.IME = true })
	primary[prefixCB] = opcode{mnemonic: "PREFIX CB", cycles: 4}

	for i := byte(0); i < 4; i++ {
		i := i
		def(0x01+i<<4, "LD "+reg16Names[i]+",d16", 12, func(c *CPU) { c.setReg16(i, c.fetch16()) })
		def(0x03+i<<4, "INC "+reg16Names[i], 8, func(c *CPU) { c.setReg16(i, c.reg16(i)+1) })
		def(0x0B+i<<4, "DEC "+reg16Names[i], 8, func(c *CPU) { c.setReg16(i, c.reg16(i)-1) })
		def(0x09+i<<4, "ADD HL,"+reg16Names[i], 8, func(c *CPU) { c.addHL(c.reg16(i)) })
	}

	// indirect accumulator loads through BC, DE, HL+ and HL-
	def(0x02, "LD (BC),A", 8, func(c *CPU) { c.write8(c.BC(), c.A) })
	def(0x12, "LD (DE),A", 8, func(c *CPU) { c.write8(c.DE(), c.A) })
	def(0x22, "LD (HL+),A", 8, func(c *CPU) { hl := c.HL(); c.write8(hl, c.A); c.SetHL(hl + 1) })
	def(0x32, "LD (HL-),A", 8, func(c *CPU) { hl := c.HL(); c.write8(hl, c.A); c.SetHL(hl - 1) })
	def(0x0A, "LD A,(BC)", 8, func(c *CPU) { c.A = c.read8(c.BC()) })
	def(0x1A, "LD A,(DE)", 8, func(c *CPU) { c.A = c.read8(c.DE()) })
	def(0x2A, "LD A,(HL+)", 8, func(c *CPU) { hl := c.HL(); c.A = c.read8(hl); c.SetHL(hl + 1) })
	def(0x3A, "LD A,(HL-)", 8, func(c *CPU) { hl := c.HL(); c.A = c.read8(hl); c.SetHL(hl - 1) })

	for r := byte(0); r < 8; r++ {
		r := r
		n := reg8Names[r]
		rmw, ld := 4, 8
		if r == 6 {
			rmw, ld = 12, 12
		}
		def(0x04+r<<3, "INC "+n, rmw, func(c *CPU) { c.setReg8(r, c.inc8(c.reg8(r))) })
		def(0x05+r<<3, "DEC "+n, rmw, func(c *CPU) { c.setReg8(r, c.dec8(c.reg8(r))) })
		def(0x06+r<<3, "LD "+n+",d8", ld, func(c *CPU) { c.setReg8(r, c.fetch8()) })
	}

	def(0x07, "RLCA", 4, func(c *CPU) { c.A = c.rlc(c.A, false) })
	def(0x0F, "RRCA", 4, func(c *CPU) { c.A = c.rrc(c.A, false) })
	def(0x17, "RLA", 4, func(c *CPU) { c.A = c.rl(c.A, false) })
	def(0x1F, "RRA", 4, func(c *CPU) { c.A = c.rr(c.A, false) })
	def(0x27, "DAA", 4, func(c *CPU) { c.daa() })
	def(0x2F, "CPL", 4, func(c *CPU) {
		c.A = ^c.A
		c.F |= flagN | flagH
	})
	def(0x37, "SCF", 4, func(c *CPU) { c.setZNHC(c.flag(flagZ), false, false, true) })
	def(0x3F, "CCF", 4, func(c *CPU) { c.setZNHC(c.flag(flagZ), false, false, !c.flag(flagC)) })

	def(0x08, "LD (a16),SP", 20, func(c *CPU) { c.write16(c.fetch16(), c.SP) })

	def(0x18, "JR r8", 12, func(c *CPU) { c.jr(true) })
	def(0xC3, "JP a16", 16, func(c *CPU) { c.jp(true) })
	def(0xE9, "JP HL", 4, func(c *CPU) { c.PC = c.HL() })
	def(0xCD, "CALL a16", 24, func(c *CPU) { c.call(true) })
	def(0xC9, "RET", 16, func(c *CPU) { c.ret(true) })
	def(0xD9, "RETI", 16, func(c *CPU) {
		c.ret(true)
		c.IME = true
	})

	for i := byte(0); i < 4; i++ {
		i := i
		cc := condNames[i]
		def(0x20+i<<3, "JR "+cc+",r8", 8, func(c *CPU) { c.jr(c.cond(i)) })
		def(0xC2+i<<3, "JP "+cc+",a16", 12, func(c *CPU) { c.jp(c.cond(i)) })
		def(0xC4+i<<3, "CALL "+cc+",a16", 12, func(c *CPU) { c.call(c.cond(i)) })
		def(0xC0+i<<3, "RET "+cc, 8, func(c *CPU) { c.ret(c.cond(i)) })

		s := stkNames[i]
		if i == 3 {
			def(0xF1, "POP AF", 12, func(c *CPU) { c.SetAF(c.pop16()) })
			def(0xF5, "PUSH AF", 16, func(c *CPU) { c.push16(c.AF()) })
			continue
		}
		def(0xC1+i<<4, "POP "+s, 12, func(c *CPU) { c.setReg16(i, c.pop16()) })
		def(0xC5+i<<4, "PUSH "+s, 16, func(c *CPU) { c.push16(c.reg16(i)) })
	}

	// 0x40-0x7F: LD r,r' with HALT in the (HL),(HL) slot
	for dst := byte(0); dst < 8; dst++ {
		dst := dst
		for src := byte(0); src < 8; src++ {
			src := src
			code := 0x40 | dst<<3 | src
			if code == 0x76 {
				continue
			}
			cycles := 4
			if dst == 6 || src == 6 {
				cycles = 8
			}
			def(code, "LD "+reg8Names[dst]+","+reg8Names[src], cycles, func(c *CPU) { c.setReg8(dst, c.reg8(src)) })
		}
	}

	// 0x80-0xBF: accumulator arithmetic against a register
	for op := byte(0); op < 8; op++ {
		op := op
		for src := byte(0); src < 8; src++ {
			src := src
			cycles := 4
			if src == 6 {
				cycles = 8
			}
			def(0x80|op<<3|src, aluNames[op]+reg8Names[src], cycles, func(c *CPU) { c.alu(op, c.reg8(src)) })
		}
		def(0xC6+op<<3, aluNames[op]+"d8", 8, func(c *CPU) { c.alu(op, c.fetch8()) })

		vec := uint16(op) << 3
		def(0xC7+op<<3, fmt.Sprintf("RST %02XH", vec), 16, func(c *CPU) {
			c.push16(c.PC)
			c.PC = vec
		})
	}

	def(0xE0, "LDH (a8),A", 12, func(c *CPU) { c.write8(0xFF00|uint16(c.fetch8()), c.A) })
	def(0xF0, "LDH A,(a8)", 12, func(c *CPU) { c.A = c.read8(0xFF00 | uint16(c.fetch8())) })
	def(0xE2, "LD (C),A", 8, func(c *CPU) { c.write8(0xFF00|uint16(c.C), c.A) })
	def(0xF2, "LD A,(C)", 8, func(c *CPU) { c.A = c.read8(0xFF00 | uint16(c.C)) })
	def(0xEA, "LD (a16),A", 16, func(c *CPU) { c.write8(c.fetch16(), c.A) })
	def(0xFA, "LD A,(a16)", 16, func(c *CPU) { c.A = c.read8(c.fetch16()) })

	def(0xE8, "ADD SP,r8", 16, func(c *CPU) { c.SP = c.addSPe(c.fetch8()) })
	def(0xF8, "LD HL,SP+r8", 12, func(c *CPU) { c.SetHL(c.addSPe(c.fetch8())) })
	def(0xF9, "LD SP,HL", 8, func(c *CPU) { c.SP = c.HL() })

	for _, code := range illegal {
		primary[code] = opcode{}
	}
}

var cbShiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

func (c *CPU) shift(op byte, v byte) byte {
	switch op & 7 {
	case 0:
		return c.rlc(v, true)
	case 1:
		return c.rrc(v, true)
	case 2:
		return c.rl(v, true)
	case 3:
		return c.rr(v, true)
	case 4:
		return c.sla(v)
	case 5:
		return c.sra(v)
	case 6:
		return c.swap(v)
	}
	return c.srl(v)
}

// buildExtended fills the CB table. The row is the operation, the low three
// bits the register operand.
func buildExtended() {
	for code := 0; code < 256; code++ {
		b := byte(code)
		r := b & 7
		y := (b >> 3) & 7
		n := reg8Names[r]

		rmw, test := 8, 8
		if r == 6 {
			rmw, test = 16, 12
		}

		var e opcode
		switch b >> 6 {
		case 0:
			e = opcode{cbShiftNames[y] + " " + n, rmw, func(c *CPU) { c.setReg8(r, c.shift(y, c.reg8(r))) }}
		case 1:
			e = opcode{fmt.Sprintf("BIT %d,%s", y, n), test, func(c *CPU) { c.bit(uint(y), c.reg8(r)) }}
		case 2:
			e = opcode{fmt.Sprintf("RES %d,%s", y, n), rmw, func(c *CPU) { c.setReg8(r, c.reg8(r)&^(1<<y)) }}
		case 3:
			e = opcode{fmt.Sprintf("SET %d,%s", y, n), rmw, func(c *CPU) { c.setReg8(r, c.reg8(r)|1<<y) }}
		}
		extended[b] = e
	}
}
