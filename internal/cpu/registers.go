package cpu

// Flag register bits. The low nibble of F is always zero.
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

// Registers is the SM83 register file.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	Halted bool
	IME    bool // interrupts enabled; toggled by DI/EI/RETI but never dispatched
}

// PowerOn returns the register values left behind by the DMG boot ROM.
func PowerOn() Registers {
	return Registers{
		A: 0x01, F: 0xB0,
		B: 0x00, C: 0x13,
		D: 0x00, E: 0xD8,
		H: 0x01, L: 0x4D,
		SP: 0xFFFE,
		PC: 0x0100,
	}
}

func (r *Registers) AF() uint16     { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) & 0xF0 }
func (r *Registers) BC() uint16     { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) DE() uint16     { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) HL() uint16     { return uint16(r.H)<<8 | uint16(r.L) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

// Flag accessors used by tests and tools.
func (r *Registers) FlagZ() bool { return r.F&flagZ != 0 }
func (r *Registers) FlagN() bool { return r.F&flagN != 0 }
func (r *Registers) FlagH() bool { return r.F&flagH != 0 }
func (r *Registers) FlagC() bool { return r.F&flagC != 0 }

func (r *Registers) flag(f byte) bool { return r.F&f != 0 }

func (r *Registers) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	r.F = f
}
