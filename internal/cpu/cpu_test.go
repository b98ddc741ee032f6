package cpu

import (
	"errors"
	"testing"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/cart"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/test"
)

func newCPUWithROM(rom []byte) (*CPU, *bus.Bus) {
	b := bus.New()
	b.SetCartridge(cart.New(rom))
	return New(b), b
}

// newCPU places code at the post-boot entry point.
func newCPU(code ...byte) (*CPU, *bus.Bus) {
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], code)
	return newCPUWithROM(rom)
}

func step(t *testing.T, c *CPU) int {
	t.Helper()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error at %#04x: %v", c.PC, err)
	}
	return cycles
}

func TestPowerOn(t *testing.T) {
	c, _ := newCPU()
	test.Equate(t, c.AF(), 0x01B0)
	test.Equate(t, c.BC(), 0x0013)
	test.Equate(t, c.DE(), 0x00D8)
	test.Equate(t, c.HL(), 0x014D)
	test.Equate(t, c.SP, 0xFFFE)
	test.Equate(t, c.PC, 0x0100)
	test.Equate(t, c.IME, false)
	test.Equate(t, c.Halted, false)
}

func TestNOPAndFlatCycles(t *testing.T) {
	c, _ := newCPU(0x00, 0xC3, 0x00, 0x02) // NOP; JP 0x0200
	test.Equate(t, step(t, c), FlatCycles)
	test.Equate(t, c.PC, 0x0101)
	test.Equate(t, step(t, c), FlatCycles)
	test.Equate(t, c.PC, 0x0200)
}

func TestBaseCycles(t *testing.T) {
	c, b := newCPU(0xC3, 0x00, 0x02) // JP 0x0200
	c.SetBaseCycles(true)
	test.Equate(t, step(t, c), 16)

	c, b = newCPU(0x21, 0x00, 0xC0, 0xCB, 0x86, 0xCB, 0x46) // LD HL,C000; RES 0,(HL); BIT 0,(HL)
	c.SetBaseCycles(true)
	b.Write(0xC000, 0xFF)
	test.Equate(t, step(t, c), 12)
	test.Equate(t, step(t, c), 16)
	test.Equate(t, b.Read(0xC000), 0xFE)
	test.Equate(t, step(t, c), 12)
	test.Equate(t, c.FlagZ(), true)
}

func TestLoadIncDec(t *testing.T) {
	c, _ := newCPU(0x06, 0x05, 0x04, 0x05, 0x05) // LD B,5; INC B; DEC B; DEC B
	for i := 0; i < 4; i++ {
		step(t, c)
	}
	test.Equate(t, c.B, 0x04)
	test.Equate(t, c.FlagN(), true)
	test.Equate(t, c.FlagZ(), false)
	test.Equate(t, c.FlagH(), false)
}

func TestIncDecFlags(t *testing.T) {
	c, _ := newCPU()
	for v := 0; v < 256; v++ {
		for _, carry := range []bool{false, true} {
			c.B = byte(v)
			c.setZNHC(false, true, false, carry)
			primary[0x04].exec(c) // INC B
			want := byte(v + 1)
			test.Equate(t, c.B, want)
			test.Equate(t, c.FlagZ(), want == 0)
			test.Equate(t, c.FlagN(), false)
			test.Equate(t, c.FlagH(), v&0x0F == 0x0F)
			test.Equate(t, c.FlagC(), carry)

			c.B = byte(v)
			c.setZNHC(false, false, false, carry)
			primary[0x05].exec(c) // DEC B
			want = byte(v - 1)
			test.Equate(t, c.B, want)
			test.Equate(t, c.FlagZ(), want == 0)
			test.Equate(t, c.FlagN(), true)
			test.Equate(t, c.FlagH(), v&0x0F == 0x00)
			test.Equate(t, c.FlagC(), carry)
		}
	}
}

func TestRotateAccumulatorRoundTrip(t *testing.T) {
	c, _ := newCPU()
	for v := 0; v < 256; v++ {
		c.A = byte(v)
		primary[0x07].exec(c) // RLCA
		test.Equate(t, c.FlagC(), v&0x80 != 0)
		test.Equate(t, c.FlagZ(), false)
		primary[0x0F].exec(c) // RRCA
		test.Equate(t, c.A, byte(v))
		test.Equate(t, c.FlagZ(), false)
	}
}

func TestRLAThroughCarry(t *testing.T) {
	c, _ := newCPU(0x17, 0x1F) // RLA; RRA
	c.A = 0x80
	c.F = 0
	step(t, c)
	test.Equate(t, c.A, 0x00)
	test.Equate(t, c.FlagC(), true)
	test.Equate(t, c.FlagZ(), false)
	step(t, c)
	test.Equate(t, c.A, 0x80)
	test.Equate(t, c.FlagC(), false)
}

func TestPushPop(t *testing.T) {
	c, b := newCPU(0xC5, 0xD1) // PUSH BC; POP DE
	c.SetBC(0x1234)
	step(t, c)
	test.Equate(t, c.SP, 0xFFFC)
	test.Equate(t, b.Read(0xFFFD), 0x12)
	test.Equate(t, b.Read(0xFFFC), 0x34)
	step(t, c)
	test.Equate(t, c.DE(), 0x1234)
	test.Equate(t, c.SP, 0xFFFE)
}

func TestPopAFMasksFlags(t *testing.T) {
	c, b := newCPU(0xF1) // POP AF
	c.SP = 0xC000
	b.Write(0xC000, 0xFF)
	b.Write(0xC001, 0x12)
	step(t, c)
	test.Equate(t, c.A, 0x12)
	test.Equate(t, c.F, 0xF0)
}

func TestCallRet(t *testing.T) {
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], []byte{0xCD, 0x10, 0x01}) // CALL 0x0110
	rom[0x0110] = 0xC9                           // RET
	c, b := newCPUWithROM(rom)

	step(t, c)
	test.Equate(t, c.PC, 0x0110)
	test.Equate(t, c.SP, 0xFFFC)
	test.Equate(t, b.Read(0xFFFC), 0x03)
	test.Equate(t, b.Read(0xFFFD), 0x01)

	step(t, c)
	test.Equate(t, c.PC, 0x0103)
	test.Equate(t, c.SP, 0xFFFE)
}

func TestConditionalBranches(t *testing.T) {
	// XOR A sets Z; JR NZ not taken; JR Z taken over the NOP
	c, _ := newCPU(0xAF, 0x20, 0x05, 0x28, 0x01, 0x00, 0x00)
	step(t, c)
	step(t, c)
	test.Equate(t, c.PC, 0x0103)
	step(t, c)
	test.Equate(t, c.PC, 0x0106)
}

func TestJRNegative(t *testing.T) {
	c, _ := newCPU(0x00, 0x18, 0xFD) // NOP; JR -3
	step(t, c)
	step(t, c)
	test.Equate(t, c.PC, 0x0100)
}

func TestRST(t *testing.T) {
	c, b := newCPU(0xEF) // RST 28H
	step(t, c)
	test.Equate(t, c.PC, 0x0028)
	test.Equate(t, b.Read(0xFFFC), 0x01)
	test.Equate(t, b.Read(0xFFFD), 0x01)
}

func TestDAA(t *testing.T) {
	c, _ := newCPU(0x3E, 0x45, 0xC6, 0x38, 0x27) // LD A,45; ADD A,38; DAA
	step(t, c)
	step(t, c)
	step(t, c)
	test.Equate(t, c.A, 0x83)
	test.Equate(t, c.FlagC(), false)

	c, _ = newCPU(0x3E, 0x45, 0xD6, 0x06, 0x27) // LD A,45; SUB 06; DAA
	step(t, c)
	step(t, c)
	test.Equate(t, c.FlagH(), true)
	step(t, c)
	test.Equate(t, c.A, 0x39)
	test.Equate(t, c.FlagN(), true)
	test.Equate(t, c.FlagH(), false)

	c, _ = newCPU(0x3E, 0x99, 0xC6, 0x01, 0x27) // LD A,99; ADD A,01; DAA
	step(t, c)
	step(t, c)
	step(t, c)
	test.Equate(t, c.A, 0x00)
	test.Equate(t, c.FlagZ(), true)
	test.Equate(t, c.FlagC(), true)
}

func TestArithmeticFlags(t *testing.T) {
	c, _ := newCPU()

	c.A, c.F = 0xFF, 0
	c.alu(0, 0x01) // ADD
	test.Equate(t, c.A, 0x00)
	test.Equate(t, c.F, flagZ|flagH|flagC)

	c.A, c.F = 0x00, flagC
	c.alu(1, 0x00) // ADC
	test.Equate(t, c.A, 0x01)
	test.Equate(t, c.F, 0x00)

	c.A, c.F = 0x10, 0
	c.alu(2, 0x01) // SUB
	test.Equate(t, c.A, 0x0F)
	test.Equate(t, c.F, flagN|flagH)

	c.A, c.F = 0x00, flagC
	c.alu(3, 0x00) // SBC
	test.Equate(t, c.A, 0xFF)
	test.Equate(t, c.F, flagN|flagH|flagC)

	c.A, c.F = 0x0F, 0
	c.alu(4, 0xF0) // AND
	test.Equate(t, c.A, 0x00)
	test.Equate(t, c.F, flagZ|flagH)

	c.A = 0x3C
	c.alu(7, 0x3C) // CP
	test.Equate(t, c.A, 0x3C)
	test.Equate(t, c.F, flagZ|flagN)
}

func TestMiscFlags(t *testing.T) {
	c, _ := newCPU(0x2F, 0x37, 0x3F) // CPL; SCF; CCF
	c.A, c.F = 0x35, flagZ
	step(t, c)
	test.Equate(t, c.A, 0xCA)
	test.Equate(t, c.F, flagZ|flagN|flagH)
	step(t, c)
	test.Equate(t, c.F, flagZ|flagC)
	step(t, c)
	test.Equate(t, c.F, flagZ)
}

func TestAddHL(t *testing.T) {
	c, _ := newCPU(0x09, 0x09) // ADD HL,BC twice
	c.SetHL(0x0FFF)
	c.SetBC(0x0001)
	c.F = flagZ
	step(t, c)
	test.Equate(t, c.HL(), 0x1000)
	test.Equate(t, c.F, flagZ|flagH)

	c.SetHL(0xFFFF)
	c.F = 0
	step(t, c)
	test.Equate(t, c.HL(), 0x0000)
	test.Equate(t, c.F, flagH|flagC)
}

func TestStackPointerOffset(t *testing.T) {
	c, _ := newCPU(0xF8, 0x01, 0xE8, 0xFE) // LD HL,SP+1; ADD SP,-2
	c.SP = 0x00FF
	step(t, c)
	test.Equate(t, c.HL(), 0x0100)
	test.Equate(t, c.F, flagH|flagC)
	test.Equate(t, c.SP, 0x00FF)

	step(t, c)
	test.Equate(t, c.SP, 0x00FD)
	test.Equate(t, c.F, flagH|flagC)
}

func TestStoreSP(t *testing.T) {
	c, b := newCPU(0x08, 0x00, 0xC0) // LD (C000),SP
	step(t, c)
	test.Equate(t, b.Read(0xC000), 0xFE)
	test.Equate(t, b.Read(0xC001), 0xFF)
}

func TestIndirectLoads(t *testing.T) {
	// LD HL,C000; LD A,7; LD (HL+),A; LD (HL-),A; LD A,(HL-)
	c, b := newCPU(0x21, 0x00, 0xC0, 0x3E, 0x07, 0x22, 0x32, 0x3A)
	step(t, c)
	step(t, c)
	step(t, c)
	test.Equate(t, b.Read(0xC000), 0x07)
	test.Equate(t, c.HL(), 0xC001)
	step(t, c)
	test.Equate(t, b.Read(0xC001), 0x07)
	test.Equate(t, c.HL(), 0xC000)
	step(t, c)
	test.Equate(t, c.HL(), 0xBFFF)
}

func TestHighPageLoads(t *testing.T) {
	c, b := newCPU(0x3E, 0x91, 0xE0, 0x40, 0x0E, 0x40, 0xF2) // LD A,91; LDH (40),A; LD C,40; LD A,(C)
	step(t, c)
	step(t, c)
	test.Equate(t, b.Read(0xFF40), 0x91)
	c.A = 0
	step(t, c)
	step(t, c)
	test.Equate(t, c.A, 0x91)
}

func TestExtendedOperations(t *testing.T) {
	c, b := newCPU(
		0xCB, 0x37, // SWAP A
		0xCB, 0x7C, // BIT 7,H
		0xCB, 0x86, // RES 0,(HL)
		0xCB, 0xC6, // SET 0,(HL)
		0xCB, 0x3F, // SRL A
		0xCB, 0x2F, // SRA A
	)
	c.A, c.F = 0xF0, flagC
	step(t, c)
	test.Equate(t, c.A, 0x0F)
	test.Equate(t, c.F, 0x00)

	c.H, c.F = 0x01, flagC
	step(t, c)
	test.Equate(t, c.F, flagZ|flagH|flagC)

	c.SetHL(0xC000)
	b.Write(0xC000, 0xFF)
	c.F = flagN
	step(t, c)
	test.Equate(t, b.Read(0xC000), 0xFE)
	test.Equate(t, c.F, flagN)
	step(t, c)
	test.Equate(t, b.Read(0xC000), 0xFF)

	c.A = 0x01
	step(t, c)
	test.Equate(t, c.A, 0x00)
	test.Equate(t, c.F, flagZ|flagC)

	c.A = 0x81
	step(t, c)
	test.Equate(t, c.A, 0xC0)
	test.Equate(t, c.F, flagC)
}

func TestUnknownOpcode(t *testing.T) {
	c, _ := newCPU(0xD3, 0x3C) // illegal; INC A
	cycles, err := c.Step()
	test.ExpectedFailure(t, err)
	test.Equate(t, cycles, FlatCycles)

	var unknown *UnknownOpcodeError
	if !errors.As(err, &unknown) {
		t.Fatalf("error is not an UnknownOpcodeError: %v", err)
	}
	test.Equate(t, unknown.PC, 0x0100)
	test.Equate(t, unknown.Opcode, 0xD3)
	test.Equate(t, unknown.Extended, false)
	test.Equate(t, c.PC, 0x0101)

	a := c.A
	step(t, c)
	test.Equate(t, c.A, a+1)
}

func TestHaltIsNoOp(t *testing.T) {
	c, _ := newCPU(0x76, 0x3C) // HALT; INC A
	step(t, c)
	test.Equate(t, c.Halted, true)
	pc, a := c.PC, c.A
	for i := 0; i < 10; i++ {
		test.Equate(t, step(t, c), FlatCycles)
	}
	test.Equate(t, c.PC, pc)
	test.Equate(t, c.A, a)
}

func TestStop(t *testing.T) {
	c, _ := newCPU(0x10, 0x00, 0x3C) // STOP 0; INC A
	step(t, c)
	test.Equate(t, c.PC, 0x0102)
}

func TestInterruptMasterEnable(t *testing.T) {
	c, _ := newCPU(0xFB, 0xF3) // EI; DI
	step(t, c)
	test.Equate(t, c.IME, true)
	step(t, c)
	test.Equate(t, c.IME, false)
}

func TestTableCoverage(t *testing.T) {
	isIllegal := make(map[byte]bool)
	for _, code := range illegal {
		isIllegal[code] = true
	}
	for code := 0; code < 256; code++ {
		b := byte(code)
		if extended[b].exec == nil {
			t.Errorf("CB %02X has no handler", b)
		}
		if b == prefixCB {
			continue
		}
		if got := primary[b].exec != nil; got == isIllegal[b] {
			t.Errorf("opcode %02X handler present=%v illegal=%v", b, got, isIllegal[b])
		}
	}
}

func TestSaveState(t *testing.T) {
	c, b := newCPU()
	c.SetBC(0xBEEF)
	c.SP = 0xD000
	c.PC = 0x0150
	c.IME = true
	data := c.SaveState()

	d := New(b)
	test.ExpectedSuccess(t, d.LoadState(data))
	test.Equate(t, d.BC(), 0xBEEF)
	test.Equate(t, d.SP, 0xD000)
	test.Equate(t, d.PC, 0x0150)
	test.Equate(t, d.IME, true)

	test.ExpectedFailure(t, d.LoadState([]byte{0x01, 0x02}))
}

func TestDisassemble(t *testing.T) {
	_, b := newCPU(0xC3, 0x50, 0x01, 0x18, 0xFE, 0xCB, 0x7C, 0x3E, 0x0A, 0xD3,
		0xF8, 0x05, 0xF8, 0xFD, 0xE8, 0xFE)

	for _, tc := range []struct {
		addr uint16
		text string
		size int
	}{
		{0x0100, "JP $0150", 3},
		{0x0103, "JR -2", 2},
		{0x0105, "BIT 7,H", 2},
		{0x0107, "LD A,$0A", 2},
		{0x0109, "??", 1},
		{0x010A, "LD HL,SP+5", 2},
		{0x010C, "LD HL,SP-3", 2},
		{0x010E, "ADD SP,-2", 2},
	} {
		text, size := Disassemble(b, tc.addr)
		test.Equate(t, text, tc.text)
		test.Equate(t, size, tc.size)
	}
}
