package cpu

import (
	"bytes"
	"encoding/gob"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// FlatCycles is what Step() reports for every instruction unless base cycle
// reporting has been enabled with SetBaseCycles().
const FlatCycles = 4

// StateError is the pattern for errors restoring CPU state.
const StateError = "cpu state: %v"

// Memory is the address space the CPU executes against.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// CPU is an SM83 interpreter. Interrupts are never dispatched: IME is tracked
// but nothing reads it.
type CPU struct {
	Registers

	mem        Memory
	baseCycles bool
}

// New creates a CPU in the post-boot register state.
func New(mem Memory) *CPU {
	c := &CPU{mem: mem}
	c.Reset()
	return c
}

// Reset restores the post-boot register state. Memory is untouched.
func (c *CPU) Reset() {
	c.Registers = PowerOn()
}

// SetBaseCycles selects whether Step() reports the nominal cost of each
// instruction (true) or a flat FlatCycles (false, the default).
func (c *CPU) SetBaseCycles(base bool) { c.baseCycles = base }

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

func (c *CPU) read8(addr uint16) byte     { return c.mem.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.mem.Write(addr, v) }

func (c *CPU) fetch8() byte {
	v := c.read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

// push16 stores the high byte first, at the higher address.
func (c *CPU) push16(v uint16) {
	c.SP--
	c.write8(c.SP, byte(v>>8))
	c.SP--
	c.write8(c.SP, byte(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.read8(c.SP))
	c.SP++
	hi := uint16(c.read8(c.SP))
	c.SP++
	return hi<<8 | lo
}

func (c *CPU) cost(op *opcode) int {
	if c.baseCycles && op.cycles > 0 {
		return op.cycles
	}
	return FlatCycles
}

// Step executes one instruction and returns the cycles it is charged for.
//
// An opcode without a handler returns an *UnknownOpcodeError alongside the
// cycle count. The opcode has been consumed and the caller may carry on.
func (c *CPU) Step() (int, error) {
	if c.Halted {
		return FlatCycles, nil
	}

	pc := c.PC
	code := c.fetch8()
	op := &primary[code]

	if code == prefixCB {
		code = c.fetch8()
		op = &extended[code]
		if op.exec == nil {
			return FlatCycles, &UnknownOpcodeError{PC: pc, Opcode: code, Extended: true}
		}
	}

	if op.exec == nil {
		return FlatCycles, &UnknownOpcodeError{PC: pc, Opcode: code}
	}

	op.exec(c)
	return c.cost(op), nil
}

type cpuState struct {
	Regs Registers
}

// SaveState serializes the register file.
func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(cpuState{Regs: c.Registers})
	return buf.Bytes()
}

func (c *CPU) LoadState(data []byte) error {
	var s cpuState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return curated.Errorf(StateError, err)
	}
	c.Registers = s.Regs
	c.F &= 0xF0
	return nil
}
