// Package emu ties the components together. A Machine owns one of each
// component and nothing is shared between machines, so any number of them
// can run side by side.
//
// The driver loop is:
//
//	m := emu.New(emu.Defaults())
//	if err := m.LoadROMFromFile(path); err != nil { ... }
//	for {
//		m.Step()
//		if m.FrameReady() {
//			frame := m.TakeFrame()
//			...
//		}
//	}
package emu

import (
	"errors"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/cart"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/cpu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/logger"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/timer"
)

// Tags used in the machine log.
const (
	TagCPU   = "cpu"
	TagCart  = "cart"
	TagTrace = "trace"
	TagState = "state"
)

type Machine struct {
	cfg Config
	log *logger.Logger

	bus   *bus.Bus
	cart  *cart.Cartridge
	cpu   *cpu.CPU
	timer *timer.Timer
	ppu   *ppu.PPU

	buttons Buttons
	romPath string

	unknownOpcodes int
	cycles         uint64
}

func New(cfg Config) *Machine {
	m := &Machine{
		cfg: cfg,
		log: logger.New(cfg.LogEntries),
	}
	m.Reset()
	return m
}

// Reset powers the machine on again. Memory is cleared but the cartridge
// stays inserted.
func (m *Machine) Reset() {
	m.bus = bus.New()
	if m.cart != nil {
		m.bus.SetCartridge(m.cart)
	}
	m.cpu = cpu.New(m.bus)
	m.cpu.SetBaseCycles(m.cfg.BaseCycles)
	m.timer = timer.New(m.bus)
	m.ppu = ppu.New(m.bus)
	m.cycles = 0

	m.applyPowerOnIO()

	// the PPU must mirror its mode into the STAT value just written
	m.ppu.Reset()
	m.refreshJoypad()
}

// applyPowerOnIO sets the IO registers to the values the boot ROM leaves.
func (m *Machine) applyPowerOnIO() {
	b := m.bus
	b.Write(bus.AddrJOYP, 0xFF)
	b.Write(bus.AddrDIV, 0x00)
	b.Write(bus.AddrTIMA, 0x00)
	b.Write(bus.AddrTMA, 0x00)
	b.Write(bus.AddrTAC, 0x00)
	b.Write(bus.AddrLCDC, 0x91)
	b.Write(bus.AddrSTAT, 0x00)
	b.Write(bus.AddrSCY, 0x00)
	b.Write(bus.AddrSCX, 0x00)
	b.Write(bus.AddrLYC, 0x00)
	b.Write(bus.AddrBGP, 0xFC)
}

// LoadROMFromFile replaces the current cartridge with a ROM from disk. On
// failure the machine is left as it was.
func (m *Machine) LoadROMFromFile(path string) error {
	c, err := cart.Load(path)
	if err != nil {
		return err
	}
	m.LoadCartridge(c)
	m.romPath = path
	return nil
}

// LoadCartridge inserts a cartridge and powers the machine on.
func (m *Machine) LoadCartridge(c *cart.Cartridge) {
	if m.cart != nil && m.cart != c {
		m.cart.Release()
	}
	m.cart = c
	m.romPath = ""

	// a new cartridge starts a new log
	m.log.Clear()

	if h, err := cart.ParseHeader(c.ROM()); err == nil {
		m.log.Log(TagCart, h.String())
		if !cart.HeaderChecksumOK(c.ROM()) {
			m.log.Log(TagCart, "header checksum mismatch")
		}
	} else {
		m.log.Logf(TagCart, "%d byte image without header", c.Size())
	}

	m.Reset()
}

// Close releases the cartridge. The machine keeps running with an empty
// slot.
func (m *Machine) Close() {
	if m.cart == nil {
		return
	}
	m.cart.Release()
	m.cart = nil
	m.bus.SetCartridge(nil)
}

// Step runs one instruction and lets the timer and PPU catch up. It returns
// the cycles charged.
func (m *Machine) Step() int {
	if m.cfg.Trace {
		m.log.Log(TagTrace, m.cpu.Trace())
	}

	cycles, err := m.cpu.Step()
	if err != nil {
		var unknown *cpu.UnknownOpcodeError
		if errors.As(err, &unknown) {
			m.unknownOpcodes++
		}
		m.log.Log(TagCPU, err.Error())
	}

	m.timer.Advance(cycles)
	m.ppu.Advance(cycles)
	m.refreshJoypad()
	m.cycles += uint64(cycles)
	return cycles
}

// StepFrame runs until the next frame completes. A frame that is still waiting
// to be taken is dropped first, the same as the PPU does when it overwrites an
// unconsumed frame, so every call moves the machine on by one frame. It gives
// up after two frames worth of cycles, which is what happens while the LCD is
// off. The return value is whether a frame is ready.
func (m *Machine) StepFrame() bool {
	m.ppu.ClearFrameReady()
	for acc := 0; acc < 2*ppu.FrameCycles && !m.ppu.FrameReady(); {
		acc += m.Step()
	}
	return m.ppu.FrameReady()
}

// Cycles is the number of cycles run since the last reset.
func (m *Machine) Cycles() uint64 { return m.cycles }

// FrameReady is true once a frame has been completed and not yet taken.
func (m *Machine) FrameReady() bool { return m.ppu.FrameReady() }

// TakeFrame exports the completed frame and clears the ready flag.
func (m *Machine) TakeFrame() ppu.Frame {
	f := m.ppu.Frame()
	m.ppu.ClearFrameReady()
	return f
}

// Frame returns the frame buffer without acknowledging it.
func (m *Machine) Frame() ppu.Frame { return m.ppu.Frame() }

// Log returns the machine log.
func (m *Machine) Log() *logger.Logger { return m.log }

// UnknownOpcodes is the number of unknown opcodes executed since creation.
func (m *Machine) UnknownOpcodes() int { return m.unknownOpcodes }

// ROMPath returns the path of the cartridge loaded from disk, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// Title returns the cartridge title or the empty string.
func (m *Machine) Title() string {
	if m.cart == nil {
		return ""
	}
	return m.cart.Title()
}

// Component access for tools and tests.
func (m *Machine) Bus() *bus.Bus         { return m.bus }
func (m *Machine) CPU() *cpu.CPU         { return m.cpu }
func (m *Machine) PPU() *ppu.PPU         { return m.ppu }
func (m *Machine) Timer() *timer.Timer   { return m.timer }
func (m *Machine) Cart() *cart.Cartridge { return m.cart }
func (m *Machine) Config() Config        { return m.cfg }

// SetTrace turns instruction tracing into the machine log on or off.
func (m *Machine) SetTrace(trace bool) { m.cfg.Trace = trace }
