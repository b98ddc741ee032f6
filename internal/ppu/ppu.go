// Package ppu implements the scanline state machine and the background
// renderer. All LCD registers live on the bus: the PPU reads LCDC, SCX, SCY,
// LYC and BGP from it and writes LY and the low bits of STAT back.
package ppu

import (
	"bytes"
	"encoding/gob"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// StateError is the pattern for errors restoring PPU state.
const StateError = "ppu state: %v"

// Mode is the PPU phase. The values are the ones reported in STAT bits 0-1.
type Mode byte

const (
	HBlank        Mode = 0
	VBlank        Mode = 1
	OAMScan       Mode = 2
	PixelTransfer Mode = 3
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OAMScan:
		return "OAMScan"
	case PixelTransfer:
		return "PixelTransfer"
	}
	return "unknown"
}

// Cycles spent in each phase of a visible line, and in a whole line during
// VBlank.
const (
	OAMScanCycles       = 80
	PixelTransferCycles = 172
	HBlankCycles        = 204
	LineCycles          = 456
)

const (
	// VBlankLine is the first line after the visible area.
	VBlankLine = Height
	// LastLine is the final VBlank line before the frame wraps.
	LastLine = 153

	// FrameCycles is the length of a complete frame.
	FrameCycles = (LastLine + 1) * LineCycles
)

// Memory is the bus access the PPU needs.
type Memory interface {
	VRAMReader
	Write(addr uint16, value byte)
}

type PPU struct {
	mem Memory

	cycles     int
	mode       Mode
	line       int
	frameReady bool
	frame      Frame
}

func New(mem Memory) *PPU {
	p := &PPU{mem: mem}
	p.Reset()
	return p
}

// Reset returns to the start of a frame: line 0 in OAMScan. LY and STAT are
// rewritten to match. The frame buffer is kept.
func (p *PPU) Reset() {
	p.cycles = 0
	p.frameReady = false
	p.setLine(0)
	p.setMode(OAMScan)
}

func (p *PPU) Mode() Mode { return p.mode }
func (p *PPU) Line() int  { return p.line }

// FrameReady is set when line 144 is reached and stays set until cleared.
func (p *PPU) FrameReady() bool { return p.frameReady }

// ClearFrameReady acknowledges the current frame.
func (p *PPU) ClearFrameReady() { p.frameReady = false }

// Frame returns a copy of the frame buffer. The buffer is only complete while
// FrameReady() is true.
func (p *PPU) Frame() Frame { return p.frame }

func (p *PPU) setMode(m Mode) {
	p.mode = m
	stat := p.mem.Read(bus.AddrSTAT)
	p.mem.Write(bus.AddrSTAT, stat&^bus.STATModeMask|byte(m))
}

func (p *PPU) setLine(line int) {
	p.line = line
	p.mem.Write(bus.AddrLY, byte(line))

	stat := p.mem.Read(bus.AddrSTAT)
	if byte(line) == p.mem.Read(bus.AddrLYC) {
		stat |= bus.STATCoincidence
	} else {
		stat &^= bus.STATCoincidence
	}
	p.mem.Write(bus.AddrSTAT, stat)
}

// Advance accounts for cycles elapsed since the previous call. A single call
// may cross any number of phase boundaries. Nothing happens while the LCD is
// switched off.
func (p *PPU) Advance(cycles int) {
	if p.mem.Read(bus.AddrLCDC)&bus.LCDCDisplayOn == 0 {
		return
	}

	p.cycles += cycles
	for {
		switch p.mode {
		case OAMScan:
			if p.cycles < OAMScanCycles {
				return
			}
			p.cycles -= OAMScanCycles
			p.setMode(PixelTransfer)

		case PixelTransfer:
			if p.cycles < PixelTransferCycles {
				return
			}
			p.cycles -= PixelTransferCycles
			p.setMode(HBlank)

		case HBlank:
			if p.cycles < HBlankCycles {
				return
			}
			p.cycles -= HBlankCycles
			p.renderLine(p.line)
			p.setLine(p.line + 1)
			if p.line == VBlankLine {
				p.setMode(VBlank)
				p.frameReady = true
			} else {
				p.setMode(OAMScan)
			}

		case VBlank:
			if p.cycles < LineCycles {
				return
			}
			p.cycles -= LineCycles
			if p.line == LastLine {
				p.setLine(0)
				p.setMode(OAMScan)
			} else {
				p.setLine(p.line + 1)
			}
		}
	}
}

type ppuState struct {
	Cycles     int
	Mode       Mode
	Line       int
	FrameReady bool
	Frame      Frame
}

func (p *PPU) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	s := ppuState{
		Cycles: p.cycles, Mode: p.mode, Line: p.line,
		FrameReady: p.frameReady, Frame: p.frame,
	}
	_ = enc.Encode(s)
	return buf.Bytes()
}

// LoadState restores the state machine. The registers on the bus are
// restored with the bus, not here.
func (p *PPU) LoadState(data []byte) error {
	var s ppuState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return curated.Errorf(StateError, err)
	}
	if s.Line < 0 || s.Line > LastLine || s.Mode > PixelTransfer {
		return curated.Errorf(StateError, "line or mode out of range")
	}
	p.cycles, p.mode, p.line = s.Cycles, s.Mode, s.Line
	p.frameReady = s.FrameReady
	p.frame = s.Frame
	return nil
}
