package bus

import (
	"bytes"
	"encoding/gob"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// Cartridge is the read-only view of ROM the bus needs for 0x0000–0x7FFF.
type Cartridge interface {
	Read(addr uint16) byte
}

// Bus is a flat 64KB address space. The ROM window is never stored here: reads
// below 0x8000 go to the cartridge and writes there are dropped.
type Bus struct {
	mem  [0x10000]byte
	cart Cartridge
}

func New() *Bus {
	return &Bus{}
}

// SetCartridge installs the cartridge serving the ROM window. nil unmaps it.
func (b *Bus) SetCartridge(c Cartridge) { b.cart = c }

// Cart returns the installed cartridge, if any.
func (b *Bus) Cart() Cartridge { return b.cart }

func (b *Bus) Read(addr uint16) byte {
	if addr < romEnd {
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(addr)
	}
	return b.mem[addr]
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < romEnd:
		// ROM is immutable
	case addr >= echoStart && addr < echoEnd:
		b.mem[addr] = value
		b.mem[addr-echoOffset] = value
	case addr >= wramStart && addr < wramStart+(echoEnd-echoStart):
		b.mem[addr] = value
		b.mem[addr+echoOffset] = value
	default:
		b.mem[addr] = value
	}
}

// --- Save/Load state ---
type busState struct {
	Mem []byte
}

// SaveState serializes everything above the ROM window.
func (b *Bus) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(busState{Mem: append([]byte(nil), b.mem[romEnd:]...)})
	return buf.Bytes()
}

func (b *Bus) LoadState(data []byte) error {
	var s busState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return curated.Errorf(StateError, err)
	}
	if len(s.Mem) != len(b.mem)-romEnd {
		return curated.Errorf(StateError, "wrong memory size")
	}
	copy(b.mem[romEnd:], s.Mem)
	return nil
}

// StateError is the pattern for errors restoring bus state.
const StateError = "bus state: %v"
