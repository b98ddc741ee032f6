// Package timer drives the divider and the programmable TIMA counter. Both
// registers live on the bus; the timer only keeps the cycle accumulators.
//
// Overflow of TIMA reloads it from TMA but does not request an interrupt, and
// a write to DIV is an ordinary store.
package timer

import (
	"bytes"
	"encoding/gob"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// StateError is the pattern for errors restoring timer state.
const StateError = "timer state: %v"

// DividerPeriod is the number of cycles per DIV increment.
const DividerPeriod = 256

// periods indexed by TAC bits 0-1.
var periods = [4]int{1024, 16, 64, 256}

// Memory is the register access the timer needs.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

type Timer struct {
	mem Memory

	divCycles  int
	timaCycles int
}

func New(mem Memory) *Timer {
	return &Timer{mem: mem}
}

// Reset zeroes both accumulators. The registers are untouched.
func (t *Timer) Reset() {
	t.divCycles = 0
	t.timaCycles = 0
}

// Period returns the TIMA period selected by a TAC value.
func Period(tac byte) int {
	return periods[tac&bus.TACClockSelect]
}

// Advance accounts for cycles elapsed since the previous call.
func (t *Timer) Advance(cycles int) {
	t.divCycles += cycles
	for t.divCycles >= DividerPeriod {
		t.divCycles -= DividerPeriod
		t.mem.Write(bus.AddrDIV, t.mem.Read(bus.AddrDIV)+1)
	}

	tac := t.mem.Read(bus.AddrTAC)
	if tac&bus.TACEnable == 0 {
		return
	}

	period := Period(tac)
	t.timaCycles += cycles
	for t.timaCycles >= period {
		t.timaCycles -= period
		tima := t.mem.Read(bus.AddrTIMA)
		if tima == 0xFF {
			tima = t.mem.Read(bus.AddrTMA)
		} else {
			tima++
		}
		t.mem.Write(bus.AddrTIMA, tima)
	}
}

type timerState struct {
	DivCycles  int
	TimaCycles int
}

func (t *Timer) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(timerState{DivCycles: t.divCycles, TimaCycles: t.timaCycles})
	return buf.Bytes()
}

func (t *Timer) LoadState(data []byte) error {
	var s timerState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return curated.Errorf(StateError, err)
	}
	t.divCycles = s.DivCycles
	t.timaCycles = s.TimaCycles
	return nil
}
