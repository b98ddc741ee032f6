package timer_test

import (
	"testing"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/test"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/timer"
)

func TestDivider(t *testing.T) {
	b := bus.New()
	tm := timer.New(b)

	tm.Advance(255)
	test.Equate(t, b.Read(bus.AddrDIV), 0x00)
	tm.Advance(1)
	test.Equate(t, b.Read(bus.AddrDIV), 0x01)

	// several increments in a single call
	tm.Advance(256 * 3)
	test.Equate(t, b.Read(bus.AddrDIV), 0x04)

	b.Write(bus.AddrDIV, 0xFF)
	tm.Advance(256)
	test.Equate(t, b.Read(bus.AddrDIV), 0x00)
}

func TestDividerWriteIsPlainStore(t *testing.T) {
	b := bus.New()
	tm := timer.New(b)
	tm.Advance(200)
	b.Write(bus.AddrDIV, 0x42)
	test.Equate(t, b.Read(bus.AddrDIV), 0x42)

	// accumulator is not reset by the write
	tm.Advance(56)
	test.Equate(t, b.Read(bus.AddrDIV), 0x43)
}

func TestTIMADisabled(t *testing.T) {
	b := bus.New()
	tm := timer.New(b)
	b.Write(bus.AddrTAC, 0x03)
	tm.Advance(4096)
	test.Equate(t, b.Read(bus.AddrTIMA), 0x00)
}

func TestTIMAPeriods(t *testing.T) {
	for tac, period := range map[byte]int{0x04: 1024, 0x05: 16, 0x06: 64, 0x07: 256} {
		b := bus.New()
		tm := timer.New(b)
		b.Write(bus.AddrTAC, tac)
		test.Equate(t, timer.Period(tac), period)

		tm.Advance(period - 1)
		test.Equate(t, b.Read(bus.AddrTIMA), 0x00)
		tm.Advance(1)
		test.Equate(t, b.Read(bus.AddrTIMA), 0x01)
		tm.Advance(period * 5)
		test.Equate(t, b.Read(bus.AddrTIMA), 0x06)
	}
}

func TestTIMAOverflowReloads(t *testing.T) {
	b := bus.New()
	tm := timer.New(b)
	b.Write(bus.AddrTAC, 0x05)
	b.Write(bus.AddrTMA, 0xAB)
	b.Write(bus.AddrTIMA, 0xFE)

	tm.Advance(16)
	test.Equate(t, b.Read(bus.AddrTIMA), 0xFF)
	tm.Advance(16)
	test.Equate(t, b.Read(bus.AddrTIMA), 0xAB)

	// no interrupt request
	test.Equate(t, b.Read(bus.AddrIF), 0x00)
}

func TestState(t *testing.T) {
	b := bus.New()
	tm := timer.New(b)
	b.Write(bus.AddrTAC, 0x04)
	tm.Advance(1000)
	data := tm.SaveState()

	tm.Reset()
	tm.Advance(24)
	test.Equate(t, b.Read(bus.AddrTIMA), 0x00)

	test.ExpectedSuccess(t, tm.LoadState(data))
	tm.Advance(24)
	test.Equate(t, b.Read(bus.AddrTIMA), 0x01)

	test.ExpectedFailure(t, tm.LoadState(nil))
}
