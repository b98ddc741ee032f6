// Command cpurunner executes a ROM on the bare components, without the
// machine wrapper, and reports how far it got. It is meant for poking at CPU
// behavior.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/cart"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/cpu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/timer"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	startPC := flag.Int("pc", 0x0100, "initial PC value")
	trace := flag.Bool("trace", false, "print registers and instruction before every step")
	baseCycles := flag.Bool("basecycles", false, "charge nominal instruction cycles instead of a flat 4")
	stopHalt := flag.Bool("halt", true, "stop when the CPU halts")
	stopUnknown := flag.Bool("unknown", false, "stop at the first unknown opcode")
	untilPC := flag.Int("until", -1, "stop when PC reaches this address; negative to disable")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceWindow := flag.Int("traceWindow", 32, "number of recent instructions printed when stopping early")
	vizPath := flag.String("memviz", "", "write a graphviz dot file of the final registers")
	vramPath := flag.String("vram", "", "write the final contents of VRAM to this file")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	c, err := cart.Load(*romPath)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Release()

	b := bus.New()
	b.SetCartridge(c)
	core := cpu.New(b)
	core.SetBaseCycles(*baseCycles)
	core.SetPC(uint16(*startPC))
	tm := timer.New(b)
	b.Write(bus.AddrLCDC, 0x91)
	b.Write(bus.AddrBGP, 0xFC)
	lcd := ppu.New(b)

	ring := newTraceRing(*traceWindow)
	dump := func() {
		lines := ring.Lines()
		if len(lines) == 0 {
			return
		}
		fmt.Printf("--- recent trace (last %d instructions) ---\n", len(lines))
		for _, l := range lines {
			fmt.Println(l)
		}
		fmt.Printf("--- end trace ---\n")
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	var cycles, frames, unknown, done int
	reason := "step limit"
run:
	for done < *steps {
		line := traceLine(core, b)
		if *trace {
			fmt.Println(line)
		}
		ring.Add(line)

		cyc, err := core.Step()
		done++
		cycles += cyc
		tm.Advance(cyc)
		lcd.Advance(cyc)
		if lcd.FrameReady() {
			frames++
			lcd.ClearFrameReady()
		}

		var op *cpu.UnknownOpcodeError
		switch {
		case errors.As(err, &op):
			unknown++
			if *stopUnknown {
				reason = op.Error()
				dump()
				break run
			}
		case *stopHalt && core.Halted:
			reason = "halted"
			break run
		case *untilPC >= 0 && int(core.PC) == *untilPC:
			reason = fmt.Sprintf("reached %04X", *untilPC)
			break run
		case !deadline.IsZero() && time.Now().After(deadline):
			reason = "timeout"
			dump()
			break run
		}
	}

	fmt.Println(traceLine(core, b))
	fmt.Printf("\nDone (%s): steps=%d cycles=%d frames=%d unknown=%d elapsed=%s\n",
		reason, done, cycles, frames, unknown, time.Since(start).Truncate(time.Millisecond))

	if *vramPath != "" {
		vram := make([]byte, 0, bus.VRAMEnd-bus.VRAMStart)
		for addr := bus.VRAMStart; addr < bus.VRAMEnd; addr++ {
			vram = append(vram, b.Read(uint16(addr)))
		}
		if err := os.WriteFile(*vramPath, vram, 0644); err != nil {
			log.Fatal(err)
		}
	}

	if *vizPath != "" {
		f, err := os.Create(*vizPath)
		if err != nil {
			log.Fatal(err)
		}
		memviz.Map(f, &core.Registers)
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
	}
}

// traceLine extends the CPU trace line with the interrupt registers, which a
// program may poll even though nothing is dispatched.
func traceLine(core *cpu.CPU, b *bus.Bus) string {
	return fmt.Sprintf("%s  IF=%02X IE=%02X", core.Trace(), b.Read(bus.AddrIF), b.Read(bus.AddrIE))
}
