package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/emu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/snapshot"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/statsview"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/term"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ui"
)

type CLIFlags struct {
	ROMPath string
	Scale   int
	Title   string
	ROMsDir string
	State   string // save state to restore after loading the ROM

	// emulation
	Trace      bool
	BaseCycles bool
	LogPath    string // file receiving the machine log on exit
	Echo       bool   // echo the machine log to stderr as it happens

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	PNGScale int
	Expect   string // expected frame CRC32 hex (e.g., "1a2b3c4d")

	Term      bool
	Statsview bool
	StatsAddr string
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.StringVar(&f.ROMsDir, "roms", "roms", "directory browsed by the ROM menu")
	flag.StringVar(&f.State, "state", "", "restore a save state file after loading the ROM")

	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log")
	flag.BoolVar(&f.BaseCycles, "basecycles", false, "charge nominal instruction cycles instead of a flat 4")
	flag.StringVar(&f.LogPath, "log", "", "write the emulator log to this file on exit")
	flag.BoolVar(&f.Echo, "echo", false, "echo the emulator log to stderr")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last frame to PNG at path")
	flag.IntVar(&f.PNGScale, "pngscale", 1, "scale of the PNG written by -outpng")
	flag.StringVar(&f.Expect, "expect", "", "assert frame CRC32 (hex)")

	flag.BoolVar(&f.Term, "term", false, "run in the terminal")
	flag.BoolVar(&f.Statsview, "statsview", false, "serve runtime statistics over HTTP")
	flag.StringVar(&f.StatsAddr, "statsaddr", statsview.DefaultAddr, "address of the statistics server")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames int, pngPath string, pngScale int, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	cycles := m.Cycles()
	completed := 0
	for i := 0; i < frames; i++ {
		if m.StepFrame() {
			completed++
		}
	}
	dur := time.Since(start)
	cycles = m.Cycles() - cycles

	f := m.TakeFrame()
	crc := crc32.ChecksumIEEE(f.Bytes())
	fps := float64(frames) / dur.Seconds()
	speed := float64(cycles) / clockHz / dur.Seconds()

	log.Printf("headless: frames=%d/%d cycles=%d elapsed=%s fps=%.2f speed=%.1fx frame_crc32=%08x unknown_opcodes=%d",
		completed, frames, cycles, dur.Truncate(time.Millisecond), fps, speed, crc, m.UnknownOpcodes())

	if pngPath != "" {
		if err := snapshot.SaveFile(pngPath, &f, pngScale); err != nil {
			return err
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

const clockHz = 4194304

// frame period of the DMG, about 59.7 Hz
const framePeriod = time.Second * ppu.FrameCycles / clockHz

func runTerm(m *emu.Machine) error {
	t, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer t.Close()

	if w, h, err := t.Size(); err == nil && (w < term.Columns || h < term.Rows) {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d", w, h, term.Columns, term.Rows)
	}

	tick := time.NewTicker(framePeriod)
	defer tick.Stop()
	for range tick.C {
		buttons, quit := t.Poll()
		if quit {
			return nil
		}
		m.SetButtons(buttons)
		m.StepFrame()
		f := m.TakeFrame()
		if err := t.Draw(&f); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	f := parseFlags()

	cfg := emu.Defaults()
	cfg.Trace = f.Trace
	cfg.BaseCycles = f.BaseCycles
	m := emu.New(cfg)
	defer m.Close()
	if f.Echo {
		m.Log().SetEcho(os.Stderr)
	}

	if f.ROMPath != "" {
		if err := m.LoadROMFromFile(f.ROMPath); err != nil {
			log.Fatal(err)
		}
		log.Printf("ROM: %q (%d bytes)", m.Title(), m.Cart().Size())
	} else if f.Headless || f.Term {
		log.Fatal("-rom is required")
	}

	if f.State != "" {
		if err := m.LoadStateFromFile(f.State); err != nil {
			log.Fatal(err)
		}
	}

	if f.Statsview {
		sv := statsview.Start(f.StatsAddr, os.Stderr)
		defer sv.Stop()
	}

	switch {
	case f.Headless:
		if err := runHeadless(m, f.Frames, f.PNGOut, f.PNGScale, f.Expect); err != nil {
			log.Fatal(err)
		}
	case f.Term:
		if err := runTerm(m); err != nil {
			log.Fatal(err)
		}
	default:
		app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Scale, ROMsDir: f.ROMsDir}, m)
		if err := app.Run(); err != nil {
			log.Fatal(err)
		}
	}

	if err := report(m, f.LogPath); err != nil {
		log.Fatal(err)
	}
}

// number of log entries shown when the program ran into unknown opcodes
const tailEntries = 10

// report shows the end of the log if anything went wrong and saves the whole
// log if asked to.
func report(m *emu.Machine, logPath string) error {
	if n := m.UnknownOpcodes(); n > 0 && logPath == "" {
		log.Printf("%d unknown opcodes, last log entries:", n)
		m.Log().Tail(os.Stderr, tailEntries)
	}
	if logPath == "" {
		return nil
	}

	lf, err := os.Create(logPath)
	if err != nil {
		return err
	}
	if !m.Log().Write(lf) {
		log.Printf("log is empty")
	}
	return lf.Close()
}
