// Package ui runs a Machine in a window. Keys:
//
//	arrows        d-pad
//	z x           A B
//	enter rshift  start select
//	p             pause
//	n             step one frame while paused
//	tab           fast-forward while held
//	r             reset
//	f5 f9         save and load the current state slot
//	1-4           pick the state slot
//	f12           screenshot
//	escape        menu
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/emu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/snapshot"
)

// number of frames a toast message stays on screen
const toastFrames = 120

type App struct {
	cfg Config
	m   *emu.Machine

	tex    *ebiten.Image
	shade  *ebiten.Image
	pix    []byte
	paused bool
	fast   bool

	slot int

	// menu
	showMenu bool
	menuMode menuMode
	menuIdx  int
	romList  []string
	romSel   int
	romOff   int

	msg      string
	msgTimer int
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	a := &App{
		cfg: cfg,
		m:   m,
		pix: make([]byte, ppu.Width*ppu.Height*4),
	}
	a.updateTitle()
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	return a
}

// updateTitle names the loaded ROM file in the window title.
func (a *App) updateTitle() {
	if p := a.m.ROMPath(); p != "" {
		ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", a.cfg.Title, filepath.Base(p)))
		return
	}
	ebiten.SetWindowTitle(a.cfg.Title)
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) toast(s string) {
	a.msg = s
	a.msgTimer = toastFrames
}

func (a *App) buttons() emu.Buttons {
	return emu.Buttons{
		Right:  ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Left:   ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Up:     ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
	}
}

func (a *App) Update() error {
	if a.msgTimer > 0 {
		a.msgTimer--
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
		a.menuMode = menuMain
		a.menuIdx = 0
		return nil
	}
	if a.showMenu {
		// the machine is frozen while the menu is up
		a.updateMenu()
		return nil
	}

	if b := a.buttons(); b != a.m.Buttons() {
		a.m.SetButtons(b)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.Reset()
		a.toast("Reset")
	}

	for i, k := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if inpututil.IsKeyJustPressed(k) {
			a.slot = i
			a.toast(fmt.Sprintf("Slot %d", i+1))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveSlot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.loadSlot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.screenshot()
	}

	switch {
	case a.paused:
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.m.StepFrame()
		}
	case a.fast:
		for i := 0; i < a.cfg.FastSpeed; i++ {
			a.m.StepFrame()
		}
	default:
		a.m.StepFrame()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}

	// an undelivered frame is still the latest picture
	var f ppu.Frame
	if a.m.FrameReady() {
		f = a.m.TakeFrame()
	} else {
		f = a.m.Frame()
	}
	f.CopyRGBA(a.pix)
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	if a.showMenu {
		if a.shade == nil {
			a.shade = ebiten.NewImage(ppu.Width, ppu.Height)
			a.shade.Fill(overlayColor)
		}
		screen.DrawImage(a.shade, nil)
		a.drawMenu(screen)
	} else if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 2, 2)
	}

	if a.msgTimer > 0 {
		ebitenutil.DebugPrintAt(screen, truncate(a.msg, maxChars), 2, ppu.Height-16)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return ppu.Width, ppu.Height }

func (a *App) statePath(slot int) string {
	name := snapshot.Sanitize(a.m.Title())
	return filepath.Join(a.cfg.StateDir, fmt.Sprintf("%s.slot%d.state", name, slot+1))
}

func (a *App) saveSlot() {
	if err := a.m.SaveStateToFile(a.statePath(a.slot)); err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", a.slot+1))
}

func (a *App) loadSlot() {
	if err := a.m.LoadStateFromFile(a.statePath(a.slot)); err != nil {
		a.toast("Load failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Loaded slot %d", a.slot+1))
}

func (a *App) screenshot() {
	f := a.m.Frame()
	name := snapshot.Filename(a.m.Title(), time.Now())
	if err := snapshot.SaveFile(name, &f, a.cfg.ShotScale); err != nil {
		a.toast("Screenshot failed: " + err.Error())
		return
	}
	a.toast("Saved " + name)
}
