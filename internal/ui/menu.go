package ui

import (
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
)

type menuMode int

const (
	menuMain menuMode = iota
	menuROM
	menuLog
)

var overlayColor = color.RGBA{0, 0, 0, 160}

// the debug font is 6 pixels wide and 16 pixels to a line
const (
	maxChars   = (ppu.Width - 4) / 6
	lineHeight = 14
	menuTop    = 4
)

var mainItems = []string{
	"Save state",
	"Load state",
	"Next slot",
	"Switch ROM",
	"Reset",
	"Screenshot",
	"Show log",
	"Close",
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// findROMs lists the cartridge images below dir.
func findROMs(dir string) []string {
	var roms []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".gb", ".dmg":
			roms = append(roms, path)
		}
		return nil
	})
	sort.Strings(roms)
	return roms
}

func (a *App) updateMenu() {
	switch a.menuMode {
	case menuMain:
		a.updateMainMenu()
	case menuROM:
		a.updateROMMenu()
	case menuLog:
		a.updateLogMenu()
	}
}

func (a *App) updateMainMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < len(mainItems)-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
		return
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return
	}

	switch a.menuIdx {
	case 0:
		a.saveSlot()
		a.showMenu = false
	case 1:
		if _, err := os.Stat(a.statePath(a.slot)); err != nil {
			a.toast("Slot is empty")
			return
		}
		a.loadSlot()
		a.showMenu = false
	case 2:
		a.slot = (a.slot + 1) % 4
	case 3:
		a.romList = findROMs(a.cfg.ROMsDir)
		a.romSel = 0
		a.romOff = 0
		a.menuMode = menuROM
	case 4:
		a.m.Reset()
		a.toast("Reset")
		a.showMenu = false
	case 5:
		a.screenshot()
		a.showMenu = false
	case 6:
		a.menuMode = menuLog
	case 7:
		a.showMenu = false
	}
}

func (a *App) updateLogMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.menuMode = menuMain
	}
}

// rows of the ROM list that fit under its two header lines
func romRows() int {
	return (ppu.Height - menuTop - 2*lineHeight) / lineHeight
}

func (a *App) updateROMMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = menuMain
		return
	}
	n := len(a.romList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.menuMode = menuMain
		}
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	rows := romRows()
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+rows {
		a.romOff = a.romSel - rows + 1
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadROMFromFile(path); err != nil {
			a.toast("Load failed: " + err.Error())
			return
		}
		a.updateTitle()
		a.toast("Loaded " + filepath.Base(path))
		a.showMenu = false
		a.paused = false
	}
}

func (a *App) drawMenu(screen *ebiten.Image) {
	switch a.menuMode {
	case menuMain:
		a.drawMainMenu(screen)
	case menuROM:
		a.drawROMMenu(screen)
	case menuLog:
		a.drawLogMenu(screen)
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Menu (slot %d)", a.slot+1), 2, menuTop)
	for i, s := range mainItems {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 2, menuTop+(i+1)*lineHeight)
	}
}

func (a *App) drawROMMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select ROM", 2, menuTop)
	ebitenutil.DebugPrintAt(screen, truncate("Dir: "+a.cfg.ROMsDir, maxChars), 2, menuTop+lineHeight)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 2, menuTop+2*lineHeight)
		return
	}

	end := a.romOff + romRows()
	if end > len(a.romList) {
		end = len(a.romList)
	}
	for i, path := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		name := truncate(filepath.Base(path), maxChars-2)
		ebitenutil.DebugPrintAt(screen, prefix+name, 2, menuTop+(i+2)*lineHeight)
	}
}

// drawLogMenu shows the newest log entries that fit, oldest first.
func (a *App) drawLogMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Log", 2, menuTop)
	entries := a.m.Log().Entries()
	if len(entries) == 0 {
		ebitenutil.DebugPrintAt(screen, "empty", 2, menuTop+lineHeight)
		return
	}
	rows := (ppu.Height - menuTop - lineHeight) / lineHeight
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}
	for i, e := range entries {
		ebitenutil.DebugPrintAt(screen, truncate(e.String(), maxChars), 2, menuTop+(i+1)*lineHeight)
	}
}
