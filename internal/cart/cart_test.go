package cart

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/test"
)

func TestTitleAndType(t *testing.T) {
	rom := buildROM("TETRIS", 0x00, 0x00, 0x00, 32*1024)
	c := New(rom)
	test.Equate(t, c.Title(), "TETRIS")
	test.Equate(t, c.Type(), 0x00)
	test.Equate(t, c.Size(), 32*1024)
}

func TestTitleIsAtMostFifteenCharacters(t *testing.T) {
	rom := make([]byte, 0x150)
	copy(rom[0x0134:], "ABCDEFGHIJKLMNOP") // 16 bytes, last overlaps the CGB flag
	rom[0x0147] = 0x13
	c := New(rom)
	test.Equate(t, c.Title(), "ABCDEFGHIJKLMNO")
	test.Equate(t, c.Type(), 0x13)
}

func TestSmallROMHasNoHeader(t *testing.T) {
	rom := make([]byte, 0x14F)
	copy(rom[0x0134:], "TETRIS")
	rom[0x0147] = 0x01
	c := New(rom)
	test.Equate(t, c.Title(), "")
	test.Equate(t, c.Type(), 0x00)
}

func TestReadBounds(t *testing.T) {
	c := New([]byte{0x10, 0x20, 0x30})
	test.Equate(t, c.Read(0x0001), 0x20)
	test.Equate(t, c.Read(0x0003), 0xFF)
	test.Equate(t, c.Read(0x7FFF), 0xFF)

	var none *Cartridge
	test.Equate(t, none.Read(0x0000), 0xFF)

	c.Release()
	test.Equate(t, c.Read(0x0000), 0xFF)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tetris.gb")
	rom := buildROM("TETRIS", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0100] = 0xC3
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	test.ExpectedSuccess(t, err)
	test.Equate(t, c.Title(), "TETRIS")
	test.Equate(t, c.Read(0x0100), 0xC3)
	test.Equate(t, c.Size(), len(rom))
}

func TestLoadFailure(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.gb"))
	test.ExpectedFailure(t, err)
	if c != nil {
		t.Fatalf("partial cartridge returned on failure")
	}
	if !curated.Is(err, LoadError) {
		t.Fatalf("error is not a load error: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("underlying not-exist error lost: %v", err)
	}

	_, err = Load(t.TempDir())
	test.ExpectedFailure(t, err)
}
