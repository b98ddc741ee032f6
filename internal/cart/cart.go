package cart

import (
	"io"
	"os"
	"strings"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// LoadError is the curated pattern for all failures in Load().
const LoadError = "cart: %v"

const (
	titleStart = 0x0134
	titleLen   = 15
	typeAddr   = 0x0147
	minHeader  = 0x0150
)

// Cartridge owns a flat ROM image. There is no bank switching: the bus only
// routes 0x0000–0x7FFF here and anything past the end of the image reads as
// 0xFF.
type Cartridge struct {
	rom   []byte
	title string
	kind  byte
}

// New takes ownership of rom. Title and type are only read when the image is
// large enough to hold a header.
func New(rom []byte) *Cartridge {
	c := &Cartridge{rom: rom}
	if len(rom) >= minHeader {
		raw := string(rom[titleStart : titleStart+titleLen])
		if i := strings.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		c.title = raw
		c.kind = rom[typeAddr]
	}
	return c
}

// Load reads an entire ROM file. Nothing is returned unless the whole file
// was read.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, curated.Errorf(LoadError, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, curated.Errorf(LoadError, err)
	}
	if info.IsDir() {
		return nil, curated.Errorf(LoadError, path+" is a directory")
	}

	rom := make([]byte, info.Size())
	if _, err := io.ReadFull(f, rom); err != nil {
		return nil, curated.Errorf(LoadError, err)
	}

	return New(rom), nil
}

// Read returns the ROM byte at addr or 0xFF when addr is outside the image or
// no image is loaded. Safe to call on a nil Cartridge.
func (c *Cartridge) Read(addr uint16) byte {
	if c == nil || int(addr) >= len(c.rom) {
		return 0xFF
	}
	return c.rom[addr]
}

// Title is at most 15 characters, truncated at the first NUL.
func (c *Cartridge) Title() string { return c.title }

// Type is the header cartridge type byte (0x147).
func (c *Cartridge) Type() byte { return c.kind }

// Size is the length of the ROM image in bytes.
func (c *Cartridge) Size() int { return len(c.rom) }

// ROM exposes the raw image, e.g. for header decoding.
func (c *Cartridge) ROM() []byte { return c.rom }

// Release drops the ROM buffer. Subsequent reads return 0xFF.
func (c *Cartridge) Release() {
	if c == nil {
		return
	}
	c.rom = nil
}
