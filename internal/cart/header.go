package cart

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// HeaderError is the pattern for images too short to hold a header.
const HeaderError = "cart header: %d bytes, need %d"

// header field addresses
const (
	logoAddr           = 0x0104
	cgbFlagAddr        = 0x0143
	romSizeAddr        = 0x0148
	ramSizeAddr        = 0x0149
	versionAddr        = 0x014C
	headerChecksumAddr = 0x014D
	globalChecksumAddr = 0x014E
)

var bootLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

var typeNames = map[byte]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2",
	0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY",
	0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3",
	0x12: "MBC3+RAM",
	0x13: "MBC3+RAM+BATTERY",
	0x19: "MBC5",
	0x1A: "MBC5+RAM",
	0x1B: "MBC5+RAM+BATTERY",
	0x1C: "MBC5+RUMBLE",
	0x1D: "MBC5+RUMBLE+RAM",
	0x1E: "MBC5+RUMBLE+RAM+BATTERY",
}

// TypeName returns the name of a cartridge type byte.
func TypeName(code byte) string {
	if s, ok := typeNames[code]; ok {
		return s
	}
	return fmt.Sprintf("unknown %#02x", code)
}

// Header is the decoded cartridge header. It is only used for logging and
// display. Emulation needs nothing beyond the Title and Type of Cartridge.
type Header struct {
	Title          string
	Type           byte
	LogoOK         bool
	CGBOnly        bool
	Version        byte
	HeaderChecksum byte
	GlobalChecksum uint16

	ROMSize  int // bytes, zero for an unknown size code
	ROMBanks int
	RAMSize  int
}

// ParseHeader decodes the header of a ROM image.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < minHeader {
		return nil, curated.Errorf(HeaderError, len(rom), minHeader)
	}

	c := New(rom)
	h := &Header{
		Title:          c.Title(),
		Type:           c.Type(),
		LogoOK:         string(rom[logoAddr:logoAddr+len(bootLogo)]) == string(bootLogo[:]),
		CGBOnly:        rom[cgbFlagAddr] == 0xC0,
		Version:        rom[versionAddr],
		HeaderChecksum: rom[headerChecksumAddr],
		GlobalChecksum: binary.BigEndian.Uint16(rom[globalChecksumAddr:]),
		RAMSize:        ramSize(rom[ramSizeAddr]),
	}
	h.ROMSize, h.ROMBanks = romSize(rom[romSizeAddr])
	return h, nil
}

// String is a one line summary for load-time logging.
func (h *Header) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%q %s v%d", h.Title, TypeName(h.Type), h.Version)
	if h.ROMBanks > 0 {
		fmt.Fprintf(&s, " rom=%dK/%d banks", h.ROMSize/1024, h.ROMBanks)
	}
	if h.RAMSize > 0 {
		fmt.Fprintf(&s, " ram=%dK", h.RAMSize/1024)
	}
	if !h.LogoOK {
		s.WriteString(" [bad logo]")
	}
	if h.CGBOnly {
		s.WriteString(" [CGB only]")
	}
	if h.Type != 0x00 {
		s.WriteString(" [banking not emulated]")
	}
	return s.String()
}

// HeaderChecksumOK runs the boot ROM checksum over 0x0134–0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) <= headerChecksumAddr {
		return false
	}
	var sum byte
	for _, b := range rom[titleStart:headerChecksumAddr] {
		sum = sum - b - 1
	}
	return sum == rom[headerChecksumAddr]
}

// GlobalChecksumOK sums every byte but the checksum itself. Real hardware
// never checks it.
func GlobalChecksumOK(rom []byte) bool {
	if len(rom) < minHeader {
		return false
	}
	var sum uint16
	for i, b := range rom {
		if i != globalChecksumAddr && i != globalChecksumAddr+1 {
			sum += uint16(b)
		}
	}
	return sum == binary.BigEndian.Uint16(rom[globalChecksumAddr:])
}

func romSize(code byte) (size, banks int) {
	switch {
	case code <= 0x08:
		banks = 2 << code
	case code == 0x52:
		banks = 72
	case code == 0x53:
		banks = 80
	case code == 0x54:
		banks = 96
	default:
		return 0, 0
	}
	return banks * 0x4000, banks
}

func ramSize(code byte) int {
	kb := [...]int{0, 0, 8, 32, 128, 64}
	if int(code) >= len(kb) {
		return 0
	}
	return kb[code] * 1024
}
