package ppu

import "github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"

// VRAMReader provides read-only access to tile maps and tile data.
type VRAMReader interface {
	Read(addr uint16) byte
}

// Tile map and tile data bases selected by LCDC bits 3 and 4.
const (
	mapLow       uint16 = 0x9800
	mapHigh      uint16 = 0x9C00
	tilesLow     uint16 = bus.VRAMStart
	tilesShifted uint16 = 0x8800
)

// fifo is a ring buffer of 2-bit colour ids.
type fifo struct {
	buf  [16]byte
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }

func (q *fifo) Push(id byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = id & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}

func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// bgFetcher pulls one row of one background tile (8 pixels) into the fifo.
type bgFetcher struct {
	mem           VRAMReader
	fifo          *fifo
	unsignedTiles bool   // true: 0x8000 addressing; false: 0x8800 with +128 offset
	mapAddr       uint16 // tile number address within the map
	fineY         byte   // row within the tile
}

func newBGFetcher(mem VRAMReader, f *fifo, unsignedTiles bool) *bgFetcher {
	return &bgFetcher{mem: mem, fifo: f, unsignedTiles: unsignedTiles}
}

// tileRowAddr is the address of the first of the two bytes encoding a row.
func tileRowAddr(tile byte, unsignedTiles bool, fineY byte) uint16 {
	row := uint16(fineY&7) * 2
	if unsignedTiles {
		return tilesLow + uint16(tile)*16 + row
	}
	return tilesShifted + uint16(tile+128)*16 + row
}

// Fetch pushes the 8 colour ids of the current tile row, leftmost first.
func (fch *bgFetcher) Fetch(mapAddr uint16, fineY byte) {
	fch.mapAddr = mapAddr
	fch.fineY = fineY

	addr := tileRowAddr(fch.mem.Read(fch.mapAddr), fch.unsignedTiles, fch.fineY)
	lo := fch.mem.Read(addr)
	hi := fch.mem.Read(addr + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		id := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		_ = fch.fifo.Push(id)
	}
}

// lineParams are the register values that shape one background line.
type lineParams struct {
	lcdc byte
	scx  byte
	scy  byte
	bgp  byte
}

func (l lineParams) mapBase() uint16 {
	if l.lcdc&bus.LCDCBGMap != 0 {
		return mapHigh
	}
	return mapLow
}

func (l lineParams) unsignedTiles() bool {
	return l.lcdc&bus.LCDCTileData != 0
}
