package ppu

import "github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"

// backgroundIDs returns the 160 colour ids of background line ly, before the
// palette is applied. Scrolling wraps at 256 in both directions.
func backgroundIDs(mem VRAMReader, mapBase uint16, unsignedTiles bool, scx, scy, ly byte) [Width]byte {
	var out [Width]byte

	bgY := ly + scy
	fineY := bgY & 7
	mapRow := uint16(bgY>>3) * 32

	tileX := uint16(scx>>3) & 31
	fineX := int(scx & 7)

	var q fifo
	f := newBGFetcher(mem, &q, unsignedTiles)
	f.Fetch(mapBase+mapRow+tileX, fineY)

	// pixels of the first tile left of SCX are not shown
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}

	for x := 0; x < Width; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			f.Fetch(mapBase+mapRow+tileX, fineY)
		}
		out[x], _ = q.Pop()
	}
	return out
}

// renderLine draws scanline ly into the frame from the current registers.
func (p *PPU) renderLine(ly int) {
	l := lineParams{
		lcdc: p.mem.Read(bus.AddrLCDC),
		scx:  p.mem.Read(bus.AddrSCX),
		scy:  p.mem.Read(bus.AddrSCY),
		bgp:  p.mem.Read(bus.AddrBGP),
	}

	row := &p.frame[ly]
	if l.lcdc&bus.LCDCBGEnable == 0 {
		*row = [Width]byte{}
		return
	}

	ids := backgroundIDs(p.mem, l.mapBase(), l.unsignedTiles(), l.scx, l.scy, byte(ly))
	for x, id := range ids {
		row[x] = ApplyPalette(l.bgp, id)
	}
}
