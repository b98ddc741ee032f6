package bus

// Memory map boundaries.
const (
	romEnd     = 0x8000
	wramStart  = 0xC000
	echoStart  = 0xE000
	echoEnd    = 0xFE00
	echoOffset = 0x2000

	VRAMStart = 0x8000
	VRAMEnd   = 0xA000
)

// Memory-mapped IO registers.
const (
	AddrJOYP uint16 = 0xFF00 // joypad select/state
	AddrDIV  uint16 = 0xFF04 // divider
	AddrTIMA uint16 = 0xFF05 // timer counter
	AddrTMA  uint16 = 0xFF06 // timer modulo
	AddrTAC  uint16 = 0xFF07 // timer control: bit2 enable, bits0-1 speed
	AddrIF   uint16 = 0xFF0F // interrupt flags (never set by the core)
	AddrLCDC uint16 = 0xFF40 // LCD control
	AddrSTAT uint16 = 0xFF41 // LCD status, bits0-1 mode
	AddrSCY  uint16 = 0xFF42
	AddrSCX  uint16 = 0xFF43
	AddrLY   uint16 = 0xFF44 // current line, written by the PPU
	AddrLYC  uint16 = 0xFF45
	AddrBGP  uint16 = 0xFF47 // background palette
	AddrIE   uint16 = 0xFFFF
)

// LCDC bits.
const (
	LCDCBGEnable    byte = 1 << 0
	LCDCBGMap       byte = 1 << 3 // 0: 0x9800, 1: 0x9C00
	LCDCTileData    byte = 1 << 4 // 0: 0x8800 signed, 1: 0x8000 unsigned
	LCDCDisplayOn   byte = 1 << 7
	TACEnable       byte = 1 << 2
	TACClockSelect  byte = 0x03
	STATModeMask    byte = 0x03
	STATCoincidence byte = 1 << 2
)
