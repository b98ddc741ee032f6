package emu

import "github.com/xXJSONDeruloXx/simple-gb-emu/internal/bus"

// Buttons is the set of pressed keys.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// JOYP select bits. A group is selected when its bit is clear.
const (
	joypSelectDirections byte = 1 << 4
	joypSelectButtons    byte = 1 << 5
)

// nibble packs four keys into a joypad nibble, 0 meaning pressed.
func nibble(b0, b1, b2, b3 bool) byte {
	v := byte(0x0F)
	for i, pressed := range [4]bool{b0, b1, b2, b3} {
		if pressed {
			v &^= 1 << i
		}
	}
	return v
}

func (b Buttons) directions() byte { return nibble(b.Right, b.Left, b.Up, b.Down) }
func (b Buttons) actions() byte    { return nibble(b.A, b.B, b.Select, b.Start) }

// SetButtons replaces the pressed keys. JOYP reflects the change at once.
func (m *Machine) SetButtons(b Buttons) {
	m.buttons = b
	m.refreshJoypad()
}

// Buttons returns the keys currently held.
func (m *Machine) Buttons() Buttons { return m.buttons }

// refreshJoypad rewrites the low nibble of JOYP for whichever group the
// program has selected. Directions win if both are selected.
func (m *Machine) refreshJoypad() {
	joyp := m.bus.Read(bus.AddrJOYP)
	switch {
	case joyp&joypSelectDirections == 0:
		joyp = joyp&0xF0 | m.buttons.directions()
	case joyp&joypSelectButtons == 0:
		joyp = joyp&0xF0 | m.buttons.actions()
	default:
		joyp |= 0x0F
	}
	m.bus.Write(bus.AddrJOYP, joyp)
}
