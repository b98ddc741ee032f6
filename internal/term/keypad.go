package term

import "github.com/xXJSONDeruloXx/simple-gb-emu/internal/emu"

// HoldFrames is how long a key stays down after its byte arrives. A terminal
// reports key presses and auto-repeat but never key releases.
const HoldFrames = 8

type key int

const (
	keyUp key = iota
	keyDown
	keyLeft
	keyRight
	keyA
	keyB
	keyStart
	keySelect
	numKeys
)

// Keypad turns the byte stream of a raw terminal into joypad state.
type Keypad struct {
	held [numKeys]int
	quit bool

	// partial escape sequence carried between reads
	pending []byte
}

// Feed consumes bytes read from the terminal.
func (k *Keypad) Feed(data []byte) {
	data = append(k.pending, data...)
	k.pending = nil

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch c {
		case 0x1B:
			if i+1 >= len(data) {
				k.pending = []byte{c}
				return
			}
			if data[i+1] != '[' {
				// a lone escape quits
				k.quit = true
				continue
			}
			if i+2 >= len(data) {
				k.pending = append([]byte(nil), data[i:]...)
				return
			}
			switch data[i+2] {
			case 'A':
				k.press(keyUp)
			case 'B':
				k.press(keyDown)
			case 'C':
				k.press(keyRight)
			case 'D':
				k.press(keyLeft)
			}
			i += 2
		case 'z', 'Z':
			k.press(keyA)
		case 'x', 'X':
			k.press(keyB)
		case '\r', '\n':
			k.press(keyStart)
		case ' ', 0x7F, 0x08:
			k.press(keySelect)
		case 'w', 'W':
			k.press(keyUp)
		case 's', 'S':
			k.press(keyDown)
		case 'a', 'A':
			k.press(keyLeft)
		case 'd', 'D':
			k.press(keyRight)
		case 'q', 'Q', 0x03:
			k.quit = true
		}
	}
}

func (k *Keypad) press(which key) { k.held[which] = HoldFrames }

// Quit is true once the user has asked to leave. An escape byte still waiting
// for the rest of a sequence counts, because escape sequences from arrow keys
// arrive in a single read.
func (k *Keypad) Quit() bool {
	return k.quit || (len(k.pending) == 1 && k.pending[0] == 0x1B)
}

// Tick returns the buttons held for this frame and ages every key by one
// frame.
func (k *Keypad) Tick() emu.Buttons {
	b := emu.Buttons{
		Up:     k.held[keyUp] > 0,
		Down:   k.held[keyDown] > 0,
		Left:   k.held[keyLeft] > 0,
		Right:  k.held[keyRight] > 0,
		A:      k.held[keyA] > 0,
		B:      k.held[keyB] > 0,
		Start:  k.held[keyStart] > 0,
		Select: k.held[keySelect] > 0,
	}
	for i := range k.held {
		if k.held[i] > 0 {
			k.held[i]--
		}
	}
	return b
}
