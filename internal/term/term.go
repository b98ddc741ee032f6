// Package term runs the emulator in a text terminal. The terminal is put in
// raw mode so single key presses arrive without waiting for a newline.
package term

import (
	"io"
	"os"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/emu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	xterm "golang.org/x/term"
)

// Error patterns.
const (
	NotTerminal = "term: %s is not a terminal"
	RawError    = "term: %v"
)

type Terminal struct {
	in       *os.File
	out      io.Writer
	oldState *xterm.State

	keys   chan []byte
	done   chan struct{}
	keypad Keypad
}

// Open switches in to raw mode and starts reading keys from it.
func Open(in *os.File, out io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	if !xterm.IsTerminal(fd) {
		return nil, curated.Errorf(NotTerminal, in.Name())
	}
	old, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, curated.Errorf(RawError, err)
	}

	t := &Terminal{
		in:       in,
		out:      out,
		oldState: old,
		keys:     make(chan []byte, 64),
		done:     make(chan struct{}),
	}
	go pump(in, t.keys, t.done)

	// hide the cursor and clear the screen
	io.WriteString(out, "\x1b[?25l\x1b[2J")
	return t, nil
}

// pump forwards what it reads from r to keys until r fails or done is closed,
// then closes keys. A Read that is already blocked when done closes has to
// return first, which for a terminal means the next key press. That byte is
// dropped and the goroutine ends.
func pump(r io.Reader, keys chan<- []byte, done <-chan struct{}) {
	defer close(keys)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case keys <- append([]byte(nil), buf[:n]...):
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-done:
			return
		default:
		}
	}
}

// Size returns the terminal dimensions in characters.
func (t *Terminal) Size() (int, int, error) {
	return xterm.GetSize(int(t.in.Fd()))
}

// Poll collects every key press since the previous call and returns the
// buttons for the next frame. quit is true when the user pressed q, escape or
// ctrl-c, or input has closed.
func (t *Terminal) Poll() (buttons emu.Buttons, quit bool) {
	for {
		select {
		case data, ok := <-t.keys:
			if !ok {
				return t.keypad.Tick(), true
			}
			t.keypad.Feed(data)
		default:
			return t.keypad.Tick(), t.keypad.Quit()
		}
	}
}

// Draw renders a frame to the terminal.
func (t *Terminal) Draw(f *ppu.Frame) error {
	return Render(t.out, f)
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	close(t.done)
	io.WriteString(t.out, "\x1b[?25h\r\n")
	if err := xterm.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return curated.Errorf(RawError, err)
	}
	return nil
}
