package term

import (
	"bufio"
	"io"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
)

// Characters for shades 0 to 3, lightest first.
var shadeRunes = [4]rune{' ', '░', '▒', '█'}

// Size of the text rendering. Each character covers 2x4 pixels, which keeps
// the aspect ratio close to the screen on a typical terminal font.
const (
	Columns = ppu.Width / 2
	Rows    = ppu.Height / 4
)

// Render draws the frame as text. The cursor is homed first so that
// successive frames overwrite each other. The darkest shade in each cell
// wins so that thin lines survive the downscale.
func Render(w io.Writer, f *ppu.Frame) error {
	out := bufio.NewWriter(w)
	out.WriteString("\x1b[H")
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			var shade byte
			for y := row * 4; y < row*4+4; y++ {
				for x := col * 2; x < col*2+2; x++ {
					if s := f[y][x] & 3; s > shade {
						shade = s
					}
				}
			}
			out.WriteRune(shadeRunes[shade])
		}
		out.WriteString("\r\n")
	}
	return out.Flush()
}
