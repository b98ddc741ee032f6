// Package snapshot exports frames as PNG images, scaled up with
// nearest-neighbour sampling so that pixels stay square.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	"golang.org/x/image/draw"
)

// WriteError is the pattern for all errors from this package.
const WriteError = "snapshot: %v"

// Image returns the frame scaled by an integer factor. A factor below one is
// treated as one.
func Image(f *ppu.Frame, scale int) *image.RGBA {
	src := f.RGBA()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, ppu.Width*scale, ppu.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WritePNG encodes the scaled frame to w.
func WritePNG(w io.Writer, f *ppu.Frame, scale int) error {
	if err := png.Encode(w, Image(f, scale)); err != nil {
		return curated.Errorf(WriteError, err)
	}
	return nil
}

// SaveFile writes the scaled frame to a new PNG file.
func SaveFile(path string, f *ppu.Frame, scale int) error {
	out, err := os.Create(path)
	if err != nil {
		return curated.Errorf(WriteError, err)
	}
	if err := WritePNG(out, f, scale); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return curated.Errorf(WriteError, err)
	}
	return nil
}

// Sanitize turns a cartridge title into something usable in a file name.
func Sanitize(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "gbemu"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, title)
}

// Filename builds a screenshot name from the cartridge title and a time.
func Filename(title string, t time.Time) string {
	return fmt.Sprintf("%s_%s.png", Sanitize(title), t.Format("20060102_150405"))
}
