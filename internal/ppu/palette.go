package ppu

import (
	"image"
	"image/color"
)

// Screen dimensions in pixels.
const (
	Width  = 160
	Height = 144
)

// Frame holds one 2-bit shade per pixel, indexed [y][x]. Shade 0 is the
// lightest.
type Frame [Height][Width]byte

// Grays are the RGBA values used for the four shades.
var Grays = [4]color.RGBA{
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0x00, 0x00, 0x00, 0xFF},
}

// ApplyPalette maps a colour id through a palette register, which holds two
// bits per id with id 0 in bits 0-1.
func ApplyPalette(palette, id byte) byte {
	return (palette >> ((id & 3) * 2)) & 3
}

// Bytes returns the shades row by row.
func (f *Frame) Bytes() []byte {
	out := make([]byte, 0, Width*Height)
	for y := range f {
		out = append(out, f[y][:]...)
	}
	return out
}

// RGBA converts the frame to an image using Grays.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	f.CopyRGBA(img.Pix)
	return img
}

// CopyRGBA writes the frame as RGBA bytes into pix, which must hold at least
// Width*Height*4 bytes.
func (f *Frame) CopyRGBA(pix []byte) {
	i := 0
	for y := range f {
		for x := range f[y] {
			c := Grays[f[y][x]&3]
			pix[i+0] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
			i += 4
		}
	}
}
