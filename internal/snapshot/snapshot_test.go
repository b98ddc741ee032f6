package snapshot_test

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/ppu"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/snapshot"
	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/test"
)

func testFrame() *ppu.Frame {
	var f ppu.Frame
	f[0][0] = 3
	f[0][1] = 1
	f[143][159] = 2
	return &f
}

func TestWritePNGScaled(t *testing.T) {
	var buf bytes.Buffer
	test.ExpectedSuccess(t, snapshot.WritePNG(&buf, testFrame(), 3))

	img, err := png.Decode(&buf)
	test.ExpectedSuccess(t, err)
	test.Equate(t, img.Bounds().Dx(), ppu.Width*3)
	test.Equate(t, img.Bounds().Dy(), ppu.Height*3)

	// every source pixel covers a 3x3 block
	for _, p := range []struct{ x, y, shade int }{
		{0, 0, 3}, {2, 2, 3}, {3, 0, 1}, {5, 2, 1}, {6, 0, 0}, {479, 431, 2}, {477, 429, 2},
	} {
		r, g, b, _ := img.At(p.x, p.y).RGBA()
		want := ppu.Grays[p.shade]
		if byte(r>>8) != want.R || byte(g>>8) != want.G || byte(b>>8) != want.B {
			t.Fatalf("pixel (%d,%d) got %02x%02x%02x want shade %d", p.x, p.y, r>>8, g>>8, b>>8, p.shade)
		}
	}
}

func TestScaleBelowOne(t *testing.T) {
	img := snapshot.Image(testFrame(), 0)
	test.Equate(t, img.Bounds().Dx(), ppu.Width)
	test.Equate(t, img.RGBAAt(0, 0) == ppu.Grays[3], true)
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	test.ExpectedSuccess(t, snapshot.SaveFile(path, testFrame(), 1))
	info, err := os.Stat(path)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, info.Size() > 0)

	err = snapshot.SaveFile(filepath.Join(t.TempDir(), "missing", "shot.png"), testFrame(), 1)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, snapshot.WriteError))
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	test.Equate(t, snapshot.Filename("SUPER MARIOLAND", at), "SUPER_MARIOLAND_20240309_140506.png")
	test.Equate(t, snapshot.Filename("", at), "gbemu_20240309_140506.png")
}

func TestSanitize(t *testing.T) {
	test.Equate(t, snapshot.Sanitize("  POKEMON RED "), "POKEMON_RED")
	test.Equate(t, snapshot.Sanitize("a/b\\c"), "a_b_c")
	test.Equate(t, snapshot.Sanitize("   "), "gbemu")
}
