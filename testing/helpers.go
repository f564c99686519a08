// Package testing provides test utilities for stego.
package testing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/zoobzio/stego"
)

// TestPayload is a short message that fits in any carrier of 8x8 or larger.
const TestPayload = "meet at noon"

// Gradient returns an opaque w×h carrier whose channels vary with position,
// so both LSB values appear across the image.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	return img
}

// Noise returns an RGB buffer of w×h pixels filled from a seeded source.
// The same seed always yields the same buffer.
func Noise(w, h int, seed int64) *stego.Pixels {
	p := stego.NewPixels(w, h)
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic fixture data
	_, _ = rng.Read(p.Pix)
	return p
}

// Paletted returns a w×h paletted carrier using a small fixed palette.
func Paletted(w, h int) *image.Paletted {
	palette := color.Palette{
		color.RGBA{0x10, 0x20, 0x30, 0xFF},
		color.RGBA{0xF0, 0xE1, 0xD2, 0xFF},
		color.RGBA{0x7F, 0x80, 0x81, 0xFF},
	}
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % len(palette))
	}
	return img
}

// PNG encodes img as PNG bytes, failing the test on error.
func PNG(tb testing.TB, img image.Image) []byte {
	tb.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// Processor returns a processor for a registered format name, failing the
// test if the format is missing or lossy.
func Processor(tb testing.TB, name string) *stego.Processor {
	tb.Helper()
	f, err := stego.Lookup(name)
	if err != nil {
		tb.Fatalf("Lookup(%q): %v", name, err)
	}
	proc, err := stego.NewProcessor(f)
	if err != nil {
		tb.Fatalf("NewProcessor(%q): %v", name, err)
	}
	return proc
}
