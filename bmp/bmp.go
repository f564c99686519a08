// Package bmp provides a BMP carrier format.
package bmp

import (
	"image"
	"io"

	"github.com/zoobzio/stego"
	"golang.org/x/image/bmp"
)

func init() {
	stego.Register(New())
}

// bmpFormat implements stego.Format for uncompressed BMP.
type bmpFormat struct{}

// New returns a BMP format.
func New() stego.Format {
	return &bmpFormat{}
}

// Name returns the short format name.
func (f *bmpFormat) Name() string {
	return "bmp"
}

// ContentType returns the MIME type for BMP.
func (f *bmpFormat) ContentType() string {
	return "image/bmp"
}

// Extension returns the BMP file extension.
func (f *bmpFormat) Extension() string {
	return ".bmp"
}

// Lossless reports true; BMP stores raw 24-bit pixels.
func (f *bmpFormat) Lossless() bool {
	return true
}

// Encode writes img as BMP.
func (f *bmpFormat) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}
