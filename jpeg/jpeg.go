// Package jpeg provides a JPEG format.
//
// JPEG quantisation rewrites channel values, so hidden bits do not survive
// encoding. The format is registered so that lookups by name succeed and
// report the problem: stego.NewProcessor rejects it with stego.ErrLossyFormat.
// JPEG images are still accepted as carriers to read from.
package jpeg

import (
	"image"
	"image/jpeg"
	"io"

	"github.com/zoobzio/stego"
)

func init() {
	stego.Register(New())
}

// jpegFormat implements stego.Format for JPEG.
type jpegFormat struct {
	opts *jpeg.Options
}

// New returns a JPEG format at the default quality.
func New() stego.Format {
	return &jpegFormat{opts: &jpeg.Options{Quality: jpeg.DefaultQuality}}
}

// Name returns the short format name.
func (f *jpegFormat) Name() string {
	return "jpeg"
}

// ContentType returns the MIME type for JPEG.
func (f *jpegFormat) ContentType() string {
	return "image/jpeg"
}

// Extension returns the JPEG file extension.
func (f *jpegFormat) Extension() string {
	return ".jpg"
}

// Lossless reports false.
func (f *jpegFormat) Lossless() bool {
	return false
}

// Encode writes img as JPEG.
func (f *jpegFormat) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, f.opts)
}
