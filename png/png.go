// Package png provides a PNG carrier format.
package png

import (
	"image"
	"image/png"
	"io"

	"github.com/zoobzio/stego"
)

func init() {
	stego.Register(New())
}

// pngFormat implements stego.Format for PNG.
type pngFormat struct {
	enc *png.Encoder
}

// New returns a PNG format using default compression.
func New() stego.Format {
	return WithCompression(png.DefaultCompression)
}

// WithCompression returns a PNG format using the given zlib level.
// Every level is lossless; the level only trades speed for size.
func WithCompression(level png.CompressionLevel) stego.Format {
	return &pngFormat{enc: &png.Encoder{CompressionLevel: level}}
}

// Name returns the short format name.
func (f *pngFormat) Name() string {
	return "png"
}

// ContentType returns the MIME type for PNG.
func (f *pngFormat) ContentType() string {
	return "image/png"
}

// Extension returns the PNG file extension.
func (f *pngFormat) Extension() string {
	return ".png"
}

// Lossless reports true; PNG stores 8-bit channels exactly.
func (f *pngFormat) Lossless() bool {
	return true
}

// Encode writes img as PNG.
func (f *pngFormat) Encode(w io.Writer, img image.Image) error {
	return f.enc.Encode(w, img)
}
