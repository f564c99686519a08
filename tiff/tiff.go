// Package tiff provides a TIFF carrier format.
package tiff

import (
	"image"
	"io"

	"github.com/zoobzio/stego"
	"golang.org/x/image/tiff"
)

func init() {
	stego.Register(New())
}

// tiffFormat implements stego.Format for TIFF.
type tiffFormat struct {
	opts *tiff.Options
}

// New returns a TIFF format using deflate compression with the horizontal
// predictor.
func New() stego.Format {
	return WithOptions(&tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// WithOptions returns a TIFF format with custom encoder options.
// Both supported compressions (none, deflate) are lossless.
func WithOptions(opts *tiff.Options) stego.Format {
	return &tiffFormat{opts: opts}
}

// Name returns the short format name.
func (f *tiffFormat) Name() string {
	return "tiff"
}

// ContentType returns the MIME type for TIFF.
func (f *tiffFormat) ContentType() string {
	return "image/tiff"
}

// Extension returns the TIFF file extension.
func (f *tiffFormat) Extension() string {
	return ".tiff"
}

// Lossless reports true.
func (f *tiffFormat) Lossless() bool {
	return true
}

// Encode writes img as TIFF.
func (f *tiffFormat) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, f.opts)
}
