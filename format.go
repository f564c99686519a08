package stego

import (
	"image"
	"io"
)

// Format writes carrier images in one raster encoding.
//
// Implementations live in subpackages (png, bmp, tiff, jpeg) and register
// themselves with Register on import.
type Format interface {
	// Name returns the short format name (e.g., "png").
	Name() string

	// ContentType returns the MIME type for this format (e.g., "image/png").
	ContentType() string

	// Extension returns the file extension including the dot (e.g., ".png").
	Extension() string

	// Lossless reports whether Encode preserves every channel value exactly.
	// Only lossless formats can carry a payload.
	Lossless() bool

	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error
}
