package stego

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	// Carrier decoders. Anything image.Decode understands can be read.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// carrierStats describes a carrier for event reporting.
type carrierStats struct {
	source     string
	width      int
	height     int
	payloadLen int
}

// Probe reads only the image header from r and returns the carrier's
// dimensions and source format name.
func Probe(r io.Reader) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, "", err
	}
	return cfg.Width, cfg.Height, format, nil
}

// CapacityOf returns the number of payload characters the image in r can
// hold. It reads only the header. An unreadable image has capacity 0.
func CapacityOf(ctx context.Context, r io.Reader) int {
	w, h, source, err := Probe(r)
	capacity := Capacity(w, h)
	emitCapacityChecked(ctx, carrierStats{source: source, width: w, height: h}, capacity, err)
	return capacity
}

// ReadCarrier decodes the image in r into an RGB buffer.
// Returns the buffer and the name of the source format.
func ReadCarrier(r io.Reader) (p *Pixels, source string, err error) {
	defer func() {
		if v := recover(); v != nil {
			p, source, err = nil, "", fmt.Errorf("image decoder panic: %v", v)
		}
	}()

	img, source, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return FromImage(img), source, nil
}

func isNoMessage(err error) bool {
	return errors.Is(err, ErrNoMessage)
}
