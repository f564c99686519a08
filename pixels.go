package stego

import (
	"fmt"
	"image"
	"image/color"
)

// Pixels is an RGB buffer with its dimensions.
// Pix holds Height rows of Width pixels, three bytes (R, G, B) per pixel.
type Pixels struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixels returns a zeroed width×height buffer.
func NewPixels(width, height int) *Pixels {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixels{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*channels),
	}
}

// Capacity returns the number of payload characters p can hold.
func (p *Pixels) Capacity() int {
	return Capacity(p.Width, p.Height)
}

// Clone returns a deep copy of p.
func (p *Pixels) Clone() *Pixels {
	pix := make([]byte, len(p.Pix))
	copy(pix, p.Pix)
	return &Pixels{Width: p.Width, Height: p.Height, Pix: pix}
}

// ToImage returns p as an opaque NRGBA image with bounds starting at (0,0).
func (p *Pixels) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i, j := 0, 0; i+channels <= len(p.Pix) && j+4 <= len(img.Pix); i, j = i+channels, j+4 {
		img.Pix[j] = p.Pix[i]
		img.Pix[j+1] = p.Pix[i+1]
		img.Pix[j+2] = p.Pix[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

func (p *Pixels) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil buffer", ErrMalformedBuffer)
	}
	if want := p.Width * p.Height * channels; len(p.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrMalformedBuffer, p.Width, p.Height, want, len(p.Pix))
	}
	return nil
}

// FromImage copies any image into an RGB buffer with bounds starting at (0,0).
//
// Alpha is dropped without compositing: the stored color channels of
// non-premultiplied sources are kept as they are. Paletted, gray, CMYK and
// YCbCr sources are converted through the NRGBA color model.
func FromImage(src image.Image) *Pixels {
	b := src.Bounds()
	p := NewPixels(b.Dx(), b.Dy())

	switch img := src.(type) {
	case *image.NRGBA:
		copyNRGBA(p, img, b)
	case *image.RGBA:
		copyRGBA(p, img, b)
	default:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				p.Pix[i], p.Pix[i+1], p.Pix[i+2] = c.R, c.G, c.B
				i += channels
			}
		}
	}
	return p
}

func copyNRGBA(p *Pixels, img *image.NRGBA, b image.Rectangle) {
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			copy(p.Pix[i:i+channels], row[x*4:x*4+channels])
			i += channels
		}
	}
}

// copyRGBA copies opaque pixels directly; translucent ones are un-premultiplied.
func copyRGBA(p *Pixels, img *image.RGBA, b image.Rectangle) {
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4]
			if px[3] == 0xFF {
				copy(p.Pix[i:i+channels], px[:channels])
			} else {
				c := color.NRGBAModel.Convert(color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}).(color.NRGBA)
				p.Pix[i], p.Pix[i+1], p.Pix[i+2] = c.R, c.G, c.B
			}
			i += channels
		}
	}
}
