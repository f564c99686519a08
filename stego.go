package stego

import (
	"bytes"
	"fmt"
)

// Terminator marks the end of a hidden payload. It is encoded like any other
// payload character and counts against carrier capacity.
const Terminator = "<<END>>"

// channels is the number of color channels per pixel in a buffer.
const channels = 3

// terminatorBits is the capacity cost of the terminator.
const terminatorBits = len(Terminator) * bitsPerChar

var terminator = []byte(Terminator)

// Capacity returns the maximum number of payload characters a width×height
// carrier can hold once the terminator is accounted for. Carriers smaller
// than the terminator, and non-positive dimensions, hold nothing.
func Capacity(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return capacityOf(width * height * channels)
}

// capacityOf returns the payload capacity of a buffer of n channel values.
func capacityOf(n int) int {
	available := n - terminatorBits
	if available < 0 {
		return 0
	}
	return available / bitsPerChar
}

// Embed hides text in the LSBs of pix and returns the modified copy.
//
// The payload is followed by Terminator. Bit i of the stream replaces bit 0
// of pix[i]; values beyond the stream are copied unchanged. pix itself is
// never modified.
//
// Returns a *CapacityError if the stream is longer than pix and a *CharError
// if text has a character outside ISO-8859-1. No partial output is produced.
func Embed(pix []byte, text string) ([]byte, error) {
	if err := checkBuffer(pix); err != nil {
		return nil, err
	}

	bits, err := TextToBits(text + Terminator)
	if err != nil {
		return nil, err
	}

	if len(bits) > len(pix) {
		return nil, newCapacityError(len(bits)/bitsPerChar-len(Terminator), capacityOf(len(pix)))
	}

	out := make([]byte, len(pix))
	copy(out, pix)
	for i, bit := range bits {
		out[i] = out[i]&0xFE | bit
	}
	return out, nil
}

// Extract recovers the text hidden in pix by Embed.
//
// Channel LSBs are read in buffer order and assembled into characters; the
// scan stops at the first complete Terminator and returns everything before
// it. A payload that itself contains Terminator is therefore cut at its
// first occurrence. Returns ErrNoMessage if the buffer ends first.
func Extract(pix []byte) (string, error) {
	if err := checkBuffer(pix); err != nil {
		return "", err
	}

	raw := make([]byte, 0, 64)
	var acc byte
	for i, v := range pix {
		acc = acc<<1 | v&1
		if (i+1)%bitsPerChar != 0 {
			continue
		}
		raw = append(raw, acc)
		acc = 0

		// Only the newest byte can complete a match, so checking the tail
		// finds the first occurrence without rescanning.
		if bytes.HasSuffix(raw, terminator) {
			return decodeText(raw[:len(raw)-len(terminator)]), nil
		}
	}
	return "", ErrNoMessage
}

// EmbedPixels hides text in p and returns a new buffer of the same dimensions.
func EmbedPixels(p *Pixels, text string) (*Pixels, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	out, err := Embed(p.Pix, text)
	if err != nil {
		return nil, err
	}
	return &Pixels{Width: p.Width, Height: p.Height, Pix: out}, nil
}

// ExtractPixels recovers the text hidden in p.
func ExtractPixels(p *Pixels) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return Extract(p.Pix)
}

// checkBuffer enforces the whole-pixel length invariant.
func checkBuffer(pix []byte) error {
	if len(pix)%channels != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedBuffer, len(pix), channels)
	}
	return nil
}
