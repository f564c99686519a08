package stego

import (
	"golang.org/x/text/encoding/charmap"
)

// bitsPerChar is the width of one payload character in the bitstream.
const bitsPerChar = 8

// charset maps payload characters to single bytes.
var charset = charmap.ISO8859_1

// Bits is an ordered bitstream holding one bit (0 or 1) per element.
type Bits []byte

// TextToBits converts text to its bitstream: every character becomes its
// ISO-8859-1 byte, most significant bit first, in input order.
//
// Characters above U+00FF have no single-byte form and return a *CharError
// naming the first one found.
func TextToBits(text string) (Bits, error) {
	raw, err := encodeText(text)
	if err != nil {
		return nil, err
	}

	bits := make(Bits, 0, len(raw)*bitsPerChar)
	for _, b := range raw {
		for shift := bitsPerChar - 1; shift >= 0; shift-- {
			bits = append(bits, (b>>shift)&1)
		}
	}
	return bits, nil
}

// BitsToText converts a bitstream back to text. Bits are read in groups of
// eight; a trailing group shorter than eight bits is discarded.
func BitsToText(bits Bits) string {
	raw := make([]byte, 0, len(bits)/bitsPerChar)
	for i := 0; i+bitsPerChar <= len(bits); i += bitsPerChar {
		var b byte
		for _, bit := range bits[i : i+bitsPerChar] {
			b = b<<1 | bit&1
		}
		raw = append(raw, b)
	}
	return decodeText(raw)
}

// encodeText maps each character of text to its single byte.
func encodeText(text string) ([]byte, error) {
	raw := make([]byte, 0, len(text))
	pos := 0
	for _, r := range text {
		b, ok := charset.EncodeRune(r)
		if !ok {
			return nil, &CharError{Rune: r, Pos: pos}
		}
		raw = append(raw, b)
		pos++
	}
	return raw, nil
}

// decodeText maps bytes back to characters. Every byte has a character.
func decodeText(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = charset.DecodeByte(b)
	}
	return string(runes)
}
