// Package stego hides text inside raster images using the least significant
// bit of every color channel.
//
// The codec is a set of pure functions over an RGB pixel buffer: each payload
// character is written as eight channel LSBs, most significant bit first,
// followed by the literal terminator "<<END>>". Decoding walks the same
// channels until the terminator appears.
//
// # Layout
//
// A pixel buffer is height × width × 3 bytes, row-major, channel-minor:
//
//	R(0,0) G(0,0) B(0,0) R(1,0) G(1,0) B(1,0) ...
//
// Only bit 0 of a channel value is ever written or read.
//
// # Capacity
//
// A w×h carrier holds w*h*3 bits. The terminator costs 56 of them, so
//
//	Capacity(w, h) == max(0, (w*h*3 - 56) / 8)
//
// characters of payload fit.
//
// # Characters
//
// Payload characters are single bytes in ISO-8859-1. Text containing runes
// above U+00FF is rejected with ErrUnencodable rather than truncated.
//
// # Basic Usage
//
// Pure functions operate on buffers the caller already holds:
//
//	pix := stego.FromImage(img)
//	out, err := stego.EmbedPixels(pix, "meet at noon")
//	text, err := stego.ExtractPixels(out)
//
// A Processor binds the codec to a lossless output format and handles image
// decoding, RGB conversion and re-encoding:
//
//	import _ "github.com/zoobzio/stego/png"
//
//	proc, _ := stego.Use(stego.MustLookup("png"))
//	err := proc.Hide(ctx, src, dst, "meet at noon")
//	text, err := proc.Reveal(ctx, dst)
//
// # Formats
//
// Carrier formats are provided by subpackages that register themselves on
// import:
//
//   - png - PNG (lossless, default)
//   - bmp - BMP (lossless)
//   - tiff - TIFF with deflate (lossless)
//   - jpeg - JPEG (lossy; registered for lookup but rejected by NewProcessor)
//
// Any format with a registered image decoder can be read as a carrier,
// including GIF and WebP.
//
// # Errors
//
// Failures are reported as sentinel errors checked with errors.Is:
//
//   - ErrCapacityExceeded - payload plus terminator does not fit
//   - ErrUnencodable - payload has a character outside ISO-8859-1
//   - ErrEmptyPayload - Hide called with empty text
//   - ErrNoMessage - no terminator found; an expected outcome, not a fault
//   - ErrEncode / ErrDecode - the carrier could not be read or written
//
// HideResult and RevealResult turn an outcome into a user-presentable Result.
//
// The codec provides no confidentiality: anyone who knows the scheme can
// read the payload.
package stego
