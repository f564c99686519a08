package stego

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// Processor reads carrier images, runs the codec, and writes results in one
// lossless format.
//
// Processors hold no mutable state and are safe for concurrent use.
type Processor struct {
	format Format
}

// NewProcessor creates a Processor that writes carriers in format f.
// Returns ErrLossyFormat if f does not preserve channel values exactly.
func NewProcessor(f Format) (*Processor, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil format", ErrUnknownFormat)
	}
	if !f.Lossless() {
		return nil, fmt.Errorf("%w: %s would destroy hidden bits", ErrLossyFormat, f.ContentType())
	}

	p := &Processor{format: f}
	emitProcessorCreated(context.Background(), f.ContentType())
	return p, nil
}

// Format returns the output format.
func (p *Processor) Format() Format {
	return p.format
}

// Capacity returns the number of payload characters the image in r can hold.
// An unreadable image reports 0.
func (p *Processor) Capacity(ctx context.Context, r io.Reader) int {
	return CapacityOf(ctx, r)
}

// Hide reads a carrier image from r, hides text in it, and writes the result
// to w in the processor's format.
//
// Errors unwrap to ErrEmptyPayload, ErrUnencodable, ErrCapacityExceeded, or
// ErrEncode when the carrier cannot be read or the output cannot be written.
// Nothing is written to w unless the payload fits.
func (p *Processor) Hide(ctx context.Context, r io.Reader, w io.Writer, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	stats := carrierStats{payloadLen: utf8.RuneCountInString(text)}
	emitHideStart(ctx, p.format.ContentType(), stats.payloadLen)

	var retErr error
	var size int
	defer func() {
		emitHideComplete(ctx, p.format.ContentType(), stats, size, time.Since(start), retErr)
	}()

	if text == "" {
		retErr = ErrEmptyPayload
		return retErr
	}

	pix, source, err := ReadCarrier(r)
	if err != nil {
		retErr = newCarrierError(ErrEncode, "read", err)
		return retErr
	}
	stats.source, stats.width, stats.height = source, pix.Width, pix.Height

	if capacity := pix.Capacity(); stats.payloadLen > capacity {
		retErr = newCapacityError(stats.payloadLen, capacity)
		return retErr
	}

	out, err := EmbedPixels(pix, text)
	if err != nil {
		retErr = err
		return retErr
	}

	cw := &countingWriter{w: w}
	if err := p.format.Encode(cw, out.ToImage()); err != nil {
		retErr = newCarrierError(ErrEncode, "write", err)
		return retErr
	}
	size = cw.n
	return nil
}

// Reveal reads a carrier image from r and returns the text hidden in it.
//
// Returns ErrNoMessage if the carrier holds no terminated payload, or an
// error unwrapping to ErrDecode if the image cannot be read.
func (p *Processor) Reveal(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	emitRevealStart(ctx)

	var stats carrierStats
	var retErr error
	defer func() {
		emitRevealComplete(ctx, stats, time.Since(start), retErr)
	}()

	pix, source, err := ReadCarrier(r)
	if err != nil {
		retErr = newCarrierError(ErrDecode, "read", err)
		return "", retErr
	}
	stats.source, stats.width, stats.height = source, pix.Width, pix.Height

	text, err := ExtractPixels(pix)
	if err != nil {
		retErr = err
		return "", retErr
	}
	stats.payloadLen = utf8.RuneCountInString(text)
	return text, nil
}

// countingWriter tracks bytes written for event reporting.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += n
	return n, err
}
