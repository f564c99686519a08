package stego

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrCapacityExceeded indicates the payload plus terminator does not fit in the carrier.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrUnencodable indicates the payload contains a character outside ISO-8859-1.
	ErrUnencodable = errors.New("unencodable character")

	// ErrEmptyPayload indicates Hide was called without any text.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrNoMessage indicates the carrier was scanned without finding the terminator.
	ErrNoMessage = errors.New("no hidden message found")

	// ErrEncode indicates the carrier could not be read or the output could not be written.
	ErrEncode = errors.New("encode failed")

	// ErrDecode indicates the carrier could not be read for extraction.
	ErrDecode = errors.New("decode failed")

	// ErrMalformedBuffer indicates a pixel buffer whose length is not a multiple of 3.
	ErrMalformedBuffer = errors.New("malformed pixel buffer")

	// ErrLossyFormat indicates an output format that would destroy channel LSBs.
	ErrLossyFormat = errors.New("lossy output format")

	// ErrUnknownFormat indicates a format name with no registered provider.
	ErrUnknownFormat = errors.New("unknown format")
)

// CapacityError reports a payload that does not fit in a carrier.
// Both counts are in characters, excluding the terminator.
type CapacityError struct {
	Length   int // Payload length
	Capacity int // Characters the carrier can hold
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: payload has %d characters, carrier holds %d", ErrCapacityExceeded.Error(), e.Length, e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// CharError reports the first payload character that has no 8-bit encoding.
type CharError struct {
	Rune rune // Offending character
	Pos  int  // Character index within the payload
}

func (e *CharError) Error() string {
	return fmt.Sprintf("%s %q (U+%04X) at position %d", ErrUnencodable.Error(), e.Rune, e.Rune, e.Pos)
}

func (e *CharError) Unwrap() error {
	return ErrUnencodable
}

// CarrierError represents a failure to read or write the carrier image.
type CarrierError struct {
	Err   error  // Underlying sentinel error (ErrEncode, ErrDecode)
	Op    string // Stage that failed (read, write)
	Cause error  // Original error from the image layer
}

func (e *CarrierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s carrier: %v", e.Err.Error(), e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %s carrier", e.Err.Error(), e.Op)
}

func (e *CarrierError) Unwrap() error {
	return e.Err
}

// newCapacityError creates a CapacityError.
func newCapacityError(length, capacity int) error {
	return &CapacityError{
		Length:   length,
		Capacity: capacity,
	}
}

// newCarrierError creates a CarrierError for image I/O failures.
func newCarrierError(sentinel error, op string, cause error) error {
	return &CarrierError{
		Err:   sentinel,
		Op:    op,
		Cause: cause,
	}
}
