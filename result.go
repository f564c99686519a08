package stego

import (
	"errors"
	"fmt"
)

// Result is the user-facing outcome of a hide or reveal operation.
type Result struct {
	Success bool   `json:"success" msgpack:"success" yaml:"success" bson:"success" xml:"success"`
	Message string `json:"message" msgpack:"message" yaml:"message" bson:"message" xml:"message"`
	Text    string `json:"text,omitempty" msgpack:"text,omitempty" yaml:"text,omitempty" bson:"text,omitempty" xml:"text,omitempty"`
}

// Messages shown for successful operations.
const (
	MessageHidden    = "Message successfully hidden in image!"
	MessageExtracted = "Hidden message extracted successfully!"
	MessageNoMessage = "No hidden message found in this image. Make sure you're using an image that was encoded with this tool."
)

// HideResult describes the outcome of Hide.
func HideResult(err error) Result {
	if err == nil {
		return Result{Success: true, Message: MessageHidden}
	}
	return Result{Message: Describe(err)}
}

// RevealResult describes the outcome of Reveal. Text is set only on success.
func RevealResult(text string, err error) Result {
	if err == nil {
		return Result{Success: true, Message: MessageExtracted, Text: text}
	}
	return Result{Message: Describe(err)}
}

// Describe returns a message for err that can be shown to an end user.
func Describe(err error) string {
	var capErr *CapacityError
	var charErr *CharError
	var carrierErr *CarrierError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &capErr):
		return fmt.Sprintf("Text too long! This image can hide up to %d characters. Your text has %d characters.",
			capErr.Capacity, capErr.Length)
	case errors.Is(err, ErrCapacityExceeded):
		return "Error: Image too small to hide this message. Try a larger image or shorter text."
	case errors.As(err, &charErr):
		return fmt.Sprintf("Text contains a character that cannot be hidden: %q at position %d. Only Latin-1 characters are supported.",
			charErr.Rune, charErr.Pos)
	case errors.Is(err, ErrUnencodable):
		return "Text contains characters that cannot be hidden. Only Latin-1 characters are supported."
	case errors.Is(err, ErrEmptyPayload):
		return "No secret text provided"
	case errors.Is(err, ErrNoMessage):
		return MessageNoMessage
	case errors.As(err, &carrierErr) && carrierErr.Err == ErrEncode:
		return fmt.Sprintf("Error during encoding: %v", carrierErr.Cause)
	case errors.As(err, &carrierErr) && carrierErr.Err == ErrDecode:
		return fmt.Sprintf("Error during decoding: %v", carrierErr.Cause)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
