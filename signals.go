package stego

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalProcessorCreated = capitan.NewSignal("stego.processor.created", "Processor instantiated")
	SignalHideStart        = capitan.NewSignal("stego.hide.start", "Hide operation beginning")
	SignalHideComplete     = capitan.NewSignal("stego.hide.complete", "Hide operation finished")
	SignalRevealStart      = capitan.NewSignal("stego.reveal.start", "Reveal operation beginning")
	SignalRevealComplete   = capitan.NewSignal("stego.reveal.complete", "Reveal operation finished")
	SignalCapacityChecked  = capitan.NewSignal("stego.capacity.checked", "Carrier capacity computed")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeySource      = capitan.NewStringKey("source_format")
	KeyWidth       = capitan.NewIntKey("width")
	KeyHeight      = capitan.NewIntKey("height")
	KeyCapacity    = capitan.NewIntKey("capacity")
	KeyPayloadLen  = capitan.NewIntKey("payload_length")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
	)
}

// emitHideStart emits an event when hide begins.
func emitHideStart(ctx context.Context, contentType string, payloadLen int) {
	capitan.Emit(ctx, SignalHideStart,
		KeyContentType.Field(contentType),
		KeyPayloadLen.Field(payloadLen),
	)
}

// emitHideComplete emits an event when hide finishes.
func emitHideComplete(ctx context.Context, contentType string, c carrierStats, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySource.Field(c.source),
		KeyWidth.Field(c.width),
		KeyHeight.Field(c.height),
		KeyPayloadLen.Field(c.payloadLen),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalHideComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalHideComplete, fields...)
	}
}

// emitRevealStart emits an event when reveal begins.
func emitRevealStart(ctx context.Context) {
	capitan.Emit(ctx, SignalRevealStart)
}

// emitRevealComplete emits an event when reveal finishes.
// A carrier without a message is a normal outcome and is not reported as an error.
func emitRevealComplete(ctx context.Context, c carrierStats, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySource.Field(c.source),
		KeyWidth.Field(c.width),
		KeyHeight.Field(c.height),
		KeyPayloadLen.Field(c.payloadLen),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
	}
	if err != nil && !isNoMessage(err) {
		capitan.Error(ctx, SignalRevealComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRevealComplete, fields...)
	}
}

// emitCapacityChecked emits an event when a carrier's capacity is computed.
func emitCapacityChecked(ctx context.Context, c carrierStats, capacity int, err error) {
	fields := []capitan.Field{
		KeySource.Field(c.source),
		KeyWidth.Field(c.width),
		KeyHeight.Field(c.height),
		KeyCapacity.Field(capacity),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCapacityChecked, fields...)
	} else {
		capitan.Emit(ctx, SignalCapacityChecked, fields...)
	}
}
