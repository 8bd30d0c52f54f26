package events

import "errors"

var (
	// ErrUnknownEvent is returned when a wire message names no known event
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMalformedEvent is returned when a wire message cannot be decoded
	ErrMalformedEvent = errors.New("malformed event")
	// ErrHandlerPanic is reported when a subscriber panics
	ErrHandlerPanic = errors.New("event handler panicked")
)
