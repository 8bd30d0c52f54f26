package report

import "errors"

var (
	// ErrUnknownFormat is returned when an output format is not supported
	ErrUnknownFormat = errors.New("unknown report format")
	// ErrWriteFailed is returned when the report cannot be written
	ErrWriteFailed = errors.New("failed to write report")
)
