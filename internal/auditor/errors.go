package auditor

import "errors"

var (
	// ErrSkipped is returned when the page address is not eligible for auditing
	ErrSkipped = errors.New("audit skipped: page address is not an auditable web address")
	// ErrEmptySiteID is returned when an audit is requested without a site
	ErrEmptySiteID = errors.New("site identifier is empty")
	// ErrNoText is returned when the page text could not be extracted
	ErrNoText = errors.New("no page text extracted")
	// ErrEmptyText is returned when the extracted page text is blank
	ErrEmptyText = errors.New("extracted page text is empty")
	// ErrPanic is returned when an audit stage panicked
	ErrPanic = errors.New("audit stage panicked")
)
