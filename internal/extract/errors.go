package extract

import "errors"

var (
	// ErrNoHTML is returned when a document extraction is requested without markup
	ErrNoHTML = errors.New("page handle carries no html")
	// ErrNoURL is returned when a remote extraction is requested without an address
	ErrNoURL = errors.New("page handle carries no url")
	// ErrNoTab is returned when a relay extraction is requested without a tab id
	ErrNoTab = errors.New("page handle carries no tab id")
	// ErrNoExtractor is returned when no extractor can serve the page handle
	ErrNoExtractor = errors.New("no extractor available for page")
	// ErrParseFailed is returned when markup cannot be parsed
	ErrParseFailed = errors.New("failed to parse html")
	// ErrFetchFailed is returned when the page cannot be downloaded
	ErrFetchFailed = errors.New("failed to fetch page")
	// ErrUnexpectedStatus is returned when the page responds with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected page response status")
	// ErrBrowserFailed is returned when the headless browser cannot read the page
	ErrBrowserFailed = errors.New("headless browser extraction failed")
	// ErrRenderFailed is returned when the rendering service cannot produce the page
	ErrRenderFailed = errors.New("remote rendering failed")
	// ErrNoResponder is returned when no page agent answers within the relay timeout
	ErrNoResponder = errors.New("no page agent responded")
	// ErrUnknownRequest is returned when a response names a request that is not pending
	ErrUnknownRequest = errors.New("unknown or expired extraction request")
	// ErrAgentFailed is returned when the page agent reports an extraction failure
	ErrAgentFailed = errors.New("page agent failed to extract text")
	// ErrUnknownMode is returned for an unrecognized remote extraction mode
	ErrUnknownMode = errors.New("unknown extraction mode")
)
