package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrURLOrSiteRequired is returned when neither a page url nor a site is provided
	ErrURLOrSiteRequired = errors.New("url or site_id required")
	// ErrInvalidSite is returned when a site identifier cannot be normalized
	ErrInvalidSite = errors.New("invalid site identifier")
	// ErrTextRequired is returned when a baseline update has no text
	ErrTextRequired = errors.New("baseline text required")
	// ErrBaselineNotFound is returned when no baseline exists for a site
	ErrBaselineNotFound = errors.New("baseline not found")
	// ErrBaselineUnavailable is returned when the baseline store fails
	ErrBaselineUnavailable = errors.New("baseline store unavailable")
	// ErrTabIDRequired is returned when an agent poll has no tab id
	ErrTabIDRequired = errors.New("tab_id required")
	// ErrRequestIDRequired is returned when an agent response has no request id
	ErrRequestIDRequired = errors.New("request_id required")
	// ErrAgentRelayNotConfigured is returned when page agent extraction is disabled
	ErrAgentRelayNotConfigured = errors.New("page agent relay not configured")
	// ErrEventsNotConfigured is returned when no event bus is available
	ErrEventsNotConfigured = errors.New("event bus not configured")
	// ErrStreamingUnsupported is returned when the response writer cannot flush
	ErrStreamingUnsupported = errors.New("streaming unsupported")
	// ErrStreamClientBehind is returned when an event is dropped for a slow stream client
	ErrStreamClientBehind = errors.New("event stream client is behind, event dropped")
	// ErrNotStartAudit is returned when a wire message sent to the trigger endpoint is not START_AUDIT
	ErrNotStartAudit = errors.New("trigger accepts only START_AUDIT messages")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
)
