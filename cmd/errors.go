package cmd

import "errors"

var (
	// ErrCloudflareNotConfigured is returned when the cloudflare extractor is selected without credentials
	ErrCloudflareNotConfigured = errors.New("cloudflare extractor requires an account id and api token")
	// ErrInvalidSite is returned when a command line site cannot be normalized
	ErrInvalidSite = errors.New("invalid site")
	// ErrEmptyBaseline is returned when a baseline seed has no text
	ErrEmptyBaseline = errors.New("baseline text is empty")
	// ErrNoAuditsCompleted is returned when every requested target was skipped
	ErrNoAuditsCompleted = errors.New("no audits completed")
)
