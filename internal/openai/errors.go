package openai

import "errors"

var (
	// ErrMissingAPIKey is returned when the OpenAI API key is not configured
	ErrMissingAPIKey = errors.New("openai API key is required")
	// ErrRequestFailed is returned when an OpenAI API request fails
	ErrRequestFailed = errors.New("openai API request failed")
	// ErrUnexpectedStatus is returned when the OpenAI API returns an unexpected HTTP status
	ErrUnexpectedStatus = errors.New("unexpected openai API response status")
	// ErrEmptyCompletion is returned when the response carries no generated text
	ErrEmptyCompletion = errors.New("openai completion contained no text")
)
