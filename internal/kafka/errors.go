package kafka

import "errors"

var (
	// ErrMissingBrokers is returned when no seed brokers are configured
	ErrMissingBrokers = errors.New("kafka seed brokers are required")
	// ErrMissingTopic is returned when no topic is configured
	ErrMissingTopic = errors.New("kafka topic is required")
	// ErrClientInit is returned when the kafka client cannot be created
	ErrClientInit = errors.New("failed to create kafka client")
	// ErrProduceFailed is returned when a record cannot be produced
	ErrProduceFailed = errors.New("failed to produce kafka record")
)
