package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/theopenlane/echoaudit/internal/events"
)

// headerEvent carries the event wire name on every record
const headerEvent = "event"

// defaultProduceTimeout bounds a single synchronous produce
const defaultProduceTimeout = 10 * time.Second

// Sink forwards audit outcome events to a Kafka topic as wire envelopes keyed by site
type Sink struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
}

// Option configures the Sink
type Option func(*settings)

type settings struct {
	clientID string
	timeout  time.Duration
	extra    []kgo.Opt
}

// WithClientID sets the client id reported to brokers
func WithClientID(id string) Option {
	return func(s *settings) {
		if id != "" {
			s.clientID = id
		}
	}
}

// WithProduceTimeout bounds each produce call
func WithProduceTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClientOptions passes additional franz-go options
func WithClientOptions(opts ...kgo.Opt) Option {
	return func(s *settings) {
		s.extra = append(s.extra, opts...)
	}
}

// NewSink creates a producer for topic
func NewSink(brokers []string, topic string, opts ...Option) (*Sink, error) {
	if len(brokers) == 0 {
		return nil, ErrMissingBrokers
	}

	if topic == "" {
		return nil, ErrMissingTopic
	}

	s := settings{clientID: "echoaudit", timeout: defaultProduceTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	kopts := append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID(s.clientID),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	}, s.extra...)

	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientInit, err)
	}

	return &Sink{client: client, topic: topic, timeout: s.timeout}, nil
}

// Handle produces completion and error events; other events are ignored
func (s *Sink) Handle(ctx context.Context, e events.Event) error {
	var key string

	switch ev := e.(type) {
	case events.AuditCompleted:
		key = ev.SiteID
	case events.AuditError:
		key = ev.SiteID
	default:
		return nil
	}

	value, err := events.Encode(e)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic:   s.topic,
		Key:     []byte(key),
		Value:   value,
		Headers: []kgo.RecordHeader{{Key: headerEvent, Value: []byte(e.Name())}},
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("%w: %v", ErrProduceFailed, err)
	}

	return nil
}

// Close flushes pending records and closes the client
func (s *Sink) Close() {
	s.client.Close()
}
