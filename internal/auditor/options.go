package auditor

import (
	"context"

	"github.com/theopenlane/echoaudit/internal/baseline"
	"github.com/theopenlane/echoaudit/internal/compare"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"
	"github.com/theopenlane/echoaudit/internal/metrics"
	"github.com/theopenlane/echoaudit/internal/summarize"
)

// Locator finds the terms of service page of a site
type Locator interface {
	Locate(ctx context.Context, domain string) (string, error)
}

// Option is a functional option for configuring the auditor
type Option func(*Auditor)

// WithStore sets the baseline store
func WithStore(store *baseline.Store) Option {
	return func(a *Auditor) {
		if store != nil {
			a.store = store
		}
	}
}

// WithExtractor sets the page text extractor
func WithExtractor(e extract.Extractor) Option {
	return func(a *Auditor) {
		if e != nil {
			a.extractor = e
		}
	}
}

// WithFirstRunPolicy sets how a site without a baseline is reported
func WithFirstRunPolicy(policy compare.Policy) Option {
	return func(a *Auditor) {
		if policy != "" {
			a.comparator = compare.New(policy)
		}
	}
}

// WithSummarizer sets the summarizer
func WithSummarizer(s *summarize.Summarizer) Option {
	return func(a *Auditor) {
		if s != nil {
			a.summarizer = s
		}
	}
}

// WithBus sets the bus trigger results are published on
func WithBus(bus *events.Bus) Option {
	return func(a *Auditor) {
		a.bus = bus
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Auditor) {
		a.metrics = m
	}
}

// WithLocator sets the locator used when a page handle has no address
func WithLocator(l Locator) Option {
	return func(a *Auditor) {
		if l != nil {
			a.locator = l
		}
	}
}

// WithBatchLimit caps how many sites RunBatch audits at once
func WithBatchLimit(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.batchLimit = n
		}
	}
}
