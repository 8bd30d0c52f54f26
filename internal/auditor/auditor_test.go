package auditor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/echoaudit/internal/baseline"
	"github.com/theopenlane/echoaudit/internal/compare"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"
	"github.com/theopenlane/echoaudit/internal/metrics"
	"github.com/theopenlane/echoaudit/internal/summarize"
	"github.com/theopenlane/echoaudit/internal/types"
)

const policyText = "We use machine learning to improve the service for everyone. " +
	"We may share data with partners and other trusted companies. " +
	"Thanks for reading."

type readOnlyBackend struct {
	baseline.Backend
}

func (readOnlyBackend) Put(context.Context, string, string) error {
	return baseline.ErrWriteFailed
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "openai" }

func (failingStrategy) Summarize(context.Context, string) (string, error) {
	return "", errors.New("quota exceeded")
}

type stubLocator struct {
	url string
	err error
}

func (s stubLocator) Locate(context.Context, string) (string, error) {
	return s.url, s.err
}

func staticText(text string) extract.Extractor {
	return extract.Func(func(context.Context, types.PageHandle) (string, error) {
		return text, nil
	})
}

func TestRunFirstAudit(t *testing.T) {
	ctx := context.Background()
	store := baseline.NewStore(baseline.NewMemory())

	a := New(WithStore(store), WithExtractor(staticText(policyText)))

	report := a.Run(ctx, "example.com", types.PageHandle{URL: "https://example.com/terms"})

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "example.com", report.SiteID)
	assert.Equal(t, "https://example.com/terms", report.URL)
	assert.False(t, report.Changed)
	assert.Empty(t, report.ChangedText)
	assert.Equal(t, []string{"AI", "DATA_SHARING"}, report.Risks)
	assert.Equal(t, []string{"machine learning"}, report.Matches["AI"])
	assert.Equal(t, types.SeverityWarning, report.Severity)
	assert.Equal(t, "We use machine learning to improve the service for everyone. We may share data with partners and other trusted companies.", report.Summary)
	assert.Equal(t, "heuristic", report.SummarySource)
	assert.Equal(t, len(policyText), report.TextLength)
	assert.False(t, report.Timestamp.IsZero())

	stored, ok := store.Load(ctx, "example.com")
	require.True(t, ok)
	assert.Equal(t, policyText, stored)
}

func TestRunDetectsChanges(t *testing.T) {
	ctx := context.Background()
	store := baseline.NewStore(baseline.NewMemory())
	require.NoError(t, store.Save(ctx, "example.com", "Old terms of service text."))

	a := New(WithStore(store), WithExtractor(staticText(policyText)))

	first := a.Run(ctx, "example.com", types.PageHandle{HTML: "<p>ignored</p>"})
	assert.True(t, first.Changed)
	assert.Equal(t, policyText, first.ChangedText)

	second := a.Run(ctx, "example.com", types.PageHandle{HTML: "<p>ignored</p>"})
	assert.False(t, second.Changed)
	assert.Empty(t, second.ChangedText)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRunFirstRunPolicyChanged(t *testing.T) {
	a := New(WithExtractor(staticText(policyText)), WithFirstRunPolicy(compare.PolicyChanged))

	report := a.Run(context.Background(), "example.com", types.PageHandle{URL: "https://example.com"})

	assert.True(t, report.Changed)
	assert.Equal(t, policyText, report.ChangedText)
}

func TestRunSeverityTiers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		severity types.Severity
		risks    []string
	}{
		{
			name:     "safe",
			text:     "These terms govern the use of the service by you.",
			severity: types.SeveritySafe,
			risks:    []string{},
		},
		{
			name:     "warning",
			text:     "We use cookies to remember your preferences here.",
			severity: types.SeverityWarning,
			risks:    []string{"TRACKING"},
		},
		{
			name:     "danger",
			text:     "Biometric data such as fingerprint scans may be shared with a third party for analytics.",
			severity: types.SeverityDanger,
			risks:    []string{"DATA_SHARING", "TRACKING", "BIOMETRIC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(WithExtractor(staticText(tt.text)))

			report := a.Run(context.Background(), "example.com", types.PageHandle{URL: "https://example.com"})

			assert.Equal(t, tt.severity, report.Severity)
			assert.Equal(t, tt.risks, report.Risks)
		})
	}
}

func TestRunExtractionFailures(t *testing.T) {
	tests := []struct {
		name      string
		extractor extract.Extractor
		contains  string
	}{
		{
			name: "extractor error",
			extractor: extract.Func(func(context.Context, types.PageHandle) (string, error) {
				return "", errors.New("tab closed")
			}),
			contains: "tab closed",
		},
		{
			name:      "blank text",
			extractor: staticText("   \n  "),
			contains:  ErrEmptyText.Error(),
		},
		{
			name: "panic",
			extractor: extract.Func(func(context.Context, types.PageHandle) (string, error) {
				panic("renderer exploded")
			}),
			contains: "renderer exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := baseline.NewStore(baseline.NewMemory())
			a := New(WithStore(store), WithExtractor(tt.extractor))

			report := a.Run(ctx, "example.com", types.PageHandle{URL: "https://example.com"})

			assert.True(t, report.Failed())
			assert.Equal(t, types.SeverityError, report.Severity)
			assert.False(t, report.Changed)
			assert.NotNil(t, report.Risks)
			assert.Empty(t, report.Risks)
			assert.True(t, strings.HasPrefix(report.Summary, "Audit failed: "))
			assert.Contains(t, report.Summary, tt.contains)

			_, ok := store.Load(ctx, "example.com")
			assert.False(t, ok, "baseline must not be written without text")
		})
	}
}

func TestRunEmptySiteID(t *testing.T) {
	a := New(WithExtractor(staticText(policyText)))

	report := a.Run(context.Background(), "", types.PageHandle{URL: "https://example.com"})

	assert.True(t, report.Failed())
	assert.Contains(t, report.Summary, ErrEmptySiteID.Error())
}

func TestRunSaveFailureIsNotFatal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	a := New(
		WithStore(baseline.NewStore(readOnlyBackend{Backend: baseline.NewMemory()})),
		WithExtractor(staticText(policyText)),
		WithMetrics(m),
	)

	report := a.Run(context.Background(), "example.com", types.PageHandle{URL: "https://example.com"})

	assert.Equal(t, types.SeverityWarning, report.Severity)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BaselineFailures.WithLabelValues("save")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuditsTotal.WithLabelValues("Warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SummariesTotal.WithLabelValues("heuristic")), 0)
}

func TestRunSummarizerFallback(t *testing.T) {
	a := New(WithExtractor(staticText(policyText)), WithSummarizer(summarize.New(failingStrategy{})))

	report := a.Run(context.Background(), "example.com", types.PageHandle{URL: "https://example.com"})

	assert.Equal(t, "heuristic", report.SummarySource)
	assert.NotContains(t, report.Summary, "Auto-generated")
}

func TestResolvePage(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "tos_map.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("mapped.com:\n  file: mapped.txt\n  url: https://mapped.com/legal/terms\n"), 0o600))

	tests := []struct {
		name    string
		siteID  string
		page    types.PageHandle
		locator Locator
		want    string
	}{
		{
			name:   "explicit url kept",
			siteID: "example.com",
			page:   types.PageHandle{URL: "https://example.com/tos"},
			want:   "https://example.com/tos",
		},
		{
			name:   "catalog url",
			siteID: "mapped.com",
			want:   "https://mapped.com/legal/terms",
		},
		{
			name:    "located page",
			siteID:  "example.com",
			locator: stubLocator{url: "https://example.com/terms-of-service"},
			want:    "https://example.com/terms-of-service",
		},
		{
			name:    "locator failure falls back to root",
			siteID:  "example.com",
			locator: stubLocator{err: errors.New("no policy page found")},
			want:    "https://example.com",
		},
		{
			name:   "site root",
			siteID: "example.com",
			want:   "https://example.com",
		},
		{
			name:   "tab handle gets an address",
			siteID: "example.com",
			page:   types.PageHandle{TabID: "tab-1"},
			want:   "https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen types.PageHandle

			a := New(
				WithStore(baseline.NewStore(baseline.NewMemory(), baseline.WithCatalog(catalogPath, dir))),
				WithLocator(tt.locator),
				WithExtractor(extract.Func(func(_ context.Context, page types.PageHandle) (string, error) {
					seen = page
					return policyText, nil
				})),
			)

			report := a.Run(context.Background(), tt.siteID, tt.page)

			assert.Equal(t, tt.want, seen.URL)
			assert.Equal(t, tt.want, report.URL)
			assert.Equal(t, tt.page.TabID, seen.TabID)
		})
	}
}

func TestAuditURL(t *testing.T) {
	a := New(WithExtractor(staticText(policyText)))

	report, err := a.AuditURL(context.Background(), "https://WWW.Example.com/terms", types.PageHandle{})
	require.NoError(t, err)
	assert.Equal(t, "example.com", report.SiteID)
	assert.Equal(t, "https://WWW.Example.com/terms", report.URL)

	for _, raw := range []string{"", "chrome://extensions", "file:///etc/passwd", "::not a url"} {
		_, err := a.AuditURL(context.Background(), raw, types.PageHandle{})
		assert.ErrorIs(t, err, ErrSkipped, raw)
	}
}

func TestTrigger(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()

	var (
		mu        sync.Mutex
		completed []events.AuditCompleted
		failed    []events.AuditError
	)

	bus.Subscribe(events.Only(func(_ context.Context, e events.AuditCompleted) error {
		mu.Lock()
		defer mu.Unlock()

		completed = append(completed, e)

		return nil
	}))
	bus.Subscribe(events.Only(func(_ context.Context, e events.AuditError) error {
		mu.Lock()
		defer mu.Unlock()

		failed = append(failed, e)

		return nil
	}))

	a := New(WithExtractor(staticText(policyText)), WithBus(bus))
	bus.Subscribe(a.Handler())

	bus.Publish(ctx, events.StartAudit{Page: types.PageHandle{URL: "https://www.example.com/terms"}})

	require.Len(t, completed, 1)
	assert.Equal(t, "example.com", completed[0].SiteID)
	assert.Equal(t, types.SeverityWarning, completed[0].Report.Severity)
	assert.Equal(t, completed[0].Report.Timestamp, completed[0].Timestamp)

	err := a.Trigger(ctx, events.StartAudit{Page: types.PageHandle{URL: "about:blank"}})
	require.ErrorIs(t, err, ErrSkipped)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Error, "about:blank")
	assert.Len(t, completed, 1)
}

func TestTriggerPublishesFailedAudits(t *testing.T) {
	bus := events.NewBus()

	var got []events.AuditCompleted

	bus.Subscribe(events.Only(func(_ context.Context, e events.AuditCompleted) error {
		got = append(got, e)
		return nil
	}))

	a := New(WithBus(bus), WithExtractor(staticText("")))

	require.NoError(t, a.Trigger(context.Background(), events.StartAudit{SiteID: "example.com"}))
	require.Len(t, got, 1)
	assert.True(t, got[0].Report.Failed())
}

func TestRunBatch(t *testing.T) {
	a := New(WithExtractor(extract.Func(func(_ context.Context, page types.PageHandle) (string, error) {
		return "Terms for " + page.URL + " mention analytics partners.", nil
	})))

	targets := []string{
		"https://one.example",
		"ftp://skipped.example",
		"https://two.example/terms",
		"https://three.example",
	}

	reports := a.RunBatch(context.Background(), targets, 2)

	require.Len(t, reports, 3)
	assert.Equal(t, "one.example", reports[0].SiteID)
	assert.Equal(t, "two.example", reports[1].SiteID)
	assert.Equal(t, "three.example", reports[2].SiteID)

	for _, r := range reports {
		assert.Equal(t, []string{"DATA_SHARING", "TRACKING"}, r.Risks)
	}
}
