package auditor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/echoaudit/internal/baseline"
	"github.com/theopenlane/echoaudit/internal/compare"
	"github.com/theopenlane/echoaudit/internal/domain"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"
	"github.com/theopenlane/echoaudit/internal/metrics"
	"github.com/theopenlane/echoaudit/internal/risk"
	"github.com/theopenlane/echoaudit/internal/summarize"
	"github.com/theopenlane/echoaudit/internal/types"
)

const (
	// failurePrefix starts the summary of every failed audit
	failurePrefix = "Audit failed: "
	// defaultBatchLimit is the number of concurrent audits in a batch
	defaultBatchLimit = 4
)

// Auditor runs the terms of service audit pipeline: load baseline, extract,
// compare, scan, summarize, save and grade
type Auditor struct {
	store      *baseline.Store
	extractor  extract.Extractor
	comparator compare.Comparator
	summarizer *summarize.Summarizer
	bus        *events.Bus
	metrics    *metrics.Metrics
	locator    Locator
	batchLimit int
	now        func() time.Time
}

// New creates an auditor. Without options it uses an in-memory baseline
// store, inline markup extraction and the heuristic summarizer
func New(opts ...Option) *Auditor {
	a := &Auditor{
		store:      baseline.NewStore(nil),
		extractor:  extract.NewChain(),
		comparator: compare.New(compare.PolicyUnchanged),
		summarizer: summarize.New(),
		batchLimit: defaultBatchLimit,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Store returns the baseline store used by the auditor
func (a *Auditor) Store() *baseline.Store {
	return a.store
}

// AuditURL derives the site from rawURL and audits it. Addresses that are not
// http or https return ErrSkipped and no audit is attempted
func (a *Auditor) AuditURL(ctx context.Context, rawURL string, page types.PageHandle) (types.Report, error) {
	siteID, ok := domain.Normalize(rawURL)
	if !ok {
		return types.Report{}, fmt.Errorf("%w: %q", ErrSkipped, rawURL)
	}

	if page.URL == "" {
		page.URL = strings.TrimSpace(rawURL)
	}

	return a.Run(ctx, siteID, page), nil
}

// Run audits one site. It never fails: every error, including a panic in
// any stage, is reported as a report with Error severity
func (a *Auditor) Run(ctx context.Context, siteID string, page types.PageHandle) (report types.Report) {
	start := a.now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("site", siteID).Interface("panic", r).Msg("audit panicked")

			report = a.failure(siteID, page.URL, fmt.Errorf("%w: %v", ErrPanic, r))
		}

		a.metrics.ObserveAudit(report.Severity.String(), start)
	}()

	if siteID == "" {
		return a.failure(siteID, page.URL, ErrEmptySiteID)
	}

	page = a.resolvePage(ctx, siteID, page)

	stored, found := a.store.Load(ctx, siteID)

	text, err := a.extractor.Extract(ctx, page)
	if err != nil {
		a.metrics.IncrementExtractionFailure()
		log.Warn().Err(err).Str("site", siteID).Str("url", page.URL).Msg("page text extraction failed")

		return a.failure(siteID, page.URL, fmt.Errorf("%w: %v", ErrNoText, err))
	}

	if strings.TrimSpace(text) == "" {
		a.metrics.IncrementExtractionFailure()

		return a.failure(siteID, page.URL, ErrEmptyText)
	}

	var previous *string
	if found {
		previous = &stored
	}

	diff := a.comparator.Compare(previous, text)
	if diff.Changed {
		a.metrics.IncrementChange()
	}

	scan := risk.Scan(text)

	summary := a.summarizer.Summarize(ctx, text)
	a.metrics.IncrementSummary(summary.Source)

	if err := a.store.Save(ctx, siteID, text); err != nil {
		a.metrics.IncrementBaselineFailure("save")
		log.Warn().Err(err).Str("site", siteID).Msg("failed to save baseline")
	}

	report = types.Report{
		ID:            uuid.NewString(),
		SiteID:        siteID,
		URL:           page.URL,
		Changed:       diff.Changed,
		ChangedText:   diff.ChangedText,
		Risks:         scan.Tags(),
		Matches:       scan.MatchesByTag(),
		Severity:      risk.SeverityFor(len(scan.Categories)),
		Summary:       summary.Text,
		SummarySource: summary.Source,
		TextLength:    len([]rune(text)),
		Timestamp:     a.now().UTC(),
	}

	log.Info().
		Str("site", siteID).
		Str("severity", report.Severity.String()).
		Bool("changed", report.Changed).
		Strs("risks", report.Risks).
		Str("summary_source", report.SummarySource).
		Msg("audit completed")

	return report
}

// resolvePage fills in the page address when the caller knows neither the
// address nor the markup: catalog entry, then locator, then the site root
func (a *Auditor) resolvePage(ctx context.Context, siteID string, page types.PageHandle) types.PageHandle {
	if page.URL != "" || page.HTML != "" {
		return page
	}

	if catalog := a.store.Catalog(); catalog != nil {
		if entry, ok := catalog.Lookup(siteID); ok && entry.URL != "" {
			page.URL = entry.URL
			return page
		}
	}

	if a.locator != nil {
		located, err := a.locator.Locate(ctx, siteID)
		if err == nil && located != "" {
			log.Debug().Str("site", siteID).Str("url", located).Msg("located terms page")

			page.URL = located

			return page
		}

		log.Debug().Err(err).Str("site", siteID).Msg("terms page not located, using site root")
	}

	page.URL = "https://" + siteID

	return page
}

// failure builds the report for an audit that could not complete
func (a *Auditor) failure(siteID, pageURL string, err error) types.Report {
	log.Error().Err(err).Str("site", siteID).Msg("audit failed")

	return types.Report{
		ID:        uuid.NewString(),
		SiteID:    siteID,
		URL:       pageURL,
		Changed:   false,
		Risks:     []string{},
		Severity:  types.SeverityError,
		Summary:   failurePrefix + err.Error(),
		Timestamp: a.now().UTC(),
	}
}
