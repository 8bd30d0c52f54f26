package auditor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/theopenlane/echoaudit/internal/domain"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/types"
)

// Trigger runs the audit requested by e and publishes the outcome: an
// AuditCompleted event for every audit that ran, including failed ones, and
// an AuditError event when no audit could be attempted
func (a *Auditor) Trigger(ctx context.Context, e events.StartAudit) error {
	siteID := e.SiteID
	if siteID == "" {
		normalized, ok := domain.Normalize(e.Page.URL)
		if !ok {
			err := fmt.Errorf("%w: %q", ErrSkipped, e.Page.URL)
			a.publish(ctx, events.AuditError{Error: err.Error()})

			return err
		}

		siteID = normalized
	}

	report := a.Run(ctx, siteID, e.Page)

	a.publish(ctx, events.AuditCompleted{
		SiteID:    siteID,
		Report:    report,
		Timestamp: report.Timestamp,
	})

	return nil
}

// Handler returns a bus handler that runs Trigger for StartAudit events
func (a *Auditor) Handler() events.Handler {
	return events.Only(a.Trigger)
}

// publish sends e on the bus when one is configured
func (a *Auditor) publish(ctx context.Context, e events.Event) {
	if a.bus == nil {
		return
	}

	a.metrics.IncrementEvent(e.Name())
	a.bus.Publish(ctx, e)
}

// RunBatch audits the given page addresses with at most limit audits in
// flight; a non-positive limit uses the configured batch limit. Addresses
// that are not auditable are logged and left out. Reports keep input order
func (a *Auditor) RunBatch(ctx context.Context, targets []string, limit int) []types.Report {
	if limit <= 0 {
		limit = a.batchLimit
	}

	reports := make([]types.Report, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, target := range targets {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			report, err := a.AuditURL(gctx, target, types.PageHandle{URL: target})
			if err != nil {
				log.Warn().Err(err).Str("target", target).Msg("skipping batch target")
				return nil
			}

			reports[i] = report

			return nil
		})
	}

	_ = g.Wait()

	return lo.Filter(reports, func(r types.Report, _ int) bool {
		return r.ID != ""
	})
}
