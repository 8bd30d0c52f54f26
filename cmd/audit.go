package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/report"
	"github.com/theopenlane/echoaudit/internal/types"
)

// auditCmd audits one or more addresses from the command line
var auditCmd = &cobra.Command{
	Use:   "audit <url|site>...",
	Short: "audit the terms of service at one or more addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return audit(cmd.Context(), args)
	},
}

// init registers the audit command and its flags on the root command
func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringP("format", "f", "json", "output format (json, markdown)")
	auditCmd.Flags().Int("limit", 0, "maximum concurrent audits, 0 uses the configured batch limit")
	auditCmd.Flags().Bool("notify", false, "publish completed audits to the configured slack and kafka sinks")
}

// audit runs the pipeline for each target and writes the reports to stdout
func audit(ctx context.Context, targets []string) error {
	format, err := report.ParseFormat(k.String("format"))
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(os.Stdout, format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := setupServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if k.Bool("notify") {
		if err := svc.setupNotifiers(); err != nil {
			return err
		}
	}

	var reports []types.Report

	switch {
	case len(targets) > 1:
		reports = svc.auditor.RunBatch(ctx, lo.Map(targets, func(t string, _ int) string {
			if strings.Contains(t, "://") {
				return t
			}

			return "https://" + t
		}), k.Int("limit"))
	case strings.Contains(targets[0], "://"):
		r, err := svc.auditor.AuditURL(ctx, targets[0], types.PageHandle{})
		if err != nil {
			return err
		}

		reports = append(reports, r)
	default:
		// a bare site resolves its page from the catalog or the locator
		siteID, err := siteArg(targets[0])
		if err != nil {
			return err
		}

		reports = append(reports, svc.auditor.Run(ctx, siteID, types.PageHandle{}))
	}

	if len(reports) == 0 {
		return ErrNoAuditsCompleted
	}

	for _, r := range reports {
		svc.bus.Publish(ctx, events.AuditCompleted{SiteID: r.SiteID, Report: r, Timestamp: r.Timestamp})

		log.Debug().Str("site", r.SiteID).Str("severity", string(r.Severity)).Bool("changed", r.Changed).Msg("audit complete")
	}

	if err := writer.Write(reports...); err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}

	return nil
}
