package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/types"
)

// maxSummaryLength keeps section text under the Block Kit limit
const maxSummaryLength = 2900

// severityEmoji decorates the message header
var severityEmoji = map[types.Severity]string{
	types.SeveritySafe:    ":large_green_circle:",
	types.SeverityWarning: ":large_yellow_circle:",
	types.SeverityDanger:  ":red_circle:",
	types.SeverityError:   ":warning:",
}

// BuildAuditMessage renders a report as a Block Kit message
func BuildAuditMessage(report types.Report) Message {
	header := fmt.Sprintf("%s Terms audit for %s: %s", severityEmoji[report.Severity], report.SiteID, report.Severity)

	risks := "None detected"
	if len(report.Risks) > 0 {
		risks = strings.Join(report.Risks, ", ")
	}

	changed := "No"
	if report.Changed {
		changed = "Yes"
	}

	summary := report.Summary
	if runes := []rune(summary); len(runes) > maxSummaryLength {
		summary = string(runes[:maxSummaryLength]) + "..."
	}

	blocks := []Block{
		{Type: "header", Text: &TextObject{Type: "plain_text", Text: header}},
		{
			Type: "section",
			Fields: []TextObject{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Severity*\n%s", report.Severity)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Changed since baseline*\n%s", changed)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Risk categories*\n%s", risks)},
			},
		},
		{Type: "section", Text: &TextObject{Type: "mrkdwn", Text: summary}},
	}

	if phrases := matchedPhrases(report); phrases != "" {
		blocks = append(blocks, Block{
			Type:     "context",
			Elements: []TextObject{{Type: "mrkdwn", Text: "Matched: " + phrases}},
		})
	}

	if report.URL != "" {
		blocks = append(blocks, Block{
			Type:     "context",
			Elements: []TextObject{{Type: "mrkdwn", Text: fmt.Sprintf("<%s|%s>", report.URL, report.URL)}},
		})
	}

	return Message{Text: header, Blocks: blocks}
}

// BuildErrorMessage renders a workflow failure
func BuildErrorMessage(siteID, reason string) Message {
	site := lo.Ternary(siteID == "", "unknown site", siteID)
	text := fmt.Sprintf("%s Terms audit error for %s", severityEmoji[types.SeverityError], site)

	return Message{
		Text: text,
		Blocks: []Block{
			{Type: "section", Text: &TextObject{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s", text, reason)}},
		},
	}
}

// matchedPhrases lists the trigger phrases in risk order
func matchedPhrases(report types.Report) string {
	var out []string

	for _, category := range report.Risks {
		for _, phrase := range report.Matches[category] {
			out = append(out, fmt.Sprintf("`%s`", phrase))
		}
	}

	return strings.Join(out, " ")
}

// Notify sends a message for a completed or errored audit; other events are ignored
func (c *Client) Notify(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.AuditCompleted:
		if !ev.Report.Failed() && severityRank(ev.Report.Severity) < severityRank(c.minSeverity) {
			return nil
		}

		return c.Send(ctx, BuildAuditMessage(ev.Report))
	case events.AuditError:
		return c.Send(ctx, BuildErrorMessage(ev.SiteID, ev.Error))
	default:
		return nil
	}
}
