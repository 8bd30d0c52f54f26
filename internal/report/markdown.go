package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/theopenlane/echoaudit/internal/types"
)

// maxCellLength bounds the text placed in a table cell
const maxCellLength = 80

// MarkdownWriter outputs reports as a markdown document
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders one section per report
func (w *MarkdownWriter) Write(reports ...types.Report) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Terms of Service Audit")
	md.PlainText("")

	if len(reports) > 1 {
		writeOverview(md, reports)
	}

	for _, r := range reports {
		writeReport(md, r)
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated %s*", time.Now().UTC().Format(time.RFC3339))

	if err := md.Build(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}

// writeOverview writes one table row per audited site
func writeOverview(md *markdown.Markdown, reports []types.Report) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.SiteID, r.Severity.String(), yesNo(r.Changed), joinOrDash(r.Risks)})
	}

	md.H2("Overview")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Site", "Severity", "Changed", "Risks"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeReport writes the section for a single audit
func writeReport(md *markdown.Markdown, r types.Report) {
	md.H2(r.SiteID)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Page", valueOrDash(r.URL)},
			{"Severity", r.Severity.String()},
			{"Changed", yesNo(r.Changed)},
			{"Risks", joinOrDash(r.Risks)},
			{"Text Length", strconv.Itoa(r.TextLength)},
			{"Summary Source", valueOrDash(r.SummarySource)},
			{"Audited", r.Timestamp.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	writeAlert(md, r)

	md.PlainText("**Summary**")
	md.PlainText("")
	md.PlainText(r.Summary)
	md.PlainText("")

	if len(r.Matches) > 0 {
		tags := make([]string, 0, len(r.Matches))
		for tag := range r.Matches {
			tags = append(tags, tag)
		}

		sort.Strings(tags)

		rows := make([][]string, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, []string{tag, truncate(strings.Join(r.Matches[tag], ", "), maxCellLength)})
		}

		md.Table(markdown.TableSet{
			Header: []string{"Category", "Matched Phrases"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if r.Changed && r.ChangedText != "" {
		md.Details("Changed text", r.ChangedText)
		md.PlainText("")
	}
}

// writeAlert writes a callout matching the report severity
func writeAlert(md *markdown.Markdown, r types.Report) {
	switch r.Severity {
	case types.SeverityError:
		md.Cautionf("The audit could not complete. %s", r.Summary)
	case types.SeverityDanger:
		md.Warningf("%d risk categories detected in the terms.", len(r.Risks))
	case types.SeverityWarning:
		md.Importantf("%d risk category(ies) detected in the terms.", len(r.Risks))
	default:
		md.Tip("No risk categories detected.")
	}

	md.PlainText("")

	if r.Changed {
		md.Note("The terms changed since the last audit.")
		md.PlainText("")
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}

	return strings.Join(values, ", ")
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// truncate shortens s to maxLen runes with an ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return string(runes[:maxLen-3]) + "..."
}
