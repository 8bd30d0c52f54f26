package types

import "time"

// Severity is the coarse risk level assigned to an audit
type Severity string

const (
	// SeveritySafe means no risk categories were detected
	SeveritySafe Severity = "Safe"
	// SeverityWarning means one or two risk categories were detected
	SeverityWarning Severity = "Warning"
	// SeverityDanger means three or more risk categories were detected
	SeverityDanger Severity = "Danger"
	// SeverityError means the audit could not complete
	SeverityError Severity = "Error"
)

// String returns the severity label
func (s Severity) String() string {
	return string(s)
}

// PageHandle describes the page to audit as known by the caller
type PageHandle struct {
	// URL is the page address
	URL string `json:"url,omitempty" example:"https://www.example.com/terms"`
	// HTML is an already-rendered document supplied by the caller
	HTML string `json:"html,omitempty"`
	// TabID identifies the page agent context that can extract text on request
	TabID string `json:"tab_id,omitempty" example:"tab-42"`
}

// IsZero reports whether the handle carries no page information
func (p PageHandle) IsZero() bool {
	return p.URL == "" && p.HTML == "" && p.TabID == ""
}

// Report is the result of a single terms of service audit
type Report struct {
	// ID uniquely identifies the audit run
	ID string `json:"id" example:"3f0b1c2e-6c53-4d2f-8a55-2a8bb9e5a0c4"`
	// SiteID is the normalized hostname that was audited
	SiteID string `json:"site_id" example:"example.com"`
	// URL is the page address the text was extracted from, when known
	URL string `json:"url,omitempty" example:"https://example.com/terms"`
	// Changed reports whether the text differs from the stored baseline
	Changed bool `json:"changed"`
	// ChangedText holds the full current text when Changed is true
	ChangedText string `json:"changed_text,omitempty"`
	// Risks lists the detected risk categories in table order
	Risks []string `json:"risks"`
	// Matches lists the trigger phrases found per risk category
	Matches map[string][]string `json:"matches,omitempty"`
	// Severity is derived from the number of risk categories
	Severity Severity `json:"severity" example:"Warning"`
	// Summary is a short human readable synopsis, or the failure description
	Summary string `json:"summary"`
	// SummarySource names the summarization strategy that produced Summary
	SummarySource string `json:"summary_source,omitempty" example:"heuristic"`
	// TextLength is the number of characters in the extracted text
	TextLength int `json:"text_length"`
	// Timestamp is when the audit completed
	Timestamp time.Time `json:"timestamp"`
}

// Failed reports whether the report describes a failed audit
func (r Report) Failed() bool {
	return r.Severity == SeverityError
}
