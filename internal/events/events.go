package events

import (
	"time"

	"github.com/theopenlane/echoaudit/internal/types"
)

// Wire names of the events
const (
	ActionStartAudit      = "START_AUDIT"
	ActionExtractPageText = "EXTRACT_PAGE_TEXT"
	TypeAuditCompleted    = "AUDIT_COMPLETED"
	TypeAuditError        = "AUDIT_ERROR"
)

// Event is one of the messages exchanged between the audit service and its
// clients. The set is closed: StartAudit, AuditCompleted, AuditError and
// ExtractPageText
type Event interface {
	// Name returns the wire name of the event
	Name() string
	sealed()
}

// StartAudit asks for an audit of a site
type StartAudit struct {
	// SiteID is the normalized site when already known
	SiteID string `json:"domain,omitempty"`
	// Page describes where the text can be read
	Page types.PageHandle `json:"page"`
}

// AuditCompleted carries a finished report, including failed audits
type AuditCompleted struct {
	SiteID    string       `json:"domain"`
	Report    types.Report `json:"results"`
	Timestamp time.Time    `json:"-"`
}

// AuditError reports a workflow failure outside the audit itself
type AuditError struct {
	SiteID string `json:"domain,omitempty"`
	Error  string `json:"error"`
}

// ExtractPageText asks a page agent for the visible text of a tab
type ExtractPageText struct {
	RequestID string `json:"request_id"`
	TabID     string `json:"tab_id"`
	URL       string `json:"url,omitempty"`
}

// Name returns START_AUDIT
func (StartAudit) Name() string { return ActionStartAudit }

// Name returns AUDIT_COMPLETED
func (AuditCompleted) Name() string { return TypeAuditCompleted }

// Name returns AUDIT_ERROR
func (AuditError) Name() string { return TypeAuditError }

// Name returns EXTRACT_PAGE_TEXT
func (ExtractPageText) Name() string { return ActionExtractPageText }

func (StartAudit) sealed()      {}
func (AuditCompleted) sealed()  {}
func (AuditError) sealed()      {}
func (ExtractPageText) sealed() {}
