package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/theopenlane/echoaudit/internal/types"
)

// envelope is the wire form shared by all events; commands carry an action,
// notifications carry a type
type envelope struct {
	Type      string            `json:"type,omitempty"`
	Action    string            `json:"action,omitempty"`
	Payload   json.RawMessage   `json:"payload,omitempty"`
	Error     string            `json:"error,omitempty"`
	Domain    string            `json:"domain,omitempty"`
	SiteID    string            `json:"siteId,omitempty"`
	Page      *types.PageHandle `json:"pageHandle,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	TabID     string            `json:"tab_id,omitempty"`
	URL       string            `json:"url,omitempty"`
}

// completedPayload is the AUDIT_COMPLETED payload; timestamp is epoch milliseconds
type completedPayload struct {
	AuditCompleted
	Timestamp int64 `json:"timestamp"`
}

// Encode renders e in its wire form
func Encode(e Event) ([]byte, error) {
	var env envelope

	switch ev := e.(type) {
	case StartAudit:
		page := ev.Page
		env = envelope{Action: ActionStartAudit, SiteID: ev.SiteID, Page: &page}
	case AuditCompleted:
		ts := ev.Timestamp
		if ts.IsZero() {
			ts = ev.Report.Timestamp
		}

		payload, err := json.Marshal(completedPayload{AuditCompleted: ev, Timestamp: ts.UnixMilli()})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}

		env = envelope{Type: TypeAuditCompleted, Payload: payload}
	case AuditError:
		env = envelope{Type: TypeAuditError, Error: ev.Error, Domain: ev.SiteID}
	case ExtractPageText:
		env = envelope{Action: ActionExtractPageText, RequestID: ev.RequestID, TabID: ev.TabID, URL: ev.URL}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}

	return json.Marshal(env)
}

// Decode parses a wire message into its event
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	name := env.Type
	if name == "" {
		name = env.Action
	}

	switch name {
	case ActionStartAudit:
		return decodeStartAudit(env)
	case TypeAuditCompleted:
		var p completedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}

		ev := p.AuditCompleted
		ev.Timestamp = time.UnixMilli(p.Timestamp).UTC()

		return ev, nil
	case TypeAuditError:
		return AuditError{SiteID: env.Domain, Error: env.Error}, nil
	case ActionExtractPageText:
		return ExtractPageText{RequestID: env.RequestID, TabID: env.TabID, URL: env.URL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

// decodeStartAudit reads the flat siteId and pageHandle fields, falling back
// to the payload form that completion events use
func decodeStartAudit(env envelope) (StartAudit, error) {
	var ev StartAudit

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return StartAudit{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	}

	if env.SiteID != "" {
		ev.SiteID = env.SiteID
	}

	if env.Page != nil {
		ev.Page = *env.Page
	}

	if ev.SiteID == "" && ev.Page.IsZero() {
		return StartAudit{}, fmt.Errorf("%w: %s needs a siteId or pageHandle", ErrMalformedEvent, ActionStartAudit)
	}

	return ev, nil
}
