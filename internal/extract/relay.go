package extract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/echoaudit/internal/types"
)

// defaultRelayTimeout is how long an extraction request waits for a page agent
const defaultRelayTimeout = 10 * time.Second

// Request asks a page agent for the visible text of a tab
type Request struct {
	// ID correlates the agent response with the waiting audit
	ID string `json:"request_id"`
	// TabID names the tab the agent should read
	TabID string `json:"tab_id"`
	// URL is the page address when known
	URL string `json:"url,omitempty"`
	// CreatedAt is when the request was queued
	CreatedAt time.Time `json:"created_at"`
}

// Response is the page agent answer to a Request
type Response struct {
	// RequestID names the request being answered
	RequestID string `json:"request_id"`
	// Text is the visible page text
	Text string `json:"text"`
	// Length is the agent reported character count of Text
	Length int `json:"length"`
	// Error is set when the agent could not read the page
	Error string `json:"error,omitempty"`
}

type pendingRequest struct {
	req   Request
	reply chan Response
}

// Relay hands extraction requests to an out-of-process page agent and waits
// for its answer. Agents poll Pending and answer with Respond
type Relay struct {
	mu      sync.Mutex
	pending map[string]*pendingRequest
	order   []string
	timeout time.Duration
	notify  func(Request)
}

// RelayOption configures the Relay
type RelayOption func(*Relay)

// WithRelayTimeout overrides how long a request waits for an agent
func WithRelayTimeout(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRelayNotify registers a hook invoked for every queued request
func WithRelayNotify(fn func(Request)) RelayOption {
	return func(r *Relay) {
		if fn != nil {
			r.notify = fn
		}
	}
}

// NewRelay creates an empty relay
func NewRelay(opts ...RelayOption) *Relay {
	r := &Relay{
		pending: make(map[string]*pendingRequest),
		timeout: defaultRelayTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Extract queues a request for page.TabID and waits for the agent response
func (r *Relay) Extract(ctx context.Context, page types.PageHandle) (string, error) {
	if page.TabID == "" {
		return "", ErrNoTab
	}

	p := &pendingRequest{
		req: Request{
			ID:        uuid.NewString(),
			TabID:     page.TabID,
			URL:       page.URL,
			CreatedAt: time.Now().UTC(),
		},
		reply: make(chan Response, 1),
	}

	r.mu.Lock()
	r.pending[p.req.ID] = p
	r.order = append(r.order, p.req.ID)
	r.mu.Unlock()

	defer r.forget(p.req.ID)

	if r.notify != nil {
		r.notify(p.req)
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case resp := <-p.reply:
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrAgentFailed, resp.Error)
		}

		return Normalize(resp.Text), nil
	case <-timer.C:
		log.Debug().Str("tab_id", page.TabID).Str("request_id", p.req.ID).Msg("page agent did not respond")
		return "", ErrNoResponder
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pending lists the waiting requests for tabID, oldest first; an empty tabID lists all
func (r *Relay) Pending(tabID string) []Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Request, 0, len(r.order))

	for _, id := range r.order {
		p, ok := r.pending[id]
		if !ok {
			continue
		}

		if tabID == "" || p.req.TabID == tabID {
			out = append(out, p.req)
		}
	}

	return out
}

// Respond delivers an agent answer to the waiting request
func (r *Relay) Respond(resp Response) error {
	r.mu.Lock()
	p, ok := r.pending[resp.RequestID]

	if ok {
		delete(r.pending, resp.RequestID)
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRequest, resp.RequestID)
	}

	p.reply <- resp

	return nil
}

// forget drops a request once its waiter has returned
func (r *Relay) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, id)

	for i, queued := range r.order {
		if queued == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
