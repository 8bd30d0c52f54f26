package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theopenlane/echoaudit/internal/auditor"
	"github.com/theopenlane/echoaudit/internal/baseline"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"
	"github.com/theopenlane/echoaudit/internal/types"
)

const termsHTML = `<html><body><nav>Home</nav><main><p>We use cookies to remember you across visits.</p>` +
	`<p>Your information may be shared with a third party for advertising.</p></main></body></html>`

type reportEnvelope struct {
	Success bool          `json:"success"`
	Data    *types.Report `json:"data"`
	Error   *Error        `json:"error"`
}

type baselineEnvelope struct {
	Success bool          `json:"success"`
	Data    *BaselineView `json:"data"`
	Error   *Error        `json:"error"`
}

type testService struct {
	router http.Handler
	bus    *events.Bus
	relay  *extract.Relay
	store  *baseline.Store
}

func newTestService(t *testing.T) *testService {
	t.Helper()

	bus := events.NewBus()
	relay := extract.NewRelay(extract.WithRelayTimeout(5 * time.Second))
	store := baseline.NewStore(baseline.NewMemory())

	a := auditor.New(
		auditor.WithStore(store),
		auditor.WithExtractor(extract.NewChain(extract.WithRelay(relay))),
		auditor.WithBus(bus),
	)

	bus.Subscribe(a.Handler())

	return &testService{
		router: NewRouter(RouterConfig{
			Auditor:      a,
			Bus:          bus,
			Relay:        relay,
			MaxBodySize:  1 << 20,
			AuditTimeout: 10 * time.Second,
		}),
		bus:   bus,
		relay: relay,
		store: store,
	}
}

func (s *testService) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w
}

func TestHandleHealth(t *testing.T) {
	s := newTestService(t)

	w := s.do(http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "healthy" || resp.Service != "echoaudit" {
		t.Errorf("unexpected health response %+v", resp)
	}
}

func TestHandleRisks(t *testing.T) {
	s := newTestService(t)

	w := s.do(http.MethodGet, "/api/risks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data []RiskRule `json:"data"`
	}

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var order []string
	for _, rule := range resp.Data {
		order = append(order, rule.Category)
	}

	if strings.Join(order, ",") != "AI,DATA_SHARING,TRACKING,BIOMETRIC" {
		t.Errorf("unexpected category order %v", order)
	}

	if len(resp.Data) == 4 && strings.Join(resp.Data[2].Phrases, ",") != "tracking,cookies,analytics" {
		t.Errorf("unexpected tracking phrases %v", resp.Data[2].Phrases)
	}
}

func TestHandleAudit(t *testing.T) {
	s := newTestService(t)

	completed := make(chan events.AuditCompleted, 1)
	s.bus.Subscribe(events.Only(func(_ context.Context, e events.AuditCompleted) error {
		completed <- e
		return nil
	}))

	body, _ := json.Marshal(AuditRequest{URL: "https://www.Example.com/terms", HTML: termsHTML})

	w := s.do(http.MethodPost, "/api/audit", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp reportEnvelope
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected successful report, got %+v", resp)
	}

	report := resp.Data
	if report.SiteID != "example.com" {
		t.Errorf("expected site example.com, got %s", report.SiteID)
	}
	if report.Severity != types.SeverityWarning {
		t.Errorf("expected Warning severity, got %s", report.Severity)
	}
	if strings.Join(report.Risks, ",") != "DATA_SHARING,TRACKING" {
		t.Errorf("unexpected risks %v", report.Risks)
	}
	if report.Changed {
		t.Error("first audit should be unchanged")
	}

	if text, ok := s.store.Load(context.Background(), "example.com"); !ok || strings.Contains(text, "Home") {
		t.Errorf("expected cleaned baseline without navigation, got %q", text)
	}

	select {
	case e := <-completed:
		if e.Report.ID != report.ID {
			t.Errorf("published report %s does not match response %s", e.Report.ID, report.ID)
		}
	case <-time.After(5 * time.Second):
		t.Error("expected a completion event")
	}
}

func TestHandleAuditDoesNotWaitForSubscribers(t *testing.T) {
	s := newTestService(t)

	release := make(chan struct{})
	delivered := make(chan struct{})

	s.bus.Subscribe(events.Only(func(_ context.Context, _ events.AuditCompleted) error {
		<-release
		close(delivered)

		return nil
	}))

	body, _ := json.Marshal(AuditRequest{URL: "https://example.com/terms", HTML: termsHTML})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- s.do(http.MethodPost, "/api/audit", string(body))
	}()

	select {
	case w := <-done:
		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("response waited on a blocked subscriber")
	}

	close(release)

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("completion event was never delivered")
	}
}

func TestHandleAuditFailedExtraction(t *testing.T) {
	s := newTestService(t)

	w := s.do(http.MethodPost, "/api/audit", `{"site_id":"example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp reportEnvelope
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data == nil || !resp.Data.Failed() {
		t.Fatalf("expected an Error report, got %+v", resp.Data)
	}

	if !strings.HasPrefix(resp.Data.Summary, "Audit failed: ") {
		t.Errorf("unexpected failure summary %q", resp.Data.Summary)
	}
}

func TestHandleAuditValidation(t *testing.T) {
	testCases := []struct {
		name string
		body string
		code string
	}{
		{"empty request", `{}`, errCodeValidation},
		{"non web url", `{"url":"chrome://extensions"}`, errCodeValidation},
		{"invalid site", `{"site_id":"://"}`, errCodeValidation},
		{"malformed json", `{"url":`, errCodeInvalidRequest},
		{"unknown field", `{"domain":"example.com"}`, errCodeInvalidRequest},
		{"trailing object", `{"url":"https://example.com"}{}`, errCodeInvalidRequest},
	}

	s := newTestService(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/audit", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}

			var resp Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if resp.Success || resp.Error == nil || resp.Error.Code != tc.code {
				t.Errorf("expected error code %s, got %+v", tc.code, resp.Error)
			}
		})
	}
}

func TestHandleTrigger(t *testing.T) {
	s := newTestService(t)

	completed := make(chan events.AuditCompleted, 1)
	s.bus.Subscribe(events.Only(func(_ context.Context, e events.AuditCompleted) error {
		completed <- e
		return nil
	}))

	body, _ := json.Marshal(AuditRequest{URL: "https://example.com/terms", HTML: termsHTML})

	w := s.do(http.MethodPost, "/api/audit/trigger", string(body))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", w.Code)
	}

	select {
	case e := <-completed:
		if e.SiteID != "example.com" || e.Report.Severity != types.SeverityWarning {
			t.Errorf("unexpected completion event %+v", e)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for triggered audit")
	}
}

func TestHandleTriggerWireMessage(t *testing.T) {
	s := newTestService(t)

	completed := make(chan events.AuditCompleted, 1)
	s.bus.Subscribe(events.Only(func(_ context.Context, e events.AuditCompleted) error {
		completed <- e
		return nil
	}))

	wire, err := events.Encode(events.StartAudit{
		SiteID: "example.com",
		Page:   types.PageHandle{URL: "https://example.com/terms", HTML: termsHTML},
	})
	if err != nil {
		t.Fatalf("failed to encode start audit: %v", err)
	}

	w := s.do(http.MethodPost, "/api/audit/trigger", string(wire))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	select {
	case e := <-completed:
		if e.SiteID != "example.com" || strings.Join(e.Report.Risks, ",") != "DATA_SHARING,TRACKING" {
			t.Errorf("unexpected completion event %+v", e)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for triggered audit")
	}

	testCases := []struct {
		name string
		body string
	}{
		{"start audit without target", `{"action":"START_AUDIT"}`},
		{"other event", `{"type":"AUDIT_ERROR","error":"boom"}`},
		{"unknown action", `{"action":"PING"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if w := s.do(http.MethodPost, "/api/audit/trigger", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestHandleTriggerWithoutBus(t *testing.T) {
	router := NewRouter(RouterConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/audit/trigger", strings.NewReader(`{"url":"https://example.com"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestBaselineEndpoints(t *testing.T) {
	s := newTestService(t)

	w := s.do(http.MethodGet, "/api/baselines/example.com", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 before any baseline, got %d", w.Code)
	}

	w = s.do(http.MethodPut, "/api/baselines/www.Example.com", `{"text":"Seeded terms."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/baselines/example.com", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp baselineEnvelope
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data == nil || resp.Data.Text != "Seeded terms." || resp.Data.Source != baselineSourceStore {
		t.Errorf("unexpected baseline %+v", resp.Data)
	}

	if resp.Data.UpdatedAt == nil || resp.Data.UpdatedAt.IsZero() {
		t.Error("expected updated_at for a stored baseline")
	}

	w = s.do(http.MethodPut, "/api/baselines/example.com", `{"text":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for empty text, got %d", w.Code)
	}
}

func TestAgentEndpointsValidation(t *testing.T) {
	s := newTestService(t)

	if w := s.do(http.MethodGet, "/api/agent/requests", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without tab_id, got %d", w.Code)
	}

	if w := s.do(http.MethodPost, "/api/agent/responses", `{"text":"hi"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without request_id, got %d", w.Code)
	}

	if w := s.do(http.MethodPost, "/api/agent/responses", `{"request_id":"missing","text":"hi"}`); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown request, got %d", w.Code)
	}

	router := NewRouter(RouterConfig{})
	req := httptest.NewRequest(http.MethodGet, "/api/agent/requests?tab_id=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 without relay, got %d", w.Code)
	}
}

func TestAgentRoundTrip(t *testing.T) {
	s := newTestService(t)

	result := make(chan *httptest.ResponseRecorder, 1)

	go func() {
		result <- s.do(http.MethodPost, "/api/audit", `{"site_id":"example.com","tab_id":"tab-7"}`)
	}()

	var pending []extract.Request

	deadline := time.Now().Add(5 * time.Second)
	for len(pending) == 0 && time.Now().Before(deadline) {
		w := s.do(http.MethodGet, "/api/agent/requests?tab_id=tab-7", "")

		var resp struct {
			Data []extract.Request `json:"data"`
		}

		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode pending requests: %v", err)
		}

		pending = resp.Data

		if len(pending) == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	if len(pending) != 1 {
		t.Fatalf("expected one pending request, got %d", len(pending))
	}

	body, _ := json.Marshal(extract.Response{
		RequestID: pending[0].ID,
		Text:      "We collect biometric   data like your fingerprint.",
		Length:    50,
	})

	if w := s.do(http.MethodPost, "/api/agent/responses", string(body)); w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	select {
	case w := <-result:
		var resp reportEnvelope
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.Data == nil || strings.Join(resp.Data.Risks, ",") != "BIOMETRIC" {
			t.Errorf("unexpected report %+v", resp.Data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for audit response")
	}
}
