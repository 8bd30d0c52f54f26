// Package api provides HTTP handlers for the echoaudit terms of service audit service.
//
//	@title			EchoAudit API
//	@version		1.0
//	@description	Terms of service audit service for policy change and risk detection
//
//	@contact.name	Openlane Support
//	@contact.url	https://github.com/theopenlane/echoaudit
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@schemes	http https
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/echoaudit/internal/auditor"
	"github.com/theopenlane/echoaudit/internal/domain"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"
	"github.com/theopenlane/echoaudit/internal/types"
)

// serviceName is reported by the health endpoint
const serviceName = "echoaudit"

// Handler manages API endpoints
type Handler struct {
	auditor      *auditor.Auditor
	bus          *events.Bus
	relay        *extract.Relay
	maxBodySize  int64
	auditTimeout time.Duration
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Service   string `json:"service" example:"echoaudit"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// AuditRequest asks for an audit of a page
type AuditRequest struct {
	// URL is the page address; the site is derived from it
	URL string `json:"url,omitempty" example:"https://www.example.com/terms"`
	// SiteID names the site when no page address is known
	SiteID string `json:"site_id,omitempty" example:"example.com"`
	// HTML is the already-rendered page markup
	HTML string `json:"html,omitempty"`
	// TabID names a page agent context that can read the page
	TabID string `json:"tab_id,omitempty" example:"tab-42"`
}

// TriggerResult acknowledges an accepted background audit
type TriggerResult struct {
	SiteID   string `json:"site_id" example:"example.com"`
	Accepted bool   `json:"accepted" example:"true"`
}

// handleHealth returns service health status
//
//	@Summary		Health check
//	@Description	Returns the health status of the echoaudit service
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAudit runs an audit synchronously and returns the report. Audits that
// ran but failed are still 200 responses carrying an Error severity report
//
//	@Summary		Audit a page
//	@Description	Extracts the page text, compares it with the stored baseline, scans for risks and summarizes it
//	@Description	The page is read from html, a page agent tab, or the url, in that order
//	@Tags			audit
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AuditRequest	true	"Page to audit, by url or site_id"
//	@Success		200		{object}	Response{data=types.Report}
//	@Failure		400		{object}	Response{error=Error}
//	@Router			/audit [post]
func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAuditRequest(w, r)
	if !ok {
		return
	}

	siteID, err := resolveSite(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	}

	ctx := r.Context()
	if h.auditTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.auditTimeout)
		defer cancel()
	}

	report := h.auditor.Run(ctx, siteID, pageHandle(req))

	if h.bus != nil {
		event := events.AuditCompleted{SiteID: siteID, Report: report, Timestamp: report.Timestamp}
		publishCtx := context.WithoutCancel(ctx)

		// subscribers such as slack and kafka must not hold up the response
		go h.bus.Publish(publishCtx, event)
	}

	respondData(w, http.StatusOK, report)
}

// handleTrigger publishes a StartAudit event and returns before the audit runs
//
//	@Summary		Trigger a background audit
//	@Description	Accepts an AuditRequest or a START_AUDIT message {action, siteId, pageHandle}
//	@Description	The report is delivered as an AUDIT_COMPLETED event on /events, Slack and Kafka
//	@Tags			audit
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AuditRequest	true	"Page to audit"
//	@Success		202		{object}	Response{data=TriggerResult}
//	@Failure		400		{object}	Response{error=Error}
//	@Failure		503		{object}	Response{error=Error}
//	@Router			/audit/trigger [post]
func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrEventsNotConfigured.Error())
		return
	}

	req, ok := h.decodeTriggerRequest(w, r)
	if !ok {
		return
	}

	siteID, err := resolveSite(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	}

	event := events.StartAudit{SiteID: siteID, Page: pageHandle(req)}
	timeout := h.auditTimeout
	ctx := context.WithoutCancel(r.Context())

	go func() {
		runCtx := ctx

		if timeout > 0 {
			var cancel context.CancelFunc

			runCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		h.bus.Publish(runCtx, event)
	}()

	log.Debug().Str("site", siteID).Msg("audit triggered")

	respondData(w, http.StatusAccepted, TriggerResult{SiteID: siteID, Accepted: true})
}

// decodeAuditRequest reads an AuditRequest, writing the error response on failure
func (h *Handler) decodeAuditRequest(w http.ResponseWriter, r *http.Request) (AuditRequest, bool) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req AuditRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return req, false
	}

	return req, true
}

// decodeTriggerRequest reads an AuditRequest or a START_AUDIT wire message,
// writing the error response on failure
func (h *Handler) decodeTriggerRequest(w http.ResponseWriter, r *http.Request) (AuditRequest, bool) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return AuditRequest{}, false
	}

	var head struct {
		Action string `json:"action"`
	}

	if json.Unmarshal(body, &head) != nil || head.Action == "" {
		var req AuditRequest
		if err := decodeJSON(bytes.NewReader(body), &req); err != nil {
			respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
			return req, false
		}

		return req, true
	}

	event, err := events.Decode(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return AuditRequest{}, false
	}

	start, ok := event.(events.StartAudit)
	if !ok {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrNotStartAudit.Error())
		return AuditRequest{}, false
	}

	return AuditRequest{
		URL:    start.Page.URL,
		SiteID: start.SiteID,
		HTML:   start.Page.HTML,
		TabID:  start.Page.TabID,
	}, true
}

// resolveSite derives the site identifier from the page address, or from the
// site_id field when no address is given
func resolveSite(req AuditRequest) (string, error) {
	if req.URL != "" {
		siteID, ok := domain.Normalize(req.URL)
		if !ok {
			return "", auditor.ErrSkipped
		}

		return siteID, nil
	}

	if req.SiteID != "" {
		return normalizeSiteID(req.SiteID)
	}

	return "", ErrURLOrSiteRequired
}

// normalizeSiteID accepts a bare hostname or an address and returns the site identifier
func normalizeSiteID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	siteID, ok := domain.Normalize(raw)
	if !ok {
		return "", ErrInvalidSite
	}

	return siteID, nil
}

func pageHandle(req AuditRequest) types.PageHandle {
	return types.PageHandle{
		URL:   strings.TrimSpace(req.URL),
		HTML:  req.HTML,
		TabID: req.TabID,
	}
}
