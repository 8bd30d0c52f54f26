package api

import (
	"errors"
	"net/http"

	"github.com/theopenlane/echoaudit/internal/extract"
)

// AgentAck acknowledges a delivered page agent response
type AgentAck struct {
	RequestID string `json:"request_id" example:"5b0c9d1e-7f8a-4b6c-9d2e-1f3a4b5c6d7e"`
}

// handleAgentRequests lists the extraction requests waiting for a tab
//
//	@Summary		Poll extraction requests
//	@Description	Lists the EXTRACT_PAGE_TEXT requests waiting for a page agent tab
//	@Tags			agent
//	@Produce		json
//	@Param			tab_id	query		string	true	"Tab identifier"
//	@Success		200		{object}	Response{data=[]extract.Request}
//	@Failure		400		{object}	Response{error=Error}
//	@Failure		503		{object}	Response{error=Error}
//	@Router			/agent/requests [get]
func (h *Handler) handleAgentRequests(w http.ResponseWriter, r *http.Request) {
	if h.relay == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrAgentRelayNotConfigured.Error())
		return
	}

	tabID := r.URL.Query().Get("tab_id")
	if tabID == "" {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrTabIDRequired.Error())
		return
	}

	respondData(w, http.StatusOK, h.relay.Pending(tabID))
}

// handleAgentResponse delivers a page agent answer to the waiting audit
//
//	@Summary		Answer an extraction request
//	@Description	Delivers the visible page text read by a page agent to the waiting audit
//	@Tags			agent
//	@Accept			json
//	@Produce		json
//	@Param			request	body		extract.Response	true	"Page agent answer"
//	@Success		200		{object}	Response{data=AgentAck}
//	@Failure		400		{object}	Response{error=Error}
//	@Failure		404		{object}	Response{error=Error}
//	@Failure		503		{object}	Response{error=Error}
//	@Router			/agent/responses [post]
func (h *Handler) handleAgentResponse(w http.ResponseWriter, r *http.Request) {
	if h.relay == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrAgentRelayNotConfigured.Error())
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var resp extract.Response
	if err := decodeJSONBody(r, &resp); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if resp.RequestID == "" {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrRequestIDRequired.Error())
		return
	}

	if err := h.relay.Respond(resp); err != nil {
		if errors.Is(err, extract.ErrUnknownRequest) {
			respondError(w, http.StatusNotFound, errCodeNotFound, err.Error())
			return
		}

		respondError(w, http.StatusInternalServerError, errCodeInternal, err.Error())

		return
	}

	respondData(w, http.StatusOK, AgentAck{RequestID: resp.RequestID})
}
