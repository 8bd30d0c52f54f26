package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/echoaudit/internal/baseline"
)

const (
	// baselineSourceStore marks baselines persisted by audits or updates
	baselineSourceStore = "store"
	// baselineSourceCatalog marks baselines served from the bundled catalog
	baselineSourceCatalog = "catalog"
)

// BaselineView is the baseline of a site as served by the API
type BaselineView struct {
	SiteID    string     `json:"site_id" example:"example.com"`
	Text      string     `json:"text"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Source    string     `json:"source" example:"store"`
}

// BaselineUpdateRequest replaces the baseline of a site
type BaselineUpdateRequest struct {
	Text string `json:"text"`
}

// handleGetBaseline returns the stored baseline, falling back to the catalog
//
//	@Summary		Get a baseline
//	@Description	Returns the stored baseline text of a site, or its catalog document when none is stored
//	@Tags			baselines
//	@Produce		json
//	@Param			site	path		string	true	"Site hostname"
//	@Success		200		{object}	Response{data=BaselineView}
//	@Failure		400		{object}	Response{error=Error}
//	@Failure		404		{object}	Response{error=Error}
//	@Failure		502		{object}	Response{error=Error}
//	@Router			/baselines/{site} [get]
func (h *Handler) handleGetBaseline(w http.ResponseWriter, r *http.Request) {
	siteID, err := normalizeSiteID(chi.URLParam(r, "site"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	}

	store := h.auditor.Store()

	rec, err := store.Record(r.Context(), siteID)

	switch {
	case err == nil:
		updated := rec.UpdatedAt
		respondData(w, http.StatusOK, BaselineView{SiteID: siteID, Text: rec.Text, UpdatedAt: &updated, Source: baselineSourceStore})

		return
	case !errors.Is(err, baseline.ErrNotFound):
		log.Error().Err(err).Str("site", siteID).Msg("failed to read baseline")
		respondError(w, http.StatusBadGateway, errCodeInternal, ErrBaselineUnavailable.Error())

		return
	}

	text, ok := store.Load(r.Context(), siteID)
	if !ok {
		respondError(w, http.StatusNotFound, errCodeNotFound, ErrBaselineNotFound.Error())
		return
	}

	respondData(w, http.StatusOK, BaselineView{SiteID: siteID, Text: text, Source: baselineSourceCatalog})
}

// handlePutBaseline overwrites the baseline of a site
//
//	@Summary		Set a baseline
//	@Description	Replaces the stored baseline text of a site
//	@Tags			baselines
//	@Accept			json
//	@Produce		json
//	@Param			site	path		string					true	"Site hostname"
//	@Param			request	body		BaselineUpdateRequest	true	"Baseline text"
//	@Success		200		{object}	Response{data=BaselineView}
//	@Failure		400		{object}	Response{error=Error}
//	@Failure		502		{object}	Response{error=Error}
//	@Router			/baselines/{site} [put]
func (h *Handler) handlePutBaseline(w http.ResponseWriter, r *http.Request) {
	siteID, err := normalizeSiteID(chi.URLParam(r, "site"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req BaselineUpdateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrTextRequired.Error())
		return
	}

	store := h.auditor.Store()

	if err := store.Save(r.Context(), siteID, req.Text); err != nil {
		if errors.Is(err, baseline.ErrInvalidSiteID) || errors.Is(err, baseline.ErrEmptySiteID) {
			respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
			return
		}

		log.Error().Err(err).Str("site", siteID).Msg("failed to save baseline")
		respondError(w, http.StatusBadGateway, errCodeInternal, ErrBaselineUnavailable.Error())

		return
	}

	view := BaselineView{SiteID: siteID, Text: req.Text, Source: baselineSourceStore}
	if rec, err := store.Record(r.Context(), siteID); err == nil {
		view.UpdatedAt = &rec.UpdatedAt
	}

	respondData(w, http.StatusOK, view)
}
