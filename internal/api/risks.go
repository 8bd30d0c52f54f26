package api

import (
	"net/http"

	"github.com/theopenlane/echoaudit/internal/risk"
)

// RiskRule is one category of the risk scanner and the phrases that trigger it
type RiskRule struct {
	Category string   `json:"category" example:"TRACKING"`
	Phrases  []string `json:"phrases" example:"tracking,cookies,analytics"`
}

// handleRisks lists the risk categories in report order with their trigger phrases
//
//	@Summary		List risk rules
//	@Description	Returns the risk categories in report order with the phrases that trigger them
//	@Tags			risks
//	@Produce		json
//	@Success		200	{object}	Response{data=[]RiskRule}
//	@Router			/risks [get]
func (h *Handler) handleRisks(w http.ResponseWriter, _ *http.Request) {
	categories := risk.Categories()

	rules := make([]RiskRule, 0, len(categories))
	for _, c := range categories {
		rules = append(rules, RiskRule{Category: c.String(), Phrases: risk.Phrases(c)})
	}

	respondData(w, http.StatusOK, rules)
}
