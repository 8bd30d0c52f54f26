package risk

import (
	"strings"

	"github.com/theopenlane/echoaudit/internal/types"
)

// Category is a class of privacy or legal concern
type Category string

const (
	// CategoryAI flags clauses about training models on user data
	CategoryAI Category = "AI"
	// CategoryDataSharing flags clauses about passing data to other parties
	CategoryDataSharing Category = "DATA_SHARING"
	// CategoryTracking flags clauses about tracking and analytics
	CategoryTracking Category = "TRACKING"
	// CategoryBiometric flags clauses about biometric identifiers
	CategoryBiometric Category = "BIOMETRIC"
)

// String returns the category tag
func (c Category) String() string {
	return string(c)
}

// rule maps a category to its lowercase trigger phrases
type rule struct {
	category Category
	phrases  []string
}

// rules is the ordered category table; report order follows it
var rules = []rule{
	{
		category: CategoryAI,
		phrases:  []string{"ai training", "machine learning", "model improvement"},
	},
	{
		category: CategoryDataSharing,
		phrases:  []string{"third party", "partners", "sell data", "share your data"},
	},
	{
		category: CategoryTracking,
		phrases:  []string{"tracking", "cookies", "analytics"},
	},
	{
		category: CategoryBiometric,
		phrases:  []string{"biometric", "face recognition", "fingerprint"},
	},
}

// Result holds the outcome of a scan
type Result struct {
	// Categories lists detected categories in table order
	Categories []Category `json:"categories"`
	// Matches lists every matched phrase per detected category
	Matches map[Category][]string `json:"matches"`
}

// Tags returns the detected categories as plain strings
func (r Result) Tags() []string {
	tags := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		tags = append(tags, c.String())
	}

	return tags
}

// MatchesByTag returns the matched phrases keyed by category tag
func (r Result) MatchesByTag() map[string][]string {
	out := make(map[string][]string, len(r.Matches))
	for c, phrases := range r.Matches {
		out[c.String()] = phrases
	}

	return out
}

// Categories returns the full closed category set in table order
func Categories() []Category {
	out := make([]Category, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.category)
	}

	return out
}

// Phrases returns a copy of the trigger phrases for a category
func Phrases(c Category) []string {
	for _, r := range rules {
		if r.category == c {
			return append([]string(nil), r.phrases...)
		}
	}

	return nil
}

// Scan detects risk categories by case-insensitive phrase containment.
// Substring overlap false positives (e.g. "partners" in unrelated prose) are
// accepted; the table stays small and auditable.
func Scan(text string) Result {
	result := Result{
		Categories: []Category{},
		Matches:    map[Category][]string{},
	}

	if strings.TrimSpace(text) == "" {
		return result
	}

	content := strings.ToLower(text)

	for _, r := range rules {
		var detected []string

		for _, phrase := range r.phrases {
			if strings.Contains(content, phrase) {
				detected = append(detected, phrase)
			}
		}

		if len(detected) > 0 {
			result.Categories = append(result.Categories, r.category)
			result.Matches[r.category] = detected
		}
	}

	return result
}

// SeverityFor maps a category count to a severity tier
func SeverityFor(count int) types.Severity {
	switch {
	case count >= 3:
		return types.SeverityDanger
	case count > 0:
		return types.SeverityWarning
	default:
		return types.SeveritySafe
	}
}
