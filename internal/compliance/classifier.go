package compliance

import "regexp"

// PageKind is the classification of a policy page
type PageKind string

const (
	// KindTermsOfService identifies terms of service pages
	KindTermsOfService PageKind = "terms_of_service"
	// KindPrivacyPolicy identifies privacy policy pages
	KindPrivacyPolicy PageKind = "privacy_policy"
	// KindCookiePolicy identifies cookie policy pages
	KindCookiePolicy PageKind = "cookie_policy"
)

// classificationRule defines regex patterns for a single page kind
type classificationRule struct {
	kind          PageKind
	urlPatterns   []*regexp.Regexp
	titlePatterns []*regexp.Regexp
	bodyPatterns  []*regexp.Regexp
}

// classificationRules is ordered by audit preference; first match wins within a pass
var classificationRules = []classificationRule{
	{
		kind: KindTermsOfService,
		urlPatterns: compileAll(
			`(?i)/(terms|tos)(\.html?)?(/|$|\?)`,
			`(?i)/terms-(of-(service|use)|and-conditions|conditions)`,
			`(?i)/(legal/)?(user-agreement|eula)`,
			`(?i)/legal/terms`,
		),
		titlePatterns: compileAll(
			`(?i)terms\s+(of\s+service|of\s+use|&\s+conditions|and\s+conditions)`,
			`(?i)user\s+agreement`,
		),
		bodyPatterns: compileAll(
			`(?i)(binding\s+agreement|user\s+agreement|these\s+terms\s+govern)`,
			`(?i)by\s+(using|accessing).{0,40}you\s+agree`,
		),
	},
	{
		kind: KindPrivacyPolicy,
		urlPatterns: compileAll(
			`(?i)/privac(y|y-policy|y-notice)`,
			`(?i)/legal/privac`,
			`(?i)/data-protection`,
		),
		titlePatterns: compileAll(
			`(?i)privacy\s+(policy|notice|statement)`,
			`(?i)data\s+protection\s+(policy|notice)`,
		),
		bodyPatterns: compileAll(
			`(?i)personal\s+(data|information).{0,80}collect`,
			`(?i)we\s+collect\s+.{0,40}(personal|information)`,
			`(?i)this\s+privacy\s+(policy|notice)`,
		),
	},
	{
		kind: KindCookiePolicy,
		urlPatterns: compileAll(
			`(?i)/(cookie-?policy|cookies)(/|$)`,
		),
		titlePatterns: compileAll(
			`(?i)cookie\s+(policy|notice|statement)`,
		),
		bodyPatterns: compileAll(
			`(?i)we\s+use\s+cookies`,
			`(?i)strictly\s+necessary\s+cookies`,
		),
	},
}

// ClassifyPage determines the page kind from URL, title and body text.
// URL patterns are checked across all rules first, then titles, then bodies,
// so a URL match always beats a body match from a preferred kind
func ClassifyPage(pageURL, title, body string) PageKind {
	for _, rule := range classificationRules {
		if matchesAny(rule.urlPatterns, pageURL) {
			return rule.kind
		}
	}

	for _, rule := range classificationRules {
		if matchesAny(rule.titlePatterns, title) {
			return rule.kind
		}
	}

	for _, rule := range classificationRules {
		if matchesAny(rule.bodyPatterns, body) {
			return rule.kind
		}
	}

	return ""
}

// Rank orders kinds by audit preference; lower is better, unknown kinds rank last
func Rank(kind PageKind) int {
	for i, rule := range classificationRules {
		if rule.kind == kind {
			return i
		}
	}

	return len(classificationRules)
}

// compileAll compiles multiple regex patterns, panicking on invalid patterns
func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}

	return compiled
}

// matchesAny returns true if the input matches any of the compiled patterns
func matchesAny(patterns []*regexp.Regexp, input string) bool {
	for _, p := range patterns {
		if p.MatchString(input) {
			return true
		}
	}

	return false
}
