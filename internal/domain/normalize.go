package domain

import (
	"net/url"
	"strings"
)

// wwwPrefix is the label removed from hostnames when deriving a site identifier
const wwwPrefix = "www."

// webSchemes lists the URL schemes eligible for auditing
var webSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
}

// Normalize derives the site identifier for a page address. Only http and
// https addresses qualify; anything else, including malformed input, returns
// false and the caller skips the audit.
func Normalize(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	if _, ok := webSchemes[strings.ToLower(u.Scheme)]; !ok {
		return "", false
	}

	host := stripWWW(strings.ToLower(u.Hostname()))
	if host == "" {
		return "", false
	}

	return host, true
}

// stripWWW removes a single leading www. label
func stripWWW(host string) string {
	return strings.TrimPrefix(host, wwwPrefix)
}
