package domain

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Info contains parsed domain information
type Info struct {
	Domain    string `json:"domain"`
	SiteID    string `json:"site_id"`
	Subdomain string `json:"subdomain,omitempty"`
	TLD       string `json:"tld"`
	SLD       string `json:"sld"`
	// Registrable is the effective TLD plus one label
	Registrable string `json:"registrable"`
}

// Parse extracts domain information from a URL, host or site identifier
func Parse(input string) (*Info, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	// Remove protocol if present
	if strings.Contains(input, "://") {
		u, err := url.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidURLFormat, err)
		}

		input = u.Host
	}

	// Remove port if present
	if idx := strings.LastIndex(input, ":"); idx != -1 {
		input = input[:idx]
	}

	if input == "" || !strings.Contains(input, ".") {
		return nil, ErrInvalidDomainFormat
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomainFormat, err)
	}

	tld, _ := publicsuffix.PublicSuffix(input)
	sld := strings.TrimSuffix(etld1, "."+tld)

	subdomain := ""
	if etld1 != input {
		subdomain = strings.TrimSuffix(input, "."+etld1)
	}

	return &Info{
		Domain:      input,
		SiteID:      stripWWW(input),
		Subdomain:   subdomain,
		TLD:         tld,
		SLD:         sld,
		Registrable: etld1,
	}, nil
}
