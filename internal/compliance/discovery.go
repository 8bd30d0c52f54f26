package compliance

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/projectdiscovery/httpx/common/httpx"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/theopenlane/echoaudit/internal/extract"
)

const (
	// defaultFetchTimeout is the per-request timeout for httpx fetching
	defaultFetchTimeout = 5 * time.Second
	// defaultMaxTargets caps the number of URLs to fetch
	defaultMaxTargets = 30
	// defaultFetchThreads controls concurrent fetch workers
	defaultFetchThreads = 8
	// defaultMaxRedirects is the maximum redirect hops during fetching
	defaultMaxRedirects = 5
	// defaultMaxResponseBodySize is the maximum response body bytes to read (512KB)
	defaultMaxResponseBodySize = 512 * 1024
	// bodyClassifyLimit limits text scanned for body classification (32KB)
	bodyClassifyLimit = 32 * 1024
	// dnsResolveTimeout is the per-lookup timeout for subdomain DNS resolution
	dnsResolveTimeout = 2 * time.Second
	// httpSuccessStatus is the HTTP status code indicating a successful response
	httpSuccessStatus = 200
	// userAgent identifies the locator
	userAgent = "Mozilla/5.0 (compatible; EchoAudit/1.0)"
)

// policyLinkFilter matches hrefs or anchor text likely to lead to a policy page
var policyLinkFilter = regexp.MustCompile(
	`(?i)(terms|tos(/|$)|conditions|user.?agreement|eula|legal|privac|cookie|policies)`,
)

// supplementarySubdomains are well-known subdomains that host policies
var supplementarySubdomains = []string{
	"legal",
	"terms",
	"policies",
	"privacy",
}

// supplementaryPaths are guessed policy paths fetched alongside homepage links
var supplementaryPaths = []string{
	"/terms",
	"/terms-of-service",
	"/terms-of-use",
	"/terms-and-conditions",
	"/tos",
	"/legal/terms",
	"/legal/terms-of-service",
	"/legal",
	"/privacy",
	"/privacy-policy",
	"/legal/privacy",
	"/cookie-policy",
}

// Page is a fetched and classified policy page
type Page struct {
	// URL is the final resolved URL after redirects
	URL string `json:"url"`
	// Title is the page title
	Title string `json:"title,omitempty"`
	// Kind is the classification
	Kind PageKind `json:"kind"`
	// Linked reports whether the site links to the page rather than it being guessed
	Linked bool `json:"linked"`

	order int
}

// LinkSource lists the links of a rendered page, for sites whose footers are built by scripts
type LinkSource interface {
	RenderLinks(ctx context.Context, pageURL string) ([]string, error)
}

// Options configures policy page discovery
type Options struct {
	fetchTimeout        time.Duration
	maxTargets          int
	fetchThreads        int
	maxRedirects        int
	maxResponseBodySize int64
	links               LinkSource
	resolveSubdomains   bool
}

// Option is a functional option for configuring discovery
type Option func(*Options)

// WithFetchTimeout sets the per-request fetch timeout
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithMaxTargets sets the maximum number of URLs to fetch
func WithMaxTargets(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxTargets = n
		}
	}
}

// WithFetchThreads sets the concurrent fetch worker count
func WithFetchThreads(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.fetchThreads = n
		}
	}
}

// WithLinkSource sets a rendered link source used when the served homepage has no policy links
func WithLinkSource(src LinkSource) Option {
	return func(o *Options) {
		if src != nil {
			o.links = src
		}
	}
}

// WithSubdomains toggles fetching of well-known policy subdomains
func WithSubdomains(enabled bool) Option {
	return func(o *Options) {
		o.resolveSubdomains = enabled
	}
}

// Locator finds the terms of service page of a site using projectdiscovery/httpx
type Locator struct {
	options *Options
}

// NewLocator creates a locator with the given options
func NewLocator(opts ...Option) *Locator {
	o := &Options{
		fetchTimeout:        defaultFetchTimeout,
		maxTargets:          defaultMaxTargets,
		fetchThreads:        defaultFetchThreads,
		maxRedirects:        defaultMaxRedirects,
		maxResponseBodySize: defaultMaxResponseBodySize,
		resolveSubdomains:   true,
	}

	for _, opt := range opts {
		opt(o)
	}

	return &Locator{options: o}
}

// Locate returns the URL of the preferred policy page for domain
func (l *Locator) Locate(ctx context.Context, domain string) (string, error) {
	pages, err := l.Discover(ctx, domain)
	if err != nil {
		return "", err
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoPolicyPage, domain)
	}

	return pages[0].URL, nil
}

// Discover fetches homepage links, guessed paths and policy subdomains and
// returns the classified pages, best candidate first
func (l *Locator) Discover(ctx context.Context, domain string) ([]Page, error) {
	if domain == "" || strings.ContainsAny(domain, "/ ") {
		return nil, ErrInvalidDomain
	}

	client, err := l.newHTTPXClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientInit, err)
	}

	var subCh <-chan []string
	if l.options.resolveSubdomains {
		subCh = lo.Async(func() []string {
			return buildSubdomainTargets(ctx, domain)
		})
	}

	homepageLinks := l.homepageLinks(ctx, client, domain)

	var subTargets []string
	if subCh != nil {
		subTargets = <-subCh
	}

	linked := lo.SliceToMap(homepageLinks, func(link string) (string, struct{}) {
		return link, struct{}{}
	})

	targets := buildTargets(homepageLinks, subTargets, domain)
	if len(targets) > l.options.maxTargets {
		targets = targets[:l.options.maxTargets]
	}

	log.Debug().Str("domain", domain).Int("homepage_links", len(homepageLinks)).Int("fetch_targets", len(targets)).Msg("policy fetch target list built")

	pages := l.fetchAndClassify(ctx, client, targets, linked)
	sortPages(pages)

	log.Debug().Str("domain", domain).Int("policy_pages", len(pages)).Msg("policy page discovery complete")

	return pages, nil
}

// newHTTPXClient creates a configured httpx client
func (l *Locator) newHTTPXClient() (*httpx.HTTPX, error) {
	return httpx.New(&httpx.Options{
		Timeout:                   l.options.fetchTimeout,
		FollowRedirects:           true,
		MaxRedirects:              l.options.maxRedirects,
		MaxResponseBodySizeToRead: l.options.maxResponseBodySize,
		DefaultUserAgent:          userAgent,
	})
}

// homepageLinks returns policy links from the served homepage, falling back
// to the rendered link source when the served markup has none
func (l *Locator) homepageLinks(ctx context.Context, client *httpx.HTTPX, domain string) []string {
	homepageURL := fmt.Sprintf("https://%s", domain)

	var links []string

	req, err := client.NewRequestWithContext(ctx, "GET", homepageURL)
	if err == nil {
		resp, doErr := client.Do(req, httpx.UnsafeOptions{})

		switch {
		case doErr != nil:
			log.Warn().Err(doErr).Str("domain", domain).Msg("homepage fetch failed")
		case resp.StatusCode != httpSuccessStatus:
			log.Warn().Str("domain", domain).Int("status", resp.StatusCode).Msg("homepage returned non-200 status")
		default:
			links = extractLinksFromHTML(string(resp.Data), domain)
		}
	}

	if len(links) > 0 || l.options.links == nil {
		return links
	}

	rendered, err := l.options.links.RenderLinks(ctx, homepageURL)
	if err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("rendered link lookup failed")
		return nil
	}

	return filterPolicyLinks(rendered, domain)
}

// fetchAndClassify fetches every target concurrently and keeps the policy pages
func (l *Locator) fetchAndClassify(ctx context.Context, client *httpx.HTTPX, targets []string, linked map[string]struct{}) []Page {
	var (
		mu    sync.Mutex
		seen  = make(map[string]struct{})
		pages []Page
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.options.fetchThreads)

	for i, target := range targets {
		g.Go(func() error {
			page, ok := fetchPage(gctx, client, target)
			if !ok {
				return nil
			}

			_, page.Linked = linked[target]
			page.order = i

			mu.Lock()
			defer mu.Unlock()

			if _, dup := seen[page.URL]; !dup {
				seen[page.URL] = struct{}{}
				pages = append(pages, page)
			}

			return nil
		})
	}

	_ = g.Wait()

	return pages
}

// fetchPage fetches one target and classifies it
func fetchPage(ctx context.Context, client *httpx.HTTPX, target string) (Page, bool) {
	req, err := client.NewRequestWithContext(ctx, "GET", target)
	if err != nil {
		return Page{}, false
	}

	resp, err := client.Do(req, httpx.UnsafeOptions{})
	if err != nil || resp.StatusCode != httpSuccessStatus {
		return Page{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Data)))
	if err != nil {
		return Page{}, false
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	text := extract.Clean(doc)
	if len(text) > bodyClassifyLimit {
		text = text[:bodyClassifyLimit]
	}

	kind := ClassifyPage(target, title, text)
	if kind == "" {
		return Page{}, false
	}

	finalURL := target
	if resp.HasChain() {
		if last := resp.GetChainLastURL(); last != "" {
			finalURL = last
		}
	}

	return Page{URL: finalURL, Title: title, Kind: kind}, true
}

// sortPages orders by kind preference, then linked pages, then fetch order
func sortPages(pages []Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		if ri, rj := Rank(pages[i].Kind), Rank(pages[j].Kind); ri != rj {
			return ri < rj
		}

		if pages[i].Linked != pages[j].Linked {
			return pages[i].Linked
		}

		return pages[i].order < pages[j].order
	})
}

// extractLinksFromHTML returns same-site policy links whose href or anchor text looks like a policy
func extractLinksFromHTML(body, domain string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})

	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") || strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return
		}

		if !policyLinkFilter.MatchString(href) && !policyLinkFilter.MatchString(a.Text()) {
			return
		}

		normalized := NormalizeURL(href, domain)
		if _, ok := seen[normalized]; ok || !isSameDomain(normalized, domain) {
			return
		}

		seen[normalized] = struct{}{}
		links = append(links, normalized)
	})

	return links
}

// filterPolicyLinks keeps same-site links that look like policies
func filterPolicyLinks(links []string, domain string) []string {
	return lo.Uniq(lo.FilterMap(links, func(link string, _ int) (string, bool) {
		normalized := NormalizeURL(link, domain)
		return normalized, policyLinkFilter.MatchString(link) && isSameDomain(normalized, domain)
	}))
}

// buildSubdomainTargets resolves well-known policy subdomains and returns
// fetch URLs only for those that exist
func buildSubdomainTargets(ctx context.Context, domain string) []string {
	fqdns := lo.Map(supplementarySubdomains, func(sub string, _ int) string {
		return fmt.Sprintf("%s.%s", sub, domain)
	})

	live := resolveHosts(ctx, fqdns)

	return lo.Map(live, func(fqdn string, _ int) string {
		return fmt.Sprintf("https://%s", fqdn)
	})
}

// resolveHosts performs concurrent DNS lookups and returns the hosts that resolve
func resolveHosts(ctx context.Context, fqdns []string) []string {
	var (
		mu   sync.Mutex
		live []string
		wg   sync.WaitGroup
	)

	for _, fqdn := range fqdns {
		wg.Add(1)

		go func(host string) {
			defer wg.Done()

			dnsCtx, cancel := context.WithTimeout(ctx, dnsResolveTimeout)
			defer cancel()

			addrs, err := net.DefaultResolver.LookupHost(dnsCtx, host)
			if err != nil || len(addrs) == 0 {
				return
			}

			mu.Lock()
			live = append(live, host)
			mu.Unlock()
		}(fqdn)
	}

	wg.Wait()

	return live
}

// buildTargets returns fetch URLs: homepage links first, then guessed paths, then subdomains
func buildTargets(homepageLinks, subdomainTargets []string, domain string) []string {
	seen := make(map[string]struct{})

	var targets []string

	add := func(raw string) {
		normalized := NormalizeURL(raw, domain)
		if _, ok := seen[normalized]; !ok {
			seen[normalized] = struct{}{}
			targets = append(targets, normalized)
		}
	}

	lo.ForEach(homepageLinks, func(link string, _ int) { add(link) })
	lo.ForEach(supplementaryPaths, func(path string, _ int) { add(path) })
	lo.ForEach(subdomainTargets, func(target string, _ int) { add(target) })

	return targets
}

// NormalizeURL resolves a potentially relative URL against the domain
func NormalizeURL(rawURL, domain string) string {
	rawURL = strings.TrimSpace(rawURL)

	if strings.HasPrefix(rawURL, "//") {
		return "https:" + rawURL
	}

	if strings.HasPrefix(rawURL, "/") {
		return fmt.Sprintf("https://%s%s", domain, rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return fmt.Sprintf("https://%s/%s", domain, strings.TrimPrefix(rawURL, "/"))
	}

	return rawURL
}

// isSameDomain checks whether a URL belongs to the given domain or one of its subdomains
func isSameDomain(rawURL, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())

	return host == domain || strings.HasSuffix(host, "."+domain)
}
