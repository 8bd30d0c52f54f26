package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/echoaudit/config"
	"github.com/theopenlane/echoaudit/internal/auditor"
	"github.com/theopenlane/echoaudit/internal/baseline"
	"github.com/theopenlane/echoaudit/internal/cloudflare"
	"github.com/theopenlane/echoaudit/internal/compare"
	"github.com/theopenlane/echoaudit/internal/compliance"
	"github.com/theopenlane/echoaudit/internal/domain"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"
	"github.com/theopenlane/echoaudit/internal/kafka"
	"github.com/theopenlane/echoaudit/internal/metrics"
	"github.com/theopenlane/echoaudit/internal/openai"
	"github.com/theopenlane/echoaudit/internal/slack"
	"github.com/theopenlane/echoaudit/internal/summarize"
	"github.com/theopenlane/echoaudit/internal/types"
)

// services holds the wired components shared by the commands
type services struct {
	cfg      *config.Config
	store    *baseline.Store
	bus      *events.Bus
	relay    *extract.Relay
	auditor  *auditor.Auditor
	registry *prometheus.Registry
	closers  []func()
}

// Close releases every component in reverse setup order
func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// loadConfig reads the configuration named by the --config flag
func loadConfig() (*config.Config, error) {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	return cfg, nil
}

// setupServices wires the audit pipeline from config
func setupServices(ctx context.Context, cfg *config.Config) (*services, error) {
	s := &services{
		cfg:      cfg,
		bus:      events.NewBus(),
		registry: prometheus.NewRegistry(),
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	policy, err := compare.ParsePolicy(cfg.Audit.FirstRunPolicy)
	if err != nil {
		return nil, err
	}

	store, err := setupStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("setting up baseline store: %w", err)
	}

	s.store = store
	s.closers = append(s.closers, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close baseline store")
		}
	})

	cfClient := setupCloudflare(cfg)

	remote, closeRemote, err := setupRemoteExtractor(cfg, cfClient)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up extractor: %w", err)
	}

	if closeRemote != nil {
		s.closers = append(s.closers, closeRemote)
	}

	bus := s.bus
	s.relay = extract.NewRelay(
		extract.WithRelayTimeout(cfg.Extractor.RelayTimeout),
		extract.WithRelayNotify(func(req extract.Request) {
			bus.Publish(context.Background(), events.ExtractPageText{RequestID: req.ID, TabID: req.TabID, URL: req.URL})
		}),
	)

	s.auditor = auditor.New(
		auditor.WithStore(store),
		auditor.WithExtractor(extract.NewChain(extract.WithRelay(s.relay), extract.WithRemote(remote))),
		auditor.WithFirstRunPolicy(policy),
		auditor.WithSummarizer(setupSummarizer(cfg)),
		auditor.WithBus(s.bus),
		auditor.WithMetrics(metrics.New(s.registry)),
		auditor.WithLocator(setupLocator(cfg, cfClient)),
		auditor.WithBatchLimit(cfg.Audit.BatchLimit),
	)

	return s, nil
}

// setupNotifiers subscribes the Slack and Kafka sinks to the bus
func (s *services) setupNotifiers() error {
	if slackClient := setupSlack(s.cfg); slackClient != nil {
		s.closers = append(s.closers, s.bus.Subscribe(slackClient.Notify))
	}

	sink, err := setupKafka(s.cfg)
	if err != nil {
		return fmt.Errorf("setting up kafka: %w", err)
	}

	if sink != nil {
		s.closers = append(s.closers, sink.Close, s.bus.Subscribe(sink.Handle))
	}

	return nil
}

// setupStore opens the configured baseline backend
func setupStore(ctx context.Context, cfg *config.Config) (*baseline.Store, error) {
	backend, err := baseline.Open(ctx, baseline.Options{
		Driver: baseline.Driver(cfg.Baseline.Driver),
		DSN:    cfg.Baseline.DSN,
		Dir:    cfg.Baseline.Dir,
	})
	if err != nil {
		return nil, err
	}

	store := baseline.NewStore(backend, baseline.WithCatalog(cfg.Baseline.Catalog, cfg.Baseline.CatalogDir))

	log.Info().Str("driver", cfg.Baseline.Driver).Int("catalog_entries", store.Catalog().Len()).Msg("baseline store configured")

	return store, nil
}

// setupRemoteExtractor builds the extractor for pages known only by address
func setupRemoteExtractor(cfg *config.Config, cf *cloudflare.Client) (extract.Extractor, func(), error) {
	mode, err := extract.ParseMode(cfg.Extractor.Mode)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("mode", string(mode)).Msg("page extractor configured")

	switch mode {
	case extract.ModeChrome:
		chrome := extract.NewChrome(
			extract.WithChromeTimeout(cfg.Extractor.Timeout),
			extract.WithChromeUserAgent(cfg.Extractor.UserAgent),
			extract.WithChromePath(cfg.Extractor.ChromePath),
		)

		return chrome, func() { _ = chrome.Close() }, nil
	case extract.ModeCloudflare:
		if cf == nil {
			return nil, nil, ErrCloudflareNotConfigured
		}

		return extract.NewRendered(cf), nil, nil
	default:
		return extract.NewFetcher(extract.WithFetchHTTPClient(&http.Client{Timeout: cfg.Extractor.Timeout})), nil, nil
	}
}

// setupCloudflare initializes the Cloudflare client from config, returning nil when unconfigured
func setupCloudflare(cfg *config.Config) *cloudflare.Client {
	if cfg.Cloudflare.AccountID == "" || cfg.Cloudflare.APIToken == "" {
		log.Info().Msg("cloudflare browser rendering not configured, skipping")
		return nil
	}

	client, err := cloudflare.New(
		cfg.Cloudflare.AccountID,
		cfg.Cloudflare.APIToken,
		cloudflare.WithHTTPClient(&http.Client{Timeout: cfg.Cloudflare.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize cloudflare client")
		return nil
	}

	log.Info().Msg("cloudflare browser rendering configured")

	return client
}

// setupSummarizer puts the OpenAI strategy ahead of the heuristic when a key is configured
func setupSummarizer(cfg *config.Config) *summarize.Summarizer {
	if cfg.Summarizer.OpenAIAPIKey == "" {
		log.Info().Msg("openai summaries not configured, using heuristic summaries")
		return summarize.New()
	}

	strategy, err := summarize.NewOpenAIFromKey(
		cfg.Summarizer.OpenAIAPIKey,
		openai.WithModel(cfg.Summarizer.Model),
		openai.WithBaseURL(cfg.Summarizer.BaseURL),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Summarizer.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize openai summaries, using heuristic summaries")
		return summarize.New()
	}

	summarizer := summarize.New(strategy)

	log.Info().Str("model", cfg.Summarizer.Model).Strs("strategies", summarizer.Strategies()).Msg("openai summaries configured")

	return summarizer
}

// setupLocator initializes terms page discovery, returning nil when disabled
func setupLocator(cfg *config.Config, cf *cloudflare.Client) auditor.Locator {
	if !cfg.Locator.Enabled {
		return nil
	}

	opts := []compliance.Option{
		compliance.WithFetchTimeout(cfg.Locator.FetchTimeout),
		compliance.WithMaxTargets(cfg.Locator.MaxTargets),
		compliance.WithFetchThreads(cfg.Locator.Threads),
		compliance.WithSubdomains(cfg.Locator.Subdomains),
	}

	if cf != nil {
		opts = append(opts, compliance.WithLinkSource(cf))
	}

	log.Info().Msg("terms page locator configured")

	return compliance.NewLocator(opts...)
}

// setupSlack initializes the Slack webhook client from config, returning nil when unconfigured
func setupSlack(cfg *config.Config) *slack.Client {
	if cfg.Slack.WebhookURL == "" {
		log.Info().Msg("slack notifications not configured, skipping")
		return nil
	}

	client, err := slack.New(
		cfg.Slack.WebhookURL,
		slack.WithHTTPClient(&http.Client{Timeout: cfg.Slack.RequestTimeout}),
		slack.WithMinSeverity(types.Severity(cfg.Slack.MinSeverity)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize slack client")
		return nil
	}

	log.Info().Str("min_severity", cfg.Slack.MinSeverity).Msg("slack notifications configured")

	return client
}

// setupKafka initializes the audit event producer, returning nil when no brokers are configured
func setupKafka(cfg *config.Config) (*kafka.Sink, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info().Msg("kafka streaming not configured, skipping")
		return nil, nil
	}

	sink, err := kafka.NewSink(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		kafka.WithClientID(cfg.Kafka.ClientID),
		kafka.WithProduceTimeout(cfg.Kafka.ProduceTimeout),
	)
	if err != nil {
		return nil, err
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka streaming configured")

	return sink, nil
}

// siteArg normalizes a site given on the command line as a hostname or address
func siteArg(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	siteID, ok := domain.Normalize(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSite, raw)
	}

	return siteID, nil
}
