package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
)

const (
	// envPrefix is the prefix for environment variable overrides
	envPrefix = "ECHOAUDIT_"
	// delimiter separates nested configuration keys
	delimiter = "."
)

// Config holds service configuration
type Config struct {
	// Server contains the HTTP server settings
	Server Server `json:"server" koanf:"server"`
	// Audit contains the audit pipeline settings
	Audit Audit `json:"audit" koanf:"audit"`
	// Baseline contains the baseline store settings
	Baseline Baseline `json:"baseline" koanf:"baseline"`
	// Extractor contains the page text extraction settings
	Extractor Extractor `json:"extractor" koanf:"extractor"`
	// Summarizer contains the language model summary settings
	Summarizer Summarizer `json:"summarizer" koanf:"summarizer"`
	// Cloudflare contains the Browser Rendering API settings
	Cloudflare Cloudflare `json:"cloudflare" koanf:"cloudflare"`
	// Slack contains the audit notification settings
	Slack Slack `json:"slack" koanf:"slack"`
	// Kafka contains the audit event streaming settings
	Kafka Kafka `json:"kafka" koanf:"kafka"`
	// Locator contains the terms page discovery settings
	Locator Locator `json:"locator" koanf:"locator"`
}

// Server holds the HTTP server settings
type Server struct {
	// Debug enables debug logging
	Debug bool `json:"debug" koanf:"debug" default:"false"`
	// Pretty enables human readable logging
	Pretty bool `json:"pretty" koanf:"pretty" default:"false"`
	// Listen is the address the server binds to
	Listen string `json:"listen" koanf:"listen" default:":8080"`
	// ReadTimeout bounds reading a request
	ReadTimeout time.Duration `json:"readtimeout" koanf:"readtimeout" default:"30s"`
	// WriteTimeout bounds writing a response; event streams clear it
	WriteTimeout time.Duration `json:"writetimeout" koanf:"writetimeout" default:"180s"`
	// ShutdownGracePeriod is how long in-flight requests get on shutdown
	ShutdownGracePeriod time.Duration `json:"shutdowngraceperiod" koanf:"shutdowngraceperiod" default:"10s"`
	// MaxBodySize is the largest accepted request body in bytes
	MaxBodySize int64 `json:"maxbodysize" koanf:"maxbodysize" default:"5242880"`
}

// Audit holds the audit pipeline settings
type Audit struct {
	// FirstRunPolicy decides whether the first audit of a site reports a change: unchanged or changed
	FirstRunPolicy string `json:"firstrunpolicy" koanf:"firstrunpolicy" default:"unchanged"`
	// Timeout bounds a single synchronous audit
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"90s"`
	// BatchLimit is the number of concurrent audits in a batch
	BatchLimit int `json:"batchlimit" koanf:"batchlimit" default:"4"`
}

// Baseline holds the baseline store settings
type Baseline struct {
	// Driver selects the backend: memory, file, sqlite, postgres or redis
	Driver string `json:"driver" koanf:"driver" default:"sqlite"`
	// DSN is the connection string for sqlite, postgres and redis
	DSN string `json:"dsn" koanf:"dsn" default:"echoaudit.db" sensitive:"true"`
	// Dir is the directory used by the file driver
	Dir string `json:"dir" koanf:"dir" default:"./data/baselines"`
	// Catalog is the path of the site to baseline document table, empty disables it
	Catalog string `json:"catalog" koanf:"catalog" default:""`
	// CatalogDir holds the catalog documents, defaulting to the catalog's directory
	CatalogDir string `json:"catalogdir" koanf:"catalogdir" default:""`
}

// Extractor holds the page text extraction settings
type Extractor struct {
	// Mode selects how pages known only by address are read: fetch, chrome or cloudflare
	Mode string `json:"mode" koanf:"mode" default:"fetch"`
	// Timeout bounds a single page read
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"30s"`
	// UserAgent is sent by the headless browser
	UserAgent string `json:"useragent" koanf:"useragent" default:""`
	// ChromePath overrides the browser executable
	ChromePath string `json:"chromepath" koanf:"chromepath" default:""`
	// RelayTimeout is how long an audit waits for a page agent
	RelayTimeout time.Duration `json:"relaytimeout" koanf:"relaytimeout" default:"10s"`
}

// Summarizer holds the language model summary settings
type Summarizer struct {
	// OpenAIAPIKey enables model summaries; empty uses the heuristic only
	OpenAIAPIKey string `json:"openaiapikey" koanf:"openaiapikey" default:"" sensitive:"true"`
	// Model is the chat completions model
	Model string `json:"model" koanf:"model" default:"gpt-4o-mini"`
	// BaseURL overrides the API endpoint
	BaseURL string `json:"baseurl" koanf:"baseurl" default:"https://api.openai.com/v1"`
	// RequestTimeout bounds a completion request
	RequestTimeout time.Duration `json:"requesttimeout" koanf:"requesttimeout" default:"30s"`
}

// Cloudflare holds the Browser Rendering API settings
type Cloudflare struct {
	// AccountID is the Cloudflare account identifier
	AccountID string `json:"accountid" koanf:"accountid" default:""`
	// APIToken is the Cloudflare API token
	APIToken string `json:"apitoken" koanf:"apitoken" default:"" sensitive:"true"`
	// RequestTimeout bounds a rendering request
	RequestTimeout time.Duration `json:"requesttimeout" koanf:"requesttimeout" default:"60s"`
}

// Slack holds the audit notification settings
type Slack struct {
	// WebhookURL is the incoming webhook, empty disables notifications
	WebhookURL string `json:"webhookurl" koanf:"webhookurl" default:"" sensitive:"true"`
	// MinSeverity is the lowest severity that is posted: Safe, Warning or Danger
	MinSeverity string `json:"minseverity" koanf:"minseverity" default:"Warning"`
	// RequestTimeout bounds a webhook post
	RequestTimeout time.Duration `json:"requesttimeout" koanf:"requesttimeout" default:"10s"`
}

// Kafka holds the audit event streaming settings
type Kafka struct {
	// Brokers is the seed broker list, empty disables streaming
	Brokers []string `json:"brokers" koanf:"brokers"`
	// Topic receives completed and failed audit events
	Topic string `json:"topic" koanf:"topic" default:"echoaudit.audits"`
	// ClientID identifies the producer
	ClientID string `json:"clientid" koanf:"clientid" default:"echoaudit"`
	// ProduceTimeout bounds a single produce
	ProduceTimeout time.Duration `json:"producetimeout" koanf:"producetimeout" default:"10s"`
}

// Locator holds the terms page discovery settings
type Locator struct {
	// Enabled turns on terms page discovery for sites without a known page
	Enabled bool `json:"enabled" koanf:"enabled" default:"true"`
	// FetchTimeout bounds each fetch request
	FetchTimeout time.Duration `json:"fetchtimeout" koanf:"fetchtimeout" default:"10s"`
	// MaxTargets caps the number of fetched URLs
	MaxTargets int `json:"maxtargets" koanf:"maxtargets" default:"20"`
	// Threads is the number of concurrent fetches
	Threads int `json:"threads" koanf:"threads" default:"10"`
	// Subdomains also fetches well known legal subdomains
	Subdomains bool `json:"subdomains" koanf:"subdomains" default:"false"`
}

// New returns a configuration populated with defaults
func New() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)

	return cfg
}

// Load reads the defaults, then the YAML file at cfgFile when it exists, then
// ECHOAUDIT_ environment overrides such as ECHOAUDIT_SERVER_LISTEN
func Load(cfgFile *string) (*Config, error) {
	k := koanf.New(delimiter)
	cfg := New()

	if cfgFile != nil && *cfgFile != "" {
		_, err := os.Stat(*cfgFile)

		switch {
		case err == nil:
			if err := k.Load(file.Provider(*cfgFile), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, delimiter, envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	return cfg, nil
}

// envKey maps ECHOAUDIT_SERVER_LISTEN to server.listen; comma separated
// values become lists
func envKey(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", delimiter)

	if strings.Contains(value, ",") {
		return key, strings.Split(value, ",")
	}

	return key, value
}
