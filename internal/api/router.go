package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/theopenlane/echoaudit/internal/auditor"
	"github.com/theopenlane/echoaudit/internal/events"
	"github.com/theopenlane/echoaudit/internal/extract"

	// Import generated docs
	_ "github.com/theopenlane/echoaudit/docs"
)

// compressionLevel is the gzip level for JSON responses
const compressionLevel = 5

// RouterConfig holds the dependencies for the API router
type RouterConfig struct {
	// Auditor runs audits and owns the baseline store
	Auditor *auditor.Auditor
	// Bus carries trigger and completion events; nil disables triggers and streaming
	Bus *events.Bus
	// Relay serves page agents; nil disables the agent endpoints
	Relay *extract.Relay
	// Gatherer is exposed on /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
	// MaxBodySize caps request bodies in bytes
	MaxBodySize int64
	// AuditTimeout bounds a single audit
	AuditTimeout time.Duration
}

// NewRouter creates a new chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Auditor == nil {
		cfg.Auditor = auditor.New()
	}

	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	h := &Handler{
		auditor:      cfg.Auditor,
		bus:          cfg.Bus,
		relay:        cfg.Relay,
		maxBodySize:  cfg.MaxBodySize,
		auditTimeout: cfg.AuditTimeout,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// page agents run inside browser pages on other origins
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Compress(compressionLevel))

			r.Get("/health", h.handleHealth)
			r.Get("/risks", h.handleRisks)
			r.Post("/audit", h.handleAudit)
			r.Post("/audit/trigger", h.handleTrigger)
			r.Get("/baselines/{site}", h.handleGetBaseline)
			r.Put("/baselines/{site}", h.handlePutBaseline)
			r.Get("/agent/requests", h.handleAgentRequests)
			r.Post("/agent/responses", h.handleAgentResponse)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Redirect root to swagger docs
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusFound)
	})

	return r
}
