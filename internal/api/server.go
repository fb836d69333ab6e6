package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Processor   QueryProcessor // Required: query pipeline
	Graph       *cmdb.Graph    // Required: CMDB endpoints
	Registry    *itsm.Registry // Required: ITSM endpoints
	CORSOrigins []string       // Allowed origins for CORS
	IsDev       bool           // Disables HSTS (no HTTPS locally)
	TrustProxy  bool           // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst   int            // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Processor == nil {
		return nil, errors.New("query processor is required")
	}
	if cfg.Graph == nil || cfg.Registry == nil {
		return nil, errors.New("cmdb graph and itsm registry are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	qh := &queryHandler{processor: cfg.Processor, logger: logger}
	ch := &cmdbHandler{graph: cfg.Graph, logger: logger}
	ih := &itsmHandler{registry: cfg.Registry, logger: logger}

	mux := http.NewServeMux()

	// Query pipeline
	mux.HandleFunc("POST /api/v1/query", qh.query)

	// CMDB
	mux.HandleFunc("GET /api/v1/enterprise/cmdb/all", ch.listCIs)
	mux.HandleFunc("POST /api/v1/enterprise/cmdb/search", ch.searchCIs)
	mux.HandleFunc("GET /api/v1/enterprise/cmdb/ci/{id}", ch.getCI)
	mux.HandleFunc("GET /api/v1/enterprise/cmdb/ci/{id}/dependencies", ch.dependencies)
	mux.HandleFunc("GET /api/v1/enterprise/cmdb/ci/{id}/dependents", ch.dependents)
	mux.HandleFunc("GET /api/v1/enterprise/cmdb/ci/{id}/impact", ch.impact)

	// ITSM
	mux.HandleFunc("GET /api/v1/enterprise/itsm/incident/{id}", ih.getIncident)
	mux.HandleFunc("POST /api/v1/enterprise/itsm/incidents/search", ih.searchIncidents)
	mux.HandleFunc("GET /api/v1/enterprise/itsm/incidents/open", ih.openIncidents)
	mux.HandleFunc("GET /api/v1/enterprise/itsm/change/{id}", ih.getChange)
	mux.HandleFunc("POST /api/v1/enterprise/itsm/changes/search", ih.searchChanges)
	mux.HandleFunc("GET /api/v1/enterprise/itsm/changes/upcoming", ih.upcomingChanges)
	mux.HandleFunc("GET /api/v1/enterprise/itsm/ci/{id}/incidents", ih.incidentsForCI)
	mux.HandleFunc("GET /api/v1/enterprise/itsm/ci/{id}/changes", ih.changesForCI)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes. CORS must be before RateLimit so preflight OPTIONS gets
	// proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	isDev := cfg.IsDev
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w, isDev)
		handler.ServeHTTP(w, r)
	})

	// Top-level mux separates health probes from the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.Handle("GET /ready", readiness(cfg.Processor, logger))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
