package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/config"
	"github.com/paddockvision/paddock-backend/internal/transport/middleware"
)

// DBPinger checks database reachability for health endpoints.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks cache reachability for health endpoints.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// TokenValidator verifies a bearer token and returns the user id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// RouterDeps bundles everything the HTTP surface needs. DB and Validator
// may be nil: a nil DB reports degraded health, a nil Validator leaves all
// requests anonymous.
type RouterDeps struct {
	Logger     *slog.Logger
	Service    CorrectionService
	DB         DBPinger
	Cache      CachePinger
	Validator  TokenValidator
	CORS       config.CORSConfig
	APIVersion string

	// RateLimitPerMinute caps requests per client IP; 0 disables limiting.
	RateLimitPerMinute int
}

// NewRouter builds the HTTP surface: health probes plus the corrections API
// under /streams/{streamID}/chunks/{chunkID}/corrections, wrapped in the
// shared middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	health := NewHealthHandler(deps.DB, deps.Cache, deps.APIVersion)
	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)
	r.Get("/live", health.Live)

	corrections := NewCorrectionHandler(deps.Service, deps.Logger)
	r.Route("/streams/{streamID}/chunks/{chunkID}/corrections", func(r chi.Router) {
		r.Post("/", corrections.Submit)
		r.Get("/", corrections.History)
		r.Delete("/", corrections.Cancel)
		r.Get("/status", corrections.Status)
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORS),
	}
	if deps.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(5 * time.Minute)
		mws = append(mws, limiter.Limit(deps.RateLimitPerMinute))
	}
	if deps.Validator != nil {
		mws = append(mws, middleware.Auth(deps.Validator))
	}

	return middleware.Chain(mws...)(r)
}
