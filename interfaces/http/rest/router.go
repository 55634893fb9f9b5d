package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	querybus "statdash/application/queries/bus"
	"statdash/infrastructure/config"
	"statdash/interfaces/http/rest/handlers"
	"statdash/interfaces/http/rest/middleware"
	"statdash/pkg/auth"
	apperrors "statdash/pkg/errors"
	"statdash/pkg/observability"
)

// Dependencies are the collaborators of the HTTP layer.
// Collector, Tracer, Validator and Limiter are optional.
type Dependencies struct {
	QueryBus     *querybus.QueryBus
	Tester       handlers.ConnectionTester
	ErrorHandler *apperrors.ErrorHandler
	Collector    *observability.Collector
	Tracer       *observability.Tracer
	Validator    *auth.JWTValidator
	Limiter      auth.RateLimiter
	Config       *config.Config
	Logger       *zap.Logger
	Version      string
}

// Router creates and configures the HTTP router
type Router struct {
	deps Dependencies
}

// NewRouter creates a new router instance
func NewRouter(deps Dependencies) *Router {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.ErrorHandler == nil {
		deps.ErrorHandler = apperrors.NewErrorHandler(deps.Logger, false)
	}
	return &Router{deps: deps}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	d := rt.deps
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	if d.Tracer != nil {
		router.Use(d.Tracer.Middleware)
	}
	router.Use(middleware.Logger(d.Logger))
	if d.Collector != nil {
		router.Use(middleware.Metrics(d.Collector))
	}
	router.Use(d.ErrorHandler.Middleware)
	router.Use(rt.versionMiddleware)

	if d.Config == nil || d.Config.EnableCORS {
		router.Use(cors.Handler(rt.corsOptions()))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		d.ErrorHandler.HandleStatus(w, r, http.StatusNotFound, fmt.Sprintf("route not found: %s", r.URL.Path))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		d.ErrorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	})

	healthHandler := handlers.NewHealthHandler(d.Tester, d.Version, d.Logger)
	router.Get("/", healthHandler.Root)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)
	if d.Collector != nil {
		router.Method(http.MethodGet, "/metrics", d.Collector.Handler())
	}

	router.Route("/api/dashboard", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(middleware.RateLimit(d.Limiter, d.ErrorHandler, d.Logger))
		}
		if d.Validator != nil {
			r.Use(middleware.Authenticate(d.Validator, d.ErrorHandler, d.Logger))
		}

		dashboardHandler := handlers.NewDashboardHandler(d.QueryBus, d.ErrorHandler, d.Logger)
		r.Get("/", dashboardHandler.GetReport)
		r.Get("/space-stats", dashboardHandler.GetSpaceStats)
		r.Route("/structure/{structureID}", func(r chi.Router) {
			r.Get("/", dashboardHandler.GetStructure)
			r.Get("/numeric-properties", dashboardHandler.GetNumericProperties)
			r.Get("/references", dashboardHandler.GetReferences)
			r.Get("/temporal", dashboardHandler.GetTemporal)
		})
		r.Get("/compare", dashboardHandler.Compare)
		r.Get("/collections", dashboardHandler.GetCollections)
		r.Get("/search", dashboardHandler.Search)
	})

	return router
}

func (rt *Router) corsOptions() cors.Options {
	origins := []string{"*"}
	if rt.deps.Config != nil && len(rt.deps.Config.AllowedOrigins) > 0 {
		origins = rt.deps.Config.AllowedOrigins
	}

	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}

// versionMiddleware adds the API version header to all responses
func (rt *Router) versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.deps.Version != "" {
			w.Header().Set("X-API-Version", rt.deps.Version)
		}
		next.ServeHTTP(w, r)
	})
}
