package routes

import (
	"net/http"

	"github.com/dormdeck/dormdeck-backend/internal/api/handlers"
	"github.com/dormdeck/dormdeck-backend/internal/api/middleware"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler   *handlers.SearchHandler
	sessionHandler  *handlers.SessionHandler
	providerHandler *handlers.ProviderHandler
	metricsHandler  *handlers.MetricsHandler
	exportHandler   *handlers.ExportHandler
	healthHandler   *handlers.HealthHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	sessionHandler *handlers.SessionHandler,
	providerHandler *handlers.ProviderHandler,
	metricsHandler *handlers.MetricsHandler,
	exportHandler *handlers.ExportHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:   searchHandler,
		sessionHandler:  sessionHandler,
		providerHandler: providerHandler,
		metricsHandler:  metricsHandler,
		exportHandler:   exportHandler,
		healthHandler:   handlers.NewHealthHandler(),

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Search endpoint
	r.mux.HandleFunc("POST /api/search", r.searchHandler.Search)

	// Session action endpoint
	r.mux.HandleFunc("POST /api/sessions/{id}/actions", r.sessionHandler.LogAction)

	// Provider registry endpoints
	r.mux.HandleFunc("POST /api/providers", r.providerHandler.Register)
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.List)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetByID)
	r.mux.HandleFunc("PUT /api/providers/{id}", r.providerHandler.Update)
	r.mux.HandleFunc("DELETE /api/providers/{id}", r.providerHandler.Delete)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/metrics", r.metricsHandler.Get)
	r.mux.HandleFunc("GET /api/export/sessions.csv", r.exportHandler.SessionsCSV)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
