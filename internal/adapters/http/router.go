package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// APIPrefix is the versioned mount point of the quote API. The same routes
// are also served from the root.
const APIPrefix = "/api/v1"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the otelgin spans.
	ServiceName string

	HealthHandler  *handlers.HealthHandler
	QuoteHandler   *handlers.QuoteHandler
	HistoryHandler *handlers.HistoryHandler

	// Timeout is the deadline of each API request. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. OpenTelemetry - tracing and metrics
//  4. Logging - request logging (skips health endpoints)
//  5. Timeout - request deadline (API routes only)
//
// Route groups:
//   - /-/ (internal): health and metrics endpoints
//   - /api/v1/ and /: the quote API
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.NoRoute(noRoute)

	engine.Use(middleware.Recovery(), middleware.RequestID())
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	mountAPI(engine.Group(APIPrefix), cfg)
	mountAPI(engine.Group(""), cfg)
}

// mountAPI registers the quote API on rg.
func mountAPI(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Timeout > 0 {
		rg.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.HistoryHandler != nil {
		cfg.HistoryHandler.RegisterHistoryRoutes(rg)
		restrictMethods(rg, "/history", http.MethodGet)
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg)
		restrictMethods(rg, "/quotes", http.MethodPost)
		restrictMethods(rg, "/quotes/random", http.MethodGet)
	}
}
