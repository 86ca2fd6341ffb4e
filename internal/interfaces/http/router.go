package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/application/service"
	"github.com/turtacn/xpx/internal/config"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/internal/infrastructure/ratelimit"
	"github.com/turtacn/xpx/internal/interfaces/http/handlers"
	"github.com/turtacn/xpx/internal/interfaces/http/middleware"
	"github.com/turtacn/xpx/pkg/constants"
	svcerrors "github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
)

// Dependencies groups everything the router needs.
type Dependencies struct {
	Config   *config.Config
	Logger   logger.Logger
	Scoring  service.ScoringAppService
	Metrics  *monitoring.Metrics
	Tracing  *monitoring.TracingManager
	Gatherer prometheus.Gatherer
}

// Router owns the gin engine and the HTTP server.
type Router struct {
	engine *gin.Engine
	logger logger.Logger
	server *http.Server
}

// NewRouter builds the engine and registers every route.
func NewRouter(deps Dependencies) *Router {
	if deps.Config.Server.Environment == constants.EnvironmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		logger: deps.Logger,
	}
	r.setupRoutes(deps)
	r.server = &http.Server{
		Addr:           deps.Config.Server.HTTPAddr(),
		Handler:        r.engine,
		ReadTimeout:    deps.Config.Server.ReadTimeout,
		WriteTimeout:   deps.Config.Server.WriteTimeout,
		IdleTimeout:    deps.Config.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}
	return r
}

func (r *Router) setupRoutes(deps Dependencies) {
	r.engine.Use(middleware.Recovery(deps.Logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Observability(deps.Tracing, deps.Metrics))
	r.engine.Use(middleware.Logging(deps.Logger))
	r.engine.Use(cors.New(corsConfig(deps.Config.Server.AllowedOrigins)))

	healthHandler := handlers.NewHealthHandler()
	scoreHandler := handlers.NewScoreHandler(deps.Scoring, deps.Logger)

	r.engine.GET("/health", healthHandler.HealthCheck)
	r.engine.GET("/version", healthHandler.Version)
	r.engine.GET("/bands", scoreHandler.Bands)
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	if deps.Config.Server.Environment != constants.EnvironmentProduction {
		pprof.Register(r.engine)
	}

	score := []gin.HandlerFunc{}
	if deps.Config.RateLimit.Enabled {
		limiter := ratelimit.NewKeyedLimiter(ratelimit.Config{
			RPS:   deps.Config.RateLimit.RPS,
			Burst: deps.Config.RateLimit.Burst,
			TTL:   deps.Config.RateLimit.TTL,
		})
		score = append(score, middleware.RateLimit(limiter, deps.Metrics, deps.Logger))
	}
	score = append(score, scoreHandler.Score)
	r.engine.POST("/score", score...)

	r.engine.NoRoute(func(c *gin.Context) {
		dto.SendError(c, svcerrors.ErrNotFound(c.Request.URL.Path))
	})
}

// corsConfig allows every origin unless a list is configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID, constants.HeaderRateLimitLimit, constants.HeaderRetryAfter},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler exposes the engine, mainly for httptest.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Start serves HTTP until Shutdown is called. It returns nil on a clean shutdown.
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (r *Router) Shutdown(ctx context.Context) error {
	r.logger.Info(ctx, "Shutting down HTTP server")
	return r.server.Shutdown(ctx)
}
