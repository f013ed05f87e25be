package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aethelgard/internal/guard"
	"aethelgard/internal/storage"
)

// Config assembles a dashboard server.
type Config struct {
	Addr   string
	Store  storage.Store
	Limits *guard.Limits
	Logger *slog.Logger
}

// Server exposes the solver over HTTP: scenario catalog, on-demand
// solves with slice extraction, run listings, and a websocket stream of
// live evolution frames. It implements platform.SupportModule.
type Server struct {
	addr    string
	store   storage.Store
	limits  guard.Limits
	logger  *slog.Logger
	engine  *gin.Engine
	httpSrv *http.Server
	metrics *metricSet
}

func NewServer(cfg Config) *Server {
	limits := guard.DefaultLimits()
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		addr:    cfg.Addr,
		store:   cfg.Store,
		limits:  limits,
		logger:  logger,
		engine:  engine,
		metrics: newMetricSet(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.handler()))

	api := s.engine.Group("/api/v1")
	api.GET("/scenarios", s.handleScenarios)
	api.POST("/solve", s.handleSolve)
	api.POST("/evolve", s.handleEvolve)
	api.GET("/runs", s.handleRuns)
	api.GET("/runs/:id", s.handleRun)
	api.GET("/runs/:id/history", s.handleHistory)

	s.engine.GET("/ws/evolve", s.handleEvolveStream)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Name() string { return "dashboard" }

func (s *Server) Start(_ context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("dashboard server stopped", "error", err)
		}
	}()
	s.logger.Info("dashboard listening", "addr", s.addr)
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps the solver error taxonomy onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, guard.ErrResourceLimit):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, guard.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
