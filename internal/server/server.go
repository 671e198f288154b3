// Package server exposes the solvers over HTTP: an HTML page with both
// forms and their charts, a JSON API, the JSON tool endpoint, health and
// Prometheus metrics.
//
// The server keeps no per-user state. Every page request gets its own
// pipeline.Workbench, which is closed once the page is written.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/njchilds90/gosolver/internal/config"
	"github.com/njchilds90/gosolver/internal/metrics"
	"github.com/njchilds90/gosolver/internal/speech"
)

// Version is reported by /health.
const Version = "0.1.0"

// Server is the HTTP front end.
type Server struct {
	cfg     config.ServerConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	speaker speech.Speaker
	limiter *rate.Limiter
	engine  *gin.Engine
}

// New builds the router. speaker may be nil, in which case /v1/speak
// reports that speech is unsupported.
func New(cfg config.ServerConfig, logger *slog.Logger, m *metrics.Metrics, speaker speech.Speaker) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	if speaker == nil {
		speaker = speech.NewGuard(nil, logger, m)
	}
	s := &Server{cfg: cfg, logger: logger, metrics: m, speaker: speaker}
	s.limiter = rate.NewLimiter(limitOf(cfg.RateLimit), burstOf(cfg.Burst))
	s.engine = s.routes()
	return s
}

// SetRateLimit changes the request budget of a running server; a limit of
// 0 or less removes it.
func (s *Server) SetRateLimit(limit float64, burst int) {
	s.limiter.SetLimit(limitOf(limit))
	s.limiter.SetBurst(burstOf(burst))
	s.logger.Info("Rate limit updated", "limit", limit, "burst", burstOf(burst))
}

func limitOf(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

func burstOf(n int) int { return max(n, 1) }

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.observe())
	if s.cfg.Debug {
		r.Use(gin.Logger())
	}
	if err := loadTemplates(r); err != nil {
		// Templates are embedded; a parse error is a build defect.
		panic(err)
	}

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	limited := r.Group("/", s.rateLimit())
	limited.GET("/", s.handlePage)
	limited.POST("/", s.handlePage)
	limited.GET("/schema", s.handleSchema)
	limited.POST("/tool", s.handleTool)

	v1 := limited.Group("/v1")
	v1.POST("/solve/linear", s.handleSolveLinear)
	v1.POST("/solve/quadratic", s.handleSolveQuadratic)
	v1.POST("/speak", s.handleSpeak)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting gosolver server", slog.String("address", s.cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down gosolver server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ============================================================
// Middleware
// ============================================================

const requestIDHeader = "X-Request-ID"

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		s.logger.Debug("Request served",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many requests",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger(c *gin.Context, handler string) *slog.Logger {
	return s.logger.With("request_id", c.GetString("request_id"), "handler", handler)
}
