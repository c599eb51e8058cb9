// Package status serves health, usage statistics and prometheus metrics over HTTP.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/wallbot/bot/metrics"
	"github.com/m3rciful/wallbot/bot/usage"
	"github.com/m3rciful/wallbot/core/logger"
)

// StatsSource provides the usage summary served on /stats.
type StatsSource interface {
	Summary(ctx context.Context) (usage.Summary, error)
}

// Options configures the status server. Ping, Metrics and Gatherer are
// optional.
type Options struct {
	Listen   string
	Stats    StatsSource
	Ping     func(ctx context.Context) error
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
}

// Server is the status HTTP server.
type Server struct {
	opts   Options
	router *gin.Engine
	srv    *http.Server
	log    *slog.Logger
}

// New builds the router. Nothing listens until Start.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		opts:   opts,
		router: gin.New(),
		log:    logger.Component("status"),
	}
	s.router.Use(gin.Recovery(), s.observe)
	s.setupRoutes()
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/stats", s.handleStats)
	if s.opts.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}
}

func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	code := c.Writer.Status()
	if s.opts.Metrics != nil {
		s.opts.Metrics.StatusRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(code)).Inc()
	}
	logger.LogEvent(c.Request.Context(), s.log, slog.LevelDebug, "http.request",
		slog.String("route", route),
		slog.String("method", c.Request.Method),
		slog.Int("code", code),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.opts.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "fail", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	if s.opts.Stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
		return
	}
	summary, err := s.opts.Stats.Summary(c.Request.Context())
	if err != nil {
		logger.LogEvent(c.Request.Context(), s.log, slog.LevelError, "stats.summary",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	if summary.Categories == nil {
		summary.Categories = []usage.CategoryStat{}
	}
	c.JSON(http.StatusOK, summary)
}

// Start listens on opts.Listen and serves in the background. An empty
// address disables the server.
func (s *Server) Start() error {
	if s.opts.Listen == "" {
		s.log.Info("status.disabled")
		return nil
	}
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return err
	}
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("status.listen", slog.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("status.serve", slog.String("status", "fail"), slog.String("err", err.Error()))
		}
	}()
	return nil
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
