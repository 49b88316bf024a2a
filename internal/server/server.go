// Package server exposes the MITS validator over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/openmits/mitslint/internal/config"
	"github.com/openmits/mitslint/validator"
)

const (
	serviceName    = "mitslint"
	serviceVersion = "5.0.0"
)

// Server wires the validator behind a gin router.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *Metrics
	limiter *RateLimiter
	engine  *gin.Engine
	httpSrv *http.Server
}

// New builds a fully-routed server from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(),
		limiter: NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	}
	s.engine = s.buildRouter()
	return s
}

// Engine returns the underlying router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Limiter exposes the per-IP rate limiter so callers can run its
// background cleanup.
func (s *Server) Limiter() *RateLimiter {
	return s.limiter
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(BodyLimit(s.cfg.Server.MaxBodyBytes))
	r.Use(RequestID())
	r.Use(AccessLog(s.logger))
	if s.cfg.Metrics.Enabled {
		r.Use(s.metrics.Middleware())
	}
	r.Use(CORS(s.cfg.CORS.AllowedOrigins))
	r.Use(s.limiter.Middleware())
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	v5 := r.Group("/v5.0")
	v5.POST("/validate", s.handleValidate)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    serviceName,
		"version": serviceVersion,
	})
}

// xmlContentType reports whether the Content-Type header names an XML
// payload. An absent header is accepted.
func xmlContentType(header string) bool {
	if header == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/xml", "text/xml", "application/octet-stream":
		return true
	}
	return strings.HasSuffix(mediaType, "+xml")
}

// handleValidate runs the rule pipeline over the request body. Validation
// findings are payload, not protocol: the response is 200 whether or not
// the document is valid. Only oversized bodies (413) and rate limiting
// (429) surface as HTTP errors.
func (s *Server) handleValidate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body exceeds limit",
				"limit": maxErr.Limit,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	basic := c.Query("mode") == "basic"
	mode := "full"
	if basic {
		mode = "basic"
	}

	if ct := c.GetHeader("Content-Type"); !xmlContentType(ct) {
		result := validator.NewResult()
		result.AddError("request_content_type", "request Content-Type must be an XML media type, got "+ct, "")
		s.recordValidation(mode, validator.BuildReport(result), c)
		return
	}

	ctx := c.Request.Context()
	if s.cfg.Server.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Server.TimeoutSecs)*time.Second)
		defer cancel()
	}

	v := validator.New(validator.Config{
		SourceName: c.GetString("request_id"),
		Basic:      basic,
		Logger:     s.logger,
	})
	result := v.ValidateString(ctx, string(body))
	if ctx.Err() != nil {
		result = validator.NewResult()
		result.AddError("request_timeout", "validation did not finish within the configured timeout", "")
	}
	report := validator.BuildReport(result)

	s.recordValidation(mode, report, c)
}

// recordValidation counts the outcome and writes the report. Findings are
// always a 200 payload.
func (s *Server) recordValidation(mode string, report validator.Report, c *gin.Context) {
	outcome := "valid"
	if !report.Valid {
		outcome = "invalid"
	}
	s.metrics.ValidationsTotal.WithLabelValues(mode, outcome).Inc()
	s.metrics.ValidationMessages.WithLabelValues("error").Add(float64(len(report.Errors)))
	s.metrics.ValidationMessages.WithLabelValues("warning").Add(float64(len(report.Warnings)))
	s.metrics.ValidationMessages.WithLabelValues("info").Add(float64(len(report.Info)))

	c.JSON(http.StatusOK, report)
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then
// shuts down gracefully.
func (s *Server) Run() error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Server.ListenAddr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
