// Package server exposes the subscription working set over HTTP.
package server

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/subwatch-ai/subwatch/internal/advisor"
	"github.com/subwatch-ai/subwatch/internal/engine"
)

// Server represents the application HTTP server.
type Server struct {
	echo    *echo.Echo
	session *engine.Session
	engine  *engine.ScanEngine
	advisor *advisor.Advisor
	logger  *slog.Logger
	port    string
	version string
}

// Config holds server settings.
type Config struct {
	Port    string
	Version string
}

// New creates a new server instance.
func New(cfg Config, session *engine.Session, eng *engine.ScanEngine, adv *advisor.Advisor, logger *slog.Logger) *Server {
	if cfg.Port == "" {
		cfg.Port = "8090"
	}
	return &Server{
		session: session,
		engine:  eng,
		advisor: adv,
		logger:  logger,
		port:    cfg.Port,
		version: cfg.Version,
	}
}

// slogMiddleware creates a slog-based logging middleware for Echo.
func (s *Server) slogMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info("HTTP request",
				"method", req.Method,
				"uri", req.RequestURI,
				"remote_ip", c.RealIP(),
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes.
func (s *Server) Initialize() {
	s.echo = echo.New()

	s.echo.Use(s.slogMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	s.echo.HideBanner = true

	s.setupRoutes()
}

// setupRoutes configures all the application routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/subscriptions", s.handleListSubscriptions)
	api.GET("/subscriptions/:id", s.handleGetSubscription)
	api.DELETE("/subscriptions/:id", s.handleDeleteSubscription)
	api.GET("/subscriptions/:id/cancellation", s.handleCancellationDraft)
	api.GET("/summary", s.handleSummary)
	api.GET("/renewals", s.handleRenewals)
	api.GET("/projection", s.handleProjection)
	api.GET("/tips", s.handleTips)
	api.POST("/scan", s.handleScan)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server starting", "port", s.port)
	return s.echo.Start(":" + s.port)
}
