// Package http provides the HTTP adapter over the workflow engine. It is a
// thin translation layer: authorization and transition legality live in the
// engine, never here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskhq/memoflow/internal/application/service"
	"github.com/deskhq/memoflow/internal/application/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config       ServerConfig
	httpServer   *http.Server
	router       *gin.Engine
	engine       workflow.Engine
	notification service.NotificationService
	logger       Logger
}

// NewServer creates a new HTTP server over the workflow engine
func NewServer(
	config ServerConfig,
	engine workflow.Engine,
	notification service.NotificationService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:       config,
		router:       gin.New(),
		engine:       engine,
		notification: notification,
		logger:       logger,
	}

	server.router.Use(gin.Recovery())
	server.router.Use(server.loggingMiddleware())
	server.setupRoutes()

	return server
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.engine, s.notification, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.POST("/memos", handlers.CreateMemo)
		api.GET("/memos", handlers.ListMemos)
		api.GET("/memos/:id", handlers.GetMemo)
		api.GET("/memos/:id/history", handlers.GetHistory)
		api.GET("/memos/:id/actions", handlers.GetPermittedActions)
		api.POST("/memos/:id/actions", handlers.ApplyAction)
		api.GET("/memos/:id/notifications", handlers.GetNotifications)
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
