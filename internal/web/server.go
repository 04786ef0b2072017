// Package web serves the task store over HTTP with a websocket notification
// stream.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nibzard/focusflow/internal/metrics"
	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Store   *todo.Store
	Hub     *Hub
	Toast   *notify.Toast
	Metrics *metrics.Metrics
	Logger  *log.Logger
	// AllowedOrigin controls websocket origin checks: empty means same
	// origin, "*" means any.
	AllowedOrigin string
	Version       string
}

// Server is the HTTP surface over one store.
type Server struct {
	store   *todo.Store
	hub     *Hub
	toast   *notify.Toast
	metrics *metrics.Metrics
	logger  *log.Logger
	engine  *gin.Engine
	origin  string
	version string
	started time.Time
}

// New builds the gin engine and registers routes. The caller wires Hub and
// Toast into the store's sink.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hub := opts.Hub
	if hub == nil {
		hub = NewHub(logger)
	}
	s := &Server{
		store:   opts.Store,
		hub:     hub,
		toast:   opts.Toast,
		metrics: opts.Metrics,
		logger:  logger,
		origin:  opts.AllowedOrigin,
		version: opts.Version,
		started: opts.Store.Now(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if s.metrics != nil {
		r.Use(s.instrument())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	s.registerRoutes(r)
	s.engine = r
	return s
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/tasks", s.listTasks)
	api.POST("/tasks", s.createTask)
	api.POST("/tasks/:id/toggle", s.toggleTask)
	api.DELETE("/tasks/:id", s.deleteTask)
	api.GET("/urgency", s.classify)
	api.GET("/toast", s.currentToast)
	api.DELETE("/toast", s.dismissToast)
	api.GET("/notifications", s.stream)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub returns the notification hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	// Hijacked websocket connections are not tracked by Shutdown.
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
