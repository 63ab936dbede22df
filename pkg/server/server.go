// Package server exposes the assistant and the document store over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
	"github.com/quillmate/quillmate-cli/pkg/files"
	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/observability"
	"github.com/quillmate/quillmate-cli/pkg/settings"
)

// Assistant answers chat and enhance requests.
type Assistant interface {
	Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.ChatResponse, error)
	Enhance(ctx context.Context, req assistant.EnhanceRequest) (*assistant.EnhanceResponse, error)
}

// Config wires the server.
type Config struct {
	Assistant Assistant
	Files     *files.Store
	Settings  *settings.Store
	Metrics   *observability.Metrics
	Logger    *slog.Logger
	// Rebuild, when set, replaces the assistant after settings change.
	Rebuild func(*models.Settings) Assistant
}

// Server is the HTTP backend.
type Server struct {
	files    *files.Store
	settings *settings.Store
	metrics  *observability.Metrics
	logger   *slog.Logger
	rebuild  func(*models.Settings) Assistant
	engine   *gin.Engine

	mu        sync.RWMutex
	assistant Assistant
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		files:     cfg.Files,
		settings:  cfg.Settings,
		metrics:   cfg.Metrics,
		logger:    logging.OrDiscard(cfg.Logger),
		rebuild:   cfg.Rebuild,
		assistant: cfg.Assistant,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.observe(), cors())
	s.engine = engine
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.POST("/chat", s.chat)
	r.POST("/enhance", s.enhance)

	v1 := r.Group("/v1")
	{
		fs := v1.Group("/files")
		{
			fs.GET("", s.listFiles)
			fs.GET("/*path", s.readFile)
			fs.PUT("/*path", s.writeFile)
			fs.DELETE("/*path", s.deleteFile)
			fs.POST("/move", s.moveFile)
			fs.POST("/rename", s.renameFile)
			fs.POST("/new", s.newFile)
		}
		v1.GET("/settings", s.getSettings)
		v1.PUT("/settings", s.putSettings)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) currentAssistant() Assistant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assistant
}

// SetAssistant swaps the assistant used by later requests.
func (s *Server) SetAssistant(a Assistant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistant = a
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// observe logs every request and counts it by route and status.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(route, strconv.Itoa(status))
		s.logger.Info("http request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds())
	}
}

// cors lets a browser editor served from another origin call the API.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
