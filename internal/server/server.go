package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shuangxunian/claude-code-router/internal/config"
)

// Version is reported by /api/version and the CLI version command.
const Version = "1.0.3"

// Server is the background router service: an HTTP proxy in front of an
// OpenAI-compatible upstream, plus the image-description endpoint the CLI
// uses for piped images.
type Server struct {
	config *config.Config
	log    *slog.Logger
	router *gin.Engine
	server *http.Server
	client *http.Client
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, log *slog.Logger) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		gin.DisableConsoleColor()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	// Upstream calls are long-lived; keep plenty of idle connections warm.
	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 50,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: 120 * time.Second,
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	server := &Server{
		config: cfg,
		log:    log,
		router: router,
		server: srv,
		client: client,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("router service listening", "addr", s.config.Addr(), "upstream", s.config.BaseURL)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// CreateShutdownContext creates a context for graceful shutdown
func CreateShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// setupRoutes sets up all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/api/version", s.handleVersion)
	s.router.GET("/v1/models", s.handleModels)

	// Proxy endpoints
	s.router.POST("/v1/chat/completions", s.handleChatCompletions)
	s.router.POST("/v1/images/describe", s.handleDescribeImage)
}

// handleHealth is a simple health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
