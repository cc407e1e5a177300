// internal/server/server.go

// Package server exposes the concierge over HTTP: a message endpoint, a
// conversation-start endpoint, and the health, readiness and metrics endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/models"
)

// Turns is the conversational core the server fronts.
type Turns interface {
	Handle(ctx context.Context, msg models.InboundMessage) (*models.Reply, error)
	Welcome() *models.Reply
}

// Check is one readiness check, e.g. a Redis or Postgres ping.
type Check func(ctx context.Context) error

type Config struct {
	Address         string
	ShutdownTimeout time.Duration
	CheckTimeout    time.Duration
	AllowedOrigins  []string
}

func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ShutdownTimeout: 30 * time.Second,
		CheckTimeout:    2 * time.Second,
	}
}

type Server struct {
	config *Config
	turns  Turns
	checks map[string]Check
	logger logger.Logger
	router *gin.Engine
}

func New(config *Config, turns Turns, checks map[string]Check, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config: config,
		turns:  turns,
		checks: checks,
		logger: logger.ForComponent(log, "server"),
		router: gin.New(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	if len(config.AllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins: config.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s.router.GET("/health", s.health)
	s.router.GET("/ready", s.ready)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/conversations", s.startConversation)
		api.POST("/messages", s.postMessage)
	}

	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight turns.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.config.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server", map[string]interface{}{"timeout": s.config.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ==========================
// Handlers
// ==========================

type messageRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	Text           string `json:"text"`
}

type conversationResponse struct {
	ConversationID string    `json:"conversationId"`
	Welcome        *Activity `json:"welcome"`
}

func (s *Server) startConversation(c *gin.Context) {
	id := uuid.NewString()
	s.logger.Debug("conversation started", map[string]interface{}{"conversationId": id})
	c.JSON(http.StatusCreated, conversationResponse{
		ConversationID: id,
		Welcome:        NewActivity(id, s.turns.Welcome()),
	})
}

func (s *Server) postMessage(c *gin.Context) {
	var body messageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"message": err.Error(),
		})
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "empty message",
			"message": "text must not be blank",
		})
		return
	}

	reply, err := s.turns.Handle(c.Request.Context(), models.InboundMessage{
		ConversationID: body.ConversationID,
		Text:           body.Text,
	})
	if err != nil {
		s.logger.Error("turn failed", map[string]interface{}{
			"conversationId": body.ConversationID,
			"error":          err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "turn failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, NewActivity(body.ConversationID, reply))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.CheckTimeout)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		s.logger.Warn("readiness check failed", map[string]interface{}{"failed": failed})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
