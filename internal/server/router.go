package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibot/internal/domain"
	"medibot/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	correlationKey    = "correlation_id"
	invalidRequest    = "Invalid request"
)

type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter wires the chat and health routes onto a gin engine.
func NewRouter(chat ChatUseCase, opts Options) (*gin.Engine, error) {
	if chat == nil {
		return nil, errors.New("server: chat use case must not be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	corsCfg := corsConfig(opts.AllowedOrigins)
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("server: cors: %w", err)
	}

	r := gin.New()
	r.Use(correlationID(), requestLogger(logger), gin.CustomRecovery(recoverWithApology(logger)))
	r.Use(cors.New(corsCfg))

	h := &chatHandler{chat: chat, logger: logger}
	api := r.Group("/api")
	api.POST("/chat", h.postChat)
	api.GET("/health", health)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, domain.ChatResponse{Message: "Not found"})
	})
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", correlationHeader}
	cfg.ExposeHeaders = []string{correlationHeader}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

type chatHandler struct {
	chat   ChatUseCase
	logger *slog.Logger
}

func (h *chatHandler) postChat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ChatResponse{Message: invalidRequest, Error: "invalid JSON body"})
		return
	}

	out, err := h.chat.Chat(c.Request.Context(), usecase.ChatInput{Message: req.Message})
	if err != nil {
		if reason, ok := usecase.InvalidInputReason(err); ok {
			c.JSON(http.StatusBadRequest, domain.ChatResponse{Message: invalidRequest, Error: reason})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "error in chat API", "err", err, correlationKey, c.GetString(correlationKey))
		c.JSON(http.StatusOK, domain.ChatResponse{Message: usecase.TechnicalDifficulty})
		return
	}
	c.JSON(http.StatusOK, domain.ChatResponse{Message: out.Message})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{Status: "ok"})
}

func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(correlationHeader))
		if id == "" {
			id = newCorrelationID()
		}
		c.Set(correlationKey, id)
		c.Header(correlationHeader, id)
		c.Next()
	}
}

var newCorrelationID = func() string {
	return uuid.NewString()
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "request served",
			correlationKey, c.GetString(correlationKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// recoverWithApology keeps the "always a message" contract for panics.
func recoverWithApology(logger *slog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, rec any) {
		logger.ErrorContext(c.Request.Context(), "panic in request", "panic", fmt.Sprint(rec), correlationKey, c.GetString(correlationKey))
		c.AbortWithStatusJSON(http.StatusOK, domain.ChatResponse{Message: usecase.TechnicalDifficulty})
	}
}
