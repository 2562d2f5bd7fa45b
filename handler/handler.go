package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"medibot/internal/domain"
	"medibot/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	invalidRequest    = "Invalid request"
)

type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

// Handler adapts API Gateway proxy events to the chat use case.
type Handler struct {
	chat   ChatUseCase
	logger *slog.Logger
}

func NewHandler(chat ChatUseCase, logger *slog.Logger) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{chat: chat, logger: logger}, nil
}

// Handle never returns an error; every failure is expressed as a response.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	correlationID := correlationIDFrom(event.Headers)
	logger := h.logger.With("correlation_id", correlationID, "path", event.Path)

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "panic in chat handler", "panic", fmt.Sprint(rec))
			resp, err = jsonResponse(http.StatusOK, domain.ChatResponse{Message: usecase.TechnicalDifficulty}, correlationID), nil
		}
		logger.InfoContext(ctx, "request served", "method", event.HTTPMethod, "status", resp.StatusCode)
	}()

	switch {
	case event.HTTPMethod == http.MethodPost && event.Path == "/api/chat":
		return h.handleChat(ctx, logger, event, correlationID), nil
	case event.HTTPMethod == http.MethodGet && event.Path == "/api/health":
		return jsonResponse(http.StatusOK, domain.HealthResponse{Status: "ok"}, correlationID), nil
	default:
		return jsonResponse(http.StatusNotFound, domain.ChatResponse{Message: "Not found"}, correlationID), nil
	}
}

func (h *Handler) handleChat(ctx context.Context, logger *slog.Logger, event events.APIGatewayProxyRequest, correlationID string) events.APIGatewayProxyResponse {
	var req domain.ChatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return jsonResponse(http.StatusBadRequest, domain.ChatResponse{Message: invalidRequest, Error: "invalid JSON body"}, correlationID)
	}

	out, err := h.chat.Chat(ctx, usecase.ChatInput{Message: req.Message})
	if err != nil {
		return chatErrorResponse(ctx, logger, err, correlationID)
	}
	return jsonResponse(http.StatusOK, domain.ChatResponse{Message: out.Message}, correlationID)
}

func chatErrorResponse(ctx context.Context, logger *slog.Logger, err error, correlationID string) events.APIGatewayProxyResponse {
	if reason, ok := usecase.InvalidInputReason(err); ok {
		return jsonResponse(http.StatusBadRequest, domain.ChatResponse{Message: invalidRequest, Error: reason}, correlationID)
	}
	logger.ErrorContext(ctx, "error in chat API", "err", err)
	return jsonResponse(http.StatusOK, domain.ChatResponse{Message: usecase.TechnicalDifficulty}, correlationID)
}

func jsonResponse(status int, body any, correlationID string) events.APIGatewayProxyResponse {
	buf, err := json.Marshal(body)
	if err != nil {
		status = http.StatusOK
		buf, _ = json.Marshal(domain.ChatResponse{Message: usecase.TechnicalDifficulty})
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(buf),
	}
}

// correlationIDFrom reads the correlation header case-insensitively, or mints a new ID.
func correlationIDFrom(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return newCorrelationID()
}

var newCorrelationID = func() string {
	return uuid.NewString()
}
