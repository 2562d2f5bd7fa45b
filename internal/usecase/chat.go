package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const defaultMaxMessage = 2000

type ResponseResolver interface {
	Resolve(ctx context.Context, message string) string
}

type ChatService struct {
	resolver      ResponseResolver
	maxMessageLen int
}

type ChatInput struct {
	Message string
}

type ChatOutput struct {
	Message string
}

func NewChatService(r ResponseResolver, maxMessageLen int) (*ChatService, error) {
	if r == nil {
		return nil, errors.New("usecase: resolver must not be nil")
	}
	if maxMessageLen <= 0 {
		maxMessageLen = defaultMaxMessage
	}
	return &ChatService{resolver: r, maxMessageLen: maxMessageLen}, nil
}

func (s *ChatService) Chat(ctx context.Context, in ChatInput) (out ChatOutput, err error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, ReasonEmptyMessage, nil)
	}
	if utf8.RuneCountInString(message) > s.maxMessageLen {
		return ChatOutput{}, newError(ErrorInvalidInput, ReasonMessageTooLong, nil)
	}

	defer func() {
		if rec := recover(); rec != nil {
			out, err = ChatOutput{}, newError(ErrorInternal, ReasonResolverPanic, fmt.Errorf("%v", rec))
		}
	}()
	return ChatOutput{Message: s.resolver.Resolve(ctx, message)}, nil
}
