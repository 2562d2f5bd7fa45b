package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"medibot/internal/domain"
)

// Provider is one live answer tier. An empty answer or a non-nil error both
// mean the tier produced nothing usable.
type Provider interface {
	Name() string
	Answer(ctx context.Context, message string) (string, error)
}

// ChatCompleter is the call surface of an LLM integration client.
type ChatCompleter interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

type chatTier struct {
	name   string
	client ChatCompleter
	build  func(message string) []domain.ChatMessage
}

// NewPrimaryTier wraps a client that takes the system prompt as a system message.
// A nil client yields a tier that reports ErrNotConfigured.
func NewPrimaryTier(name string, client ChatCompleter) Provider {
	return &chatTier{name: name, client: client, build: PrimaryMessages}
}

// NewSeededTier wraps a client that receives the instructions as a seeded
// user/model exchange ahead of the message.
func NewSeededTier(name string, client ChatCompleter) Provider {
	return &chatTier{name: name, client: client, build: SeededMessages}
}

func (t *chatTier) Name() string { return t.name }

func (t *chatTier) Answer(ctx context.Context, message string) (string, error) {
	if t.client == nil {
		return "", ErrNotConfigured
	}
	return t.client.Chat(ctx, t.build(message))
}

// Resolver walks its providers in order and falls back to a canned reply when
// none of them answers.
type Resolver struct {
	providers []Provider
	logger    *slog.Logger
}

func NewResolver(logger *slog.Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return &Resolver{providers: kept, logger: logger}
}

// Resolve always returns a non-empty reply for a non-empty message. Each
// provider is tried at most once.
func (r *Resolver) Resolve(ctx context.Context, message string) string {
	for _, p := range r.providers {
		answer, err := r.attempt(ctx, p, message)
		switch {
		case errors.Is(err, ErrNotConfigured):
			r.logger.DebugContext(ctx, "provider skipped", "provider", p.Name())
			continue
		case err != nil:
			r.logger.WarnContext(ctx, "provider failed", "provider", p.Name(), "err", err)
			continue
		}
		if strings.TrimSpace(answer) == "" {
			r.logger.WarnContext(ctx, "provider returned empty answer", "provider", p.Name())
			continue
		}
		return answer
	}

	r.logger.InfoContext(ctx, "all providers failed, using fallback response", "category", string(Classify(message)))
	return Fallback(message)
}

func (r *Resolver) attempt(ctx context.Context, p Provider, message string) (answer string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			answer, err = "", fmt.Errorf("usecase: provider %s panicked: %v", p.Name(), rec)
		}
	}()
	return p.Answer(ctx, message)
}
