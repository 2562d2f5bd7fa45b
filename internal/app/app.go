package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"medibot/internal/config"
	"medibot/internal/integrations/gemini"
	"medibot/internal/integrations/openai"
	"medibot/internal/integrations/paramstore"
	"medibot/internal/usecase"
)

// LoadConfig reads the process configuration. SSM is only contacted when
// PARAM_PREFIX is set, either in the environment or in .env.
func LoadConfig(ctx context.Context) (config.Config, error) {
	config.LoadDotEnv()
	if strings.TrimSpace(os.Getenv("PARAM_PREFIX")) == "" {
		return config.Load(ctx, nil)
	}

	getter, err := newParamGetter(ctx)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(ctx, getter)
}

var newParamGetter = func(ctx context.Context) (config.ParamGetter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, fmt.Errorf("app: create SSM client: %w", err)
	}
	return ssmClient, nil
}

// NewChatService builds the provider tiers from cfg and wraps them in a
// resolver. Providers without a credential are registered as unconfigured tiers.
func NewChatService(cfg config.Config, logger *slog.Logger) (*usecase.ChatService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	var primary usecase.ChatCompleter
	if cfg.OpenAI.Configured() {
		c, err := openai.NewClient(cfg.OpenAI.APIKey,
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("app: create OpenAI client: %w", err)
		}
		primary = c
	} else {
		logger.Warn("OpenAI API key not found")
	}

	var secondary usecase.ChatCompleter
	if cfg.Gemini.Configured() {
		c, err := gemini.NewClient(cfg.Gemini.APIKey,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("app: create Gemini client: %w", err)
		}
		secondary = c
	} else {
		logger.Warn("Gemini API key not found")
	}

	resolver := usecase.NewResolver(logger,
		usecase.NewPrimaryTier("openai", primary),
		usecase.NewSeededTier("gemini", secondary),
	)
	return usecase.NewChatService(resolver, cfg.MaxMessageLength)
}
