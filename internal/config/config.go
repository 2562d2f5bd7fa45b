package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"medibot/internal/integrations/paramstore"
)

const (
	openAIKeyParam = "/openai-api-key"
	geminiKeyParam = "/gemini-api-key"
)

// ParamGetter reads a single parameter. *paramstore.Client satisfies it.
type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

type Provider struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Configured reports whether the provider has a credential.
func (p Provider) Configured() bool {
	return p.APIKey != ""
}

type Config struct {
	Port               string
	LogLevel           slog.Level
	MaxMessageLength   int
	ProviderTimeout    time.Duration
	CORSAllowedOrigins []string
	ParamPrefix        string

	OpenAI Provider
	Gemini Provider
}

// LoadDotEnv loads .env from the working directory if it exists. Variables
// already present in the environment are never overridden.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads environment variables, optionally from a .env file if present.
// Provider keys missing from the environment are looked up under ParamPrefix
// when getter is non-nil.
func Load(ctx context.Context, getter ParamGetter) (Config, error) {
	LoadDotEnv()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           parseLevel(os.Getenv("LOG_LEVEL")),
		MaxMessageLength:   getEnvInt("MAX_MESSAGE_LENGTH", 2000),
		ProviderTimeout:    getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ParamPrefix:        strings.TrimRight(strings.TrimSpace(os.Getenv("PARAM_PREFIX")), "/"),
		OpenAI: Provider{
			APIKey:  firstEnv("OPENAI_API_KEY", "VITE_OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Gemini: Provider{
			APIKey:  firstEnv("GEMINI_API_KEY"),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
			BaseURL: os.Getenv("GEMINI_BASE_URL"),
		},
	}

	if getter == nil || cfg.ParamPrefix == "" {
		return cfg, nil
	}
	var err error
	if !cfg.OpenAI.Configured() {
		if cfg.OpenAI.APIKey, err = lookupKey(ctx, getter, cfg.ParamPrefix+openAIKeyParam); err != nil {
			return Config{}, err
		}
	}
	if !cfg.Gemini.Configured() {
		if cfg.Gemini.APIKey, err = lookupKey(ctx, getter, cfg.ParamPrefix+geminiKeyParam); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// tokenPayload is the JSON shape some deployments store instead of a bare key.
type tokenPayload struct {
	Token string `json:"token"`
}

// lookupKey returns "" for a parameter that does not exist.
func lookupKey(ctx context.Context, getter ParamGetter, name string) (string, error) {
	raw, err := getter.GetParameter(ctx, name)
	if errors.Is(err, paramstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("config: load %s: %w", name, err)
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var tp tokenPayload
		if err := json.Unmarshal([]byte(raw), &tp); err != nil {
			return "", fmt.Errorf("config: unmarshal %s as JSON: %w", name, err)
		}
		return strings.TrimSpace(tp.Token), nil
	}
	return raw, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewLogger returns a JSON slog logger at the configured level.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel}))
}
