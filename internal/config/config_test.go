package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medibot/internal/integrations/paramstore"
)

type fakeGetter struct {
	vals  map[string]string
	err   error
	names []string
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.vals[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", paramstore.ErrNotFound, name)
	}
	return v, nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "MAX_MESSAGE_LENGTH", "PROVIDER_TIMEOUT", "CORS_ALLOWED_ORIGINS", "PARAM_PREFIX",
		"OPENAI_API_KEY", "VITE_OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Equal(t, 2000, cfg.MaxMessageLength)
	require.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	require.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	require.False(t, cfg.OpenAI.Configured())
	require.False(t, cfg.Gemini.Configured())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_MESSAGE_LENGTH", "500")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://medibot.example ,")
	t.Setenv("VITE_OPENAI_API_KEY", "sk-vite")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-flash")

	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, 500, cfg.MaxMessageLength)
	require.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	require.Equal(t, []string{"http://localhost:5173", "https://medibot.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "sk-vite", cfg.OpenAI.APIKey)
	require.Equal(t, "g-key", cfg.Gemini.APIKey)
	require.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
}

func TestLoad_OpenAIKeyPrefersPrimaryVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-main")
	t.Setenv("VITE_OPENAI_API_KEY", "sk-vite")

	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "sk-main", cfg.OpenAI.APIKey)
}

func TestLoad_InvalidNumbersFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_MESSAGE_LENGTH", "-4")
	t.Setenv("PROVIDER_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 2000, cfg.MaxMessageLength)
	require.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_KeysFromParamStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARAM_PREFIX", "/medibot/")
	g := &fakeGetter{vals: map[string]string{
		"/medibot/openai-api-key": `{"token":"sk-ssm"}`,
		"/medibot/gemini-api-key": " g-ssm\n",
	}}

	cfg, err := Load(context.Background(), g)
	require.NoError(t, err)
	require.Equal(t, "sk-ssm", cfg.OpenAI.APIKey)
	require.Equal(t, "g-ssm", cfg.Gemini.APIKey)
}

func TestLoad_EnvKeyWinsOverParamStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARAM_PREFIX", "/medibot")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	g := &fakeGetter{vals: map[string]string{}}

	cfg, err := Load(context.Background(), g)
	require.NoError(t, err)
	require.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	require.False(t, cfg.Gemini.Configured())
	require.Equal(t, []string{"/medibot/gemini-api-key"}, g.names)
}

func TestLoad_ParamStoreErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARAM_PREFIX", "/medibot")

	_, err := Load(context.Background(), &fakeGetter{err: errors.New("access denied")})
	require.ErrorContains(t, err, "access denied")

	_, err = Load(context.Background(), &fakeGetter{vals: map[string]string{"/medibot/openai-api-key": `{"token"`}})
	require.ErrorContains(t, err, "unmarshal")
}

func TestLoad_NoPrefixSkipsParamStore(t *testing.T) {
	clearEnv(t)
	g := &fakeGetter{}

	_, err := Load(context.Background(), g)
	require.NoError(t, err)
	require.Empty(t, g.names)
}
