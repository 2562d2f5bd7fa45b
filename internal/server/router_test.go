package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"medibot/internal/domain"
	"medibot/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUseCase struct {
	out     usecase.ChatOutput
	err     error
	in      usecase.ChatInput
	calls   int
	doPanic bool
}

func (s *stubUseCase) Chat(_ context.Context, in usecase.ChatInput) (usecase.ChatOutput, error) {
	s.calls++
	s.in = in
	if s.doPanic {
		panic("boom")
	}
	return s.out, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, uc ChatUseCase) *gin.Engine {
	t.Helper()
	r, err := NewRouter(uc, Options{Logger: quietLogger()})
	require.NoError(t, err)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) domain.ChatResponse {
	t.Helper()
	var out domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewRouter_Validates(t *testing.T) {
	_, err := NewRouter(nil, Options{})
	require.Error(t, err)

	_, err = NewRouter(&stubUseCase{}, Options{AllowedOrigins: []string{"localhost:5173"}})
	require.Error(t, err)

	_, err = NewRouter(&stubUseCase{}, Options{AllowedOrigins: []string{"http://localhost:5173"}})
	require.NoError(t, err)
}

func TestChat_HappyPath(t *testing.T) {
	uc := &stubUseCase{out: usecase.ChatOutput{Message: "answer"}}
	rec := do(newTestRouter(t, uc), http.MethodPost, "/api/chat", `{"message":"what is aspirin"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "answer", decode(t, rec).Message)
	require.Equal(t, "what is aspirin", uc.in.Message)
	require.NotEmpty(t, rec.Header().Get("X-Correlation-Id"))
}

func TestChat_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		uc   *stubUseCase
	}{
		{name: "malformed json", body: `{"message":`, uc: &stubUseCase{}},
		{name: "empty body", body: ``, uc: &stubUseCase{}},
		{name: "empty message", body: `{"message":""}`, uc: &stubUseCase{err: &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: usecase.ReasonEmptyMessage}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newTestRouter(t, tc.uc), http.MethodPost, "/api/chat", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			out := decode(t, rec)
			require.Equal(t, "Invalid request", out.Message)
			require.NotEmpty(t, out.Error)
		})
	}
}

func TestChat_UnexpectedErrorStill200(t *testing.T) {
	rec := do(newTestRouter(t, &stubUseCase{err: errors.New("boom")}), http.MethodPost, "/api/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, usecase.TechnicalDifficulty, decode(t, rec).Message)
}

func TestChat_PanicStill200(t *testing.T) {
	rec := do(newTestRouter(t, &stubUseCase{doPanic: true}), http.MethodPost, "/api/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, usecase.TechnicalDifficulty, decode(t, rec).Message)
}

func TestHealth(t *testing.T) {
	uc := &stubUseCase{}
	rec := do(newTestRouter(t, uc), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.Zero(t, uc.calls)
}

func TestNoRoute(t *testing.T) {
	rec := do(newTestRouter(t, &stubUseCase{}), http.MethodGet, "/api/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCorrelationID_Echoed(t *testing.T) {
	r := newTestRouter(t, &stubUseCase{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("x-correlation-id", "corr-9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, "corr-9", rec.Header().Get("X-Correlation-Id"))
}

func TestCORS_Preflight(t *testing.T) {
	r, err := NewRouter(&stubUseCase{}, Options{AllowedOrigins: []string{"http://localhost:5173"}, Logger: quietLogger()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEndToEnd_NoProvidersConfigured(t *testing.T) {
	resolver := usecase.NewResolver(quietLogger(),
		usecase.NewPrimaryTier("openai", nil),
		usecase.NewSeededTier("gemini", nil),
	)
	svc, err := usecase.NewChatService(resolver, 0)
	require.NoError(t, err)
	r := newTestRouter(t, svc)

	rec := do(r, http.MethodPost, "/api/chat", `{"message":"what is paracetamol used for"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, usecase.FallbackMedicines, decode(t, rec).Message)

	rec = do(r, http.MethodPost, "/api/chat", `{"message":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
