package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolwire/internal/domain"
	"toolwire/internal/infra/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *CompletionProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCompletionProvider(config.ProviderConfig{
		Name:    "test",
		BaseURL: srv.URL,
		Model:   "llama3.2",
	}, testLogger())
}

func TestCompletionGenerate(t *testing.T) {
	var gotReq completionRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(completionResponse{Response: "hello there", Done: true})
	})

	out, err := p.Generate(context.Background(), "say hello", domain.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", out)
	assert.Equal(t, "llama3.2", gotReq.Model)
	assert.Equal(t, "say hello", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, 256, gotReq.Options.NumPredict)
	assert.Equal(t, 0.2, gotReq.Options.Temperature)
}

func TestCompletionGenerateSendsAPIKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(completionResponse{Response: "ok"})
	}))
	defer srv.Close()

	p := NewCompletionProvider(config.ProviderConfig{
		BaseURL: srv.URL,
		Model:   "m",
		APIKey:  "sk-test",
	}, testLogger())

	_, err := p.Generate(context.Background(), "x", domain.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", auth)
}

func TestCompletionGenerateHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimit},
		{http.StatusUnauthorized, domain.ErrAuthInvalid},
		{http.StatusRequestEntityTooLarge, domain.ErrContextOverflow},
		{http.StatusInternalServerError, domain.ErrGenerationFailed},
	}
	for _, tc := range cases {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := p.Generate(context.Background(), "x", domain.GenerateOptions{})
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestCompletionGenerateBadJSON(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	_, err := p.Generate(context.Background(), "x", domain.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestCompletionGenerateContextCanceled(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, "x", domain.GenerateOptions{})
	assert.Error(t, err)
}

func TestCompletionName(t *testing.T) {
	p := NewCompletionProvider(config.ProviderConfig{Model: "m"}, testLogger())
	assert.Equal(t, "completion", p.Name())

	p = NewCompletionProvider(config.ProviderConfig{Name: "local", Model: "m"}, testLogger())
	assert.Equal(t, "local", p.Name())
}
