package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
)

type countingFetcher struct {
	calls  int
	models []llm.ModelDescriptor
	err    error
}

func (c *countingFetcher) fetch(context.Context, string) ([]llm.ModelDescriptor, error) {
	c.calls++
	return c.models, c.err
}

func newModelsRouter(t *testing.T, fetcher *countingFetcher) (*gin.Engine, *FixedWindowLimiter) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	limiter := NewFixedWindowLimiter(10, 5*time.Minute)
	limiter.randFloat = func() float64 { return 1.0 }
	cache := NewModelCache(15 * time.Minute)
	handler := NewModelsHandler(limiter, cache, fetcher.fetch, nil)

	router := gin.New()
	router.POST("/api/admin/models", handler.Refresh)
	return router, limiter
}

func postModels(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/models", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestModelsHandler_ColdThenCached(t *testing.T) {
	fetcher := &countingFetcher{models: []llm.ModelDescriptor{{ID: "gpt-4o", Name: "GPT-4o"}}}
	router, _ := newModelsRouter(t, fetcher)

	first := postModels(router, `{"provider": "openai"}`)
	require.Equal(t, http.StatusOK, first.Code)
	firstBody := decodeBody(t, first)
	assert.Equal(t, true, firstBody["success"])
	assert.Equal(t, false, firstBody["cached"])
	assert.NotEmpty(t, firstBody["fetchedAt"])

	second := postModels(router, `{"provider": "openai"}`)
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decodeBody(t, second)
	assert.Equal(t, true, secondBody["cached"])
	assert.NotEmpty(t, secondBody["cachedAt"])
	assert.Equal(t, firstBody["models"], secondBody["models"])

	assert.Equal(t, 1, fetcher.calls, "cache hit must not refetch")
}

func TestModelsHandler_ForceRefreshBypassesCache(t *testing.T) {
	fetcher := &countingFetcher{models: []llm.ModelDescriptor{{ID: "gemini-2.0-flash"}}}
	router, _ := newModelsRouter(t, fetcher)

	for i := 0; i < 2; i++ {
		w := postModels(router, `{"provider": "gemini", "forceRefresh": true}`)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["cached"], "forced refresh %d must not serve cache", i+1)
	}

	assert.Equal(t, 2, fetcher.calls)
}

func TestModelsHandler_Validation(t *testing.T) {
	fetcher := &countingFetcher{}
	router, _ := newModelsRouter(t, fetcher)

	t.Run("unsupported provider", func(t *testing.T) {
		w := postModels(router, `{"provider": "bogus"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Unsupported provider: bogus. Valid providers: openai, gemini, claude", body["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := postModels(router, `{"provider": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Invalid JSON in request body", body["error"])
	})

	t.Run("missing provider", func(t *testing.T) {
		w := postModels(router, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Provider is required", body["error"])
	})

	assert.Zero(t, fetcher.calls, "validation failures must not reach the fetcher")
}

func TestModelsHandler_FetchFailureServesFallback(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("vendor unreachable")}
	router, _ := newModelsRouter(t, fetcher)

	w := postModels(router, `{"provider": "gemini"}`)

	// Deliberately 200: the response still carries a usable model list.
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "vendor unreachable", body["error"])
	assert.NotEmpty(t, body["fallbackModels"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestModelsHandler_FetchFailureNeverServesStaleCache(t *testing.T) {
	fetcher := &countingFetcher{models: []llm.ModelDescriptor{{ID: "gpt-4o"}}}
	router, _ := newModelsRouter(t, fetcher)

	// Populate the cache, then break the fetcher and force a refresh.
	require.Equal(t, http.StatusOK, postModels(router, `{"provider": "openai"}`).Code)
	fetcher.err = errors.New("vendor down")
	fetcher.models = nil

	w := postModels(router, `{"provider": "openai", "forceRefresh": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["fallbackModels"], "fallback list, not the stale cache entry")
}

func TestModelsHandler_RateLimited(t *testing.T) {
	fetcher := &countingFetcher{models: []llm.ModelDescriptor{{ID: "gpt-4o"}}}
	router, _ := newModelsRouter(t, fetcher)

	for i := 0; i < 10; i++ {
		w := postModels(router, `{"provider": "openai"}`)
		require.Equal(t, http.StatusOK, w.Code, "request %d within the window", i+1)
	}

	w := postModels(router, `{"provider": "openai"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "Rate limit exceeded")

	resetMillis, ok := body["resetTime"].(float64)
	require.True(t, ok)
	assert.Greater(t, int64(resetMillis), time.Now().UnixMilli())
}

func TestModelsHandler_ClientIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded for wins", headers: map[string]string{"X-Forwarded-For": "10.0.0.1", "X-Real-IP": "10.0.0.2"}, want: "10.0.0.1"},
		{name: "real ip second", headers: map[string]string{"X-Real-IP": "10.0.0.2", "X-Client-IP": "10.0.0.3"}, want: "10.0.0.2"},
		{name: "client ip third", headers: map[string]string{"X-Client-IP": "10.0.0.3"}, want: "10.0.0.3"},
		{name: "shared bucket for unidentified clients", headers: nil, want: "unknown-client"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/models", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIdentifier(req))
		})
	}
}
