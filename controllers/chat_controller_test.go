package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func chatRouter(apiBase string) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/chat", NewChatController(apiBase, "test-key", "test-model").Completions)
	return r
}

const chatBody = `{"messages":[{"role":"user","content":"hi"}]}`

func TestChatCompletionsProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer upstream.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(chatBody))
	chatRouter(upstream.URL).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello there")
}

func TestChatCompletionsCanceledRequestSkipsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"too late"}}]}`))
	}))
	defer upstream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(chatBody)).WithContext(ctx)

	w := httptest.NewRecorder()
	chatRouter(upstream.URL).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code, "a dead client must not get a live upstream call")
}

func TestChatCompletionsUnconfigured(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(chatBody))
	chatRouter("").ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
