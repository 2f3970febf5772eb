package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/utils"
)

// ChatController proxies chat requests to the configured completion
// endpoint. The API key never reaches the browser.
type ChatController struct {
	client  *http.Client
	apiBase string
	apiKey  string
	model   string
}

// NewChatController creates a ChatController for the given upstream.
func NewChatController(apiBase, apiKey, model string) *ChatController {
	return &ChatController{
		client:  &http.Client{Timeout: 60 * time.Second},
		apiBase: apiBase,
		apiKey:  apiKey,
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Completions forwards the conversation to the upstream model and
// returns the assistant reply. The upstream call shares the request's
// context so a client disconnect cancels it.
func (c *ChatController) Completions(ctx *gin.Context) {
	if c.apiBase == "" || c.apiKey == "" {
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, "chat is not configured")
		return
	}

	var req struct {
		Messages []chatMessage `json:"messages" binding:"required,min=1,dive"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	body, err := json.Marshal(gin.H{
		"model":    c.model,
		"messages": req.Messages,
	})
	if err != nil {
		fail(ctx, err)
		return
	}

	url := strings.TrimRight(c.apiBase, "/") + "/chat/completions"
	upstreamReq, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		fail(ctx, err)
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(upstreamReq)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnw("chat upstream request failed", "error", err)
		}
		utils.Error(ctx, http.StatusBadGateway, 50201, "chat upstream unavailable")
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50202, "failed to read chat response")
		return
	}
	if resp.StatusCode != http.StatusOK {
		if utils.Sugar != nil {
			utils.Sugar.Warnw("chat upstream error", "status", resp.StatusCode)
		}
		utils.Error(ctx, http.StatusBadGateway, 50203, "chat upstream error")
		return
	}

	var payload struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Choices) == 0 {
		utils.Error(ctx, http.StatusBadGateway, 50204, "malformed chat response")
		return
	}
	utils.Success(ctx, gin.H{"message": payload.Choices[0].Message})
}
