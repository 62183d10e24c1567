package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Gateway talks to an OpenAI-compatible chat completions endpoint that
// fronts several providers (OpenAI, Anthropic, Perplexity, ...)
type Gateway struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

// Ensure Gateway implements Completer
var _ Completer = (*Gateway)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGateway creates a gateway client; the per-call deadline comes from the context
func NewGateway(baseURL, apiKey string) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: resty.New().
			SetTimeout(2 * time.Minute).
			SetHeader("User-Agent", "AI-Visibility-Engine/1.0"),
	}
}

// IsEnabled reports whether the gateway has an endpoint and credentials
func (g *Gateway) IsEnabled() bool {
	return g.baseURL != "" && g.apiKey != ""
}

// Complete sends one chat completion request
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	if !g.IsEnabled() {
		return "", fmt.Errorf("completion gateway is not configured")
	}

	body := chatRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(g.baseURL + "/chat/completions")

	if err != nil {
		return "", fmt.Errorf("completion request for %s failed: %w", req.Model, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("completion gateway returned status %d for %s", resp.StatusCode(), req.Model)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion for %s: %w", req.Model, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("completion gateway error for %s: %s", req.Model, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion for %s", req.Model)
	}

	logrus.Debugf("Gateway completion for %s: %d chars", req.Model, len(parsed.Choices[0].Message.Content))
	return parsed.Choices[0].Message.Content, nil
}
