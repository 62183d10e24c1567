package completion

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini serves Gemini model ids directly through the Google GenAI SDK
type Gemini struct {
	client *genai.Client
}

// Ensure Gemini implements Completer
var _ Completer = (*Gemini)(nil)

// NewGemini creates a Gemini backend
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client}, nil
}

// Complete generates content with the request's system instruction
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate for %s failed: %w", req.Model, err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty completion for %s", req.Model)
	}
	return text, nil
}
