// Package llm provides inference client interfaces and implementations.
package llm

import (
	"context"
	"strings"
)

// CompletionRequest represents a chat completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for the inference endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for inference providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// AnalyzeImage describes an encoded still image.
	AnalyzeImage(ctx context.Context, image []byte) (string, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of inference provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new inference client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewAnthropicClient(apiKey)
	}
}

const summaryPrompt = "Summarize the home-repair issue described in this conversation " +
	"in two or three sentences a contractor can act on. Mention what is broken, " +
	"where, and any urgency the customer expressed."

const analysisPrompt = "Describe the visible problem in this photo of a home-repair " +
	"issue. Name the fixture or material involved and any damage you can see."

// Summarize condenses a transcript into an issue summary using the given
// client. The instruction is appended as a final user turn so the request
// stays valid for providers that require alternating roles.
func Summarize(ctx context.Context, c Client, messages []ChatMessage) (string, error) {
	msgs := make([]ChatMessage, 0, len(messages)+1)
	msgs = append(msgs, messages...)
	msgs = append(msgs, ChatMessage{Role: "user", Content: summaryPrompt})

	resp, err := c.Complete(ctx, &CompletionRequest{
		Messages:  msgs,
		MaxTokens: 512,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Content), nil
}
