// Package summarizer generates short product summaries from positive reviews
// with an external text-generation service.
package summarizer

import (
	"context"
	"fmt"
	"os"
	"time"

	"review-digest/config"
	"review-digest/models"
)

const SYSTEM_INSTRUCTION = "You are a content manager summarizer of product reviews."

const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

// Request is one text-generation call.
type Request struct {
	Model             string
	SystemInstruction string
	Prompt            string
	MaxOutputTokens   int
	Temperature       float64
}

// Response is the generated text plus usage reported by the provider.
type Response struct {
	Text         string
	ModelVersion string
	Usage        TokenUsage
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// LLMRequestLog records a single summary call, successful or not.
type LLMRequestLog struct {
	Provider     string     `json:"provider"`
	Prompt       string     `json:"prompt"`
	Response     string     `json:"response"`
	Error        string     `json:"error,omitempty"`
	LatencyMs    int64      `json:"latency_ms"`
	TokenUsage   TokenUsage `json:"token_usage"`
	ModelName    string     `json:"model_name"`
	ModelVersion string     `json:"model_version"`
	RequestedAt  time.Time  `json:"requested_at"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

// ToAILog converts the request log into the ai_logs document for a product.
func (l *LLMRequestLog) ToAILog(runID string, product models.ProductAggregate) models.AILog {
	doc := models.AILog{
		RunID:          runID,
		ProductName:    product.Name,
		Cluster:        product.Cluster,
		Provider:       l.Provider,
		ModelName:      l.ModelName,
		ModelVersion:   l.ModelVersion,
		InputTokens:    l.TokenUsage.InputTokens,
		OutputTokens:   l.TokenUsage.OutputTokens,
		TotalTokens:    l.TokenUsage.TotalTokens,
		DurationMs:     l.LatencyMs,
		InputPrompt:    l.Prompt,
		OutputResponse: l.Response,
		RequestedAt:    l.RequestedAt,
		CompletedAt:    l.GeneratedAt,
	}
	if l.Error != "" {
		msg := l.Error
		doc.ErrorMessage = &msg
	}
	return doc
}

// Generator is a text-generation service handle.
type Generator interface {
	Provider() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// NewGenerator builds the provider handle selected by cfg. The API key is
// read from OPENAI_API_KEY or GEMINI_API_KEY.
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, models.ConfigError("OPENAI_API_KEY environment variable is not set", nil)
		}
		return NewOpenAIGenerator(apiKey), nil
	case ProviderGoogle:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, models.ConfigError("GEMINI_API_KEY environment variable is not set", nil)
		}
		return NewGeminiGenerator(ctx, apiKey)
	default:
		return nil, models.ConfigError(fmt.Sprintf("unsupported LLM provider: %s", cfg.Provider), nil)
	}
}
