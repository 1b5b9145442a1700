package summarizer

import (
	"context"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini GenerateContent API.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Provider() string { return ProviderGoogle }

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}},
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Text:         result.Text(),
		ModelVersion: result.ModelVersion,
	}
	if result.UsageMetadata != nil {
		resp.Usage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}
