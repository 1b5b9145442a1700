package summarizer

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator calls the chat completions API.
type OpenAIGenerator struct {
	client *openai.Client
}

func NewOpenAIGenerator(apiKey string, opts ...option.RequestOption) *OpenAIGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIGenerator{client: &client}
}

func (g *OpenAIGenerator) Provider() string { return ProviderOpenAI }

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemInstruction),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxOutputTokens))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		ModelVersion: resp.Model,
		Usage: TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
