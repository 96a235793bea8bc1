package llm

import (
	"context"
	"strings"

	"cv-generator-backend/pkg/apperror"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const (
	DefaultGenerationModel = "claude-sonnet-4-20250514"
	generationMaxTokens    = 4096
)

// AnthropicGenerator generates CV text through the Anthropic Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
	apiKey string
}

// NewAnthropicGenerator builds a generator. baseURL may be empty for the public API.
func NewAnthropicGenerator(apiKey, model, baseURL string, opts ...option.RequestOption) *AnthropicGenerator {
	if model == "" {
		model = DefaultGenerationModel
	}
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)

	return &AnthropicGenerator{
		client: anthropic.NewClient(all...),
		model:  model,
		apiKey: apiKey,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string, temperature float64) (*Completion, error) {
	if g.apiKey == "" {
		return nil, apperror.Configuration("Generation API key is not configured")
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   generationMaxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "anthropic messages request failed")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("no text content in anthropic response")
	}

	in, out := msg.Usage.InputTokens, msg.Usage.OutputTokens
	return &Completion{
		Text:  text.String(),
		Model: string(msg.Model),
		Usage: Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}, nil
}
