package llm

import "context"

// Usage is the token accounting returned by a completion backend.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Completion is the raw text returned by a model plus its accounting.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (*Completion, error)
}
