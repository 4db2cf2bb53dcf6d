package domain

import "context"

// GenerateOptions carries the generation parameters the engine forwards
// verbatim. Both are opaque to the engine.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// Generator is the external text-generation collaborator. Implementations
// may stream internally but must return the fully joined output text;
// the engine never parses partial output.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	Name() string
}

// TokenCounter estimates the token footprint of prompt text.
type TokenCounter interface {
	Count(text string) int
}
