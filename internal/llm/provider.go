package llm

import "context"

// Provider is a uniform text-generation interface over one model vendor.
// Generate makes a single completion call for the named model; callers
// decide how vendor errors degrade (the generator records an empty
// answer rather than aborting a batch).
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, model string) (*GenerateResult, error)
}

// GenerateResult carries the generated text plus token accounting.
type GenerateResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}
