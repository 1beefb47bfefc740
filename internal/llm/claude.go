package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/stellarlinkco/quizbench/internal/claude"
)

const claudeMaxAnswerTokens = 1024

type ClaudeProvider struct {
	client *claude.Client
}

func NewClaudeProvider(apiKey string, baseURL string) *ClaudeProvider {
	opts := make([]claude.Option, 0, 1)
	if v := strings.TrimSpace(baseURL); v != "" {
		opts = append(opts, claude.WithBaseURL(v))
	}
	return &ClaudeProvider{
		client: claude.NewClient(strings.TrimSpace(apiKey), opts...),
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Generate(ctx context.Context, prompt string, model string) (*GenerateResult, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("llm: claude: nil client")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("llm: claude: empty prompt")
	}

	resp, err := p.client.Complete(ctx, &claude.Request{
		Model:     strings.TrimSpace(model),
		Messages:  []claude.Message{{Role: "user", Content: prompt}},
		MaxTokens: claudeMaxAnswerTokens,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("llm: claude: nil response")
	}

	return &GenerateResult{
		Text:         claude.Text(resp),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
