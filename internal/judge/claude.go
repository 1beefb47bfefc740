package judge

import (
	"context"
	"errors"
	"strings"

	"github.com/stellarlinkco/quizbench/internal/claude"
)

const defaultClaudeJudgeModel = "claude-3-opus-20240229"

// NewClaudeJudge builds a judge backed by the Claude messages API. The
// name doubles as the model sent on every scoring call and as the
// rating attribution key, so two names never share rated-answer state.
func NewClaudeJudge(name, apiKey, baseURL string) (*LLMJudge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultClaudeJudgeModel
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("judge: claude: missing api key")
	}

	client := claude.NewClient(apiKey, claude.WithBaseURL(baseURL), claude.WithModel(name))

	call := func(ctx context.Context, userPrompt, systemPrompt string) (int, int, string, error) {
		temperature := scoreTemperature
		resp, err := client.Complete(ctx, &claude.Request{
			Model:       name,
			MaxTokens:   scoreMaxTokens,
			System:      systemPrompt,
			Temperature: &temperature,
			Messages: []claude.Message{
				{Role: "user", Content: userPrompt},
			},
		})
		if err != nil {
			return 0, 0, "", err
		}
		return resp.Usage.InputTokens, resp.Usage.OutputTokens, claude.Text(resp), nil
	}

	return &LLMJudge{name: name, call: call}, nil
}
