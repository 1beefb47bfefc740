package judge

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIJudgeModel = "gpt-4"

// NewOpenAIJudge builds a judge backed by the OpenAI chat completions
// API. As with the Claude judge, the name is both the model and the
// rating attribution key.
func NewOpenAIJudge(name, apiKey, baseURL string) (*LLMJudge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultOpenAIJudgeModel
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("judge: openai: missing api key")
	}

	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	client := openai.NewClientWithConfig(cfg)

	call := func(ctx context.Context, userPrompt, systemPrompt string) (int, int, string, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       name,
			MaxTokens:   scoreMaxTokens,
			Temperature: scoreTemperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
		if err != nil {
			return 0, 0, "", err
		}
		if len(resp.Choices) == 0 {
			return resp.Usage.PromptTokens, resp.Usage.CompletionTokens, "", errors.New("judge: openai: empty choices")
		}
		return resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Choices[0].Message.Content, nil
	}

	return &LLMJudge{name: name, call: call}, nil
}
