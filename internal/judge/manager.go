package judge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/stellarlinkco/quizbench/internal/config"
	"github.com/stellarlinkco/quizbench/internal/store"
)

// Manager runs the judgement pass: for every model in the catalog and
// every selected judge, it scores exactly the answers that judge has
// not rated yet and persists one rating per answer.
type Manager struct {
	store  store.Store
	judges []Judge
}

// Result summarizes one judge's portion of a judgement pass.
type Result struct {
	JudgeName string
	Rated     int // ratings inserted this pass
	Skipped   int // answers already rated before this pass
}

// NewManager resolves the requested judge name against the available
// implementations. An empty name selects the default pair, Claude and
// GPT-4, which is the full-comparison mode; "human" selects the
// offline fallback; any other name must match a known family prefix.
func NewManager(st store.Store, cfg *config.Config, judgeName string) (*Manager, error) {
	if st == nil {
		return nil, errors.New("judge: nil store")
	}
	if cfg == nil {
		return nil, errors.New("judge: nil config")
	}

	judges, err := selectJudges(cfg, judgeName)
	if err != nil {
		return nil, err
	}
	return &Manager{store: st, judges: judges}, nil
}

func selectJudges(cfg *config.Config, judgeName string) ([]Judge, error) {
	judgeName = strings.TrimSpace(judgeName)

	claudeCfg := cfg.Providers["claude"]
	openaiCfg := cfg.Providers["openai"]

	switch {
	case judgeName == "":
		claudeJudge, err := NewClaudeJudge("", claudeCfg.APIKey, claudeCfg.BaseURL)
		if err != nil {
			return nil, err
		}
		openaiJudge, err := NewOpenAIJudge("", openaiCfg.APIKey, openaiCfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return []Judge{claudeJudge, openaiJudge}, nil
	case judgeName == humanJudgeName:
		return []Judge{HumanJudge{}}, nil
	case strings.HasPrefix(judgeName, "claude"):
		j, err := NewClaudeJudge(judgeName, claudeCfg.APIKey, claudeCfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return []Judge{j}, nil
	case strings.HasPrefix(judgeName, "gpt-4"):
		j, err := NewOpenAIJudge(judgeName, openaiCfg.APIKey, openaiCfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return []Judge{j}, nil
	default:
		return nil, fmt.Errorf("judge: unknown judge %q", judgeName)
	}
}

// Judges exposes the resolved judge set, in scoring order.
func (m *Manager) Judges() []Judge {
	if m == nil {
		return nil
	}
	return m.judges
}

// Run judges every unrated answer of the given test run. A testRunID
// of 0 selects the most recent run; a non-empty modelName restricts
// the pass to that model's answers. Each rating is persisted as soon
// as it is produced, so an interrupted pass resumes where it stopped.
func (m *Manager) Run(ctx context.Context, testRunID int64, modelName string) ([]*Result, error) {
	if m == nil || m.store == nil {
		return nil, errors.New("judge: nil manager")
	}
	if ctx == nil {
		return nil, errors.New("judge: nil context")
	}

	if testRunID == 0 {
		id, err := m.store.LatestTestRunID(ctx)
		if err != nil {
			return nil, err
		}
		testRunID = id
	}
	if testRunID <= 0 {
		return nil, fmt.Errorf("judge: invalid test run id %d", testRunID)
	}

	models, err := m.store.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if modelName != "" {
		var match *store.Model
		for _, model := range models {
			if model.Name == modelName {
				match = model
				break
			}
		}
		if match == nil {
			return nil, fmt.Errorf("judge: unknown model %q", modelName)
		}
		models = []*store.Model{match}
	}

	results := make([]*Result, 0, len(m.judges))
	for _, j := range m.judges {
		res := &Result{JudgeName: j.Name()}
		for _, model := range models {
			rated, skipped, err := m.judgeModel(ctx, j, model, testRunID)
			res.Rated += rated
			res.Skipped += skipped
			if err != nil {
				return results, fmt.Errorf("judge: %s: model %q: %w", j.Name(), model.Name, err)
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func (m *Manager) judgeModel(ctx context.Context, j Judge, model *store.Model, testRunID int64) (rated, skipped int, err error) {
	all, err := m.store.AnswersByModelRun(ctx, model.ID, testRunID)
	if err != nil {
		return 0, 0, err
	}
	pending, err := m.store.UnratedAnswers(ctx, model.ID, testRunID, j.Name())
	if err != nil {
		return 0, 0, err
	}
	skipped = len(all) - len(pending)

	for _, answer := range pending {
		if err := ctx.Err(); err != nil {
			return rated, skipped, err
		}

		card := j.Score(ctx, answer.Prompt, answer.Response)

		rating := &store.Rating{
			AnswerID:     answer.ID,
			TestRunID:    testRunID,
			Accuracy:     card.Accuracy,
			Coherence:    card.Coherence,
			Completeness: card.Completeness,
			IsQuestion:   card.IsQuestion,
			InputTokens:  card.InputTokens,
			OutputTokens: card.OutputTokens,
			JudgeModel:   j.Name(),
		}
		if err := m.store.InsertRating(ctx, rating); err != nil {
			return rated, skipped, err
		}
		rated++
		log.Printf("judge: %s rated answer %d (model %q)", j.Name(), answer.ID, model.Name)
	}
	return rated, skipped, nil
}
