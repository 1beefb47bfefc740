package judge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/quizbench/internal/config"
	"github.com/stellarlinkco/quizbench/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "judge.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func seedAnswers(t *testing.T, st *store.SQLiteStore) (*store.Model, *store.TestRun, []*store.Answer) {
	t.Helper()
	ctx := context.Background()

	questions := []*store.Question{
		{Category: "HISTORY", Clue: "clue one"},
		{Category: "SCIENCE", Clue: "clue two"},
	}
	if err := st.InsertQuestions(ctx, questions); err != nil {
		t.Fatalf("InsertQuestions: %v", err)
	}

	model := &store.Model{Name: "gpt-4", Provider: "openai"}
	if err := st.InsertModels(ctx, []*store.Model{model}); err != nil {
		t.Fatalf("InsertModels: %v", err)
	}

	run := &store.TestRun{UserPrompt: "prompt"}
	if err := st.CreateTestRun(ctx, run); err != nil {
		t.Fatalf("CreateTestRun: %v", err)
	}

	answers := []*store.Answer{
		{QuestionID: questions[0].ID, ModelID: model.ID, TestRunID: run.ID, Prompt: "p1", Response: "Who is Caesar?"},
		{QuestionID: questions[1].ID, ModelID: model.ID, TestRunID: run.ID, Prompt: "p2", Response: "Hydrogen"},
	}
	for _, a := range answers {
		if err := st.InsertAnswer(ctx, a); err != nil {
			t.Fatalf("InsertAnswer: %v", err)
		}
	}
	return model, run, answers
}

func configWithKeys(claudeKey, openaiKey string) *config.Config {
	return &config.Config{
		Providers: map[string]config.ProviderConfig{
			"claude": {APIKey: claudeKey},
			"openai": {APIKey: openaiKey},
		},
	}
}

func TestNewManager_JudgeSelection(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	tests := []struct {
		name      string
		judgeName string
		cfg       *config.Config
		want      []string
		wantErr   bool
	}{
		{
			name: "empty selects default pair",
			cfg:  configWithKeys("ck", "ok"),
			want: []string{"claude-3-opus-20240229", "gpt-4"},
		},
		{
			name:      "claude prefix",
			judgeName: "claude-3-sonnet-20240229",
			cfg:       configWithKeys("ck", ""),
			want:      []string{"claude-3-sonnet-20240229"},
		},
		{
			name:      "gpt-4 prefix",
			judgeName: "gpt-4-turbo",
			cfg:       configWithKeys("", "ok"),
			want:      []string{"gpt-4-turbo"},
		},
		{
			name:      "human fallback",
			judgeName: "human",
			cfg:       configWithKeys("", ""),
			want:      []string{"human"},
		},
		{
			name:      "unknown judge",
			judgeName: "gemini-pro",
			cfg:       configWithKeys("ck", "ok"),
			wantErr:   true,
		},
		{
			name:      "claude without key",
			judgeName: "claude-3-opus-20240229",
			cfg:       configWithKeys("", "ok"),
			wantErr:   true,
		},
		{
			name:    "default pair without openai key",
			cfg:     configWithKeys("ck", ""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mgr, err := NewManager(st, tt.cfg, tt.judgeName)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewManager: expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewManager: %v", err)
			}

			judges := mgr.Judges()
			if len(judges) != len(tt.want) {
				t.Fatalf("judges: got %d want %d", len(judges), len(tt.want))
			}
			for i, name := range tt.want {
				if judges[i].Name() != name {
					t.Fatalf("judges[%d]: got %q want %q", i, judges[i].Name(), name)
				}
			}
		})
	}
}

func TestManager_Run_RatesAndSkips(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	_, run, _ := seedAnswers(t, st)

	mgr := &Manager{store: st, judges: []Judge{HumanJudge{}}}
	ctx := context.Background()

	results, err := mgr.Run(ctx, run.ID, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results: got %d want %d", len(results), 1)
	}
	if results[0].Rated != 2 || results[0].Skipped != 0 {
		t.Fatalf("first pass: got rated=%d skipped=%d", results[0].Rated, results[0].Skipped)
	}

	// A second pass rates nothing new.
	results, err = mgr.Run(ctx, run.ID, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Rated != 0 || results[0].Skipped != 2 {
		t.Fatalf("second pass: got rated=%d skipped=%d", results[0].Rated, results[0].Skipped)
	}

	rows, err := st.EvaluationRows(ctx, run.ID)
	if err != nil {
		t.Fatalf("EvaluationRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("EvaluationRows: got %d want %d", len(rows), 2)
	}
	for _, row := range rows {
		if row.JudgeModel != "human" {
			t.Fatalf("JudgeModel: got %q", row.JudgeModel)
		}
		if row.IsQuestion == nil {
			t.Fatalf("IsQuestion: got nil")
		}
	}
}

func TestManager_Run_LatestRunDefault(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedAnswers(t, st)

	mgr := &Manager{store: st, judges: []Judge{HumanJudge{}}}

	results, err := mgr.Run(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Rated != 2 {
		t.Fatalf("rated: got %d want %d", results[0].Rated, 2)
	}
}

func TestManager_Run_ModelFilter(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	model, run, _ := seedAnswers(t, st)

	mgr := &Manager{store: st, judges: []Judge{HumanJudge{}}}
	ctx := context.Background()

	results, err := mgr.Run(ctx, run.ID, model.Name)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Rated != 2 {
		t.Fatalf("rated: got %d want %d", results[0].Rated, 2)
	}

	if _, err := mgr.Run(ctx, run.ID, "no-such-model"); err == nil {
		t.Fatalf("Run: expected error for unknown model")
	}
}

func TestManager_Run_NoRuns(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	mgr := &Manager{store: st, judges: []Judge{HumanJudge{}}}

	if _, err := mgr.Run(context.Background(), 0, ""); err == nil {
		t.Fatalf("Run: expected error with no test runs")
	}
}
