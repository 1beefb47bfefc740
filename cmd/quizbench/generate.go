package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/quizbench/internal/dataset"
	"github.com/stellarlinkco/quizbench/internal/generator"
	"github.com/stellarlinkco/quizbench/internal/llm"
	"github.com/stellarlinkco/quizbench/internal/prompts"
	"github.com/stellarlinkco/quizbench/internal/store"
)

type generateOptions struct {
	run         int64
	model       string
	batchSize   int
	concurrency int
	newRun      bool
}

func newGenerateCmd(st *cliState) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate answers for every (question, model) pair of a test run",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, st, &opts)
		},
	}

	cmd.Flags().Int64Var(&opts.run, "run", 0, "test run id (0 reuses the latest run)")
	cmd.Flags().BoolVar(&opts.newRun, "new-run", false, "start a fresh test run instead of resuming the latest")
	cmd.Flags().StringVar(&opts.model, "model", "", "only generate for this model name")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "questions per worker batch (overrides config)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "worker pool size (overrides config)")

	return cmd
}

func runGenerate(cmd *cobra.Command, st *cliState, opts *generateOptions) error {
	if st == nil || st.cfg == nil {
		return errors.New("generate: missing config (internal error)")
	}
	if opts.run != 0 && opts.newRun {
		return errors.New("generate: --run and --new-run are mutually exclusive")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stor, err := store.Open(st.cfg)
	if err != nil {
		return fmt.Errorf("generate: open store: %w", err)
	}
	defer stor.Close()

	if err := ensureCatalogs(ctx, stor, st); err != nil {
		return err
	}

	models, err := stor.ListModels(ctx)
	if err != nil {
		return err
	}
	models = filterModels(models, opts.model)
	if len(models) == 0 {
		if strings.TrimSpace(opts.model) != "" {
			return fmt.Errorf("generate: unknown model %q", opts.model)
		}
		return errors.New("generate: no models in catalog")
	}

	// Resolve every model's provider up front so an unknown provider
	// name fails before any answer is generated.
	registry, err := llm.NewRegistryFromConfig(st.cfg)
	if err != nil {
		return err
	}
	providers := make([]llm.Provider, 0, len(models))
	for _, model := range models {
		provider, err := registry.ProviderFor(st.cfg, model.Provider)
		if err != nil {
			return fmt.Errorf("generate: model %q: %w", model.Name, err)
		}
		providers = append(providers, provider)
	}

	testRunID, err := resolveTestRun(ctx, stor, st, opts)
	if err != nil {
		return err
	}

	batchSize := st.cfg.Generation.BatchSize
	if opts.batchSize > 0 {
		batchSize = opts.batchSize
	}
	concurrency := st.cfg.Generation.Concurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}

	gen := generator.New(stor, generator.Config{
		BatchSize:   batchSize,
		Concurrency: concurrency,
	})

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Test run: %d\n", testRunID)

	for i, model := range models {
		res, err := gen.Run(ctx, providers[i], model, testRunID)
		if res != nil {
			_, _ = fmt.Fprintf(out, "Model %s: generated=%d failed=%d skipped=%d\n",
				res.ModelName, res.Generated, res.Failed, res.Skipped)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureCatalogs seeds empty question, model, and judge tables from the
// configured data files. Populated tables are left alone, so repeated
// invocations never duplicate catalog rows.
func ensureCatalogs(ctx context.Context, stor store.Store, st *cliState) error {
	questions, err := stor.ListQuestions(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		loaded, err := dataset.LoadQuestions(ctx, st.cfg.Data.QuestionsFile)
		if err != nil {
			return err
		}
		if len(loaded) == 0 {
			return fmt.Errorf("generate: no questions in %s", st.cfg.Data.QuestionsFile)
		}
		if err := stor.InsertQuestions(ctx, loaded); err != nil {
			return err
		}
	}

	models, err := stor.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		loaded, err := dataset.LoadModels(ctx, st.cfg.Data.ModelsFile)
		if err != nil {
			return err
		}
		if err := stor.InsertModels(ctx, loaded); err != nil {
			return err
		}
	}

	judges, err := stor.ListJudgeModels(ctx)
	if err != nil {
		return err
	}
	if len(judges) == 0 {
		// The judge catalog is optional; a missing file is fine.
		loaded, err := dataset.LoadJudgeModels(ctx, st.cfg.Data.JudgesFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := stor.InsertJudgeModels(ctx, loaded); err != nil {
			return err
		}
	}
	return nil
}

// resolveTestRun picks the run to fill in: an explicit --run id wins,
// --new-run forces a fresh row, and the default resumes the latest run
// or creates the first one.
func resolveTestRun(ctx context.Context, stor store.Store, st *cliState, opts *generateOptions) (int64, error) {
	if opts.run > 0 {
		return opts.run, nil
	}
	if opts.run < 0 {
		return 0, fmt.Errorf("generate: invalid test run id %d", opts.run)
	}

	if !opts.newRun {
		id, err := stor.LatestTestRunID(ctx)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, store.ErrNoTestRuns):
			// First run.
		default:
			return 0, err
		}
	}

	params, err := json.Marshal(map[string]any{
		"batch_size":  st.cfg.Generation.BatchSize,
		"concurrency": st.cfg.Generation.Concurrency,
	})
	if err != nil {
		return 0, fmt.Errorf("generate: marshal parameters: %w", err)
	}

	run := &store.TestRun{
		UserPrompt:   prompts.PlayUser,
		SystemPrompt: prompts.PlaySystem,
		Parameters:   string(params),
	}
	if err := stor.CreateTestRun(ctx, run); err != nil {
		return 0, err
	}
	return run.ID, nil
}

func filterModels(models []*store.Model, name string) []*store.Model {
	name = strings.TrimSpace(name)
	if name == "" {
		return models
	}
	out := make([]*store.Model, 0, 1)
	for _, m := range models {
		if m != nil && m.Name == name {
			out = append(out, m)
		}
	}
	return out
}
