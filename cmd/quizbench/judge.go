package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/quizbench/internal/judge"
	"github.com/stellarlinkco/quizbench/internal/store"
)

type judgeOptions struct {
	run       int64
	judgeName string
	model     string
}

func newJudgeCmd(st *cliState) *cobra.Command {
	var opts judgeOptions

	cmd := &cobra.Command{
		Use:     "judge",
		Short:   "Score every unrated answer of a test run",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJudge(cmd, st, &opts)
		},
	}

	cmd.Flags().Int64Var(&opts.run, "run", 0, "test run id (0 selects the latest run)")
	cmd.Flags().StringVar(&opts.judgeName, "judge", "", `judge model name ("claude*", "gpt-4*", "human"; empty runs the default pair)`)
	cmd.Flags().StringVar(&opts.model, "model", "", "judge only this model's answers (empty judges every model)")

	return cmd
}

func runJudge(cmd *cobra.Command, st *cliState, opts *judgeOptions) error {
	if st == nil || st.cfg == nil {
		return errors.New("judge: missing config (internal error)")
	}
	if opts.run < 0 {
		return fmt.Errorf("judge: invalid test run id %d", opts.run)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stor, err := store.Open(st.cfg)
	if err != nil {
		return fmt.Errorf("judge: open store: %w", err)
	}
	defer stor.Close()

	mgr, err := judge.NewManager(stor, st.cfg, opts.judgeName)
	if err != nil {
		return err
	}

	results, runErr := mgr.Run(ctx, opts.run, opts.model)

	out := cmd.OutOrStdout()
	for _, res := range results {
		_, _ = fmt.Fprintf(out, "Judge %s: rated=%d skipped=%d\n", res.JudgeName, res.Rated, res.Skipped)
	}
	return runErr
}
