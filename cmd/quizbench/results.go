package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/quizbench/internal/report"
	"github.com/stellarlinkco/quizbench/internal/store"
)

type resultsOptions struct {
	run    int64
	output string
}

func newResultsCmd(st *cliState) *cobra.Command {
	var opts resultsOptions

	cmd := &cobra.Command{
		Use:     "results",
		Short:   "Show per-model, per-judge score summaries for a test run",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(cmd, st, &opts)
		},
	}

	cmd.Flags().Int64Var(&opts.run, "run", 0, "test run id (0 selects the latest run)")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")

	return cmd
}

func runResults(cmd *cobra.Command, st *cliState, opts *resultsOptions) error {
	if st == nil || st.cfg == nil {
		return errors.New("results: missing config (internal error)")
	}
	if opts.run < 0 {
		return fmt.Errorf("results: invalid test run id %d", opts.run)
	}

	format := parseOutputFormat(opts.output)
	if format == "" {
		return fmt.Errorf("results: invalid --output %q (expected table|json)", opts.output)
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return fmt.Errorf("results: open store: %w", err)
	}
	defer stor.Close()

	summaries, err := report.ForRun(cmd.Context(), stor, opts.run)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), FormatSummaries(summaries, format))
	return nil
}
