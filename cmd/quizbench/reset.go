package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/quizbench/internal/store"
)

func newResetCmd(st *cliState) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "reset",
		Short:   "Delete all benchmark data from the store",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			if st == nil || st.cfg == nil {
				return errors.New("reset: missing config (internal error)")
			}
			if !yes {
				return errors.New("reset: refusing without --yes")
			}

			stor, err := store.Open(st.cfg)
			if err != nil {
				return fmt.Errorf("reset: open store: %w", err)
			}
			defer stor.Close()

			if err := stor.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Store reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}
