package main

/*
 * list.go
 * List the functions which would be extracted
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magisterquis/installfuncs/internal/job"
)

// listCmd returns the list command, which prints function names.
func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the functions in the template, one per line",
		Long: `List prints the name of each function which would be extracted, in the
order in which it would be written.  Nothing is written to the output file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if nil != err {
				return err
			}
			_, sum, err := job.Scan(cmd.Context(), a.sl, cfg)
			if nil != err {
				return err
			}
			for _, n := range sum.Functions {
				if _, err := fmt.Fprintln(
					cmd.OutOrStdout(),
					n,
				); nil != err {
					return fmt.Errorf("writing name: %w", err)
				}
			}
			return nil
		},
	}
}
