package main

/*
 * config.go
 * Print the effective configuration
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// configCmd returns the config command, which prints the configuration
// extractfuncs would use, with paths resolved, as YAML.  The output may be
// used as a config file.
func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if nil != err {
				return err
			}
			if cfg.Input, cfg.Output, err = cfg.Paths(); nil != err {
				return fmt.Errorf("resolving paths: %w", err)
			}
			if _, err := cfg.Extractor(); nil != err {
				return err
			}
			b, err := yaml.Marshal(cfg)
			if nil != err {
				return fmt.Errorf("marshalling config: %w", err)
			}
			if _, err := cmd.OutOrStdout().Write(b); nil != err {
				return fmt.Errorf("writing config: %w", err)
			}
			return nil
		},
	}
}
