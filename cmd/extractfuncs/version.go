package main

/*
 * version.go
 * Print the program's version
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is the program's version, settable at compile-time.  If unset, the
// module version from the build info is used.
var Version = ""

// versionCmd returns the version command.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version())
			return err
		},
	}
}

// version works out our version.
func version() string {
	if "" != Version {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && "" != bi.Main.Version {
		return bi.Main.Version
	}
	return "dev"
}
