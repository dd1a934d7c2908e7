// Program extractfuncs - Pull shell functions out of the installer template
//
// Run without arguments, extractfuncs reads install_script.sh.template from
// the parent of the directory holding the program and writes the functions
// it finds to extracted_functions.sh next to the program, so that tests can
// source the functions without running the whole installer.
package main

/*
 * main.go
 * Pull shell functions out of the installer template
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/magisterquis/installfuncs/internal/job"
	"github.com/magisterquis/installfuncs/lib/shellfuncsfile"
)

var (
	// LogEnvVar is the environment variable we use for the default
	// logfile, which will be "" if unset.
	LogEnvVar = "EXTRACTFUNCS_LOG"
	// EnvPrefix prefixes environment variables which override config
	// file settings, e.g. EXTRACTFUNCS_STRATEGY.
	EnvPrefix = "EXTRACTFUNCS"
	// ConfigName is the name of the config file, less its extension.
	ConfigName = "extractfuncs"
)

// Log messages and keys.
const (
	LMConfigFile  = "Using config file"
	LMTerminating = "Program terminating"

	LKError = "error"
	LKFile  = "file"
)

// Config keys, which are also the yaml keys in job.Config.
const (
	keyBaseDir  = "base_dir"
	keyInput    = "input"
	keyOutput   = "output"
	keyStrategy = "strategy"
	keyStdout   = "stdout"
	keyParallel = "parallel"
)

func main() { os.Exit(rmain(os.Args[1:], os.Stdout, os.Stderr)) }

// rmain runs the program with the given arguments, less the program name, and
// returns the exit status.
func rmain(args []string, stdout, stderr io.Writer) int {
	a := &app{v: viper.New(), sl: slog.New(slog.NewJSONHandler(
		io.Discard,
		nil,
	))}
	defer a.close()
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(context.Background()); nil != err {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		a.sl.Error(LMTerminating, LKError, err)
		return 1
	}
	return 0
}

// app holds the state shared between commands.
type app struct {
	v       *viper.Viper
	sl      *slog.Logger
	logFile *os.File
}

// close closes a's logfile, if it has one.
func (a *app) close() {
	if nil != a.logFile {
		a.logFile.Close()
	}
}

// rootCmd returns the root command, with all of its subcommands.
func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extractfuncs",
		Short: "Extract shell functions from the installer template",
		Long: `extractfuncs copies the shell functions in an installer script template to a
file which can be sourced by tests, without running the installer itself.

A function starts on a line beginning with "function" and ends on a line
beginning with "}" once the braces seen so far balance.  Everything else is
dropped.

With no options, the template is ../install_script.sh.template and the output
is extracted_functions.sh, both relative to the directory holding this program.
A directory of templates may be given as the input.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runExtract,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Config `file` (default: ./"+ConfigName+
		".yaml or ~/.config/"+ConfigName+"/"+ConfigName+".yaml)")
	pf.String("log", os.Getenv(LogEnvVar),
		"Optional `file` to which to write JSON logs")
	pf.String("base-dir", "",
		"Resolve paths relative to `directory` instead of the program's")
	pf.String("input", "", "Template `file` or directory "+
		"(default ../"+job.DefaultInputName+")")
	pf.String("output", "", "Output `file` (default "+
		job.DefaultOutputName+")")
	pf.String("strategy", "", "Brace-matching `strategy`, depth or cumulative")
	pf.Int("parallel", shellfuncsfile.DefaultLimit,
		"Convert up to `N` templates in a directory at once")
	cmd.Flags().Bool("stdout", false, "Write to stdout instead of a file")

	/* Tie flags to config keys. */
	for k, f := range map[string]string{
		keyBaseDir:  "base-dir",
		keyInput:    "input",
		keyOutput:   "output",
		keyStrategy: "strategy",
		keyParallel: "parallel",
	} {
		a.v.BindPFlag(k, pf.Lookup(f))
	}
	a.v.BindPFlag(keyStdout, cmd.Flags().Lookup("stdout"))

	cmd.AddCommand(a.listCmd(), a.configCmd(), versionCmd())

	return cmd
}

// setup starts logging and reads the config file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	/* Set up logging.  If we're not writing to a logfile, we'll just kinda
	discard log messages.  Beats checking for nil, anyways. */
	if lf, _ := cmd.Flags().GetString("log"); "" != lf {
		f, err := os.OpenFile(
			lf,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0600,
		)
		if nil != err {
			return fmt.Errorf("opening logfile %s: %w", lf, err)
		}
		a.logFile = f
		a.sl = slog.New(slog.NewJSONHandler(f, nil))
	}

	/* Work out where our config lives. */
	def := job.DefaultConfig()
	a.v.SetDefault(keyStrategy, def.Strategy)
	a.v.SetDefault(keyParallel, def.Parallel)
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.AutomaticEnv()
	cf, _ := cmd.Flags().GetString("config")
	if "" != cf {
		a.v.SetConfigFile(cf)
	} else {
		a.v.SetConfigName(ConfigName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); nil == err {
			a.v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	/* Read it, if we have it. */
	err := a.v.ReadInConfig()
	var nfe viper.ConfigFileNotFoundError
	switch {
	case nil == err:
		a.sl.Info(LMConfigFile, LKFile, a.v.ConfigFileUsed())
	case "" == cf && errors.As(err, &nfe):
		/* No config file is fine. */
	default:
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

// config returns the job config from flags, the environment, and the config
// file.
func (a *app) config() (job.Config, error) {
	var cfg job.Config
	if err := a.v.Unmarshal(&cfg); nil != err {
		return job.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// runExtract runs the extraction job.
func (a *app) runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := a.config()
	if nil != err {
		return err
	}
	sum, err := job.Run(cmd.Context(), a.sl, cfg, cmd.OutOrStdout())
	if nil != err {
		return err
	}
	for _, fn := range sum.Unterminated {
		fmt.Fprintf(
			cmd.ErrOrStderr(),
			"Warning: %s ended inside a function\n",
			fn,
		)
	}
	return nil
}
