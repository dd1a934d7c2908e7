// Package job - Extract functions from the installer template to a file
package job

/*
 * job.go
 * Extract functions from the installer template to a file
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magisterquis/installfuncs/lib/funcextract"
	"github.com/magisterquis/installfuncs/lib/shellfuncsfile"
)

const (
	// DefaultInputName is the template from which to extract functions.
	// It lives in the parent of the base directory.
	DefaultInputName = "install_script.sh.template"
	// DefaultOutputName is the file to which to write functions.  It
	// lives in the base directory.
	DefaultOutputName = "extracted_functions.sh"
	// OutputPerm is the permissions with which the output file is created.
	OutputPerm = 0644
)

// Config describes one extraction.  The zero value extracts from the default
// template next to the program to the default output file, with the default
// strategy.
type Config struct {
	// BaseDir is the directory relative to which Input and Output are
	// resolved.  If unset, it's the directory holding the running program.
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"`
	// Input is the template or directory of templates.  Defaults to
	// DefaultInputName in BaseDir's parent.
	Input string `yaml:"input" mapstructure:"input"`
	// Output is the file to write.  Defaults to DefaultOutputName in
	// BaseDir.
	Output string `yaml:"output" mapstructure:"output"`
	// Strategy names the funcextract.Strategy to use.
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
	// Stdout causes output to be written to stdout instead of Output.
	Stdout bool `yaml:"stdout" mapstructure:"stdout"`
	// Parallel is the number of templates in a directory to convert at
	// once.
	Parallel int `yaml:"parallel" mapstructure:"parallel"`
}

// DefaultConfig returns a Config with its defaults filled in, apart from the
// paths, which depend on where the program is.
func DefaultConfig() Config {
	return Config{
		Strategy: funcextract.Depth.String(),
		Parallel: shellfuncsfile.DefaultLimit,
	}
}

// ProgramDir returns the directory holding the running program, with symlinks
// resolved.
func ProgramDir() (string, error) {
	exe, err := os.Executable()
	if nil != err {
		return "", fmt.Errorf("finding program: %w", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); nil != err {
		return "", fmt.Errorf("resolving program path: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Paths works out the input and output file paths.  Relative paths are
// relative to c.BaseDir, or ProgramDir if c.BaseDir is empty.
func (c Config) Paths() (input, output string, err error) {
	/* Work out where we are. */
	base := c.BaseDir
	if "" == base {
		if base, err = ProgramDir(); nil != err {
			return "", "", err
		}
	}

	/* Fill in defaults and anchor relative paths. */
	resolve := func(p, def string) string {
		switch {
		case "" == p:
			return filepath.Join(base, def)
		case filepath.IsAbs(p):
			return filepath.Clean(p)
		default:
			return filepath.Join(base, p)
		}
	}
	input = resolve(c.Input, filepath.Join("..", DefaultInputName))
	output = resolve(c.Output, DefaultOutputName)

	return input, output, nil
}

// Extractor returns the funcextract.Extractor described by c.
func (c Config) Extractor() (funcextract.Extractor, error) {
	s, err := funcextract.ParseStrategy(c.Strategy)
	if nil != err {
		return funcextract.Extractor{}, err
	}
	return funcextract.Extractor{Strategy: s}, nil
}
