package main

/*
 * main_test.go
 * Tests for the command-line interface
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/magisterquis/installfuncs/internal/job"
)

// testTemplate is a little installer template.
const testTemplate = `#!/bin/sh
set -e

function ensure_dir() {
  if [ ! -d "$1" ]; then
    mkdir -p "$1"
  fi
}

x='{'
function on_error() {
  echo "Installation failed" >&2
}

ensure_dir /opt/agent
`

// testFunctions is what we expect to extract from testTemplate with the
// default strategy.
const testFunctions = `function ensure_dir() {
  if [ ! -d "$1" ]; then
    mkdir -p "$1"
  fi
}
function on_error() {
  echo "Installation failed" >&2
}
`

// newTestBase sets up a fresh home directory and a base directory with
// testTemplate in its parent.  It returns the base directory.
func newTestBase(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	base := filepath.Join(root, "unit_tests")
	require.NoError(t, os.Mkdir(base, 0700))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, job.DefaultInputName),
		[]byte(testTemplate),
		0600,
	))
	return base
}

// run calls rmain with args and returns the exit status, stdout, and stderr.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ret := rmain(args, &stdout, &stderr)
	return ret, stdout.String(), stderr.String()
}

func TestRmain_Extract(t *testing.T) {
	base := newTestBase(t)
	ret, stdout, stderr := run(t, "--base-dir", base)
	require.Equal(t, 0, ret, "stderr: %s", stderr)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)

	got, err := os.ReadFile(filepath.Join(base, job.DefaultOutputName))
	require.NoError(t, err)
	assert.Equal(t, testFunctions, string(got))
}

func TestRmain_Stdout(t *testing.T) {
	base := newTestBase(t)
	ret, stdout, stderr := run(t, "--base-dir", base, "--stdout")
	require.Equal(t, 0, ret, "stderr: %s", stderr)
	assert.Equal(t, testFunctions, stdout)
	assert.NoFileExists(t, filepath.Join(base, job.DefaultOutputName))
}

func TestRmain_Cumulative(t *testing.T) {
	base := newTestBase(t)
	ret, stdout, stderr := run(
		t,
		"--base-dir", base,
		"--stdout",
		"--strategy", "cumulative",
	)
	require.Equal(t, 0, ret, "stderr: %s", stderr)

	/* The stray brace keeps the second function open to the end. */
	want := testFunctions + "\nensure_dir /opt/agent\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "ended inside a function")
}

func TestRmain_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(base string) []string
		wantErr string
	}{
		{
			name: "missing input",
			args: func(base string) []string {
				return []string{
					"--base-dir", base,
					"--input", "nope.template",
				}
			},
			wantErr: "no such file or directory",
		},
		{
			name: "bad strategy",
			args: func(base string) []string {
				return []string{
					"--base-dir", base,
					"--strategy", "moose",
				}
			},
			wantErr: `unknown strategy "moose"`,
		},
		{
			name: "extra argument",
			args: func(base string) []string {
				return []string{"--base-dir", base, "kittens"}
			},
			wantErr: "unknown command",
		},
		{
			name: "missing config file",
			args: func(base string) []string {
				return []string{
					"--base-dir", base,
					"--config", filepath.Join(base, "no.yaml"),
				}
			},
			wantErr: "reading config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := newTestBase(t)
			ret, _, stderr := run(t, tt.args(base)...)
			assert.Equal(t, 1, ret)
			assert.True(
				t,
				strings.HasPrefix(stderr, "Error: "),
				"stderr: %s",
				stderr,
			)
			assert.Contains(t, stderr, tt.wantErr)
			assert.NoFileExists(
				t,
				filepath.Join(base, job.DefaultOutputName),
			)
		})
	}
}

func TestRmain_List(t *testing.T) {
	base := newTestBase(t)
	ret, stdout, stderr := run(t, "list", "--base-dir", base)
	require.Equal(t, 0, ret, "stderr: %s", stderr)
	assert.Equal(t, "ensure_dir\non_error\n", stdout)
	assert.NoFileExists(t, filepath.Join(base, job.DefaultOutputName))
}

func TestRmain_Config(t *testing.T) {
	base := newTestBase(t)
	cf := filepath.Join(base, "extractfuncs.yaml")
	require.NoError(t, os.WriteFile(
		cf,
		[]byte("strategy: cumulative\noutput: funcs.sh\nparallel: 2\n"),
		0600,
	))

	ret, stdout, stderr := run(
		t,
		"config",
		"--config", cf,
		"--base-dir", base,
	)
	require.Equal(t, 0, ret, "stderr: %s", stderr)

	var got job.Config
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, job.Config{
		BaseDir: base,
		Input: filepath.Join(
			filepath.Dir(base),
			job.DefaultInputName,
		),
		Output:   filepath.Join(base, "funcs.sh"),
		Strategy: "cumulative",
		Parallel: 2,
	}, got)
}

func TestRmain_Env(t *testing.T) {
	base := newTestBase(t)
	t.Setenv(EnvPrefix+"_STRATEGY", "cumulative")
	t.Setenv(EnvPrefix+"_BASE_DIR", base)
	ret, stdout, stderr := run(t, "config")
	require.Equal(t, 0, ret, "stderr: %s", stderr)
	assert.Contains(t, stdout, "strategy: cumulative\n")
	assert.Contains(t, stdout, "base_dir: "+base+"\n")
}

func TestRmain_Log(t *testing.T) {
	base := newTestBase(t)
	lf := filepath.Join(base, "log.json")
	ret, _, stderr := run(t, "--base-dir", base, "--log", lf)
	require.Equal(t, 0, ret, "stderr: %s", stderr)

	got, err := os.ReadFile(lf)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"msg":"`+job.LMWrote+`"`)
	assert.Contains(t, string(got), `"functions":2`)
}

func TestRmain_Version(t *testing.T) {
	newTestBase(t)
	ret, stdout, _ := run(t, "version")
	require.Equal(t, 0, ret)
	assert.NotEmpty(t, strings.TrimSpace(stdout))
}
