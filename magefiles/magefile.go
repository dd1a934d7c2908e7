//go:build mage

// Package main contains Mage build targets for installfuncs.
package main

/*
 * magefile.go
 * Build targets
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "extractfuncs"
	cmdPkg  = "./cmd/extractfuncs"
)

// Default is what runs with no target.
var Default = Build

// Build compiles extractfuncs into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); nil != err {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); nil != err {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the tests.
func Test() error { return sh.RunV("go", "test", "-race", "./...") }

// Vet runs go vet.
func Vet() error { return sh.RunV("go", "vet", "./...") }

// Check vets and tests.
func Check() { mg.SerialDeps(Vet, Test) }

// Extract extracts the functions in the template given in $TEMPLATE to the
// file named in $OUTPUT, which defaults to extracted_functions.sh.
func Extract() error {
	tmpl := os.Getenv("TEMPLATE")
	if "" == tmpl {
		return fmt.Errorf("need a template in $TEMPLATE")
	}
	out := os.Getenv("OUTPUT")
	if "" == out {
		out = "extracted_functions.sh"
	}
	wd, err := os.Getwd()
	if nil != err {
		return fmt.Errorf("getting working directory: %w", err)
	}
	return sh.RunV(
		"go", "run", cmdPkg,
		"--base-dir", wd,
		"--input", tmpl,
		"--output", out,
	)
}

// Clean removes bin/.
func Clean() error { return sh.Rm(binDir) }
