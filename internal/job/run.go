package job

/*
 * run.go
 * Do the extraction
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/magisterquis/installfuncs/lib/funcextract"
	"github.com/magisterquis/installfuncs/lib/shellfuncsfile"
)

// Log messages and keys.
const (
	LMExtracted    = "Extracted functions"
	LMUnterminated = "Input ended inside a function"
	LMWrote        = "Wrote functions"

	LKFile      = "file"
	LKFunctions = "functions"
	LKInput     = "input"
	LKLines     = "lines"
	LKOutput    = "output"
	LKStrategy  = "strategy"
)

// StdoutName is used as Summary.Output when writing to stdout.
const StdoutName = "-"

// Summary describes what happened during a run.
type Summary struct {
	Input        string
	Output       string
	Functions    []string /* Function names, in output order. */
	Lines        int      /* Lines written. */
	Unterminated []string /* Files which ended in a function. */
}

// Scan extracts functions from the input described by cfg, but doesn't write
// them anywhere.  The returned bytes are what Run would write.
func Scan(
	ctx context.Context,
	sl *slog.Logger,
	cfg Config,
) ([]byte, Summary, error) {
	/* Work out what we're doing. */
	var sum Summary
	in, out, err := cfg.Paths()
	if nil != err {
		return nil, sum, fmt.Errorf("resolving paths: %w", err)
	}
	sum.Input = in
	sum.Output = out
	e, err := cfg.Extractor()
	if nil != err {
		return nil, sum, err
	}
	sl = sl.With(LKInput, in, LKStrategy, e.Strategy.String())

	/* Note what we find in each file.  Files in a directory are
	converted in parallel, so keep per-file results until the end. */
	var (
		results  = make(map[string]funcextract.Result)
		resultsL sync.Mutex
	)
	conv := shellfuncsfile.NewDefaultConverter()
	conv.SetLimit(cfg.Parallel)
	conv.SetExtractor(e, func(fn string, res funcextract.Result) {
		resultsL.Lock()
		defer resultsL.Unlock()
		results[fn] = res
	})

	/* Extract ALL the functions. */
	b, err := conv.From(ctx, in)
	if nil != err {
		return nil, sum, fmt.Errorf("converting %s: %w", in, err)
	}

	/* Roll up the results in the order they'd have been written. */
	for _, fn := range slices.Sorted(maps.Keys(results)) {
		res := results[fn]
		sum.Functions = append(sum.Functions, res.Names...)
		sum.Lines += len(res.Lines)
		sl.Debug(
			LMExtracted,
			LKFile, fn,
			LKFunctions, len(res.Names),
			LKLines, len(res.Lines),
		)
		if res.Unterminated {
			sum.Unterminated = append(sum.Unterminated, fn)
			sl.Warn(LMUnterminated, LKFile, fn)
		}
	}

	return b, sum, nil
}

// Run extracts functions from the input described by cfg and writes them to
// the output file, or to stdout if cfg.Stdout is set.  The output file is
// created or truncated.
func Run(
	ctx context.Context,
	sl *slog.Logger,
	cfg Config,
	stdout io.Writer,
) (Summary, error) {
	b, sum, err := Scan(ctx, sl, cfg)
	if nil != err {
		return sum, err
	}

	/* Send the functions where they belong. */
	if cfg.Stdout {
		sum.Output = StdoutName
		if _, err := stdout.Write(b); nil != err {
			return sum, fmt.Errorf("writing to stdout: %w", err)
		}
	} else if err := os.WriteFile(sum.Output, b, OutputPerm); nil != err {
		return sum, fmt.Errorf("writing %s: %w", sum.Output, err)
	}
	sl.Info(
		LMWrote,
		LKInput, sum.Input,
		LKOutput, sum.Output,
		LKFunctions, len(sum.Functions),
		LKLines, sum.Lines,
	)

	return sum, nil
}
