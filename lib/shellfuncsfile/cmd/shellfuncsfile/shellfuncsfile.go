// Program shellfuncsfile - Command-line wrapper around the shellfuncsfile library.
package main

/*
 * shellfuncsfile.go
 * Command-line wrapper around the shellfuncsfile library.
 * By J. Stuart McMurray
 * Created 20240731
 * Last Modified 20241015
 */

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/magisterquis/installfuncs/lib/funcextract"
	"github.com/magisterquis/installfuncs/lib/shellfuncsfile"
)

func main() { os.Exit(rmain()) }

func rmain() int {
	/* Command-line flags. */
	var (
		strategy = flag.String(
			"strategy",
			funcextract.Depth.String(),
			"Brace-matching `strategy`, depth or cumulative",
		)
		limit = flag.Int(
			"parallel",
			shellfuncsfile.DefaultLimit,
			"Convert up to `N` files in a directory at once",
		)
	)
	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			`Usage: %s [options] source [source...]

Command-line wrapper around the shellfuncsfile library.  Writes the shell
functions found in each source to stdout.

Options:
`,
			os.Args[0],
		)
		flag.PrintDefaults()
	}
	flag.Parse()

	/* Make sure we have something to convert. */
	if 0 == flag.NArg() {
		log.Fatalf("Need a source")
	}
	s, err := funcextract.ParseStrategy(*strategy)
	if nil != err {
		log.Fatalf("Error: %s", err)
	}

	/* Convert ALL the things. */
	conv := shellfuncsfile.NewDefaultConverter()
	conv.SetExtractor(funcextract.Extractor{Strategy: s}, nil)
	conv.SetLimit(*limit)
	for _, source := range flag.Args() {
		b, err := conv.From(context.Background(), source)
		if nil != err {
			log.Fatalf("Error converting %s: %s", source, err)
		}
		if _, err := os.Stdout.Write(b); nil != err {
			log.Fatalf("Output error: %s", err)
		}
	}

	return 0
}
