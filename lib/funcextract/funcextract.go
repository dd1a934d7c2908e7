// Package funcextract pulls shell function definitions out of a larger
// script, e.g. an installer template, so they can be sourced on their own.
//
// Function boundaries are found with a line-oriented heuristic, not a shell
// parser.  A function starts on a line beginning with the literal token
// "function" and ends on a line beginning with "}" once the braces seen so
// far balance.  Everything else outside a function is dropped.
package funcextract

/*
 * funcextract.go
 * Extract shell functions from a script
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// OpenToken starts a line which opens a function.
	OpenToken = "function"
	// CloseToken starts a line which may close a function.
	CloseToken = "}"
)

// Strategy is how an Extractor decides when braces balance.
type Strategy int

const (
	// Depth tracks the nesting depth of the current function only, starting
	// over on every opening line.  Every brace on a line counts.  A
	// } line outside of a function is dropped.
	Depth Strategy = iota
	// Cumulative counts lines with a { and lines with a } since the start
	// of the input and considers braces balanced when the counts are
	// equal.  A balanced } line is a closing line even outside of a
	// function.  Use it when output must match previously extracted files
	// byte-for-byte.
	Cumulative
)

// strategyNames maps Strategies to their names.
var strategyNames = map[Strategy]string{
	Depth:      "depth",
	Cumulative: "cumulative",
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the Strategy with the given name, as returned by
// Strategy.String.  The empty string is the default, Depth.
func ParseStrategy(name string) (Strategy, error) {
	if "" == name {
		return Depth, nil
	}
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, UnknownStrategyError(name)
}

// UnknownStrategyError is returned by ParseStrategy for names it doesn't know.
type UnknownStrategyError string

// Error implements the error interface.
func (err UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", string(err))
}

// Result holds what was found in one run of an Extractor.
type Result struct {
	// Lines are the extracted lines, terminators included.
	Lines []string
	// Names are the names of the functions found, in order.
	Names []string
	// Unterminated is true if the input ended inside a function.
	Unterminated bool
}

// Bytes returns r.Lines, concatenated.
func (r Result) Bytes() []byte {
	var b bytes.Buffer
	for _, l := range r.Lines {
		b.WriteString(l)
	}
	return b.Bytes()
}

// Extractor extracts shell functions.  The zero Extractor uses the Depth
// strategy.  Extractors are stateless and may be used concurrently.
type Extractor struct {
	Strategy Strategy
}

// Extract reads all of r and extracts the functions in it.  It uses a zero
// Extractor.
func Extract(r io.Reader) ([]byte, error) {
	res, err := Extractor{}.Extract(r)
	if nil != err {
		return nil, err
	}
	return res.Bytes(), nil
}

// Extract reads all of r and extracts the functions in it.  The only errors
// returned are from reading r.
func (e Extractor) Extract(r io.Reader) (Result, error) {
	var (
		lines []string
		br    = bufio.NewReader(r)
	)
	for {
		line, err := br.ReadString('\n')
		if "" != line {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			break
		} else if nil != err {
			return Result{}, fmt.Errorf(
				"reading line %d: %w",
				len(lines)+1,
				err,
			)
		}
	}
	return e.ExtractLines(lines), nil
}

// ExtractLines extracts the functions in lines.  Lines are copied as-is to
// the returned Result, so they should probably end in newlines.
func (e Extractor) ExtractLines(lines []string) Result {
	var (
		res        Result
		inFunction bool
		bal        balancer
	)
	switch e.Strategy {
	case Cumulative:
		bal = new(cumulative)
	default:
		bal = new(depth)
	}

	for _, line := range lines {
		opening := strings.HasPrefix(line, OpenToken)
		bal.Add(line, opening)
		switch {
		case opening:
			inFunction = true
			res.Lines = append(res.Lines, line)
			res.Names = append(res.Names, FuncName(line))
		case strings.HasPrefix(line, CloseToken) &&
			bal.Closes(line, inFunction):
			inFunction = false
			res.Lines = append(res.Lines, line)
		case inFunction:
			res.Lines = append(res.Lines, line)
		}
	}
	res.Unterminated = inFunction

	return res
}

// FuncName returns the name of the function opened on line, which should
// start with OpenToken.  The name runs up to the first whitespace, (, or {.
// FuncName returns the empty string if there's no name.
func FuncName(line string) string {
	rest, ok := strings.CutPrefix(line, OpenToken)
	if !ok {
		return ""
	}
	rest = strings.TrimLeft(rest, " \t")
	if end := strings.IndexAny(rest, " \t\r\n({"); -1 != end {
		rest = rest[:end]
	}
	return rest
}

// SplitLines splits b into lines, each of which keeps its terminator.  A final
// line without a newline is kept as well.
func SplitLines(b []byte) []string {
	var lines []string
	for 0 != len(b) {
		i := bytes.IndexByte(b, '\n')
		if -1 == i {
			lines = append(lines, string(b))
			break
		}
		lines = append(lines, string(b[:i+1]))
		b = b[i+1:]
	}
	return lines
}
