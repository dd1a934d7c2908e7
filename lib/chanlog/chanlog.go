// Package chanlog - capture slog output on a channel, for testing
package chanlog

/*
 * chanlog.go
 * Capture slog output on a channel, for testing
 * By J. Stuart McMurray
 * Created 20240925
 * Last Modified 20241015
 */

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// BufLen is the number of log lines a ChanLog buffers.
const BufLen = 1024

// ChanLog receives JSON log lines, without timestamps or trailing newlines.
// Writes block once BufLen lines are waiting.
type ChanLog chan string

// New returns a new ChanLog and a debug-level slog.Logger which logs to it.
// The logger doesn't add timestamps, to make lines easy to compare.
func New() (ChanLog, *slog.Logger) {
	cl := ChanLog(make(chan string, BufLen))
	sl := slog.New(slog.NewJSONHandler(cl, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if 0 == len(groups) && slog.TimeKey == a.Key {
				return slog.Attr{}
			}
			return a
		},
	}))
	return cl, sl
}

// Write sends each line in b to cl.  It always returns len(b), nil.
func (cl ChanLog) Write(b []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimSpace(b), []byte{'\n'}) {
		cl <- string(line)
	}
	return len(b), nil
}

// Expect expects the given lines, in order, and calls t.Errorf on mismatches.
// It blocks until as many lines as were given are read.
func (cl ChanLog) Expect(t *testing.T, lines ...string) {
	t.Helper()
	for _, want := range lines {
		got, ok := <-cl
		if !ok {
			t.Errorf("Log closed while waiting for %s", want)
			return
		} else if got != want {
			t.Errorf(
				"Unexpected log line:\n got: %s\nwant: %s",
				got,
				want,
			)
		}
	}
}

// ExpectEmpty is like cl.Expect but also calls t.Errorf if there are any
// other lines waiting afterwards.
func (cl ChanLog) ExpectEmpty(t *testing.T, lines ...string) {
	t.Helper()
	cl.Expect(t, lines...)
	var extra []string
LOOP:
	for {
		select {
		case l, ok := <-cl:
			if !ok { /* Closed, so nothing else is coming. */
				break LOOP
			}
			extra = append(extra, l)
		default: /* Empty, good. */
			break LOOP
		}
	}
	if 0 != len(extra) {
		t.Errorf(
			"Unexpected leftover log lines:\n%s",
			strings.Join(extra, "\n"),
		)
	}
}
