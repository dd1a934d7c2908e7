package funcextract

/*
 * balance.go
 * Brace bookkeeping
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import "strings"

// balancer keeps track of braces seen so far.
type balancer interface {
	// Add notes the braces in line.  opening is true if line opens a
	// function.  Add is called for every line, before Closes.
	Add(line string, opening bool)
	// Closes returns true if line, which starts with CloseToken, closes
	// a function.  inFunction is true if we're in a function.
	Closes(line string, inFunction bool) bool
}

// cumulative counts lines with opening and closing braces from the start of
// the input.  A line with several braces still only counts once.
type cumulative struct {
	opens, closes int
}

// Add implements balancer.Add.
func (c *cumulative) Add(line string, _ bool) {
	if strings.Contains(line, "{") {
		c.opens++
	}
	if strings.Contains(line, "}") {
		c.closes++
	}
}

// Closes implements balancer.Closes.  A balanced } line is a closing line
// even outside of a function.
func (c *cumulative) Closes(string, bool) bool { return c.opens == c.closes }

// depth is the brace nesting depth within the current function.
type depth int

// Add implements balancer.Add.  An opening line resets the depth.
func (d *depth) Add(line string, opening bool) {
	if opening {
		*d = 0
	}
	*d += depth(strings.Count(line, "{") - strings.Count(line, "}"))
}

// Closes implements balancer.Closes.
func (d *depth) Closes(_ string, inFunction bool) bool {
	return inFunction && *d <= 0
}
