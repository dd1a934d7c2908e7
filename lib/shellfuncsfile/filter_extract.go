package shellfuncsfile

/*
 * filter_extract.go
 * Pull the functions out of a larger script
 * By J. Stuart McMurray
 * Created 20241015
 * Last Modified 20241015
 */

import (
	"fmt"
	"io"

	"github.com/magisterquis/installfuncs/lib/funcextract"
)

// A Reporter is called by filters made with NewExtractFilter with the
// name of each file filtered and what was found in it.  It may be called
// concurrently when converting a directory.
type Reporter func(filename string, res funcextract.Result)

// NewExtractFilter returns a Filter which extracts functions with e.  If
// report isn't nil, it is called after each file is filtered.
func NewExtractFilter(e funcextract.Extractor, report Reporter) Filter {
	return func(filename string, r io.Reader) ([]byte, error) {
		res, err := e.Extract(r)
		if nil != err {
			return nil, fmt.Errorf("extracting functions: %w", err)
		}
		if nil != report {
			report(filename, res)
		}
		return res.Bytes(), nil
	}
}

// FromTemplate returns the shell functions read from r, which is probably an
// installer script template.  It uses the default funcextract.Extractor.
func FromTemplate(filename string, r io.Reader) ([]byte, error) {
	return NewExtractFilter(funcextract.Extractor{}, nil)(filename, r)
}

// FromShell is FromTemplate, for ordinary shell scripts.
func FromShell(filename string, r io.Reader) ([]byte, error) {
	return FromTemplate(filename, r)
}

// SetExtractor sets the filter for all of the default extensions to one made
// with NewExtractFilter.
func (c *Converter) SetExtractor(e funcextract.Extractor, report Reporter) {
	f := NewExtractFilter(e, report)
	for ext := range defaultFilters {
		c.SetFilter(ext, f)
	}
}
