// Package shellfuncsfile takes a file or directory and turns it into a file
// of shell functions.
//
// The general idea is to make a Converter, and every time a shell functions
// file is needed, call Converter.From to get a nice slice of bytes.  If a
// directory is passed, every file in the directory is converted and the
// results concatenated, which is handy for installers split over several
// templates.
//
// Note that all of this is inherently racy.  Don't use this in situations
// where it's reasonably likely that files will change during calls to anything
// in this package.
package shellfuncsfile

/*
 * shellfuncsfile.go
 * Turn a file or directory into shell functions
 * By J. Stuart McMurray
 * Created 20240706
 * Last Modified 20241015
 */

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// A Filter converts read bytes into one or more shell functions, as
// appropriate.
type Filter func(filename string, r io.Reader) ([]byte, error)

// defaultFilters are the filters built-in to the library.  They are used in
// NewDefaultConverter.  Don't forget to update NewDefaultConverter's comment
// when one is added here.
var defaultFilters = map[string]Filter{
	"":         FromTemplate,
	"bash":     FromShell,
	"sh":       FromShell,
	"template": FromTemplate,
}

// DefaultLimit is the default number of files converted at once when
// converting a directory.
const DefaultLimit = 8

// A Converter converts files or directories into shell functions.  A zero
// converter is valid, but has no filters.  Converter's methods are safe for
// concurrent use by multiple goroutines.
type Converter struct {
	// FS is the converter's underlying source of files.  If unset, the
	// filesystem (e.g. [os.Open]) will be used.
	// FS must not be modified during a call to Converter.From.
	FS fs.FS

	filters  map[string]Filter
	limit    int
	filtersL sync.Mutex
}

// NewDefaultConverter returns a new converter with the default set of filters,
// which are the package-level From* functions.  The default filters and
// corresponding file name extensions are:
//   - FromTemplate: .template and no extension
//   - FromShell:    .sh .bash
func NewDefaultConverter() *Converter {
	return &Converter{filters: maps.Clone(defaultFilters)}
}

// SetFilter sets the filter for a given file name extension.  Set a nil filter
// to disable handling that extension.
func (c *Converter) SetFilter(ext string, filter Filter) {
	c.filtersL.Lock()
	defer c.filtersL.Unlock()
	/* If we don't have a filter, it's really a delete. */
	if nil == filter {
		delete(c.filters, ext)
		return
	}
	/* Set the filter. */
	if nil == c.filters {
		c.filters = make(map[string]Filter)
	}
	c.filters[ext] = filter
}

// SetLimit sets the maximum number of files in a directory converted at once.
// A limit less than 1 means DefaultLimit.
func (c *Converter) SetLimit(n int) {
	c.filtersL.Lock()
	defer c.filtersL.Unlock()
	c.limit = n
}

// open opens the named file, either from c.FS or the filesystem.
func (c *Converter) open(name string) (fs.File, error) {
	if nil == c.FS {
		return os.Open(name)
	}
	return c.FS.Open(name)
}

// join joins a directory and file name in a manner appropriate to c.FS.
func (c *Converter) join(dir, name string) string {
	if nil == c.FS {
		return filepath.Join(dir, name)
	}
	return path.Join(dir, name)
}

// fromDirectory converts all of the files in the directory d with
// c.fromFileName, in parallel, and concatenates the results in directory
// order, newline-separated.  The original path to d should be passed as pd.
func (c *Converter) fromDirectory(
	ctx context.Context,
	pd string,
	d fs.ReadDirFile,
) ([]byte, error) {
	/* Work out what we have in the directory. */
	des, err := d.ReadDir(-1)
	if nil != err {
		return nil, fmt.Errorf("reading directory contents: %w", err)
	}
	var fns []string
	for _, de := range des {
		/* Skip hidden files. */
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		fns = append(fns, de.Name())
	}
	/* ReadDir on an os.File doesn't sort. */
	slices.Sort(fns)

	/* Convert all the regular files. */
	c.filtersL.Lock()
	limit := c.limit
	c.filtersL.Unlock()
	if 1 > limit {
		limit = DefaultLimit
	}
	outs := make([][]byte, len(fns))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, n := range fns {
		fn := c.join(pd, n)
		eg.Go(func() error {
			if err := ectx.Err(); nil != err {
				return err
			}
			b, err := c.fromFileName(fn)
			if nil != err {
				return fmt.Errorf("converting %s: %w", fn, err)
			}
			outs[i] = b
			return nil
		})
	}
	if err := eg.Wait(); nil != err {
		return nil, err
	}

	/* Stick it all together. */
	var ret bytes.Buffer
	for _, b := range outs {
		if 0 == len(b) {
			continue
		}
		ret.Write(b)
		/* Make sure we have a newline. */
		if '\n' != b[len(b)-1] {
			ret.WriteByte('\n')
		}
	}

	/* Guess it worked? */
	return ret.Bytes(), nil
}

// fromFileName opens the named file and wraps fromFile.  It returns (nil, nil)
// if the named file is not a regular file.
func (c *Converter) fromFileName(name string) ([]byte, error) {
	/* Open the file and make sure it's a regular file. */
	f, err := c.open(name)
	if nil != err {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if nil != err {
		return nil, fmt.Errorf("describing file: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, nil
	}

	/* Convert the file. */
	return c.fromFile(name, f)
}

// fromFile returns the contents of the named file converted with a Filter
// according to the file name extension, as reported by [filepath.Ext].  The
// file must be a regular file.
func (c *Converter) fromFile(name string, f fs.File) ([]byte, error) {
	/* Work out what filter to use. */
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	c.filtersL.Lock()
	filter, ok := c.filters[ext]
	c.filtersL.Unlock()
	if !ok {
		return nil, fmt.Errorf("no filter for extension %q", ext)
	}

	return filter(name, f)
}

// From takes as its source either a file or a directory and returns a slice of
// bytes containing shell functions.
//
// If the source is a file, From returns its contents converted with a
// [Filter] function according to the source's file name extension as
// reported by [filepath.Ext].
//
// If the source is a directory, From filters and concatenates all of the
// regular files in the directory whose names do not start with a period,
// in name order, adding newlines as needed.  Files are filtered in parallel;
// ctx stops conversion of files not yet started.
// Do not change the files in the source during a call to From.
func (c *Converter) From(ctx context.Context, source string) ([]byte, error) {
	/* Figure out what sort of file this is. */
	f, err := c.open(source)
	if nil != err {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if nil != err {
		return nil, fmt.Errorf("describing source: %w", err)
	}

	/* Handle as appropriate. */
	switch {
	case fi.Mode().IsDir():
		d, ok := f.(fs.ReadDirFile)
		if !ok {
			return nil, fmt.Errorf("directory unreadable")
		}
		return c.fromDirectory(ctx, source, d)
	case fi.Mode().IsRegular():
		return c.fromFile(source, f)
	default:
		return nil, InvalidTypeError{FI: fi}
	}
}

// InvalidTypeError is returned from Converter.From when the source is neither
// a regular file nor directory.
type InvalidTypeError struct {
	FI fs.FileInfo
}

// Error implements the error interface.
func (err InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type: %s", err.FI.Mode().Type())
}
