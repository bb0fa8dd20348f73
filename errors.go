package glyphcache

import "fmt"

// FontLoadError reports an I/O failure while reading a font file
// during cache construction. It is recoverable by the caller, e.g. by
// retrying with a different path.
type FontLoadError struct {
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("glyphcache: load font %q: %v", e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// FontParseError reports that the supplied bytes could not be
// interpreted as a valid font, or that the parsed collection contains
// no fonts.
type FontParseError struct {
	Err error
}

func (e *FontParseError) Error() string {
	return fmt.Sprintf("glyphcache: parse font: %v", e.Err)
}

func (e *FontParseError) Unwrap() error { return e.Err }
