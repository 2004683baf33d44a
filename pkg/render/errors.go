package render

import "fmt"

// RenderError is returned when a template cannot be parsed or references
// data the render context does not provide.
type RenderError struct {
	Template string
	Variable string // empty when the failure is not a missing variable
	Err      error
}

func (e *RenderError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("rendering %s: missing variable %q: %v", e.Template, e.Variable, e.Err)
	}
	return fmt.Sprintf("rendering %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IOError is returned when template bytes cannot be read or output cannot be
// written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// PathEncodingError is returned for asset paths that cannot be turned into
// an output file name.
type PathEncodingError struct {
	Path   string
	Reason string
}

func (e *PathEncodingError) Error() string {
	return fmt.Sprintf("invalid asset path %q: %s", e.Path, e.Reason)
}
