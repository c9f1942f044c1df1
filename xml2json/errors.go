package xml2json

import "fmt"

// TransportError reports a failed remote fetch: either the request itself
// failed or the server answered with a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IOError reports a failed local file read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// LexicalError reports a malformed XML fragment at a byte offset. Under the
// resume policy the scanner skips the fragment and continues, so these are
// collected on the Document rather than aborting the build.
type LexicalError struct {
	Offset int
	Msg    string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("malformed xml at offset %d: %s", e.Offset, e.Msg)
}
