// Package xml2json converts XML documents into a JSON-compatible tree of
// key/value nodes. The XML is consumed as a stream of lexical events and the
// tree is delivered fully built through a completion callback; repeated
// sibling tags are promoted to ordered lists, text and CDATA content is
// merged onto the owning node.
package xml2json

import (
	"bytes"
	"io"
	"io/ioutil"
)

// Parse converts an in-memory XML string. onDone is invoked exactly once,
// synchronously, with the finished document. The returned error is reserved
// for the sibling entry points and is always nil here; malformed XML is
// handled by the resume policy and surfaces via Document.LexicalErrors.
func Parse(xmlText string, onDone func(*Document)) error {
	onDone(parseString(xmlText))
	return nil
}

// ParseFromFile reads the file fully and behaves as Parse. A failed read
// returns an *IOError and onDone is never called.
func ParseFromFile(path string, onDone func(*Document)) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	return Parse(string(data), onDone)
}

// ParseFromURL issues one HTTP GET for the URL and behaves as Parse on the
// response body. A request failure or non-2xx status returns a
// *TransportError and onDone is never called. The timeout applies to the
// fetch only; the parse itself is unbounded.
func ParseFromURL(rawurl string, onDone func(*Document), opts ...FetchOption) error {
	o := DefaultFetchOptions()
	for _, opt := range opts {
		opt(&o)
	}
	body, err := fetchURL(rawurl, o)
	if err != nil {
		return err
	}
	return Parse(body, onDone)
}

// Convert reads an XML document from r and returns its JSON serialization.
func Convert(r io.Reader) (*bytes.Buffer, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := parseString(string(data))

	buf := new(bytes.Buffer)
	if err := NewEncoder(buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf, nil
}

// parseString wires the scanner to a fresh builder and runs the event stream
// to completion.
func parseString(xmlText string) *Document {
	sc := NewScanner(xmlText)
	b := NewBuilder()
	for {
		ev := sc.Next()
		b.Consume(ev)
		if ev.Kind == EventEnd {
			return b.Document()
		}
	}
}
