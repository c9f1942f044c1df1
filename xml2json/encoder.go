package xml2json

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonValue returns the JSON-compatible representation of a node:
//
//	{"name": ..., "attr": {...}, "innerText": ..., "<child>": {...} | [{...}]}
//
// innerText is present only when text or CDATA was set. A child tag that
// collides with one of the fixed keys wins, matching assignment order in the
// output shape.
func (n *Node) jsonValue() map[string]interface{} {
	out := map[string]interface{}{
		"name": n.Name,
		"attr": n.Attr,
	}
	if n.hasText {
		out["innerText"] = n.text
	}
	for name, slot := range n.children {
		if slot.IsList() {
			vals := make([]interface{}, len(slot.list))
			for i, child := range slot.list {
				vals[i] = child.jsonValue()
			}
			out[name] = vals
		} else {
			out[name] = slot.single.jsonValue()
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.jsonValue())
}

// MarshalJSON implements json.Marshaler. The document serializes as a single
// named entry per top-level element: {"<rootTag>": <node>}.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if d.container != nil {
		for name, slot := range d.container.children {
			if slot.IsList() {
				vals := make([]interface{}, len(slot.list))
				for i, child := range slot.list {
					vals[i] = child.jsonValue()
				}
				out[name] = vals
			} else {
				out[name] = slot.single.jsonValue()
			}
		}
	}
	return json.Marshal(out)
}

// Encoder writes a Document as JSON.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the JSON serialization of doc.
func (e *Encoder) Encode(doc *Document) error {
	return json.NewEncoder(e.w).Encode(doc)
}
