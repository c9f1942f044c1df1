package xml2json

// EventKind discriminates the lexical events a source can emit.
type EventKind byte

// Event kinds, in the order a well-formed source emits them.
const (
	EventInvalid EventKind = iota
	EventOpenTag
	EventText
	EventCDataStart
	EventCDataChunk
	EventCDataEnd
	EventCloseTag
	EventError
	EventEnd
)

// Event is the union of all lexical events.
//
//	EventOpenTag    — Name and Attr are set
//	EventText       — Content is the trimmed character data
//	EventCDataChunk — Content is a verbatim CDATA fragment
//	EventError      — Err holds the *LexicalError
//
// The remaining kinds carry no payload.
type Event struct {
	Kind    EventKind
	Name    string
	Attr    map[string]string
	Content string
	Err     error
}

func (k EventKind) String() string {
	switch k {
	case EventOpenTag:
		return "opentag"
	case EventText:
		return "text"
	case EventCDataStart:
		return "cdata-start"
	case EventCDataChunk:
		return "cdata-chunk"
	case EventCDataEnd:
		return "cdata-end"
	case EventCloseTag:
		return "closetag"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	}
	return "invalid"
}
