package xml2json

import "strings"

// Builder consumes an ordered stream of lexical events and incrementally
// constructs a Document. All construction state — the write-cursor stack and
// the CDATA accumulator — is owned by one Builder, so independent builds may
// run concurrently as long as each has its own Builder.
//
// Lexical errors do not stop the build: they are collected on the Document
// and the source is expected to resume at the next recoverable point, so
// severely malformed input yields a best-effort tree.
type Builder struct {
	doc   *Document
	stack []*Node
	cdata strings.Builder
	done  bool
}

// NewBuilder returns a Builder with an empty document.
func NewBuilder() *Builder {
	return &Builder{doc: &Document{container: &Node{}}}
}

// Consume applies one event to the tree. Events arriving after End are
// ignored.
func (b *Builder) Consume(ev Event) {
	if b.done {
		return
	}
	switch ev.Kind {
	case EventOpenTag:
		b.openTag(ev)
	case EventText:
		if top := b.top(); top != nil {
			top.setText(ev.Content, false)
		}
	case EventCDataStart:
		b.cdata.Reset()
	case EventCDataChunk:
		b.cdata.WriteString(ev.Content)
	case EventCDataEnd:
		if top := b.top(); top != nil {
			top.setText(b.cdata.String(), true)
		}
		b.cdata.Reset()
	case EventCloseTag:
		if len(b.stack) > 0 {
			b.stack = b.stack[:len(b.stack)-1]
		}
	case EventError:
		if ev.Err != nil {
			b.doc.errs = append(b.doc.errs, ev.Err)
		}
	case EventEnd:
		b.done = true
		b.stack = nil
	}
}

// Done reports whether the End event has been consumed.
func (b *Builder) Done() bool { return b.done }

// Document returns the tree built so far. Callers normally wait for Done.
func (b *Builder) Document() *Document { return b.doc }

func (b *Builder) openTag(ev Event) {
	name := strings.ToLower(ev.Name)
	node := NewNode(name)
	for k, v := range ev.Attr {
		node.Attr[k] = v
	}

	parent := b.top()
	if parent == nil {
		parent = b.doc.container
		if b.doc.rootName == "" {
			b.doc.rootName = name
		}
	}
	parent.attach(node)
	b.stack = append(b.stack, node)
}

func (b *Builder) top() *Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// Build runs a complete synthetic event sequence through a fresh Builder and
// returns the resulting Document. Consumption stops at the first End event.
func Build(events []Event) *Document {
	b := NewBuilder()
	for _, ev := range events {
		b.Consume(ev)
		if b.Done() {
			break
		}
	}
	return b.Document()
}
