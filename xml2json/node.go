package xml2json

// Node is one element of the converted tree. Name is the case-folded tag
// name, Attr the attributes captured at open-tag time. Text content and
// children are reached through the accessor methods.
type Node struct {
	Name string
	Attr map[string]string

	text      string
	hasText   bool
	fromCData bool

	children map[string]*Slot
}

// NewNode returns an element node with an empty attribute map.
func NewNode(name string) *Node {
	return &Node{Name: name, Attr: map[string]string{}}
}

// Slot holds every child of one parent that shares a tag name. A slot starts
// out single and is promoted to a list the moment a second same-named sibling
// arrives; it is never both at once.
type Slot struct {
	single *Node
	list   []*Node
}

// IsList reports whether the slot has been promoted.
func (s *Slot) IsList() bool { return s != nil && s.list != nil }

// Single returns the lone node, or nil if the slot is a list.
func (s *Slot) Single() *Node {
	if s == nil {
		return nil
	}
	return s.single
}

// List returns the promoted list in document order, or nil for a single slot.
func (s *Slot) List() []*Node {
	if s == nil {
		return nil
	}
	return s.list
}

// Nodes returns the slot contents as a slice regardless of shape.
func (s *Slot) Nodes() []*Node {
	if s == nil {
		return nil
	}
	if s.list != nil {
		return s.list
	}
	return []*Node{s.single}
}

func (s *Slot) add(n *Node) {
	if s.list != nil {
		s.list = append(s.list, n)
		return
	}
	s.list = []*Node{s.single, n}
	s.single = nil
}

func (n *Node) attach(child *Node) {
	if n.children == nil {
		n.children = map[string]*Slot{}
	}
	if slot, ok := n.children[child.Name]; ok {
		slot.add(child)
		return
	}
	n.children[child.Name] = &Slot{single: child}
}

func (n *Node) setText(content string, cdata bool) {
	if !cdata && n.fromCData {
		// CDATA content wins over plain text within one element.
		return
	}
	n.text = content
	n.hasText = true
	n.fromCData = n.fromCData || cdata
}

// InnerText returns the merged text/CDATA content and whether any was set.
// Safe on a nil node.
func (n *Node) InnerText() (string, bool) {
	if n == nil {
		return "", false
	}
	return n.text, n.hasText
}

// Attribute returns the value of the named attribute. The second result
// distinguishes a missing attribute from one whose value is empty. Safe on a
// nil node.
func (n *Node) Attribute(key string) (string, bool) {
	if n == nil || n.Attr == nil {
		return "", false
	}
	v, ok := n.Attr[key]
	return v, ok
}

// Text returns the node's inner text if any was set, otherwise the value of
// the fallback attribute ("text" unless another key is given). Safe on a nil
// node.
func (n *Node) Text(fallbackKey ...string) (string, bool) {
	if n == nil {
		return "", false
	}
	if n.hasText {
		return n.text, true
	}
	key := "text"
	if len(fallbackKey) > 0 {
		key = fallbackKey[0]
	}
	return n.Attribute(key)
}

// Child returns the named child slot, or nil if no such child exists.
func (n *Node) Child(name string) *Slot {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// FirstChild returns the first (or only) child under the given tag name.
// Returns nil when absent, so lookups can be chained through the nil-safe
// accessors.
func (n *Node) FirstChild(name string) *Node {
	slot := n.Child(name)
	if slot == nil {
		return nil
	}
	if slot.IsList() {
		return slot.list[0]
	}
	return slot.single
}

// ChildNames returns the distinct child tag names. Order is unspecified.
func (n *Node) ChildNames() []string {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	return names
}

// Document is the finished conversion result: the root element addressed by
// its tag name, plus any lexical errors that were skipped while building.
type Document struct {
	container *Node
	rootName  string
	errs      []error
}

// RootName returns the tag name of the first top-level element, or "".
func (d *Document) RootName() string {
	if d == nil {
		return ""
	}
	return d.rootName
}

// Root returns the document's root element, or nil for an empty document.
// Malformed input parsed under the resume policy can leave several top-level
// elements; Root returns the first one seen.
func (d *Document) Root() *Node {
	if d == nil || d.container == nil || d.rootName == "" {
		return nil
	}
	return d.container.FirstChild(d.rootName)
}

// Lookup returns the top-level element with the given tag name, or nil.
func (d *Document) Lookup(name string) *Node {
	if d == nil {
		return nil
	}
	return d.container.FirstChild(name)
}

// LexicalErrors returns the malformed fragments that were skipped during the
// build, in input order. Empty for well-formed input.
func (d *Document) LexicalErrors() []error {
	if d == nil {
		return nil
	}
	return d.errs
}
