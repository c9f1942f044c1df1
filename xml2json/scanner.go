package xml2json

import (
	"strconv"
	"strings"
)

// Scanner is the lexical source: it walks raw XML text and emits the event
// stream consumed by Builder. Tag and attribute names are lowercased,
// character data is whitespace-trimmed, CDATA content is taken verbatim.
//
// Malformed markup produces an EventError carrying a *LexicalError, after
// which the scanner resumes at the next '<' instead of aborting, so one bad
// fragment does not lose the rest of the document.
type Scanner struct {
	data  string
	pos   int
	depth int
	queue []Event
}

// NewScanner returns a Scanner over the given XML text.
func NewScanner(xml string) *Scanner {
	// Strip a UTF-8 BOM if present.
	xml = strings.TrimPrefix(xml, "\xef\xbb\xbf")
	return &Scanner{data: xml}
}

// Next returns the next event. After the end of input it returns EventEnd
// forever.
func (s *Scanner) Next() Event {
	if len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		return ev
	}
	for {
		if s.pos >= len(s.data) {
			return Event{Kind: EventEnd}
		}
		if s.data[s.pos] != '<' {
			if ev, ok := s.scanText(); ok {
				return ev
			}
			continue
		}
		rest := s.data[s.pos:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			if ev, ok := s.skipComment(); !ok {
				return ev
			}
		case strings.HasPrefix(rest, "<![CDATA["):
			return s.scanCData()
		case strings.HasPrefix(rest, "<!"):
			if ev, ok := s.skipDirective(); !ok {
				return ev
			}
		case strings.HasPrefix(rest, "<?"):
			if ev, ok := s.skipProcInst(); !ok {
				return ev
			}
		case strings.HasPrefix(rest, "</"):
			return s.scanCloseTag()
		default:
			return s.scanOpenTag()
		}
	}
}

// lexError builds the error event and moves the position to the next '<' so
// scanning can continue.
func (s *Scanner) lexError(offset int, msg string) Event {
	if next := strings.IndexByte(s.data[s.pos+1:], '<'); next >= 0 {
		s.pos += 1 + next
	} else {
		s.pos = len(s.data)
	}
	return Event{Kind: EventError, Err: &LexicalError{Offset: offset, Msg: msg}}
}

func (s *Scanner) scanText() (Event, bool) {
	end := strings.IndexByte(s.data[s.pos:], '<')
	if end < 0 {
		end = len(s.data) - s.pos
	}
	raw := s.data[s.pos : s.pos+end]
	s.pos += end
	text := strings.TrimSpace(decodeEntities(raw))
	if text == "" || s.depth == 0 {
		return Event{}, false
	}
	return Event{Kind: EventText, Content: text}, true
}

func (s *Scanner) skipComment() (Event, bool) {
	start := s.pos
	end := strings.Index(s.data[s.pos+4:], "-->")
	if end < 0 {
		s.pos = len(s.data)
		return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated comment"}}, false
	}
	s.pos += 4 + end + 3
	return Event{}, true
}

func (s *Scanner) skipDirective() (Event, bool) {
	start := s.pos
	depth := 0
	for i := s.pos + 2; i < len(s.data); i++ {
		switch s.data[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				s.pos = i + 1
				return Event{}, true
			}
		}
	}
	s.pos = len(s.data)
	return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated directive"}}, false
}

func (s *Scanner) skipProcInst() (Event, bool) {
	start := s.pos
	end := strings.Index(s.data[s.pos+2:], "?>")
	if end < 0 {
		s.pos = len(s.data)
		return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated processing instruction"}}, false
	}
	s.pos += 2 + end + 2
	return Event{}, true
}

func (s *Scanner) scanCData() Event {
	start := s.pos
	end := strings.Index(s.data[s.pos+9:], "]]>")
	if end < 0 {
		s.pos = len(s.data)
		return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated CDATA section"}}
	}
	content := s.data[s.pos+9 : s.pos+9+end]
	s.pos += 9 + end + 3
	s.queue = append(s.queue,
		Event{Kind: EventCDataChunk, Content: content},
		Event{Kind: EventCDataEnd})
	return Event{Kind: EventCDataStart}
}

func (s *Scanner) scanCloseTag() Event {
	start := s.pos
	end := strings.IndexByte(s.data[s.pos:], '>')
	if end < 0 {
		s.pos = len(s.data)
		return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated close tag"}}
	}
	name := strings.TrimSpace(s.data[s.pos+2 : s.pos+end])
	s.pos += end + 1
	if name == "" {
		return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "close tag without a name"}}
	}
	if s.depth == 0 {
		return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "close tag </" + name + "> without matching open tag"}}
	}
	s.depth--
	return Event{Kind: EventCloseTag}
}

func (s *Scanner) scanOpenTag() Event {
	start := s.pos
	i := s.pos + 1
	nameStart := i
	for i < len(s.data) && isNameByte(s.data[i]) {
		i++
	}
	name := s.data[nameStart:i]
	if name == "" {
		return s.lexError(start, "open tag without a name")
	}

	attrs := map[string]string{}
	selfClosing := false
	for {
		for i < len(s.data) && isSpaceByte(s.data[i]) {
			i++
		}
		if i >= len(s.data) {
			s.pos = len(s.data)
			return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated open tag <" + name}}
		}
		if s.data[i] == '>' {
			i++
			break
		}
		if s.data[i] == '/' {
			if i+1 >= len(s.data) || s.data[i+1] != '>' {
				return s.lexError(start, "stray '/' in open tag <" + name)
			}
			selfClosing = true
			i += 2
			break
		}

		attrStart := i
		for i < len(s.data) && isNameByte(s.data[i]) {
			i++
		}
		attrName := s.data[attrStart:i]
		if attrName == "" {
			return s.lexError(start, "malformed attribute in open tag <" + name)
		}
		for i < len(s.data) && isSpaceByte(s.data[i]) {
			i++
		}
		if i >= len(s.data) || s.data[i] != '=' {
			// Bare attribute with no value.
			attrs[strings.ToLower(attrName)] = ""
			continue
		}
		i++
		for i < len(s.data) && isSpaceByte(s.data[i]) {
			i++
		}
		if i >= len(s.data) {
			s.pos = len(s.data)
			return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated attribute value in <" + name}}
		}
		var value string
		if q := s.data[i]; q == '"' || q == '\'' {
			close := strings.IndexByte(s.data[i+1:], q)
			if close < 0 {
				s.pos = len(s.data)
				return Event{Kind: EventError, Err: &LexicalError{Offset: start, Msg: "unterminated attribute value in <" + name}}
			}
			value = s.data[i+1 : i+1+close]
			i += close + 2
		} else {
			valStart := i
			for i < len(s.data) && !isSpaceByte(s.data[i]) && s.data[i] != '>' && s.data[i] != '/' {
				i++
			}
			value = s.data[valStart:i]
		}
		attrs[strings.ToLower(attrName)] = decodeEntities(value)
	}

	s.pos = i
	if selfClosing {
		s.queue = append(s.queue, Event{Kind: EventCloseTag})
	} else {
		s.depth++
	}
	return Event{Kind: EventOpenTag, Name: strings.ToLower(name), Attr: attrs}
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isNameByte(b byte) bool {
	return !isSpaceByte(b) && b != '>' && b != '/' && b != '=' && b != '<'
}

// decodeEntities resolves the predefined XML entities plus numeric character
// references. Unknown entities are left untouched.
func decodeEntities(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}
	var out strings.Builder
	out.Grow(len(s))
	for {
		out.WriteString(s[:amp])
		s = s[amp:]
		semi := strings.IndexByte(s, ';')
		if semi < 0 {
			out.WriteString(s)
			return out.String()
		}
		entity := s[1:semi]
		if strings.ContainsAny(entity, "& \t\r\n") {
			// A bare ampersand, not an entity. Emit it and rescan after it.
			out.WriteByte('&')
			s = s[1:]
			amp = strings.IndexByte(s, '&')
			if amp < 0 {
				out.WriteString(s)
				return out.String()
			}
			continue
		}
		switch {
		case entity == "amp":
			out.WriteByte('&')
		case entity == "lt":
			out.WriteByte('<')
		case entity == "gt":
			out.WriteByte('>')
		case entity == "quot":
			out.WriteByte('"')
		case entity == "apos":
			out.WriteByte('\'')
		case strings.HasPrefix(entity, "#"):
			if r, ok := decodeCharRef(entity[1:]); ok {
				out.WriteRune(r)
			} else {
				out.WriteString(s[:semi+1])
			}
		default:
			out.WriteString(s[:semi+1])
		}
		s = s[semi+1:]
		amp = strings.IndexByte(s, '&')
		if amp < 0 {
			out.WriteString(s)
			return out.String()
		}
	}
}

func decodeCharRef(ref string) (rune, bool) {
	base := 10
	if strings.HasPrefix(ref, "x") || strings.HasPrefix(ref, "X") {
		ref = ref[1:]
		base = 16
	}
	n, err := strconv.ParseInt(ref, base, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	return rune(n), true
}
