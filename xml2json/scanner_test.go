package xml2json

import "testing"

func scanAll(t *testing.T, xml string) []Event {
	t.Helper()
	sc := NewScanner(xml)
	var events []Event
	for i := 0; i < 10000; i++ {
		ev := sc.Next()
		events = append(events, ev)
		if ev.Kind == EventEnd {
			return events
		}
	}
	t.Fatal("scanner did not terminate")
	return nil
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func expectKinds(t *testing.T, got []Event, want ...EventKind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("got %v, want %v", gk, want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("event %d = %v, want %v (full stream %v)", i, gk[i], want[i], gk)
		}
	}
}

func TestScannerSimpleDocument(t *testing.T) {
	events := scanAll(t, `<a x="1"><b>hi</b><b>bye</b></a>`)
	expectKinds(t, events,
		EventOpenTag, // a
		EventOpenTag, EventText, EventCloseTag, // b hi
		EventOpenTag, EventText, EventCloseTag, // b bye
		EventCloseTag, EventEnd)

	if events[0].Name != "a" || events[0].Attr["x"] != "1" {
		t.Fatalf("open tag a = %+v", events[0])
	}
	if events[2].Content != "hi" || events[5].Content != "bye" {
		t.Fatalf("text events = %q, %q", events[2].Content, events[5].Content)
	}
}

func TestScannerLowercasesNames(t *testing.T) {
	events := scanAll(t, `<Root MixedAttr="V"/>`)
	expectKinds(t, events, EventOpenTag, EventCloseTag, EventEnd)
	if events[0].Name != "root" {
		t.Fatalf("tag name = %q, want lowercased", events[0].Name)
	}
	if v, ok := events[0].Attr["mixedattr"]; !ok || v != "V" {
		t.Fatalf("attr = %v, want lowercased key with original value", events[0].Attr)
	}
}

func TestScannerSelfClosing(t *testing.T) {
	events := scanAll(t, `<a><b/></a>`)
	expectKinds(t, events,
		EventOpenTag, EventOpenTag, EventCloseTag, EventCloseTag, EventEnd)
}

func TestScannerCData(t *testing.T) {
	events := scanAll(t, `<a><![CDATA[<raw> & verbatim ]]></a>`)
	expectKinds(t, events,
		EventOpenTag, EventCDataStart, EventCDataChunk, EventCDataEnd,
		EventCloseTag, EventEnd)
	if events[2].Content != "<raw> & verbatim " {
		t.Fatalf("cdata chunk = %q, want verbatim content", events[2].Content)
	}
}

func TestScannerTrimsAndDecodesText(t *testing.T) {
	events := scanAll(t, "<a>\n  1 &lt; 2 &amp; 3 &#65;&#x42;  \n</a>")
	expectKinds(t, events, EventOpenTag, EventText, EventCloseTag, EventEnd)
	if events[1].Content != "1 < 2 & 3 AB" {
		t.Fatalf("text = %q", events[1].Content)
	}
}

func TestScannerSkipsPrologCommentsAndWhitespace(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE a>
<!-- leading comment -->
<a><!-- inner -->ok</a>`
	events := scanAll(t, xml)
	expectKinds(t, events, EventOpenTag, EventText, EventCloseTag, EventEnd)
	if events[1].Content != "ok" {
		t.Fatalf("text = %q", events[1].Content)
	}
}

func TestScannerDuplicateAttributeLastWins(t *testing.T) {
	events := scanAll(t, `<a x="1" x="2"></a>`)
	if events[0].Attr["x"] != "2" {
		t.Fatalf("attr x = %q, want last write to win", events[0].Attr["x"])
	}
}

func TestScannerAttributeQuoting(t *testing.T) {
	events := scanAll(t, `<a one="d q" two='s q' bare flag=yes/>`)
	attr := events[0].Attr
	want := map[string]string{"one": "d q", "two": "s q", "bare": "", "flag": "yes"}
	for k, v := range want {
		if got, ok := attr[k]; !ok || got != v {
			t.Errorf("attr[%q] = %q, %v; want %q", k, got, ok, v)
		}
	}
}

func TestScannerResumesAfterMalformedFragment(t *testing.T) {
	// The broken <b< fragment is reported and skipped; the rest of the
	// document still scans.
	events := scanAll(t, `<a><b<</a>`)

	var errs, opens, closes int
	for _, ev := range events {
		switch ev.Kind {
		case EventError:
			errs++
			if _, ok := ev.Err.(*LexicalError); !ok {
				t.Fatalf("error event carries %T, want *LexicalError", ev.Err)
			}
		case EventOpenTag:
			opens++
		case EventCloseTag:
			closes++
		}
	}
	if errs == 0 {
		t.Fatal("expected at least one lexical error event")
	}
	if opens < 1 || closes < 1 {
		t.Fatalf("document around the bad fragment must still scan: opens=%d closes=%d", opens, closes)
	}
}

func TestScannerStrayCloseTagIsError(t *testing.T) {
	events := scanAll(t, `</a><b></b>`)
	if events[0].Kind != EventError {
		t.Fatalf("first event = %v, want error for stray close tag", events[0].Kind)
	}
	expectKinds(t, events[1:], EventOpenTag, EventCloseTag, EventEnd)
}

func TestScannerUnterminatedCData(t *testing.T) {
	events := scanAll(t, `<a><![CDATA[never closed`)
	last := events[len(events)-2]
	if last.Kind != EventError {
		t.Fatalf("expected error before end, got %v", kinds(events))
	}
}
