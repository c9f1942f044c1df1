package xml2json

import (
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseOnce(t *testing.T, xml string) *Document {
	t.Helper()
	var doc *Document
	calls := 0
	if err := Parse(xml, func(d *Document) { doc = d; calls++ }); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("onDone called %d times, want 1", calls)
	}
	return doc
}

func asTree(t *testing.T, doc *Document) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return tree
}

func TestParseRoundTrip(t *testing.T) {
	doc := parseOnce(t, `<a x="1"><b>hi</b><b>bye</b></a>`)

	want := map[string]interface{}{
		"a": map[string]interface{}{
			"name": "a",
			"attr": map[string]interface{}{"x": "1"},
			"b": []interface{}{
				map[string]interface{}{"name": "b", "attr": map[string]interface{}{}, "innerText": "hi"},
				map[string]interface{}{"name": "b", "attr": map[string]interface{}{}, "innerText": "bye"},
			},
		},
	}
	if diff := cmp.Diff(want, asTree(t, doc)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCDataOverridesText(t *testing.T) {
	for _, xml := range []string{
		`<a><![CDATA[keep]]>drop</a>`,
		`<a>drop<![CDATA[keep]]></a>`,
	} {
		doc := parseOnce(t, xml)
		if got, _ := doc.Root().InnerText(); got != "keep" {
			t.Errorf("%s: innerText = %q, want \"keep\"", xml, got)
		}
	}
}

func TestParseSelfClosingRoot(t *testing.T) {
	doc := parseOnce(t, `<empty/>`)
	root := doc.Root()
	if root == nil || root.Name != "empty" {
		t.Fatalf("root = %+v", root)
	}
	if len(root.Attr) != 0 {
		t.Fatalf("attr = %v, want empty map", root.Attr)
	}
	if _, ok := root.InnerText(); ok {
		t.Fatal("self-closing element must have no innerText")
	}
}

func TestParseMalformedStillDelivers(t *testing.T) {
	doc := parseOnce(t, `<a><b>ok</b><<broken</a>`)
	if doc.Root() == nil {
		t.Fatal("best-effort tree must still be delivered")
	}
	if got, _ := doc.Root().FirstChild("b").Text(); got != "ok" {
		t.Fatalf("surviving fragment text = %q, want \"ok\"", got)
	}
	if len(doc.LexicalErrors()) == 0 {
		t.Fatal("lexical errors must be reported on the document")
	}
}

func TestParseFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	if err := ioutil.WriteFile(path, []byte(`<root><v>42</v></root>`), 0644); err != nil {
		t.Fatal(err)
	}

	var doc *Document
	if err := ParseFromFile(path, func(d *Document) { doc = d }); err != nil {
		t.Fatalf("ParseFromFile: %v", err)
	}
	if got, _ := doc.Root().FirstChild("v").Text(); got != "42" {
		t.Fatalf("v = %q, want \"42\"", got)
	}
}

func TestParseFromFileMissing(t *testing.T) {
	called := false
	err := ParseFromFile(filepath.Join(t.TempDir(), "nope.xml"), func(*Document) { called = true })
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %T, want *IOError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("IOError must wrap the underlying cause, got %v", err)
	}
	if called {
		t.Fatal("onDone must not be called on IO failure")
	}
}

func TestParseFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(`<feed><entry>one</entry></feed>`))
	}))
	defer srv.Close()

	var doc *Document
	if err := ParseFromURL(srv.URL, func(d *Document) { doc = d }); err != nil {
		t.Fatalf("ParseFromURL: %v", err)
	}
	if got, _ := doc.Root().FirstChild("entry").Text(); got != "one" {
		t.Fatalf("entry = %q, want \"one\"", got)
	}
}

func TestParseFromURLNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	called := false
	err := ParseFromURL(srv.URL, func(*Document) { called = true })
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
	if tErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", tErr.StatusCode)
	}
	if called {
		t.Fatal("onDone must not be called on transport failure")
	}
}

func TestParseFromURLRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.Write([]byte(`<ok/>`))
			return
		}
		http.Redirect(w, r, srv.URL+"/final", http.StatusFound)
	}))
	defer srv.Close()

	var doc *Document
	if err := ParseFromURL(srv.URL, func(d *Document) { doc = d }); err != nil {
		t.Fatalf("redirect should be followed by default: %v", err)
	}
	if doc.RootName() != "ok" {
		t.Fatalf("root = %q, want \"ok\"", doc.RootName())
	}

	// With redirects disabled the 302 itself is the final, non-2xx answer.
	err := ParseFromURL(srv.URL, func(*Document) {
		t.Fatal("onDone must not run when the redirect is not followed")
	}, WithoutRedirects())
	var tErr *TransportError
	if !errors.As(err, &tErr) || tErr.StatusCode != http.StatusFound {
		t.Fatalf("error = %v, want transport error with status 302", err)
	}
}

func TestParseFromURLTooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	err := ParseFromURL(srv.URL, func(*Document) {
		t.Fatal("onDone must not run")
	}, WithMaxRedirects(2))
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
}

func TestConvert(t *testing.T) {
	buf, err := Convert(strings.NewReader(`<a><b>hi</b></a>`))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	want := map[string]interface{}{
		"a": map[string]interface{}{
			"name": "a",
			"attr": map[string]interface{}{},
			"b": map[string]interface{}{
				"name": "b", "attr": map[string]interface{}{}, "innerText": "hi",
			},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
