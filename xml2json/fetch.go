package xml2json

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// FetchOptions controls the single HTTP GET issued by ParseFromURL.
type FetchOptions struct {
	FollowRedirects bool
	MaxRedirects    int
	Encoding        string
	Timeout         time.Duration
}

// DefaultFetchOptions returns the defaults: follow up to 10 redirects,
// decode as UTF-8, 10s timeout.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		FollowRedirects: true,
		MaxRedirects:    10,
		Encoding:        "UTF8",
		Timeout:         10 * time.Second,
	}
}

// FetchOption mutates FetchOptions.
type FetchOption func(*FetchOptions)

// WithTimeout sets the fetch timeout. The timeout covers the HTTP exchange
// only, not the parse.
func WithTimeout(d time.Duration) FetchOption {
	return func(o *FetchOptions) { o.Timeout = d }
}

// WithEncoding sets the charset label used to decode the response body,
// e.g. "UTF8", "latin1", "shift_jis".
func WithEncoding(label string) FetchOption {
	return func(o *FetchOptions) { o.Encoding = label }
}

// WithMaxRedirects caps how many redirects are followed.
func WithMaxRedirects(n int) FetchOption {
	return func(o *FetchOptions) { o.MaxRedirects = n }
}

// WithoutRedirects disables redirect following; a 3xx answer is then a
// transport error.
func WithoutRedirects() FetchOption {
	return func(o *FetchOptions) { o.FollowRedirects = false }
}

// fetchURL issues one GET and returns the decoded response body. Any
// request failure or non-2xx status yields a *TransportError.
func fetchURL(rawurl string, o FetchOptions) (string, error) {
	client := &http.Client{
		Timeout: o.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !o.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) > o.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", o.MaxRedirects)
			}
			return nil
		},
	}

	resp, err := client.Get(rawurl)
	if err != nil {
		return "", &TransportError{URL: rawurl, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{URL: rawurl, StatusCode: resp.StatusCode}
	}

	label := strings.ToLower(strings.ReplaceAll(o.Encoding, "-", ""))
	reader, err := charset.NewReaderLabel(label, resp.Body)
	if err != nil {
		return "", &TransportError{URL: rawurl, Err: fmt.Errorf("unsupported encoding %q: %w", o.Encoding, err)}
	}
	body, err := ioutil.ReadAll(reader)
	if err != nil {
		return "", &TransportError{URL: rawurl, Err: err}
	}
	return string(body), nil
}
