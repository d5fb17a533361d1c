/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"bennypowers.dev/vigil/internal/version"
)

const (
	// DefaultTimeout is the maximum time to wait for a remote theme.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxSize is the maximum accepted theme size (5 MB), matching
	// the upload limit of the theme API.
	DefaultMaxSize int64 = 5 << 20
)

var (
	// ErrNotFound is returned when the remote answers 404 or 410.
	ErrNotFound = errors.New("remote theme not found")

	// ErrNotTheme is returned for responses that cannot be a theme file,
	// such as an HTML error page served with status 200.
	ErrNotTheme = errors.New("response is not a theme file")

	// ErrTooLarge is returned when a response exceeds the size limit.
	ErrTooLarge = errors.New("response too large")
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Unwrap maps missing resources onto ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound || e.Code == http.StatusGone {
		return ErrNotFound
	}
	return nil
}

// Fetcher fetches a theme file from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches themes and theme indexes over HTTP.
type HTTPFetcher struct {
	maxSize int64
	client  *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher that rejects bodies above maxSize.
func NewHTTPFetcher(maxSize int64) *HTTPFetcher {
	return &HTTPFetcher{
		maxSize: maxSize,
		client:  &http.Client{},
	}
}

// Fetch downloads a theme file. The body must look like TOML: HTML
// responses and bodies without a single [table] header are rejected
// with ErrNotTheme before they reach the parser.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, contentType, err := f.get(ctx, url, "application/toml, text/plain;q=0.9, */*;q=0.1")
	if err != nil {
		return nil, err
	}
	if isHTML(contentType) || !hasTableHeader(body) {
		return nil, fmt.Errorf("%s: %w", url, ErrNotTheme)
	}
	return body, nil
}

// FetchJSON downloads url and decodes the body into v.
func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string, v any) error {
	body, _, err := f.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

func (f *HTTPFetcher) get(ctx context.Context, url, accept string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, "", fmt.Errorf("timeout fetching %s: %w", url, err)
		}
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading response from %s: %w", url, err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, "", fmt.Errorf("%s exceeds %d bytes: %w", url, f.maxSize, ErrTooLarge)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func hasTableHeader(body []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), len(body)+1)
	for scanner.Scan() {
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "[") {
			return true
		}
	}
	return false
}
