/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetcher_Success(t *testing.T) {
	body := "[dark.colors]\nbackground = \"#000\"\n"
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/toml")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultMaxSize)
	content, err := f.Fetch(context.Background(), srv.URL+"/theme.toml")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(content) != body {
		t.Errorf("Fetch() = %q, want %q", string(content), body)
	}
	if !strings.HasPrefix(userAgent, "vigil/") {
		t.Errorf("expected vigil user agent, got %q", userAgent)
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(200 * time.Millisecond):
		}
		_, _ = w.Write([]byte("too late"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultMaxSize)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL+"/theme.toml")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") && !strings.Contains(err.Error(), "context deadline exceeded") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestHTTPFetcher_MaxSizeExceeded(t *testing.T) {
	body := "[dark.colors]\n" + strings.Repeat("x", 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(50)
	_, err := f.Fetch(context.Background(), srv.URL+"/theme.toml")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got: %v", err)
	}
}

func TestHTTPFetcher_Non200Status(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		notFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"gone", http.StatusGone, true},
		{"server error", http.StatusInternalServerError, false},
		{"forbidden", http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			}))
			defer srv.Close()

			_, err := NewHTTPFetcher(DefaultMaxSize).Fetch(context.Background(), srv.URL+"/theme.toml")
			var serr *StatusError
			if !errors.As(err, &serr) {
				t.Fatalf("expected StatusError, got: %v", err)
			}
			if serr.Code != tt.code {
				t.Errorf("Code = %d, want %d", serr.Code, tt.code)
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", !tt.notFound, tt.notFound)
			}
			if !strings.Contains(err.Error(), strconv.Itoa(tt.code)) {
				t.Errorf("expected status in error, got: %v", err)
			}
		})
	}
}

func TestHTTPFetcher_RejectsNonTheme(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"html error page", "text/html; charset=utf-8", "<!doctype html><title>[oops]</title>"},
		{"xhtml", "application/xhtml+xml", "[dark.colors]\n"},
		{"plain text without tables", "text/plain", "background = \"#000\"\n"},
		{"empty body", "application/toml", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPFetcher(DefaultMaxSize).Fetch(context.Background(), srv.URL+"/theme.toml")
			if !errors.Is(err, ErrNotTheme) {
				t.Errorf("expected ErrNotTheme, got: %v", err)
			}
		})
	}
}

func TestHTTPFetcher_AcceptsIndentedHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("# a theme\n\n  [light.colors]\nbackground = \"#fff\"\n"))
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(DefaultMaxSize).Fetch(context.Background(), srv.URL+"/theme.toml"); err != nil {
		t.Errorf("Fetch() error = %v", err)
	}
}

func TestHTTPFetcher_FetchJSON(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"ocean.toml","type":"file"}]`))
	}))
	defer srv.Close()

	var entries []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := NewHTTPFetcher(DefaultMaxSize).FetchJSON(context.Background(), srv.URL, &entries); err != nil {
		t.Fatalf("FetchJSON() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "ocean.toml" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
}

func TestHTTPFetcher_FetchJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	var v []any
	err := NewHTTPFetcher(DefaultMaxSize).FetchJSON(context.Background(), srv.URL, &v)
	if err == nil || !strings.Contains(err.Error(), "decoding") {
		t.Errorf("expected decode error, got: %v", err)
	}
}
