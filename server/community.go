/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package server

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bennypowers.dev/vigil/load"
)

// CommunityTTL is how long a fetched community index is served from memory.
const CommunityTTL = 5 * time.Minute

// IndexFetcher downloads and decodes a JSON document.
type IndexFetcher interface {
	FetchJSON(ctx context.Context, url string, v any) error
}

// CommunityTheme is one theme file in the community repository.
type CommunityTheme struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
	HTMLURL     string `json:"html_url"`
}

// CommunityResponse lists community themes. Message is set when the
// listing is empty because the upstream refused the request.
type CommunityResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Themes  []CommunityTheme `json:"themes"`
}

// contentEntry is an item of a repository contents listing.
type contentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
	HTMLURL     string `json:"html_url"`
}

type communityIndex struct {
	url     string
	fetcher IndexFetcher
	ttl     time.Duration

	mu      sync.Mutex
	themes  []CommunityTheme
	fetched time.Time
	group   singleflight.Group
}

func (c *communityIndex) list(ctx context.Context) ([]CommunityTheme, error) {
	c.mu.Lock()
	if !c.fetched.IsZero() && time.Since(c.fetched) < c.ttl {
		themes := c.themes
		c.mu.Unlock()
		return themes, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(c.url, func() (any, error) {
		var entries []contentEntry
		if err := c.fetcher.FetchJSON(ctx, c.url, &entries); err != nil {
			return nil, err
		}
		themes := communityThemes(entries)
		c.mu.Lock()
		c.themes, c.fetched = themes, time.Now()
		c.mu.Unlock()
		return themes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]CommunityTheme), nil
}

func communityThemes(entries []contentEntry) []CommunityTheme {
	themes := make([]CommunityTheme, 0, len(entries))
	for _, e := range entries {
		if e.Type != "file" || path.Ext(e.Name) != ".toml" {
			continue
		}
		themes = append(themes, CommunityTheme{
			Name:        strings.TrimSuffix(e.Name, ".toml"),
			File:        e.Name,
			Path:        e.Path,
			Size:        e.Size,
			DownloadURL: e.DownloadURL,
			HTMLURL:     e.HTMLURL,
		})
	}
	return themes
}

func (s *Server) handleCommunityThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.community.list(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, CommunityResponse{Success: true, Themes: themes})
		return
	}

	var serr *load.StatusError
	switch {
	case errors.Is(err, load.ErrNotFound):
		writeError(w, http.StatusNotFound, "Community themes repository not found")
	case errors.As(err, &serr) && (serr.Code == http.StatusForbidden || serr.Code == http.StatusTooManyRequests):
		s.log.Warn().Err(err).Msg("community index rate limited")
		writeJSON(w, http.StatusOK, CommunityResponse{
			Success: true,
			Message: "Community themes are temporarily unavailable",
			Themes:  []CommunityTheme{},
		})
	default:
		s.log.Error().Err(err).Msg("community index fetch failed")
		writeError(w, http.StatusBadGateway, "Failed to fetch community themes")
	}
}
