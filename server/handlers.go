/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bennypowers.dev/vigil/convert"
	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/internal/version"
	"bennypowers.dev/vigil/store"
	"bennypowers.dev/vigil/theme"
)

// Response is the envelope of every JSON response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse lists a user's themes.
type ListResponse struct {
	Success bool         `json:"success"`
	Themes  []store.Info `json:"themes"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// VarsResponse is the data of the vars endpoint.
type VarsResponse struct {
	Theme        string          `json:"theme"`
	Mode         theme.Mode      `json:"mode"`
	Fallback     bool            `json:"fallback"`
	HasBothModes bool            `json:"has_both_modes"`
	Metadata     theme.Metadata  `json:"metadata"`
	Variables    theme.Variables `json:"variables"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// statusFor maps store and theme errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidName),
		errors.Is(err, store.ErrUnknownSource),
		errors.Is(err, store.ErrInvalidContent):
		return http.StatusBadRequest
	case errors.Is(err, theme.ErrNoColors):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Get(),
		Uptime:    fmt.Sprintf("%.2f seconds", time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.store.DefaultThemes()
	if err != nil {
		s.log.Error().Err(err).Msg("listing default themes")
		writeError(w, http.StatusInternalServerError, "Failed to load default themes")
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string][]store.Info{"default": themes},
	})
}

var errMissingRef = errors.New("missing required parameters: source, theme")

// themeRef is the theme addressed by a request's query.
type themeRef struct {
	source store.Source
	owner  string
	name   string
}

func parseThemeRef(r *http.Request) (themeRef, error) {
	q := r.URL.Query()
	if q.Get("source") == "" || q.Get("theme") == "" {
		return themeRef{}, errMissingRef
	}
	source, err := store.ParseSource(q.Get("source"))
	if err != nil {
		return themeRef{}, err
	}
	return themeRef{source: source, owner: q.Get("author"), name: q.Get("theme")}, nil
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	ref, err := parseThemeRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	content, err := s.store.Content(ref.source, ref.owner, ref.name)
	if err != nil {
		writeError(w, statusFor(err), fmt.Sprintf("Theme not found: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]string{"content": string(content)},
	})
}

func (s *Server) handleUserThemes(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user_id")
	if user == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameter: user_id")
		return
	}
	themes, err := s.store.UserThemes(user)
	if err != nil {
		writeError(w, statusFor(err), fmt.Sprintf("Failed to load user themes: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Success: true, Themes: themes})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		s.metrics.uploads.WithLabelValues("upload", "rejected").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Theme file exceeds 5 MB")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	user := r.FormValue("user_id")
	name := r.FormValue("theme_name")
	if user == "" || name == "" {
		s.metrics.uploads.WithLabelValues("upload", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "Missing required fields: user_id, theme_name")
		return
	}

	file, header, err := r.FormFile("theme_file")
	if err != nil {
		s.metrics.uploads.WithLabelValues("upload", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > MaxUploadSize {
		s.metrics.uploads.WithLabelValues("upload", "rejected").Inc()
		writeError(w, http.StatusRequestEntityTooLarge, "Theme file exceeds 5 MB")
		return
	}
	content, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		s.metrics.uploads.WithLabelValues("upload", "error").Inc()
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	info, err := s.store.Save(user, name, content)
	if err != nil {
		status := statusFor(err)
		result := "rejected"
		if status == http.StatusInternalServerError {
			result = "error"
			s.log.Error().Err(err).Str("user", user).Str("theme", name).Msg("saving theme")
		}
		s.metrics.uploads.WithLabelValues("upload", result).Inc()
		writeError(w, status, fmt.Sprintf("Failed to save theme: %v", err))
		return
	}

	s.metrics.uploads.WithLabelValues("upload", "ok").Inc()
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Theme uploaded successfully",
		Data: map[string]string{
			"theme_id": info.Theme,
			"id":       info.ID,
		},
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user_id")
	name := r.URL.Query().Get("theme_name")
	if user == "" || name == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters: user_id, theme_name")
		return
	}

	if err := s.store.Delete(user, name); err != nil {
		s.metrics.uploads.WithLabelValues("delete", "rejected").Inc()
		writeError(w, statusFor(err), fmt.Sprintf("Failed to delete theme: %v", err))
		return
	}
	s.metrics.uploads.WithLabelValues("delete", "ok").Inc()
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Theme deleted successfully"})
}

// loadRef reads the addressed theme and the requested mode, writing the
// error response itself when either is invalid.
func (s *Server) loadRef(w http.ResponseWriter, r *http.Request) (themeRef, *document.Document, theme.Mode, bool) {
	ref, err := parseThemeRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return themeRef{}, nil, "", false
	}
	var mode theme.Mode
	if m := r.URL.Query().Get("mode"); m != "" {
		if mode, err = theme.ParseMode(m); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return themeRef{}, nil, "", false
		}
	}
	doc, err := s.store.Document(ref.source, ref.owner, ref.name)
	if err != nil {
		writeError(w, statusFor(err), fmt.Sprintf("Theme not found: %v", err))
		return themeRef{}, nil, "", false
	}
	return ref, doc, mode, true
}

func (s *Server) handleVars(w http.ResponseWriter, r *http.Request) {
	ref, doc, mode, ok := s.loadRef(w, r)
	if !ok {
		return
	}
	resolved, vars, err := convert.Resolve(doc, mode)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: VarsResponse{
			Theme:        ref.name,
			Mode:         resolved,
			Fallback:     mode != "" && resolved != mode,
			HasBothModes: theme.HasBothModes(doc),
			Metadata:     theme.MetadataOf(doc),
			Variables:    vars,
		},
	})
}

// handleStylesheet renders the theme in any output format, CSS by default.
func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	_, doc, mode, ok := s.loadRef(w, r)
	if !ok {
		return
	}
	format := convert.FormatCSS
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = convert.ParseFormat(f); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := convert.Render(doc, convert.Options{
		Format:      format,
		Mode:        mode,
		Prefix:      s.opts.Prefix,
		Selector:    s.opts.Selector,
		ColorScheme: r.URL.Query().Get("scheme") == "true",
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Theme-Mode", string(result.Mode))
	_, _ = w.Write(result.Data)
}
