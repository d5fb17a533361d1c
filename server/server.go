/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package server exposes the theme store over HTTP: listing, fetching,
// uploading and deleting themes, projected variables and stylesheets, and a
// websocket stream of theme changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"bennypowers.dev/vigil/config"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/load"
	"bennypowers.dev/vigil/store"
)

// MaxUploadSize bounds uploaded theme files.
const MaxUploadSize int64 = 5 << 20

// DefaultRateWindow is the window of the upload and delete rate limit.
const DefaultRateWindow = time.Minute

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Store holds the themes. Required.
	Store *store.Store

	// Listen is the address for ListenAndServe. Defaults to config.DefaultListen.
	Listen string

	// RateLimit is the number of uploads and deletes allowed per client IP
	// within RateWindow. Zero uses config.DefaultRateLimit; negative disables
	// the limit.
	RateLimit  int
	RateWindow time.Duration

	// CorsOrigins lists allowed browser origins. Empty allows any origin.
	CorsOrigins []string

	// Prefix and Selector shape the stylesheet endpoint's output.
	Prefix   string
	Selector string

	// Registry receives the server's metrics. Nil creates a private one.
	Registry *prometheus.Registry

	// CommunityURL is the repository contents listing behind the community
	// endpoint. Defaults to config.DefaultCommunityIndex.
	CommunityURL string

	// Fetcher downloads the community index. Defaults to a load.HTTPFetcher.
	Fetcher IndexFetcher
}

// Server is the theme API.
type Server struct {
	opts      Options
	store     *store.Store
	hub       *Hub
	metrics   *metrics
	community *communityIndex
	log       zerolog.Logger
	handler   http.Handler
	started   time.Time
}

// New creates a server and builds its router.
func New(opts Options) *Server {
	if opts.Listen == "" {
		opts.Listen = config.DefaultListen
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = config.DefaultRateLimit
	}
	if opts.RateWindow == 0 {
		opts.RateWindow = DefaultRateWindow
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.CommunityURL == "" {
		opts.CommunityURL = config.DefaultCommunityIndex
	}
	if opts.Fetcher == nil {
		opts.Fetcher = load.NewHTTPFetcher(load.DefaultMaxSize)
	}

	m := newMetrics(opts.Registry)
	s := &Server{
		opts:      opts,
		store:     opts.Store,
		metrics:   m,
		community: &communityIndex{url: opts.CommunityURL, fetcher: opts.Fetcher, ttl: CommunityTTL},
		log:       logger.WithComponent("server"),
		started:   time.Now(),
	}
	s.hub = NewHub(m.subscribers)
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the hub that fans theme events out to websocket clients.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Publish sends a store event to every subscriber.
func (s *Server) Publish(ev store.Event) {
	s.metrics.events.WithLabelValues(string(ev.Kind)).Inc()
	s.hub.Broadcast(ev)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.metrics.middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/themes", func(r chi.Router) {
			r.Get("/", s.handleListThemes)
			r.Get("/get", s.handleGetTheme)
			r.Get("/my", s.handleUserThemes)
			r.Get("/community", s.handleCommunityThemes)
			r.Get("/vars", s.handleVars)
			r.Get("/css", s.handleStylesheet)
			r.Get("/events", s.handleEvents)

			r.Group(func(r chi.Router) {
				if s.opts.RateLimit > 0 {
					r.Use(rateLimit(s.opts.RateLimit, s.opts.RateWindow))
				}
				r.Post("/upload", s.handleUpload)
				r.Delete("/upload", s.handleDelete)
			})
		})
	})
	r.Handle("/metrics", s.metrics.handler())

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:         300,
	})
	return c.Handler(r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully and
// disconnects websocket clients.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("serving theme API")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("theme API stopped")
	return nil
}
