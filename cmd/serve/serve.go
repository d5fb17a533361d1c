/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package serve provides the serve command for vigil.
package serve

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/server"
	"bennypowers.dev/vigil/store"
)

// Cmd is the serve cobra command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the theme API",
	Long: `Serve the theme HTTP API over the theme store.

Themes are read from <theme-dir>/themes/default and uploads from
<theme-dir>/uploads/<user>. Edits made on disk are pushed to
websocket clients of /api/themes/events.

Endpoints:
  GET    /api/health
  GET    /api/themes
  GET    /api/themes/get?source=&theme=&author=
  GET    /api/themes/my?user_id=
  GET    /api/themes/community
  GET    /api/themes/vars?source=&theme=&author=&mode=
  GET    /api/themes/css?source=&theme=&author=&mode=&format=&scheme=
  GET    /api/themes/events
  POST   /api/themes/upload (multipart user_id, theme_name, theme_file)
  DELETE /api/themes/upload?user_id=&theme_name=
  GET    /metrics`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("listen", "", "Listen address (default from config)")
	Cmd.Flags().Bool("json-logs", false, "Log JSON lines instead of console text")
	Cmd.Flags().Bool("no-watch", false, "Do not watch the theme store for changes")
}

func run(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	env, err := cli.Load(cmd)
	if err != nil {
		return err
	}
	if jsonLogs {
		logger.SetJSONOutput(cmd.ErrOrStderr(), "vigil")
	}

	cfg := env.Config
	if listen == "" {
		listen = cfg.Server.Listen
	}
	st := store.New(env.FS, cfg.ResolveThemeDir(env.Root))
	srv := server.New(server.Options{
		Store:        st,
		Listen:       listen,
		RateLimit:    cfg.Server.RateLimit,
		CorsOrigins:  cfg.Server.CorsOrigins,
		Prefix:       cfg.Prefix,
		Selector:     cfg.Selector,
		CommunityURL: cfg.Server.CommunityIndex,
	})

	var watcher *store.Watcher
	if !noWatch {
		if watcher, err = st.NewWatcher(store.DefaultDebounce); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		if watcher != nil {
			_ = watcher.Close()
		}
		return fmt.Errorf("failed to listen on %s: %w", listen, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, srv, watcher, ln)
}

// serve runs srv on ln and, when watcher is not nil, forwards store
// changes to srv's websocket clients. It returns when ctx is done or
// either side fails.
func serve(ctx context.Context, srv *server.Server, watcher *store.Watcher, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx, srv.Publish)
		})
	}
	g.Go(func() error {
		return srv.Serve(ctx, ln)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("theme API stopped")
	return nil
}
