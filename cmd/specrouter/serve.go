// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"rivaas.dev/specrouter"
	"rivaas.dev/specrouter/httperror"
	"rivaas.dev/specrouter/metrics"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	addr        string
	watch       bool
	debounce    time.Duration
	metricsPath string
	problems    bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a route file with the built-in handlers",
		Long: `Serve the routes of FILE. Handlers are resolved from the built-in set
(echo, ok, noContent). With --watch the file is reloaded when it changes;
a file that fails to load leaves the previous routes in place.

Examples:
  specrouter serve routes.yaml
  specrouter serve routes.toml --addr :9000 --watch --problems`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), root.logLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, args[0], flags, logger)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "reload the route file when it changes")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 100*time.Millisecond, "delay before reloading after a change")
	cmd.Flags().StringVar(&flags.metricsPath, "metrics", "/metrics", "path of the Prometheus endpoint, empty to disable")
	cmd.Flags().BoolVar(&flags.problems, "problems", false, "render errors as RFC 9457 problem details")

	return cmd
}

// liveRouter serves the most recently loaded router.
type liveRouter struct {
	path    string
	opts    []specrouter.Option
	logger  *slog.Logger
	current atomic.Pointer[specrouter.Router]
}

func (l *liveRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	l.current.Load().ServeHTTP(w, req)
}

// reload builds a new router from the file and swaps it in. On error the
// current router stays active.
func (l *liveRouter) reload() error {
	r, err := load(l.path, l.opts...)
	if err != nil {
		return err
	}
	l.current.Store(r)
	l.logger.Info("routes loaded", "path", l.path, "routes", len(r.Routes()))

	return nil
}

// watch reloads the file after changes until ctx is done. The directory is
// watched so that editors replacing the file are noticed.
func (l *liveRouter) watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err = w.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("watch %s: %w", l.path, err)
	}
	target := filepath.Clean(l.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.logger.Debug("route file changed", "path", ev.Name, "op", ev.Op.String())

			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					if err := l.reload(); err != nil {
						l.logger.Error("reload failed, keeping previous routes", "error", err)
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("watcher error", "error", err)
		}
	}
}

func serve(ctx context.Context, path string, flags serveFlags, logger *slog.Logger) error {
	rec := metrics.MustNew()

	formatter := httperror.Formatter(httperror.NewSimple())
	if flags.problems {
		formatter = httperror.NewRFC9457("")
	}

	live := &liveRouter{
		path:   path,
		logger: logger,
		opts: []specrouter.Option{
			specrouter.WithLogger(logger),
			specrouter.WithRecorder(rec),
			specrouter.WithErrorFormatter(formatter),
		},
	}
	if err := live.reload(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	if flags.metricsPath != "" {
		mux.Handle(flags.metricsPath, rec.Handler())
	}
	mux.Handle("/", live)

	srv := &http.Server{
		Addr:              flags.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if flags.watch {
		go func() {
			if err := live.watch(ctx, flags.debounce); err != nil {
				logger.Error("watch stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", flags.addr, "watch", flags.watch)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}
