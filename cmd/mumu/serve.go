package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fzzzy/mumulib/internal/config"
	"github.com/fzzzy/mumulib/internal/watch"
	"github.com/fzzzy/mumulib/pkg/live"
	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/fzzzy/mumulib/pkg/patslot"
	"github.com/fzzzy/mumulib/pkg/server"
	"github.com/fzzzy/mumulib/pkg/state"
	"github.com/fzzzy/mumulib/pkg/vdom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		watchFiles bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live document",
		Long: `Serve the template named in mumu.json as a live document.

The body is re-rendered from state on every change: each top-level
state key fills the slot of the same name. Browsers receive patches
over a WebSocket and report form and dialog events back.

Examples:
  mumu serve
  mumu serve --config site/mumu.json --addr :8080
  mumu serve --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				host, port, err := splitAddr(addr)
				if err != nil {
					return err
				}
				cfg.Server.Host, cfg.Server.Port = host, port
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch.Enabled = watchFiles
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.ConfigFileName, "Path to mumu.json")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address, host:port (default from mumu.json)")
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "Reload the document when the template file changes")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Logger(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	body, err := loadBody(ctx, cfg)
	if err != nil {
		return err
	}

	rec := metrics.Default()
	if cfg.Metrics.Namespace != config.DefaultNamespace {
		rec = metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace))
	}

	opts := []live.Option{
		live.WithLogger(logger),
		live.WithMetrics(rec),
		live.WithFrameInterval(cfg.Frame()),
		live.WithInitialState(state.Patch(cfg.State)),
	}
	if cfg.Template.URL != "" && cfg.Template.File != "" {
		fetcher, err := patslot.FetcherFor(ctx, cfg.Template.URL)
		if err != nil {
			return err
		}
		opts = append(opts, live.WithRegistry(&patslot.Template{
			URL:     cfg.Template.URL,
			Fetcher: fetcher,
			Logger:  logger.With("component", "template"),
		}))
	}
	app := live.New(body, opts...)
	defer app.Close()

	go func() {
		if err := app.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("document stopped", "error", err)
		}
	}()

	if cfg.Watch.Enabled && cfg.TemplatePath() != "" {
		w := watch.New(watch.Config{
			Paths:    []string{cfg.TemplatePath()},
			Debounce: cfg.WatchDebounce(),
			Logger:   logger.With("component", "watch"),
		})
		w.OnChange(func(path string) {
			next, err := loadBody(ctx, cfg)
			if err != nil {
				logger.Warn("reload failed", "path", path, "error", err)
				return
			}
			app.Document().Post(func() { app.Reload(next) })
			success(cmd, "Reloaded %s", filepath.Base(path))
		})
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Address = cfg.Address()
	srvCfg.Title = cfg.Server.Title
	srvCfg.Logger = logger.With("component", "server")
	srvCfg.Metrics = rec
	srvCfg.Gatherer = nil
	if cfg.Metrics.Enabled {
		srvCfg.Gatherer = prometheus.DefaultGatherer
	}
	srv := server.New(app.Document(), srvCfg)

	success(cmd, "Serving %s on http://%s", cfg.Template.File, cfg.Address())
	return srv.Run()
}

// loadBody reads the page body: the template file, or the template URL when
// no file is configured.
func loadBody(ctx context.Context, cfg *config.Config) (*vdom.VNode, error) {
	source := cfg.TemplatePath()
	if source == "" {
		source = cfg.Template.URL
	}
	fetcher, err := patslot.FetcherFor(ctx, source)
	if err != nil {
		return nil, err
	}
	return (&patslot.Template{URL: source, Fetcher: fetcher}).Load(ctx)
}
