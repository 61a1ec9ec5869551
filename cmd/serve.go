package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/attrsel/internal/config"
	"github.com/zjrosen/attrsel/internal/flags"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/server"
	"github.com/zjrosen/attrsel/internal/tracing"
	"github.com/zjrosen/attrsel/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve descriptor resolution over HTTP",
	Long: `Serve a read-only HTTP API over the configured types.

Endpoints:
  GET /healthz
  GET /v1/types
  GET /v1/types/{type}/descriptors?set=default|registered
  GET /v1/types/{type}/select?q=<selector>
  GET /metrics                      (flag serve-metrics, on by default)

With catalog.watch (or the catalog-watch flag) the YAML catalog is reloaded
when its files change.

Example:
  attrsel serve --addr :7420`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg, nil)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

// runServe serves until ctx is cancelled. ready, when set, receives the
// server before it starts listening.
func runServe(ctx context.Context, c config.Config, ready func(*server.Server)) error {
	featureFlags := flags.New(c.Flags)

	tc := c.Tracing
	if tc.Enabled && tc.Exporter == "file" && tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	tp, err := tracing.NewProvider(tc)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTracing, "tracing shutdown failed", err)
		}
	}()

	m := metrics.New()
	env, err := openEnvironment(ctx, c, m)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	srv := server.New(env.provider, env.types,
		server.WithMetrics(m),
		server.WithTracer(tp.Tracer()),
		server.WithFlags(featureFlags),
	)
	if ready != nil {
		ready(srv)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, c.Server.Addr)
	})

	if c.Catalog.Watch || featureFlags.Enabled(flags.FlagCatalogWatch) {
		if c.Database.CatalogStore != "" {
			log.Info(log.CatWatcher, "watching YAML catalog; changes are saved to the catalog store",
				"store", c.Database.CatalogStore)
		}
		g.Go(func() error {
			return watchCatalog(ctx, env, c.Catalog)
		})
	}

	return g.Wait()
}

// watchCatalog reloads the catalog on every debounced change until ctx is
// cancelled. A failed reload keeps the previous catalog.
func watchCatalog(ctx context.Context, env *environment, cc config.CatalogConfig) error {
	w, err := watcher.New(watcher.Config{Dir: cc.Dir, DebounceDur: cc.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("watching catalog %s: %w", cc.Dir, err)
	}
	log.Info(log.CatWatcher, "watching catalog", "dir", cc.Dir)

	events := env.source.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if err := env.reload(ctx); err != nil {
				log.ErrorErr(log.CatWatcher, "catalog reload failed", err)
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			log.Debug(log.CatWatcher, "catalog event", "type", string(ev.Type), "types", len(ev.Payload.Types))
		}
	}
}
