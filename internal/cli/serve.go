package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/observability/prom"
	"github.com/matzehuels/waterfall/pkg/server"
	"github.com/matzehuels/waterfall/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	d := defaultConfig()
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Charts can be stored on disk (--store file) or in MongoDB (--store mongo).
Rendered artifacts are cached in the configured cache (file or redis).
Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().String("addr", d.Serve.Addr, "listen address")
	cmd.Flags().String("store", d.Serve.Store, "chart store: file, mongo, none")
	cmd.Flags().String("store-dir", d.Serve.StoreDir, "chart directory for the file store (default: "+filepath.Join(configDir(), "charts")+")")
	cmd.Flags().String("mongo-uri", d.Serve.MongoURI, "MongoDB connection URI")
	cmd.Flags().String("cache", d.Cache.Backend, "artifact cache: file, redis, none")
	cmd.Flags().String("redis-addr", d.Cache.RedisAddr, "Redis address for the redis cache")
	cmd.Flags().String("log-file", d.Log.File, "also write logs to this rotated file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addRenderConfigFlags(cmd, d.Render)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	cfg := c.cfg

	if cfg.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
		defer lj.Close()
		c.Logger.SetOutput(io.MultiWriter(c.logWriter, lj))
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close(context.Background())
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	metrics := prom.New(prometheus.DefaultRegisterer)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	defaults := c.pipelineOptions()
	srv := server.New(runner, st, c.Logger,
		server.WithDefaults(defaults),
		server.WithTimeout(cfg.Serve.Timeout()),
	)

	c.Logger.Info("starting server",
		"store", cfg.Serve.Store,
		"cache", cfg.Cache.Backend,
		"viewport", fmt.Sprintf("%gx%g", defaults.Width, defaults.Height))
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}

// newStore opens the configured chart store. It returns nil for "none".
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.cfg.Serve.Store {
	case storeNone:
		printWarning("No chart store, /v1/charts is disabled")
		return nil, nil
	case storeMongo:
		st, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:      c.cfg.Serve.MongoURI,
			Database: c.cfg.Serve.MongoDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo store: %w", err)
		}
		return st, nil
	default:
		dir := c.cfg.Serve.StoreDir
		if dir == "" {
			dir = filepath.Join(configDir(), "charts")
		}
		st, err := store.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return st, nil
	}
}
