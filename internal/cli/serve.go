package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/evisynth/nmakit/internal/server"
	"github.com/evisynth/nmakit/pkg/config"
	"github.com/evisynth/nmakit/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string // TOML config file (defaults used if empty)
	listen     string // listen address override
}

// newServeCmd creates the serve command.
// It runs the assessment HTTP API.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the assessment HTTP API",
		Long: `Run the assessment HTTP API. The server accepts comparison and effect
datasets over HTTP, runs the same pipeline as the CLI, and archives
assessments in the configured store.

Examples:
  nmakit serve
  nmakit serve --listen :9090
  nmakit serve --config /etc/nmakit/nmakit.toml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Debugf("Loaded config from %s", opts.configPath)
	}
	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}

	st, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Infof("Serving on %s (store: %s)", cfg.Server.Listen, cfg.Store.Backend)
	return server.New(cfg, st, logger).Run(ctx)
}

// buildStore constructs the assessment store selected by the config.
// The returned cleanup func releases backend connections.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case "file":
		st, err := store.NewFileStore(cfg.Store.File.Dir)
		return st, noop, err
	case "redis":
		st, err := store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			TTL:      cfg.Store.Redis.TTL.Duration,
		})
		if err != nil {
			return nil, noop, err
		}
		return st, func() { _ = st.Close() }, nil
	case "mongo":
		st, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
		})
		if err != nil {
			return nil, noop, err
		}
		return st, func() { _ = st.Close(context.Background()) }, nil
	default:
		return store.NewMemoryStore(), noop, nil
	}
}
