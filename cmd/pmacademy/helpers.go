package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pmacademy/internal/blobstore"
	"github.com/at-ishikawa/pmacademy/internal/bootstrap"
	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/cli"
	"github.com/at-ishikawa/pmacademy/internal/clock"
	"github.com/at-ishikawa/pmacademy/internal/config"
	"github.com/at-ishikawa/pmacademy/internal/database"
	"github.com/at-ishikawa/pmacademy/internal/persistence"
	"github.com/at-ishikawa/pmacademy/internal/progress"
	"github.com/at-ishikawa/pmacademy/schemas"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// environment is what a command needs once the storage is open.
type environment struct {
	cfg     *config.Config
	clock   clock.Clock
	repo    *persistence.Repository
	catalog *catalog.Catalog
	store   *progress.Store
	cli     *cli.InteractiveCLI
}

// runWithRepository loads the config, opens the configured blob store and
// calls fn. Resources are released when fn returns.
func runWithRepository(cmd *cobra.Command, fn func(ctx context.Context, env *environment) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.Default()
	app := bootstrap.New(logger)
	return app.Run(cmd.Context(), func(ctx context.Context) error {
		blobs, err := openBlobStore(ctx, app, cfg.Storage.Backend, cfg)
		if err != nil {
			return err
		}
		return fn(ctx, &environment{
			cfg:   cfg,
			clock: appClock,
			repo:  persistence.NewRepository(blobs).WithLogger(logger),
			cli:   cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout()),
		})
	})
}

// runWithStore is runWithRepository with the catalog loaded and the progress
// store opened, which applies the daily streak rule.
func runWithStore(cmd *cobra.Command, fn func(ctx context.Context, env *environment) error) error {
	return runWithRepository(cmd, func(ctx context.Context, env *environment) error {
		c, err := catalog.Load(env.cfg.Catalog.Directory)
		if err != nil {
			return fmt.Errorf("catalog.Load() > %w", err)
		}
		store, err := progress.Open(ctx, env.repo,
			progress.WithClock(env.clock),
			progress.WithLogger(slog.Default()),
		)
		if err != nil {
			return fmt.Errorf("progress.Open() > %w", err)
		}
		env.catalog = c
		env.store = store
		return fn(ctx, env)
	})
}

func openBlobStore(ctx context.Context, app *bootstrap.App, backend string, cfg *config.Config) (blobstore.Store, error) {
	switch backend {
	case config.StorageBackendFile:
		return blobstore.NewFileStore(cfg.Storage.Directory), nil
	case config.StorageBackendMemory:
		return blobstore.NewMemoryStore(), nil
	case config.StorageBackendMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		app.AddShutdownHook("database", func(ctx context.Context) error {
			return db.Close()
		})
		if err := database.Ping(ctx, db, cfg.Database.ConnectAttempts, slog.Default()); err != nil {
			return nil, fmt.Errorf("database.Ping() > %w", err)
		}
		if err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		return blobstore.NewDBStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
