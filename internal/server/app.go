// Package server assembles the ReWear backend: database, object storage,
// services and the gRPC and ops endpoints, and runs them until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"github.com/dmitrijs2005/rewear/internal/server/config"
	"github.com/dmitrijs2005/rewear/internal/server/images"
	"github.com/dmitrijs2005/rewear/internal/server/metrics"
	"github.com/dmitrijs2005/rewear/internal/server/ops"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rewear/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/rewear/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	migrate func(ctx context.Context) error
	grpc    runner
	ops     runner
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := metrics.New()
	repos := repomanager.NewPostgresRepositoryManager()

	tx := dbx.NewSQLTransactor(db,
		dbx.WithAttempts(c.TxMaxAttempts),
		dbx.WithBackoff(c.TxBaseBackoff),
		dbx.WithOnRetry(func(attempt int, err error) {
			m.IncTxRetry()
			logger.Warn(ctx, "retrying transaction", "attempt", attempt, "error", err)
		}),
	)

	img, err := images.NewS3Store(ctx, images.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		PresignTTL:   c.S3PresignTTL,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	store := services.Store{DB: db, Tx: tx, Repos: repos}

	grpcServer, err := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, m, gs.Services{
		Users:      services.NewUserService(store, c, logger),
		Items:      services.NewItemService(store, img, logger),
		Exchange:   services.NewExchangeService(store, logger, m),
		Moderation: services.NewModerationService(store, img, logger),
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		migrate: func(ctx context.Context) error {
			return repos.RunMigrations(ctx, db)
		},
		grpc: grpcServer,
		ops:  ops.NewServer(c.EndpointAddrHTTP, db, m, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run applies migrations and serves until ctx is cancelled, a signal
// arrives or one of the endpoints fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	if err := app.migrate(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(gctx) })
	g.Go(func() error { return app.ops.Run(gctx) })

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")
	return err
}
