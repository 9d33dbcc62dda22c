// Package server wires the mail server together: configuration, logging,
// the account and mailbox stores, the TCP acceptor and the optional health
// and metrics endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophmail/internal/cryptox"
	"github.com/dmitrijs2005/gophmail/internal/logging"
	"github.com/dmitrijs2005/gophmail/internal/server/accounts"
	"github.com/dmitrijs2005/gophmail/internal/server/config"
	"github.com/dmitrijs2005/gophmail/internal/server/dispatch"
	"github.com/dmitrijs2005/gophmail/internal/server/health"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
	"github.com/dmitrijs2005/gophmail/internal/server/metrics"
	"github.com/dmitrijs2005/gophmail/internal/server/storage"
	"github.com/dmitrijs2005/gophmail/internal/server/tcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// openPostgres is replaced in tests.
var openPostgres = storage.OpenPostgres

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *accounts.Store
	registry *prometheus.Registry
	tcp      *tcp.Server
	health   *health.Server
	metrics  *metrics.Server
}

// NewApp builds every component. Log output goes to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	logger := logging.NewJSON(out, level)

	hasher, err := cryptox.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, registry: prometheus.NewRegistry()}
	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(app.registry)

	var repo accounts.Repository
	if c.DatabaseDSN != "" {
		db, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		repo = accounts.NewPostgresRepository(db)
	} else {
		repo = accounts.NewMemoryRepository()
	}

	boxes := mailbox.NewStore()
	app.accounts = accounts.NewStore(repo, boxes, hasher, logger)

	if _, err := app.accounts.Restore(ctx); err != nil {
		app.Close()
		return nil, err
	}

	n, err := app.accounts.Count(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	m.SetAccounts(n)

	d := dispatch.New(app.accounts, boxes, c.MaxResponseBytes, m, logger)
	app.tcp = tcp.NewServer(c.EndpointAddr, c.MaxRequestBytes, d, m, logger)

	if c.HealthAddrGRPC != "" {
		app.health = health.NewServer(c.HealthAddrGRPC, logger)
	}
	if c.MetricsAddr != "" {
		app.metrics = metrics.NewServer(c.MetricsAddr, app.registry, logger, c.ShutdownTimeout)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives, ctx is cancelled or one of
// the listeners fails. Open client connections get ShutdownTimeout to finish
// the request in hand before the database is closed.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := app.tcp.Run(ctx)
		if app.health != nil {
			app.health.SetServing(false)
		}
		return err
	})
	if app.health != nil {
		g.Go(func() error { return app.health.Run(ctx) })
	}
	if app.metrics != nil {
		g.Go(func() error { return app.metrics.Run(ctx) })
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "Server failed", "error", err.Error())
	}

	app.drain()
	app.Close()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

// drain waits up to ShutdownTimeout for connection handlers to return.
func (app *App) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.tcp.Wait(ctx); err != nil {
		app.logger.Warn(ctx, "Connections still open at shutdown", "error", err.Error())
	}
}

// Close releases the database handle, if any.
func (app *App) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(context.Background(), "Closing database failed", "error", err.Error())
		}
		app.db = nil
	}
}
