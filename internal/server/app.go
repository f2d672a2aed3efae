// Package server wires the admin server together: it opens the entity
// store, applies migrations, builds the services and runs the HTTP and gRPC
// health servers until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/collectadmin/internal/logging"
	"github.com/dmitrijs2005/collectadmin/internal/server/config"
	"github.com/dmitrijs2005/collectadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/collectadmin/internal/server/metrics"
	"github.com/dmitrijs2005/collectadmin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/collectadmin/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/collectadmin/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics

	users            *services.UserService
	companies        *services.CompanyService
	vehicles         *services.VehicleService
	collectionPoints *services.CollectionPointService
	export           *services.ExportService
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	app := &App{
		config:           c,
		logger:           logger,
		db:               db,
		repomanager:      rm,
		metrics:          metrics.New(),
		users:            services.NewUserService(db, rm, c),
		companies:        services.NewCompanyService(db, rm),
		vehicles:         services.NewVehicleService(db, rm),
		collectionPoints: services.NewCollectionPointService(db, rm),
	}
	app.export = services.NewExportService(c, app.snapshotSources())

	return app, nil
}

// snapshotSources maps exportable resource names to their listings.
func (app *App) snapshotSources() map[string]services.SnapshotSource {
	return map[string]services.SnapshotSource{
		"users": func(ctx context.Context) (any, error) {
			return app.users.List(ctx)
		},
		"companies": func(ctx context.Context) (any, error) {
			return app.companies.List(ctx)
		},
		"vehicles": func(ctx context.Context) (any, error) {
			return app.vehicles.List(ctx)
		},
		"collection-point": func(ctx context.Context) (any, error) {
			return app.collectionPoints.List(ctx)
		},
	}
}

// prepare applies migrations and creates the bootstrap operator if configured.
func (app *App) prepare(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if app.config.BootstrapEmail == "" || app.config.BootstrapPassword == "" {
		return nil
	}

	created, err := app.users.EnsureBootstrapUser(ctx, services.UserInput{
		Name:     app.config.BootstrapName,
		Email:    app.config.BootstrapEmail,
		Password: app.config.BootstrapPassword,
	})
	if err != nil {
		return fmt.Errorf("bootstrap user: %w", err)
	}
	if created {
		app.logger.Info(ctx, "Bootstrap user created", "email", app.config.BootstrapEmail)
	}

	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.Services{
		Users:            app.users,
		Companies:        app.companies,
		Vehicles:         app.vehicles,
		CollectionPoints: app.collectionPoints,
		Export:           app.export,
	}, app.config.SessionValidityDuration, app.logger, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval, app.metrics.SetStoreUp)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.prepare(ctx); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return nil
}
