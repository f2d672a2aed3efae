package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/client/client"
	"github.com/dmitrijs2005/collectadmin/internal/client/config"
	"github.com/dmitrijs2005/collectadmin/internal/client/services"
	"github.com/dmitrijs2005/collectadmin/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = "unknown"
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// adminService is what the commands need from services.AdminService.
type adminService interface {
	Restore(ctx context.Context) (bool, error)
	LoggedIn() bool
	CurrentUser() string
	Login(ctx context.Context, email, password string) (*client.User, error)
	Logout(ctx context.Context) error
	List(ctx context.Context, r client.Resource, refresh bool) (*services.Listing, error)
	Create(ctx context.Context, r client.Resource, in any) (services.Row, error)
	Delete(ctx context.Context, r client.Resource, id string) error
	Export(ctx context.Context, r client.Resource) (*client.ExportResult, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	service adminService
	probe   pinger
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the local cache and connects the API and health clients.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", c.CacheDSN, err)
	}

	api, err := client.NewAPIClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	probe, err := client.NewHealthProbe(c.HealthEndpointAddr)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		config:  c,
		service: services.NewAdminService(api, repos.DB, logger),
		probe:   probe,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []io.Closer{probe, repos},
		mode:    ModeUnknown,
	}, nil
}

// Run restores any saved session, starts the connectivity watcher and blocks
// in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	restored, err := a.service.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "restore session", "error", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.probe != nil {
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	printlnFn("collectadmin CLI (type 'help' for commands)")
	if restored {
		printlnFn("Resumed session for", a.service.CurrentUser())
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.service.LoggedIn()
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connection mode changed", "mode", string(mode))
	}
}

// status is shown in the prompt.
func (a *App) status() string {
	s := "[" + string(a.Mode()) + "] "
	if user := a.service.CurrentUser(); user != "" {
		s += user + " "
	}
	return s
}

// StartOnlineStatusWatcher probes the server immediately and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	err := a.probe.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
