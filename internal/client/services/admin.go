// Package services holds the CLI's application logic: session handling and
// a local, derived cache of the server's resource listings.
//
// The cache is never the source of truth. A listing is served from sqlite
// when present; every successful create or delete invalidates the affected
// snapshots and fetches them again.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/client/client"
	"github.com/dmitrijs2005/collectadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/collectadmin/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/collectadmin/internal/dbx"
	"github.com/dmitrijs2005/collectadmin/internal/logging"
)

// API is the server surface the service depends on. *client.APIClient
// implements it.
type API interface {
	SetToken(token string)
	Token() string
	Login(ctx context.Context, email, password string) (*client.LoginResult, error)
	Logout(ctx context.Context) error
	List(ctx context.Context, r client.Resource) (json.RawMessage, error)
	Create(ctx context.Context, r client.Resource, in any) (json.RawMessage, error)
	Delete(ctx context.Context, r client.Resource, id string) error
	Export(ctx context.Context, r client.Resource) (*client.ExportResult, error)
}

// Row is one decoded record. Numbers are kept as json.Number.
type Row map[string]any

// Listing is a resource listing together with where it came from.
type Listing struct {
	Resource  client.Resource
	Rows      []Row
	FetchedAt time.Time
	// Cached is set when the rows were read from the local snapshot.
	Cached bool
}

type AdminService struct {
	api    API
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
	email  string
}

func NewAdminService(api API, db *sql.DB, logger logging.Logger) *AdminService {
	return &AdminService{api: api, db: db, logger: logger, now: time.Now}
}

func (s *AdminService) metadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *AdminService) snapshotRepo(db dbx.DBTX) snapshots.Repository {
	return snapshots.NewSQLiteRepository(db)
}

// Restore loads a previously saved session into the API client. It reports
// whether one was found.
func (s *AdminService) Restore(ctx context.Context) (bool, error) {
	md := s.metadataRepo(s.db)

	token, err := md.Get(ctx, metadata.KeySessionToken)
	if err != nil {
		return false, err
	}
	if len(token) == 0 {
		return false, nil
	}
	email, err := md.Get(ctx, metadata.KeyUserEmail)
	if err != nil {
		return false, err
	}

	s.api.SetToken(string(token))
	s.email = string(email)
	return true, nil
}

func (s *AdminService) LoggedIn() bool {
	return s.api.Token() != ""
}

// CurrentUser is the email of the signed-in operator, or "".
func (s *AdminService) CurrentUser() string {
	if !s.LoggedIn() {
		return ""
	}
	return s.email
}

// Login authenticates and persists the session. Cached listings from any
// earlier session are dropped.
func (s *AdminService) Login(ctx context.Context, email, password string) (*client.User, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := s.metadataRepo(tx)
		if err := md.Set(ctx, metadata.KeySessionToken, []byte(res.Token)); err != nil {
			return err
		}
		if err := md.Set(ctx, metadata.KeyUserEmail, []byte(res.User.Email)); err != nil {
			return err
		}
		return s.snapshotRepo(tx).Clear(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.email = res.User.Email
	return &res.User, nil
}

// Logout ends the session locally even when the server cannot be reached.
func (s *AdminService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil && !errors.Is(err, client.ErrUnauthorized) {
		s.logger.Warn(ctx, "server logout failed", "error", err)
	}
	return s.forget(ctx)
}

// forget drops the local session and every cached listing.
func (s *AdminService) forget(ctx context.Context) error {
	s.api.SetToken("")
	s.email = ""

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.metadataRepo(tx).Clear(ctx); err != nil {
			return err
		}
		return s.snapshotRepo(tx).Clear(ctx)
	})
}

// checkAuth clears the local session when the server rejected the token.
func (s *AdminService) checkAuth(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		if ferr := s.forget(ctx); ferr != nil {
			s.logger.Error(ctx, "clear session", "error", ferr)
		}
	}
	return err
}

// List returns the listing for r, from the cache unless refresh is set or
// nothing is cached. A failed refresh is reported as is and leaves the
// snapshot in place.
func (s *AdminService) List(ctx context.Context, r client.Resource, refresh bool) (*Listing, error) {
	cached, err := s.snapshotRepo(s.db).Get(ctx, string(r))
	if err != nil {
		return nil, err
	}
	if cached != nil && !refresh {
		return s.listing(r, cached, true)
	}

	snap, err := s.fetch(ctx, r)
	if err != nil {
		if cached == nil && errors.Is(err, client.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %w", client.ErrLocalDataNotAvailable, err)
		}
		return nil, err
	}
	return s.listing(r, snap, false)
}

func (s *AdminService) fetch(ctx context.Context, r client.Resource) (*snapshots.Snapshot, error) {
	raw, err := s.api.List(ctx, r)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	snap := &snapshots.Snapshot{Resource: string(r), Payload: raw, FetchedAt: s.now()}
	if err := s.snapshotRepo(s.db).Put(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *AdminService) listing(r client.Resource, snap *snapshots.Snapshot, cached bool) (*Listing, error) {
	rows, err := decodeRows(snap.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", r, err)
	}
	return &Listing{Resource: r, Rows: rows, FetchedAt: snap.FetchedAt, Cached: cached}, nil
}

// Create posts in and returns the created record.
func (s *AdminService) Create(ctx context.Context, r client.Resource, in any) (Row, error) {
	raw, err := s.api.Create(ctx, r, in)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}

	var row Row
	if err := decodeJSON(raw, &row); err != nil {
		return nil, fmt.Errorf("decode created %s: %w", r, err)
	}

	s.resync(ctx, r)
	return row, nil
}

func (s *AdminService) Delete(ctx context.Context, r client.Resource, id string) error {
	if err := s.api.Delete(ctx, r, id); err != nil {
		return s.checkAuth(ctx, err)
	}
	s.resync(ctx, r)
	return nil
}

func (s *AdminService) Export(ctx context.Context, r client.Resource) (*client.ExportResult, error) {
	res, err := s.api.Export(ctx, r)
	if err != nil {
		return nil, s.checkAuth(ctx, err)
	}
	return res, nil
}

// dependents lists the snapshots a mutation of r makes stale. Vehicle
// listings embed their company's name.
func dependents(r client.Resource) []client.Resource {
	if r == client.ResourceCompanies {
		return []client.Resource{client.ResourceCompanies, client.ResourceVehicles}
	}
	return []client.Resource{r}
}

// resync invalidates what a mutation of r touched and fetches it again.
// A failed re-fetch leaves the snapshot absent, so the next list goes to
// the server.
func (s *AdminService) resync(ctx context.Context, r client.Resource) {
	affected := dependents(r)

	names := make([]string, len(affected))
	for i, a := range affected {
		names[i] = string(a)
	}
	if err := s.snapshotRepo(s.db).Invalidate(ctx, names...); err != nil {
		s.logger.Error(ctx, "invalidate snapshots", "resources", names, "error", err)
		return
	}

	for _, a := range affected {
		if _, err := s.fetch(ctx, a); err != nil {
			s.logger.Warn(ctx, "re-fetch after change failed", "resource", string(a), "error", err)
		}
	}
}
