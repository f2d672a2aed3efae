package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/collectadmin/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, resource string) (*Snapshot, error) {
	s := &Snapshot{Resource: resource}
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM snapshots WHERE resource = ?`, resource,
	).Scan(&s.Payload, &s.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot[%s]: %w", resource, err)
	}
	return s, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, s *Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (resource, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(resource) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, s.Resource, []byte(s.Payload), s.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("put snapshot[%s]: %w", s.Resource, err)
	}
	return nil
}

func (r *SQLiteRepository) Invalidate(ctx context.Context, resources ...string) error {
	if len(resources) == 0 {
		return nil
	}

	args := make([]any, len(resources))
	for i, res := range resources {
		args[i] = res
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(resources)), ",")

	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE resource IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("invalidate snapshots %v: %w", resources, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}
