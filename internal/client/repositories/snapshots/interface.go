// Package snapshots persists the last fetched listing of each resource.
// Rows are a derived view of the server: they are replaced wholesale on
// every fetch and removed whenever a mutation makes them stale.
package snapshots

import (
	"context"
	"encoding/json"
	"time"
)

// Snapshot is a cached list response for one resource.
type Snapshot struct {
	Resource  string
	Payload   json.RawMessage
	FetchedAt time.Time
}

type Repository interface {
	// Get returns (nil, nil) when nothing is cached for resource.
	Get(ctx context.Context, resource string) (*Snapshot, error)
	Put(ctx context.Context, s *Snapshot) error
	Invalidate(ctx context.Context, resources ...string) error
	Clear(ctx context.Context) error
}
