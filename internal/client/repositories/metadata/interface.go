// Package metadata stores small key/value facts about the local CLI state,
// such as the current session token.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeySessionToken = "session_token"
	KeyUserEmail    = "user_email"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
