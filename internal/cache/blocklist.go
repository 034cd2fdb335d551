// Package cache holds the revoked-session blocklist consulted by the auth
// middleware. Redis backs it when configured so revocations survive restarts
// and are shared between instances; otherwise an in-memory map is used.
package cache

import (
	"context"
	"time"
)

// TokenBlocklist records revoked token IDs until the token would have expired
// on its own.
type TokenBlocklist interface {
	// Revoke blocks tokenID until expiresAt. Revoking an already expired
	// token is a no-op.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	// IsRevoked reports whether tokenID is currently blocked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Close releases background resources.
	Close() error
}
