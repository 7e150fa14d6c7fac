package ports

import (
	"context"
	"time"
)

// RevocationList is the durable blacklist of refresh-token identifiers.
// Entries must persist at least as long as the token's natural expiry.
type RevocationList interface {
	// Revoke blacklists the JTI for ttl. Revoking an already-revoked or
	// already-expired token is not an error.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the JTI is on the list. Implementations must
	// return an error on backend failure so callers can fail safe toward
	// rejecting the token.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
