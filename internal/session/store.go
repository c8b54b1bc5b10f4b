// Package session keeps per-user transient state between interactions: the
// chosen locale, the current topic and the pending quiz question. Nothing
// here has to survive a restart.
package session

import "context"

// Store is a per-user key-value slot store. Implementations must be safe for
// concurrent use by different users. Concurrent writes to the same user's
// slot are last-write-wins.
type Store interface {
	Get(ctx context.Context, userID int64, key string) (string, bool, error)
	Set(ctx context.Context, userID int64, key, value string) error
	Delete(ctx context.Context, userID int64, key string) error
}
