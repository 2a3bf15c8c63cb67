// Package keystore persists the shared association secret across
// process restarts. Stored keys are namespaced by server base URL so
// two clients pointed at different endpoints never read or clobber
// each other's secret.
package keystore

import (
	"context"
	"strings"
)

// Store is the durable key-value contract for one endpoint's shared
// secret. All operations are idempotent; Clear on an absent key is a
// no-op. Implementations treat empty or whitespace-only stored values
// as absent.
type Store interface {
	// Get returns the stored shared key, reporting whether one is present.
	Get(ctx context.Context) (key string, ok bool, err error)
	// Set stores the shared key, replacing any previous value.
	Set(ctx context.Context, key string) error
	// Clear removes the stored shared key.
	Clear(ctx context.Context) error
}

// Namespace derives the storage identifier for a base URL. Distinct
// base URLs never collide; trailing slashes are ignored so
// "http://localhost:19455/" and "http://localhost:19455" share a key.
func Namespace(baseURL string) string {
	return "shared-key:" + strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// present reports whether a stored value counts as a usable key.
func present(v string) bool {
	return strings.TrimSpace(v) != ""
}
