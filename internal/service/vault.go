// Package service implements the mock vault's business logic: key
// issuance, association checks, and entry lookup over a fixed entry
// list. It backs the development server and the end-to-end tests; real
// deployments talk to an actual password manager instead.
package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Vault serves the three protocol operations. One shared key is live
// at a time; associating again replaces it, and Revoke drops it the
// way a user removing the association inside the password manager
// would.
type Vault struct {
	log *zap.Logger

	mu      sync.Mutex
	key     string
	entries []map[string]any
}

// NewVault constructs a Vault serving the given raw entries.
func NewVault(entries []map[string]any, log *zap.Logger) *Vault {
	if log == nil {
		log = zap.NewNop()
	}
	return &Vault{log: log, entries: entries}
}

// Associate issues a fresh shared key, replacing any previous one.
func (v *Vault) Associate(_ context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.key = uuid.NewString()
	v.log.Info("issued new association key")
	return v.key, nil
}

// TestAssociate reports whether the presented key is the live one.
func (v *Vault) TestAssociate(_ context.Context, key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return key != "" && key == v.key
}

// GetLogins returns the raw entries matching search; an empty search
// returns everything. ok is false when the key is not the live one.
func (v *Vault) GetLogins(_ context.Context, key, search string) (entries []map[string]any, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if key == "" || key != v.key {
		return nil, false
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]map[string]any, 0, len(v.entries))
	for _, e := range v.entries {
		if needle == "" || entryMatches(e, needle) {
			out = append(out, e)
		}
	}
	v.log.Debug("served logins", zap.String("search", needle), zap.Int("entries", len(out)))
	return out, true
}

// Revoke drops the live key, invalidating every stored copy of it.
func (v *Vault) Revoke() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.key = ""
	v.log.Info("association revoked")
}

// entryMatches does a case-insensitive substring match over the
// title-, url- and login-like fields.
func entryMatches(e map[string]any, needle string) bool {
	for _, name := range []string{"Title", "title", "Name", "Url", "url", "Login", "Username", "username"} {
		if s, ok := e[name].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
