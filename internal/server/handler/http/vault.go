// Package http provides the HTTP handler for the mock credential
// server used in development and end-to-end tests.
package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// VaultService defines the interface for the vault operations required
// by the HTTP handler.
type VaultService interface {
	// Associate issues a fresh shared key.
	Associate(ctx context.Context) (string, error)
	// TestAssociate reports whether the presented key is the live one.
	TestAssociate(ctx context.Context, key string) bool
	// GetLogins returns the raw entries matching search. ok is false
	// when the key is not the live one.
	GetLogins(ctx context.Context, key, search string) (entries []map[string]any, ok bool)
}

// VaultHandler answers protocol requests on the single POST endpoint.
type VaultHandler struct {
	// VaultService performs the underlying vault operations.
	VaultService VaultService
}

// Handle handles POST / requests. It expects a JSON body with a
// RequestType discriminator and dispatches to the matching vault
// operation. Responses use PascalCase fields, one of the casing
// dialects clients must accept.
func (h *VaultHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequestType  string `json:"RequestType"`
		Key          string `json:"Key"`
		SearchString string `json:"SearchString"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RequestType == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var resp map[string]any

	switch req.RequestType {
	case "associate":
		key, err := h.VaultService.Associate(ctx)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		resp = map[string]any{"Success": true, "Key": key}

	case "test-associate":
		if h.VaultService.TestAssociate(ctx, req.Key) {
			resp = map[string]any{"Success": true}
		} else {
			resp = map[string]any{"Success": false, "Error": "association not found"}
		}

	case "get-logins":
		entries, ok := h.VaultService.GetLogins(ctx, req.Key, req.SearchString)
		if !ok {
			resp = map[string]any{"Success": false, "Error": "association not found"}
			break
		}
		resp = map[string]any{"Success": true, "Entries": entries}

	default:
		http.Error(w, "unknown request type", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
