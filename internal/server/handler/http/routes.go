package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/keysearch/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the mock vault. The
// whole protocol lives on a single endpoint:
//
//	POST / → vaultHandler.Handle
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") rejects non-JSON requests
//  2. WithRequestLogging(logger) logs incoming requests
func NewRouter(vaultHandler *VaultHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Post("/", vaultHandler.Handle)

	return r
}
