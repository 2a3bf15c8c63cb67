// Package main starts the mock credential server answering the
// associate, test-associate and get-logins requests on a single
// endpoint. It exists for local development; real use points the
// client at an actual password manager.
package main

import (
	"flag"
	"fmt"
	stdlog "log"

	nethttp "net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/keysearch/internal/logger"
	"github.com/atinyakov/keysearch/internal/server/handler/http"
	"github.com/atinyakov/keysearch/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// seedEntries returns demo records across the response dialects real
// servers emit, so the client's normalization paths all get exercised.
func seedEntries() []map[string]any {
	return []map[string]any{
		{
			"Uuid":         uuid.NewString(),
			"Title":        "Gmail",
			"Login":        "me@example.com",
			"Url":          "https://mail.google.com",
			"Group":        "Root/Email",
			"StringFields": map[string]any{"Password": "p@ss"},
		},
		{
			"uuid":     uuid.NewString(),
			"title":    "Bank",
			"username": "account-7",
			"password": "hunter2",
			"url":      "https://bank.example",
			"notes":    "support pin 0000",
			"group":    "Root/Finance",
		},
		{
			"UUID":      uuid.NewString(),
			"Name":      "Router",
			"URL":       "http://192.168.1.1",
			"GroupPath": "Root/Infra",
			"StringFields": []any{
				map[string]any{"Key": "UserName", "Value": "admin"},
				map[string]any{"Key": "Password", "Value": "changeme"},
			},
		},
	}
}

func main() {
	var (
		addr    string
		showVer bool
	)
	flag.StringVar(&addr, "a", "localhost:19455", "run on ip:port")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("keysearch mockvault\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		stdlog.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	vault := service.NewVault(seedEntries(), zapLogger)
	vaultHandler := &http.VaultHandler{VaultService: vault}
	router := http.NewRouter(vaultHandler, zapLogger)

	server := &nethttp.Server{Addr: addr, Handler: router}
	zapLogger.Info("starting mock vault", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
