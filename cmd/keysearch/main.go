// Package main runs the interactive credential search shell. Free text
// becomes a query against the configured password-manager endpoint;
// commands starting with a colon manage association and the clipboard.
package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	stdlog "log"
	"os"
	"strconv"
	"strings"
	"time"

	nethttp "net/http"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/atinyakov/keysearch/internal/association"
	"github.com/atinyakov/keysearch/internal/config"
	"github.com/atinyakov/keysearch/internal/db"
	"github.com/atinyakov/keysearch/internal/keystore"
	"github.com/atinyakov/keysearch/internal/logger"
	"github.com/atinyakov/keysearch/internal/protocol"
	"github.com/atinyakov/keysearch/internal/search"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// repl runs the interactive loop, accepting queries and commands until
// EOF or :quit.
func repl(orc *search.Orchestrator) {
	updates := make(chan struct{}, 1)
	orc.SetNotify(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Type to search. Commands: :associate, :copy <n>, :help, :quit")
	for {
		fmt.Print("keysearch> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case ":help":
			fmt.Println("Available commands: :associate, :copy <n>, :help, :quit; anything else searches")

		case ":associate":
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := orc.RequestAssociation(ctx)
			cancel()
			if err != nil {
				fmt.Println("Association failed:", err)
				continue
			}
			fmt.Println("Associated. Type a query to search.")

		case ":copy":
			if len(args) < 2 {
				fmt.Println("Usage: :copy <n>")
				continue
			}
			copyEntry(orc, args[1])

		case ":quit":
			fmt.Println("Bye")
			return

		default:
			// Drop any notification left over from the previous command so
			// the wait below only observes this query's retrieval.
			select {
			case <-updates:
			default:
			}
			orc.OnQueryChange(line)
			waitForResults(orc, updates)
			render(orc)
		}
	}
}

// waitForResults blocks until the retrieval triggered by the last
// query settles.
func waitForResults(orc *search.Orchestrator, updates <-chan struct{}) {
	for {
		<-updates
		if !orc.IsLoading() {
			return
		}
	}
}

// render prints the orchestrator's current state.
func render(orc *search.Orchestrator) {
	if orc.AssociationRequired() {
		fmt.Println("Not associated with the password manager. Run :associate and approve the request.")
		return
	}
	if err := orc.Err(); err != nil {
		fmt.Println("Search failed:", err)
		return
	}

	entries := orc.CurrentResults()
	if len(entries) == 0 {
		fmt.Println("No entries found")
		return
	}
	for i, e := range entries {
		line := fmt.Sprintf("%2d. %s", i+1, e.Title)
		if e.Username != "" {
			line += "  (" + e.Username + ")"
		}
		if e.URL != "" {
			line += "  " + e.URL
		}
		if e.Group != "" {
			line += "  [" + e.Group + "]"
		}
		fmt.Println(line)
	}
}

// copyEntry puts the password of the numbered entry on the clipboard.
func copyEntry(orc *search.Orchestrator, arg string) {
	entries := orc.CurrentResults()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(entries) {
		fmt.Println("Usage: :copy <n> (n from the last result list)")
		return
	}

	e := entries[n-1]
	if e.Password == "" {
		fmt.Println("Entry has no password")
		return
	}
	if err := clipboard.WriteAll(e.Password); err != nil {
		fmt.Println("Clipboard error:", err)
		return
	}
	fmt.Printf("Password for %q copied to clipboard\n", e.Title)
}

// main parses configuration, wires the key store, protocol client,
// association manager and orchestrator, and hands off to the shell.
func main() {
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	if err := options.Validate(); err != nil {
		stdlog.Fatalf("invalid configuration: %v", err)
	}

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		stdlog.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// The key store is namespaced by base URL so clients pointed at
	// different servers never share a secret.
	namespace := keystore.Namespace(options.BaseURL)

	var store keystore.Store
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer postgresDB.Close()
		store = keystore.NewPostgresStore(postgresDB, namespace)
	} else {
		path := options.StorePath
		if path == "" {
			var err error
			path, err = keystore.DefaultPath()
			if err != nil {
				zapLogger.Fatal("cannot resolve key store path", zap.Error(err))
			}
		}
		fileStore, err := keystore.NewFileStore(path, namespace)
		if err != nil {
			zapLogger.Fatal("cannot open key store", zap.Error(err))
		}
		store = fileStore
	}

	client := protocol.NewClient(&nethttp.Client{Timeout: 10 * time.Second}, options.BaseURL, zapLogger)
	manager := association.NewManager(client, store, zapLogger)

	orc := search.NewOrchestrator(client, manager, zapLogger)
	defer orc.Close()

	repl(orc)
}
