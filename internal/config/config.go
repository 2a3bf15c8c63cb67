// Package config provides functionality for managing configuration
// options for the client using command-line flags and environment
// variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
)

// Options holds the configuration values for the client. Options are
// immutable once a client is constructed; pointing at a different
// server means building a new client with a new key-store namespace.
type Options struct {
	// BaseURL is the network location of the credential server.
	BaseURL string

	// StorePath is the path of the file-backed shared-key store.
	// Empty selects the default location under the home directory.
	StorePath string

	// DatabaseDSN switches the shared-key store to Postgres when set.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string
}

// Error reports an unusable configuration. It is fatal to client
// construction and never retried.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

// Validate checks that the options can construct a client.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.BaseURL) == "" {
		return &Error{Field: "baseUrl", Reason: "base URL is required"}
	}
	return nil
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.BaseURL, "url", "http://localhost:19455", "credential server base URL")
	flag.StringVar(&options.StorePath, "store", "", "path to the shared-key store file")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address for the shared-key store")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if baseURL := os.Getenv("KEYSEARCH_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	return options
}
