// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// StoreKind selects the bookmark store backend.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreBolt   StoreKind = "bolt"
)

// DefaultPath is the database file used when GITSHELF_DB_PATH is unset. Each
// store kind has its own file so switching kinds never opens the other's file.
func (k StoreKind) DefaultPath() string {
	if k == StoreBolt {
		return "gitshelf.bolt"
	}
	return "gitshelf.db"
}

// DefaultMinBusy is the shortest time a GUI add request takes, so the busy
// indicator is visible even when GitHub answers quickly.
const DefaultMinBusy = 500 * time.Millisecond

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	GitHubAPIURL string
	ListenAddr   string
	DBPath       string
	Store        StoreKind
	MinBusy      time.Duration
}

// HasGitHubToken returns true when requests to GitHub are authenticated.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// GITSHELF_GITHUB_TOKEN is optional; without it GitHub is queried anonymously.
// Optional variables with defaults: GITSHELF_GITHUB_API_URL (https://api.github.com/),
// GITSHELF_LISTEN_ADDR (127.0.0.1:8080), GITSHELF_DB_PATH (gitshelf.db, or gitshelf.bolt for the bolt store),
// GITSHELF_STORE (sqlite), GITSHELF_MIN_BUSY (500ms).
func Load() (*Config, error) {
	token := os.Getenv("GITSHELF_GITHUB_TOKEN")

	apiURL := "https://api.github.com/"
	if v, ok := os.LookupEnv("GITSHELF_GITHUB_API_URL"); ok && v != "" {
		apiURL = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("GITSHELF_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	store := StoreSQLite
	if v, ok := os.LookupEnv("GITSHELF_STORE"); ok && v != "" {
		switch StoreKind(v) {
		case StoreSQLite, StoreBolt:
			store = StoreKind(v)
		default:
			return nil, fmt.Errorf("GITSHELF_STORE has invalid value %q: expected sqlite or bolt", v)
		}
	}

	dbPath := store.DefaultPath()
	if v, ok := os.LookupEnv("GITSHELF_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	minBusy := DefaultMinBusy
	if v, ok := os.LookupEnv("GITSHELF_MIN_BUSY"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GITSHELF_MIN_BUSY has invalid duration %q: %w", v, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("GITSHELF_MIN_BUSY must not be negative, got %s", parsed)
		}
		minBusy = parsed
	}

	return &Config{
		GitHubToken:  token,
		GitHubAPIURL: apiURL,
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		Store:        store,
		MinBusy:      minBusy,
	}, nil
}
