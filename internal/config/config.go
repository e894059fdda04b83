package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backends accepted by Store.Backend.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Transports accepted by MCP.Transport.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config holds all application configuration.
type Config struct {
	Store    Store    `mapstructure:"store"`
	Supabase Supabase `mapstructure:"supabase"`
	Database Database `mapstructure:"database"`
	MCP      MCP      `mapstructure:"mcp"`
}

// Store selects the article storage backend.
type Store struct {
	Backend string `mapstructure:"backend"`
}

// Supabase holds the hosted backend connection settings.
type Supabase struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Schema  string        `mapstructure:"schema"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Database holds direct SQL connection settings (postgres or sqlite).
type Database struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name      string `mapstructure:"name"`
	Version   string `mapstructure:"version"`
	Transport string `mapstructure:"transport"`
	Addr      string `mapstructure:"addr"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Store: Store{
			Backend: BackendSupabase,
		},
		Supabase: Supabase{
			Schema:  "public",
			Timeout: 30 * time.Second,
		},
		Database: Database{
			MaxOpenConns: 4,
		},
		MCP: MCP{
			Name:      "MCPress",
			Version:   "1.0.0",
			Transport: TransportStdio,
			Addr:      ":8080",
		},
	}
}

// Validate reports every missing or inconsistent setting at once. It is
// meant to run once at startup.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendSupabase:
		if c.Supabase.URL == "" {
			errs = append(errs, errors.New("supabase.url is required (SUPABASE_URL)"))
		}
		if c.Supabase.Key == "" {
			errs = append(errs, errors.New("supabase.key is required (SUPABASE_KEY)"))
		}
		if c.Supabase.Timeout < 0 {
			errs = append(errs, errors.New("supabase.timeout must not be negative"))
		}
	case BackendPostgres, BackendSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("database.dsn is required for the %s backend", c.Store.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q must be one of %s",
			c.Store.Backend, strings.Join([]string{BackendSupabase, BackendPostgres, BackendSQLite}, ", ")))
	}

	switch c.MCP.Transport {
	case TransportStdio:
	case TransportSSE, TransportHTTP:
		if c.MCP.Addr == "" {
			errs = append(errs, fmt.Errorf("mcp.addr is required for the %s transport", c.MCP.Transport))
		}
	default:
		errs = append(errs, fmt.Errorf("mcp.transport %q must be one of %s",
			c.MCP.Transport, strings.Join([]string{TransportStdio, TransportSSE, TransportHTTP}, ", ")))
	}

	return errors.Join(errs...)
}

// IsSQL reports whether the configured backend is a direct SQL database.
func (c Config) IsSQL() bool {
	return c.Store.Backend == BackendPostgres || c.Store.Backend == BackendSQLite
}
