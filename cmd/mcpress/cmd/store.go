package cmd

import (
	"context"
	"fmt"

	"github.com/mcpress/mcpress/internal/articles"
	"github.com/mcpress/mcpress/internal/config"
	"github.com/mcpress/mcpress/internal/sqlstore"
	"github.com/mcpress/mcpress/internal/supabase"
)

// openStore validates cfg and creates the configured storage backend. The
// returned close function is always non-nil.
func openStore(ctx context.Context, cfg config.Config) (articles.Store, func() error, error) {
	noop := func() error { return nil }

	if err := cfg.Validate(); err != nil {
		return nil, noop, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.IsSQL() {
		store, err := connectSQL(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	}

	client, err := supabase.New(supabase.Config{
		URL:     cfg.Supabase.URL,
		Key:     cfg.Supabase.Key,
		Schema:  cfg.Supabase.Schema,
		Timeout: cfg.Supabase.Timeout,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, noop, nil
}

// openSQLStore validates cfg for the SQL-only commands (migrate, seed) and
// connects to its postgres or sqlite database.
func openSQLStore(ctx context.Context, cfg config.Config) (*sqlstore.Store, error) {
	if !cfg.IsSQL() {
		return nil, fmt.Errorf("store.backend %q is not a SQL database; set it to postgres or sqlite", cfg.Store.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return connectSQL(ctx, cfg)
}

// connectSQL opens the database of an already validated SQL config.
func connectSQL(ctx context.Context, cfg config.Config) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:       cfg.Store.Backend,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
