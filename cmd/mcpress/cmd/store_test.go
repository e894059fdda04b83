package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpress/mcpress/internal/config"
	"github.com/mcpress/mcpress/internal/sqlstore"
	"github.com/mcpress/mcpress/internal/supabase"
)

func TestOpenStore_InvalidConfig(t *testing.T) {
	cfg := config.Defaults()

	_, closeStore, err := openStore(context.Background(), cfg)
	if err == nil {
		t.Fatal("openStore() error = nil, want error for missing supabase settings")
	}
	if !strings.Contains(err.Error(), "supabase.url") {
		t.Errorf("openStore() error = %v, want mention of supabase.url", err)
	}
	if closeStore == nil {
		t.Fatal("openStore() returned nil close func")
	}
	if err := closeStore(); err != nil {
		t.Errorf("closeStore() error = %v", err)
	}
}

func TestOpenStore_Supabase(t *testing.T) {
	cfg := config.Defaults()
	cfg.Supabase.URL = "https://project.supabase.co"
	cfg.Supabase.Key = "anon-key"

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer closeStore()

	if _, ok := store.(*supabase.Client); !ok {
		t.Errorf("openStore() = %T, want *supabase.Client", store)
	}
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.Store.Backend = config.BackendSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "mcpress.db")

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer closeStore()

	if _, ok := store.(*sqlstore.Store); !ok {
		t.Errorf("openStore() = %T, want *sqlstore.Store", store)
	}
}

func TestOpenSQLStore_RejectsSupabase(t *testing.T) {
	cfg := config.Defaults()
	cfg.Supabase.URL = "https://project.supabase.co"
	cfg.Supabase.Key = "anon-key"

	if _, err := openSQLStore(context.Background(), cfg); err == nil {
		t.Error("openSQLStore() error = nil, want error for supabase backend")
	}
}

func TestOpenSQLStore_InvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Store.Backend = config.BackendSQLite

	_, err := openSQLStore(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "database.dsn") {
		t.Errorf("openSQLStore() error = %v, want missing database.dsn", err)
	}
}

func TestOpenSQLStore_SQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.Store.Backend = config.BackendSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "mcpress.db")

	store, err := openSQLStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openSQLStore() error = %v", err)
	}
	store.Close()
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 9, "truncated..."},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
