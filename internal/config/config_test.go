package config

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Store.Backend != BackendSupabase {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendSupabase)
	}
	if cfg.MCP.Transport != TransportStdio {
		t.Errorf("MCP.Transport = %q, want %q", cfg.MCP.Transport, TransportStdio)
	}
	if cfg.Supabase.Timeout <= 0 {
		t.Errorf("Supabase.Timeout = %v, want positive", cfg.Supabase.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:    "defaults lack supabase credentials",
			mutate:  func(c *Config) {},
			wantErr: []string{"supabase.url", "supabase.key"},
		},
		{
			name: "supabase missing key",
			mutate: func(c *Config) {
				c.Supabase.URL = "https://xyz.supabase.co"
			},
			wantErr: []string{"supabase.key"},
		},
		{
			name: "supabase complete",
			mutate: func(c *Config) {
				c.Supabase.URL = "https://xyz.supabase.co"
				c.Supabase.Key = "anon"
			},
		},
		{
			name: "sqlite without dsn",
			mutate: func(c *Config) {
				c.Store.Backend = BackendSQLite
			},
			wantErr: []string{"database.dsn"},
		},
		{
			name: "postgres with dsn",
			mutate: func(c *Config) {
				c.Store.Backend = BackendPostgres
				c.Database.DSN = "postgres://localhost/mcpress"
			},
		},
		{
			name: "unknown backend",
			mutate: func(c *Config) {
				c.Store.Backend = "mongo"
			},
			wantErr: []string{"store.backend"},
		},
		{
			name: "unknown transport",
			mutate: func(c *Config) {
				c.Store.Backend = BackendSQLite
				c.Database.DSN = "mcpress.db"
				c.MCP.Transport = "grpc"
			},
			wantErr: []string{"mcp.transport"},
		},
		{
			name: "http transport without addr",
			mutate: func(c *Config) {
				c.Store.Backend = BackendSQLite
				c.Database.DSN = "mcpress.db"
				c.MCP.Transport = TransportHTTP
				c.MCP.Addr = ""
			},
			wantErr: []string{"mcp.addr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error mentioning %v", tt.wantErr)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error = %q, want mention of %q", err, want)
				}
			}
		})
	}
}

func TestIsSQL(t *testing.T) {
	tests := map[string]bool{
		BackendSupabase: false,
		BackendPostgres: true,
		BackendSQLite:   true,
	}
	for backend, want := range tests {
		cfg := Config{Store: Store{Backend: backend}}
		if got := cfg.IsSQL(); got != want {
			t.Errorf("IsSQL(%q) = %v, want %v", backend, got, want)
		}
	}
}
