package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcpress/mcpress/pkg/models"
)

var postgresSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name varchar(255) NOT NULL UNIQUE,
		email varchar(255) NOT NULL UNIQUE,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name varchar(100) NOT NULL UNIQUE,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		url varchar(2048) NOT NULL UNIQUE,
		title varchar(500) NOT NULL,
		author varchar(255),
		published_date date,
		content text NOT NULL,
		summary text NOT NULL,
		keywords varchar(100)[] NOT NULL DEFAULT '{}',
		image_url varchar(2048),
		category_id uuid REFERENCES categories(id),
		organization_id uuid REFERENCES organizations(id),
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS articles_published_date_idx ON articles (published_date DESC NULLS LAST, id)`,
	`CREATE INDEX IF NOT EXISTS articles_category_id_idx ON articles (category_id)`,
	`CREATE INDEX IF NOT EXISTS articles_organization_id_idx ON articles (organization_id)`,
	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS article_embeddings (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		article_id uuid NOT NULL UNIQUE REFERENCES articles(id) ON DELETE CASCADE,
		embedding vector(%d) NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`, models.EmbeddingDimensions),
}

// SQLite has no vector type; embeddings are stored as little-endian
// float32 blobs.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		author TEXT,
		published_date TEXT,
		content TEXT NOT NULL,
		summary TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT '[]',
		image_url TEXT,
		category_id TEXT REFERENCES categories(id),
		organization_id TEXT REFERENCES organizations(id),
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS articles_published_date_idx ON articles (published_date DESC, id)`,
	`CREATE INDEX IF NOT EXISTS articles_category_id_idx ON articles (category_id)`,
	`CREATE INDEX IF NOT EXISTS articles_organization_id_idx ON articles (organization_id)`,
	`CREATE TABLE IF NOT EXISTS article_embeddings (
		id TEXT PRIMARY KEY,
		article_id TEXT NOT NULL UNIQUE REFERENCES articles(id) ON DELETE CASCADE,
		embedding BLOB NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range s.dialect.schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	slog.Info("schema migrated", "statements", len(s.dialect.schema))
	return nil
}
