package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/mcpress/mcpress/pkg/models"

	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds SQL store configuration.
type Config struct {
	Driver       string // "postgres" or "sqlite"
	DSN          string // postgres connection URL, or sqlite file path
	MaxOpenConns int
}

// dialect captures the differences between PostgreSQL and SQLite.
type dialect struct {
	placeholder func(n int) string
	keywordsArg func(keywords []string) (any, error)
	noLimit     string
	schema      []string
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	keywordsArg: func(keywords []string) (any, error) {
		if keywords == nil {
			keywords = []string{}
		}
		return pq.Array(keywords), nil
	},
	noLimit: "LIMIT ALL",
	schema:  postgresSchema,
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	keywordsArg: func(keywords []string) (any, error) {
		if keywords == nil {
			keywords = []string{}
		}
		data, err := json.Marshal(keywords)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	},
	noLimit: "LIMIT -1",
	schema:  sqliteSchema,
}

// Store reads and seeds the MCPress tables in a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database described by config. The returned store
// owns the connection pool; call Close on shutdown.
func Open(ctx context.Context, config Config) (*Store, error) {
	if config.DSN == "" {
		return nil, errors.New("database DSN is required")
	}

	var (
		d   dialect
		dsn = config.DSN
	)
	switch config.Driver {
	case DriverPostgres:
		d = postgresDialect
	case DriverSQLite:
		d = sqliteDialect
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Driver, err)
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
		db.SetMaxIdleConns(config.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", config.Driver, err)
	}

	slog.Debug("database connected", "driver", config.Driver)
	return &Store{db: db, dialect: d}, nil
}

// sqliteDSN enables foreign keys (for embedding cascades) and a busy
// timeout on every pooled connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// CategoryID returns the id of the category with exactly this name.
func (s *Store) CategoryID(ctx context.Context, name string) (string, bool, error) {
	return s.idByName(ctx, "categories", name)
}

// OrganizationID returns the id of the organization with exactly this name.
func (s *Store) OrganizationID(ctx context.Context, name string) (string, bool, error) {
	return s.idByName(ctx, "organizations", name)
}

func (s *Store) idByName(ctx context.Context, table, name string) (string, bool, error) {
	query := fmt.Sprintf("SELECT id FROM %s WHERE name = %s LIMIT 1", table, s.dialect.placeholder(1))

	var id string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up %s by name: %w", table, err)
	}
	return id, true, nil
}

const selectArticles = `
SELECT a.id, a.url, a.title, a.author, a.published_date, a.content, a.summary,
       a.keywords, a.category_id, a.organization_id, a.image_url,
       a.created_at, a.updated_at, c.name, o.name
FROM articles a
LEFT JOIN categories c ON c.id = a.category_id
LEFT JOIN organizations o ON o.id = a.organization_id`

// FindArticles returns articles matching q with their category and
// organization names joined in.
func (s *Store) FindArticles(ctx context.Context, q models.ArticleQuery) ([]models.ArticleRow, error) {
	var (
		where []string
		args  []any
	)
	eq := func(column string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = %s", column, s.dialect.placeholder(len(args))))
	}
	if q.ID != "" {
		eq("a.id", q.ID)
	}
	if q.CategoryID != "" {
		eq("a.category_id", q.CategoryID)
	}
	if q.OrganizationID != "" {
		eq("a.organization_id", q.OrganizationID)
	}
	if q.Author != "" {
		eq("a.author", q.Author)
	}

	var b strings.Builder
	b.WriteString(selectArticles)
	if len(where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\nORDER BY a.published_date DESC NULLS LAST, a.id ASC")
	switch {
	case q.Limit > 0:
		args = append(args, q.Limit)
		fmt.Fprintf(&b, "\nLIMIT %s", s.dialect.placeholder(len(args)))
	case q.Offset > 0:
		b.WriteString("\n" + s.dialect.noLimit)
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&b, " OFFSET %s", s.dialect.placeholder(len(args)))
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var result []models.ArticleRow
	for rows.Next() {
		row, err := scanArticleRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return result, nil
}

func scanArticleRow(rows *sql.Rows) (models.ArticleRow, error) {
	var (
		row            models.ArticleRow
		author         sql.NullString
		published      nullDate
		keywords       keywordList
		categoryID     sql.NullString
		organizationID sql.NullString
		imageURL       sql.NullString
		createdAt      timestamp
		updatedAt      timestamp
		categoryName   sql.NullString
		orgName        sql.NullString
	)

	err := rows.Scan(
		&row.ID, &row.URL, &row.Title, &author, &published, &row.Content, &row.Summary,
		&keywords, &categoryID, &organizationID, &imageURL,
		&createdAt, &updatedAt, &categoryName, &orgName,
	)
	if err != nil {
		return models.ArticleRow{}, fmt.Errorf("failed to scan article: %w", err)
	}

	row.Author = nullableString(author)
	row.PublishedDate = published.value
	row.Keywords = []string(keywords)
	row.CategoryID = nullableString(categoryID)
	row.OrganizationID = nullableString(organizationID)
	row.ImageURL = nullableString(imageURL)
	row.CreatedAt = createdAt.value
	row.UpdatedAt = updatedAt.value
	if categoryName.Valid {
		row.Category = &models.NameRef{Name: categoryName.String}
	}
	if orgName.Valid {
		row.Organization = &models.NameRef{Name: orgName.String}
	}
	return row, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
