package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Fixtures is a set of articles to load into the database.
type Fixtures struct {
	Articles []ArticleFixture `yaml:"articles"`
}

// OrganizationFixture names the media source of an article.
type OrganizationFixture struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// ArticleFixture is one article as written in a fixtures file.
type ArticleFixture struct {
	URL           string               `yaml:"url"`
	Title         string               `yaml:"title"`
	Author        string               `yaml:"author"`
	PublishedDate string               `yaml:"published_date"`
	Content       string               `yaml:"content"`
	Summary       string               `yaml:"summary"`
	Keywords      []string             `yaml:"keywords"`
	ImageURL      string               `yaml:"image_url"`
	Category      string               `yaml:"category"`
	Organization  *OrganizationFixture `yaml:"organization"`
}

// SeedResult counts the rows written by Seed.
type SeedResult struct {
	Articles      int
	Categories    int
	Organizations int
}

// LoadFixtures reads and validates a YAML fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes and validates YAML fixtures.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	var errs []error
	for i, a := range f.Articles {
		if err := a.validate(); err != nil {
			errs = append(errs, fmt.Errorf("article %d (%s): %w", i, a.URL, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &f, nil
}

func (a ArticleFixture) validate() error {
	var missing []string
	if a.URL == "" {
		missing = append(missing, "url")
	}
	if a.Title == "" {
		missing = append(missing, "title")
	}
	if a.Content == "" {
		missing = append(missing, "content")
	}
	if a.Summary == "" {
		missing = append(missing, "summary")
	}
	if a.Organization != nil && (a.Organization.Name == "" || a.Organization.Email == "") {
		missing = append(missing, "organization name/email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	if a.PublishedDate != "" {
		if _, err := time.Parse(time.DateOnly, a.PublishedDate); err != nil {
			return fmt.Errorf("published_date %q is not YYYY-MM-DD", a.PublishedDate)
		}
	}
	return nil
}

// Seed upserts every fixture in one transaction: categories and
// organizations by name, articles by url.
func (s *Store) Seed(ctx context.Context, f *Fixtures) (*SeedResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	result := &SeedResult{}
	categories := map[string]string{}
	organizations := map[string]string{}

	for _, a := range f.Articles {
		var categoryID, organizationID any

		if a.Category != "" {
			id, ok := categories[a.Category]
			if !ok {
				id, err = s.upsertCategory(ctx, tx, a.Category)
				if err != nil {
					return nil, err
				}
				categories[a.Category] = id
				result.Categories++
			}
			categoryID = id
		}

		if a.Organization != nil {
			id, ok := organizations[a.Organization.Name]
			if !ok {
				id, err = s.upsertOrganization(ctx, tx, *a.Organization)
				if err != nil {
					return nil, err
				}
				organizations[a.Organization.Name] = id
				result.Organizations++
			}
			organizationID = id
		}

		if err := s.upsertArticle(ctx, tx, a, categoryID, organizationID); err != nil {
			return nil, err
		}
		result.Articles++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed: %w", err)
	}

	slog.Info("fixtures seeded",
		"articles", result.Articles,
		"categories", result.Categories,
		"organizations", result.Organizations)
	return result, nil
}

func (s *Store) upsertCategory(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	p := s.dialect.placeholder
	query := fmt.Sprintf(`INSERT INTO categories (id, name) VALUES (%s, %s)
		ON CONFLICT (name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id`, p(1), p(2))

	var id string
	if err := tx.QueryRowContext(ctx, query, uuid.NewString(), name).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to upsert category %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) upsertOrganization(ctx context.Context, tx *sql.Tx, org OrganizationFixture) (string, error) {
	p := s.dialect.placeholder
	query := fmt.Sprintf(`INSERT INTO organizations (id, name, email) VALUES (%s, %s, %s)
		ON CONFLICT (name) DO UPDATE SET email = excluded.email, updated_at = CURRENT_TIMESTAMP
		RETURNING id`, p(1), p(2), p(3))

	var id string
	if err := tx.QueryRowContext(ctx, query, uuid.NewString(), org.Name, org.Email).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to upsert organization %q: %w", org.Name, err)
	}
	return id, nil
}

func (s *Store) upsertArticle(ctx context.Context, tx *sql.Tx, a ArticleFixture, categoryID, organizationID any) error {
	keywords, err := s.dialect.keywordsArg(a.Keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords for %s: %w", a.URL, err)
	}

	p := s.dialect.placeholder
	query := fmt.Sprintf(`INSERT INTO articles
		(id, url, title, author, published_date, content, summary, keywords, image_url, category_id, organization_id)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			published_date = excluded.published_date,
			content = excluded.content,
			summary = excluded.summary,
			keywords = excluded.keywords,
			image_url = excluded.image_url,
			category_id = excluded.category_id,
			organization_id = excluded.organization_id,
			updated_at = CURRENT_TIMESTAMP`,
		p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9), p(10), p(11))

	_, err = tx.ExecContext(ctx, query,
		uuid.NewString(), a.URL, a.Title, nullIfEmpty(a.Author), nullIfEmpty(a.PublishedDate),
		a.Content, a.Summary, keywords, nullIfEmpty(a.ImageURL), categoryID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", a.URL, err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
