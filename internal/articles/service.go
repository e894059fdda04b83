package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcpress/mcpress/pkg/models"
)

const (
	// DefaultSearchLimit is the result count for search when none is given.
	DefaultSearchLimit = 10
	// DefaultListLimit is the page size for listing when none is given.
	DefaultListLimit = 20
)

var (
	// ErrMultipleRows is returned when a lookup by unique key matches more
	// than one article.
	ErrMultipleRows = errors.New("multiple articles matched a unique key")
	// ErrInvalidArgument is returned for negative pagination values.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Store is the read interface the service needs from a storage backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// CategoryID returns the id of the category with exactly this name.
	CategoryID(ctx context.Context, name string) (string, bool, error)
	// OrganizationID returns the id of the organization with exactly this name.
	OrganizationID(ctx context.Context, name string) (string, bool, error)
	// FindArticles returns articles matching q ordered by published date
	// (newest first, undated last) and then id.
	FindArticles(ctx context.Context, q models.ArticleQuery) ([]models.ArticleRow, error)
}

// ListFilter holds the optional filters and pagination of ListArticles.
type ListFilter struct {
	Category    string
	MediaSource string
	Author      string
	Limit       int
	Offset      int
}

// Service answers article queries and flattens the results.
type Service struct {
	store    Store
	resolver *Resolver
}

// NewService creates a service on top of store.
func NewService(store Store) *Service {
	return &Service{
		store:    store,
		resolver: NewResolver(store),
	}
}

// SearchArticles is meant to rank articles by embedding similarity to
// query. No similarity backend exists yet, so it always returns an empty
// list.
func (s *Service) SearchArticles(ctx context.Context, query string, limit int) ([]models.FlatArticle, error) {
	slog.Debug("semantic search not implemented", "query", query, "limit", limit)
	return []models.FlatArticle{}, nil
}

// GetArticle returns the article with the given id, or nil if none exists.
func (s *Service) GetArticle(ctx context.Context, articleID string) (*models.FlatArticle, error) {
	// An empty id would drop the id predicate and match every article.
	if articleID == "" {
		return nil, nil
	}

	// Two rows are enough to tell "one" from "more than one".
	rows, err := s.store.FindArticles(ctx, models.ArticleQuery{ID: articleID, Limit: 2})
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", articleID, err)
	}

	switch len(rows) {
	case 0:
		slog.Debug("article not found", "id", articleID)
		return nil, nil
	case 1:
		flat := models.Flatten(rows[0])
		return &flat, nil
	default:
		return nil, fmt.Errorf("get article %s: %w", articleID, ErrMultipleRows)
	}
}

// ListArticles returns one page of articles matching filter, newest first.
// A category or media source name that matches nothing yields an empty
// page rather than an error.
func (s *Service) ListArticles(ctx context.Context, filter ListFilter) ([]models.FlatArticle, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must be non-negative (limit=%d, offset=%d)",
			ErrInvalidArgument, filter.Limit, filter.Offset)
	}
	if filter.Limit == 0 {
		return []models.FlatArticle{}, nil
	}

	ids, ok, err := s.resolver.Resolve(ctx, filter.Category, filter.MediaSource)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if !ok {
		return []models.FlatArticle{}, nil
	}

	rows, err := s.store.FindArticles(ctx, models.ArticleQuery{
		CategoryID:     ids.CategoryID,
		OrganizationID: ids.OrganizationID,
		Author:         filter.Author,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	slog.Debug("listed articles",
		"category", filter.Category,
		"media_source", filter.MediaSource,
		"author", filter.Author,
		"offset", filter.Offset,
		"count", len(rows))

	return models.FlattenAll(rows), nil
}
