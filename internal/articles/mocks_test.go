package articles

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mcpress/mcpress/pkg/models"
)

var ErrMockStore = errors.New("mock store error")

// MockStore is an in-memory Store that records the calls it receives.
type MockStore struct {
	mu            sync.Mutex
	Categories    map[string]string // name -> id
	Organizations map[string]string // name -> id
	Rows          []models.ArticleRow

	Err            error
	CategoryCalls  int
	OrgCalls       int
	FindCalls      int
	LastQuery      models.ArticleQuery
	DuplicateOnGet bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		Categories:    map[string]string{},
		Organizations: map[string]string{},
	}
}

func (m *MockStore) CategoryID(ctx context.Context, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CategoryCalls++
	if m.Err != nil {
		return "", false, m.Err
	}
	id, ok := m.Categories[name]
	return id, ok, nil
}

func (m *MockStore) OrganizationID(ctx context.Context, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrgCalls++
	if m.Err != nil {
		return "", false, m.Err
	}
	id, ok := m.Organizations[name]
	return id, ok, nil
}

func (m *MockStore) FindArticles(ctx context.Context, q models.ArticleQuery) ([]models.ArticleRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	m.LastQuery = q
	if m.Err != nil {
		return nil, m.Err
	}

	var matched []models.ArticleRow
	for _, row := range m.Rows {
		if q.ID != "" && row.ID != q.ID {
			continue
		}
		if q.CategoryID != "" && (row.CategoryID == nil || *row.CategoryID != q.CategoryID) {
			continue
		}
		if q.OrganizationID != "" && (row.OrganizationID == nil || *row.OrganizationID != q.OrganizationID) {
			continue
		}
		if q.Author != "" && (row.Author == nil || *row.Author != q.Author) {
			continue
		}
		matched = append(matched, row)
	}
	if m.DuplicateOnGet && q.ID != "" && len(matched) == 1 {
		matched = append(matched, matched[0])
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].PublishedDate, matched[j].PublishedDate
		switch {
		case a == nil && b == nil:
			return matched[i].ID < matched[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return matched[i].ID < matched[j].ID
		}
	})

	if q.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}
