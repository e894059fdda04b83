package models

import "time"

// EmbeddingDimensions is the vector length of an article embedding
// (text-embedding-3-small).
const EmbeddingDimensions = 1536

// Organization is a news organization (media source).
type Organization struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Category groups articles by topic, e.g. "politics" or "technology".
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Embedding is the vector representation of a single article.
type Embedding struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	Vector    []float32 `json:"embedding"`
}

// Article holds the scalar columns of a stored article.
type Article struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Author         *string   `json:"author"`
	PublishedDate  *string   `json:"published_date"` // YYYY-MM-DD
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	Keywords       []string  `json:"keywords"`
	CategoryID     *string   `json:"category_id"`
	OrganizationID *string   `json:"organization_id"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NameRef is an embedded related row carrying only its name.
type NameRef struct {
	Name string `json:"name"`
}

// ArticleRow is an article as returned by a storage backend, with the
// related category and organization embedded as nested objects.
type ArticleRow struct {
	Article
	Category     *NameRef `json:"category"`
	Organization *NameRef `json:"organization"`
}

// FlatArticle is the single-level record handed to tool callers.
// Category and MediaSource are nil, and omitted from JSON, exactly when the
// article has no related row.
type FlatArticle struct {
	Article
	Category    *string `json:"category,omitempty"`
	MediaSource *string `json:"media_source,omitempty"`
}

// Flatten lifts the nested category and organization names of row to
// top-level fields.
func Flatten(row ArticleRow) FlatArticle {
	flat := FlatArticle{Article: row.Article}
	if flat.Keywords == nil {
		flat.Keywords = []string{}
	}
	if row.Category != nil {
		name := row.Category.Name
		flat.Category = &name
	}
	if row.Organization != nil {
		name := row.Organization.Name
		flat.MediaSource = &name
	}
	return flat
}

// FlattenAll flattens every row, always returning a non-nil slice.
func FlattenAll(rows []ArticleRow) []FlatArticle {
	out := make([]FlatArticle, len(rows))
	for i, row := range rows {
		out[i] = Flatten(row)
	}
	return out
}

// ArticleQuery is a storage-level article lookup. Empty string fields are
// not applied as predicates.
type ArticleQuery struct {
	ID             string
	CategoryID     string
	OrganizationID string
	Author         string
	Limit          int
	Offset         int
}
