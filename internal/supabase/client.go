package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcpress/mcpress/pkg/models"
)

// Config holds Supabase client configuration.
type Config struct {
	URL     string        // Project URL, e.g. https://xyz.supabase.co
	Key     string        // anon or service-role API key
	Schema  string        // Postgres schema exposed by PostgREST (empty = public)
	Timeout time.Duration // Overall per-request timeout (0 = none)

	HTTPClient *http.Client // Optional; overrides Timeout when set
}

// Client reads the MCPress tables through the Supabase REST (PostgREST) API.
type Client struct {
	httpClient *http.Client
	restURL    string
	key        string
	schema     string
}

// APIError is a non-2xx response from PostgREST.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase API error (status %d): %s", e.StatusCode, e.Message)
}

// New creates a new Supabase client.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("supabase URL is required")
	}
	if config.Key == "" {
		return nil, errors.New("supabase key is required")
	}

	base, err := url.Parse(strings.TrimRight(config.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid supabase URL %q: scheme must be http or https", config.URL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		restURL:    base.String() + "/rest/v1",
		key:        config.Key,
		schema:     config.Schema,
	}, nil
}

// articleSelect embeds the related category and organization names.
const articleSelect = "*,category:categories(name),organization:organizations(name)"

// articleOrder puts the newest articles first and undated ones last, with
// id as a stable tie-break.
const articleOrder = "published_date.desc.nullslast,id.asc"

// CategoryID returns the id of the category with exactly this name.
func (c *Client) CategoryID(ctx context.Context, name string) (string, bool, error) {
	return c.idByName(ctx, "categories", name)
}

// OrganizationID returns the id of the organization with exactly this name.
func (c *Client) OrganizationID(ctx context.Context, name string) (string, bool, error) {
	return c.idByName(ctx, "organizations", name)
}

func (c *Client) idByName(ctx context.Context, table, name string) (string, bool, error) {
	params := url.Values{}
	params.Set("select", "id")
	params.Set("name", "eq."+name)
	params.Set("limit", "1")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, table, params, &rows); err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].ID, true, nil
}

// FindArticles returns articles matching q with their category and
// organization embedded.
func (c *Client) FindArticles(ctx context.Context, q models.ArticleQuery) ([]models.ArticleRow, error) {
	params := url.Values{}
	params.Set("select", articleSelect)
	if q.ID != "" {
		params.Set("id", "eq."+q.ID)
	}
	if q.CategoryID != "" {
		params.Set("category_id", "eq."+q.CategoryID)
	}
	if q.OrganizationID != "" {
		params.Set("organization_id", "eq."+q.OrganizationID)
	}
	if q.Author != "" {
		params.Set("author", "eq."+q.Author)
	}
	params.Set("order", articleOrder)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	var rows []models.ArticleRow
	if err := c.get(ctx, "articles", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// get issues a single GET against a PostgREST table and decodes the JSON
// array response into out.
func (c *Client) get(ctx context.Context, table string, params url.Values, out any) error {
	endpoint := c.restURL + "/" + table + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if c.schema != "" {
		req.Header.Set("Accept-Profile", c.schema)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("supabase request",
		"table", table,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	return nil
}
