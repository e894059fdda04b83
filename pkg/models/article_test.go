package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestFlatten_NestedNames(t *testing.T) {
	row := ArticleRow{
		Article: Article{
			ID:             "a1",
			URL:            "https://example.com/tech",
			Title:          "Chips",
			Content:        "content",
			Summary:        "summary",
			Keywords:       []string{"ai", "chips"},
			CategoryID:     strPtr("c1"),
			OrganizationID: strPtr("o1"),
		},
		Category:     &NameRef{Name: "Tech"},
		Organization: &NameRef{Name: "The Verge"},
	}

	flat := Flatten(row)

	if flat.Category == nil || *flat.Category != "Tech" {
		t.Errorf("Category = %v, want %q", flat.Category, "Tech")
	}
	if flat.MediaSource == nil || *flat.MediaSource != "The Verge" {
		t.Errorf("MediaSource = %v, want %q", flat.MediaSource, "The Verge")
	}
	if flat.ID != "a1" || flat.Title != "Chips" {
		t.Errorf("scalar fields not carried over: %+v", flat.Article)
	}
}

func TestFlatten_AbsentRelationsOmitKeys(t *testing.T) {
	flat := Flatten(ArticleRow{Article: Article{ID: "a2", Title: "Orphan"}})

	data, err := json.Marshal(flat)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	for _, key := range []string{"category", "media_source"} {
		if _, ok := fields[key]; ok {
			t.Errorf("JSON should not contain %q, got: %s", key, data)
		}
	}

	// Nullable scalar columns stay present as null.
	for _, key := range []string{"author", "published_date", "category_id", "organization_id", "image_url"} {
		v, ok := fields[key]
		if !ok {
			t.Errorf("JSON should contain %q, got: %s", key, data)
		} else if v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}

	if kw, ok := fields["keywords"].([]any); !ok || len(kw) != 0 {
		t.Errorf("keywords = %v, want empty array", fields["keywords"])
	}
}

func TestFlatArticle_JSONFieldNames(t *testing.T) {
	flat := Flatten(ArticleRow{
		Article: Article{
			ID:            "a3",
			URL:           "https://example.com",
			Title:         "Test",
			PublishedDate: strPtr("2024-01-05"),
			CreatedAt:     time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC),
		},
		Category: &NameRef{Name: "politics"},
	})

	data, err := json.Marshal(flat)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	expected := []string{
		`"id":"a3"`,
		`"published_date":"2024-01-05"`,
		`"created_at":"2024-01-06T10:00:00Z"`,
		`"category":"politics"`,
	}
	for _, field := range expected {
		if !strings.Contains(jsonStr, field) {
			t.Errorf("JSON should contain %s, got: %s", field, jsonStr)
		}
	}
	if strings.Contains(jsonStr, `"media_source"`) {
		t.Errorf("JSON should not contain media_source, got: %s", jsonStr)
	}
}

func TestFlatten_EmptyRelatedNameKeepsKey(t *testing.T) {
	flat := Flatten(ArticleRow{
		Article:      Article{ID: "a4"},
		Category:     &NameRef{Name: ""},
		Organization: &NameRef{Name: ""},
	})

	data, err := json.Marshal(flat)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	for _, field := range []string{`"category":""`, `"media_source":""`} {
		if !strings.Contains(jsonStr, field) {
			t.Errorf("JSON should contain %s, got: %s", field, jsonStr)
		}
	}
}

func TestFlattenAll_NonNil(t *testing.T) {
	out := FlattenAll(nil)
	if out == nil {
		t.Fatal("FlattenAll(nil) should return an empty, non-nil slice")
	}
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}
