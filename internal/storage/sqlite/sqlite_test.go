package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/storascout/storascout/internal/storage"
)

func TestSQLiteBackend(t *testing.T) {
	// Use an in-memory database for testing
	dsn := "file::memory:?cache=shared"
	b, err := New(dsn)
	if err != nil {
		t.Fatalf("Failed to create SQLite backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	rec := &storage.Record{
		ID:           "sq1",
		Keyword:      "energy storage EPC",
		Title:        "GridStore delivers 200MWh project",
		Snippet:      "GridStore announced completion of a grid-side storage station.",
		URL:          "https://gridstore.example/projects",
		RedirectURL:  "https://www.bing.com/ck/a?u=a1aHR0c",
		Relevant:     true,
		Category:     "company-EPC",
		CompanyTypes: "EPC contractor,system integrator",
		Confidence:   0.92,
		Reason:       "describes turnkey storage construction work",
		PageTitle:    "GridStore Projects",
		WordCount:    840,
		CreatedAt:    now,
	}

	if err := b.Save(ctx, rec); err != nil {
		t.Fatalf("Failed to save record: %v", err)
	}

	results, err := b.Query(ctx, storage.Filter{Keyword: "energy storage EPC"})
	if err != nil {
		t.Fatalf("Failed to query records: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(results))
	}

	got := results[0]
	if got.ID != rec.ID {
		t.Errorf("Expected ID %s, got %s", rec.ID, got.ID)
	}
	if got.URL != rec.URL {
		t.Errorf("Expected URL %s, got %s", rec.URL, got.URL)
	}
	if got.Relevant != rec.Relevant {
		t.Errorf("Expected Relevant %v, got %v", rec.Relevant, got.Relevant)
	}
	if got.Category != rec.Category {
		t.Errorf("Expected Category %s, got %s", rec.Category, got.Category)
	}
	if got.CompanyTypes != rec.CompanyTypes {
		t.Errorf("Expected CompanyTypes %s, got %s", rec.CompanyTypes, got.CompanyTypes)
	}
	if got.Confidence != rec.Confidence {
		t.Errorf("Expected Confidence %v, got %v", rec.Confidence, got.Confidence)
	}
	if got.WordCount != rec.WordCount {
		t.Errorf("Expected WordCount %d, got %d", rec.WordCount, got.WordCount)
	}
}

func TestSQLiteBackend_Filters(t *testing.T) {
	b, err := New("file:filters?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to create SQLite backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	recs := []*storage.Record{
		{ID: "a", Keyword: "k1", Title: "t1", URL: "https://one.example/", Relevant: true, Category: "company-EPC", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", Keyword: "k1", Title: "t2", URL: "https://two.example/", Relevant: false, Category: "not-storage", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "c", Keyword: "k2", Title: "t3", URL: "https://three.example/", Relevant: true, Category: "project-news", CreatedAt: now},
	}
	for _, r := range recs {
		if err := b.Save(ctx, r); err != nil {
			t.Fatalf("Failed to save record %s: %v", r.ID, err)
		}
	}

	relevant := true
	results, err := b.Query(ctx, storage.Filter{Relevant: &relevant})
	if err != nil {
		t.Fatalf("Failed to query by relevance: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 relevant records, got %d", len(results))
	}
	// Newest first
	if results[0].ID != "c" || results[1].ID != "a" {
		t.Errorf("Expected order [c a], got [%s %s]", results[0].ID, results[1].ID)
	}

	since := now.Add(-90 * time.Minute)
	results, err = b.Query(ctx, storage.Filter{Since: &since})
	if err != nil {
		t.Fatalf("Failed to query by since: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 records since cutoff, got %d", len(results))
	}

	results, err = b.Query(ctx, storage.Filter{Keyword: "k1", Limit: 1})
	if err != nil {
		t.Fatalf("Failed to query with limit: %v", err)
	}
	if len(results) != 1 || results[0].ID != "b" {
		t.Fatalf("Expected newest k1 record b, got %+v", results)
	}
}
