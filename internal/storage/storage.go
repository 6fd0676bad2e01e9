// Package storage defines the exported record shape and the backend
// interface for persisting pipeline output.
package storage

import (
	"context"
	"time"
)

// Record is one aggregated result: a deduplicated search hit merged with
// its fetched page metadata and classification verdict. Per-stage errors
// are carried on the record so a failed item is never silently dropped.
type Record struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	URL         string `json:"url"`
	RedirectURL string `json:"redirect_url,omitempty"`

	Relevant     bool    `json:"is_relevant"`
	Category     string  `json:"category,omitempty"`
	CompanyTypes string  `json:"company_types,omitempty"` // comma-joined
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason,omitempty"`

	PageTitle string `json:"page_title,omitempty"`
	WordCount int    `json:"word_count"`

	// PageError and ClassifyError mark per-stage failures; empty means
	// the stage succeeded (or, for ClassifyError, was skipped after a
	// fetch failure).
	PageError     string `json:"page_error,omitempty"`
	ClassifyError string `json:"classification_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FetchStatus renders the page-fetch outcome for exports.
func (r *Record) FetchStatus() string {
	if r.PageError != "" {
		return "failed: " + r.PageError
	}
	return "ok"
}

// ClassifyStatus renders the classification outcome for exports.
func (r *Record) ClassifyStatus() string {
	switch {
	case r.ClassifyError != "":
		return "failed: " + r.ClassifyError
	case r.PageError != "":
		return "skipped"
	default:
		return "ok"
	}
}

// Filter selects records in Query calls. Zero values match everything.
type Filter struct {
	Keyword  string
	Category string
	Relevant *bool
	Since    *time.Time
	Limit    int
	Offset   int
}

// Backend stores and queries aggregated records.
type Backend interface {
	Save(ctx context.Context, record *Record) error
	Query(ctx context.Context, filter Filter) ([]*Record, error)
	Close() error
}
