// Package sqlite persists records to a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/storascout/storascout/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	keyword TEXT NOT NULL,
	title TEXT NOT NULL,
	snippet TEXT,
	url TEXT NOT NULL,
	redirect_url TEXT,
	is_relevant BOOLEAN NOT NULL,
	category TEXT,
	company_types TEXT,
	confidence REAL NOT NULL,
	reason TEXT,
	page_title TEXT,
	word_count INTEGER NOT NULL,
	page_error TEXT,
	classification_error TEXT,
	created_at DATETIME NOT NULL
);
`

// New creates a SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, record *storage.Record) error {
	query := `
	INSERT INTO records (
		id, keyword, title, snippet, url, redirect_url, is_relevant, category,
		company_types, confidence, reason, page_title, word_count, page_error,
		classification_error, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := b.db.ExecContext(ctx, query,
		record.ID,
		record.Keyword,
		record.Title,
		record.Snippet,
		record.URL,
		record.RedirectURL,
		record.Relevant,
		record.Category,
		record.CompanyTypes,
		record.Confidence,
		record.Reason,
		record.PageTitle,
		record.WordCount,
		record.PageError,
		record.ClassifyError,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	query := `SELECT id, keyword, title, snippet, url, redirect_url, is_relevant,
	category, company_types, confidence, reason, page_title, word_count,
	page_error, classification_error, created_at FROM records WHERE 1=1`
	args := []any{}

	if filter.Keyword != "" {
		query += ` AND keyword = ?`
		args = append(args, filter.Keyword)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Relevant != nil {
		query += ` AND is_relevant = ?`
		args = append(args, *filter.Relevant)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*storage.Record
	for rows.Next() {
		var r storage.Record
		var createdAt time.Time

		err := rows.Scan(
			&r.ID, &r.Keyword, &r.Title, &r.Snippet, &r.URL, &r.RedirectURL,
			&r.Relevant, &r.Category, &r.CompanyTypes, &r.Confidence, &r.Reason,
			&r.PageTitle, &r.WordCount, &r.PageError, &r.ClassifyError, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.CreatedAt = createdAt

		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
