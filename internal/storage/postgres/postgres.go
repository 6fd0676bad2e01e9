// Package postgres persists records to a PostgreSQL database via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storascout/storascout/internal/storage"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
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
	confidence DOUBLE PRECISION NOT NULL,
	reason TEXT,
	page_title TEXT,
	word_count INTEGER NOT NULL,
	page_error TEXT,
	classification_error TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
`

// New creates a Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, record *storage.Record) error {
	query := `
	INSERT INTO records (
		id, keyword, title, snippet, url, redirect_url, is_relevant, category,
		company_types, confidence, reason, page_title, word_count, page_error,
		classification_error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := b.pool.Exec(ctx, query,
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

func (b *postgresBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	query := `SELECT id, keyword, title, snippet, url, redirect_url, is_relevant,
	category, company_types, confidence, reason, page_title, word_count,
	page_error, classification_error, created_at FROM records WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.Keyword != "" {
		query += fmt.Sprintf(` AND keyword = $%d`, paramCount)
		args = append(args, filter.Keyword)
		paramCount++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, paramCount)
		args = append(args, filter.Category)
		paramCount++
	}
	if filter.Relevant != nil {
		query += fmt.Sprintf(` AND is_relevant = $%d`, paramCount)
		args = append(args, *filter.Relevant)
		paramCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*storage.Record
	for rows.Next() {
		var r storage.Record

		err := rows.Scan(
			&r.ID, &r.Keyword, &r.Title, &r.Snippet, &r.URL, &r.RedirectURL,
			&r.Relevant, &r.Category, &r.CompanyTypes, &r.Confidence, &r.Reason,
			&r.PageTitle, &r.WordCount, &r.PageError, &r.ClassifyError, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
