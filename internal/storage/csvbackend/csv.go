// Package csvbackend persists records to an append-only CSV file, the
// spreadsheet-friendly export format.
package csvbackend

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/storascout/storascout/internal/storage"
)

// ensure csvBackend implements storage.Backend
var _ storage.Backend = (*csvBackend)(nil)

type csvBackend struct {
	mu   sync.Mutex
	file *os.File
}

// headers defines the CSV column order, mirroring the exporter contract.
var headers = []string{
	"id",
	"keyword",
	"title",
	"snippet",
	"url",
	"redirect_url",
	"is_relevant",
	"category",
	"company_types",
	"confidence",
	"reason",
	"page_title",
	"word_count",
	"fetch_status",
	"classification_status",
	"created_at",
}

// New creates a CSV-backed storage.Backend, writing the header row when the
// file is new.
func New(filePath string) (storage.Backend, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv file: %w", err)
	}

	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(headers); err != nil {
			f.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush csv header: %w", err)
		}
	}

	return &csvBackend{file: f}, nil
}

func (b *csvBackend) Save(ctx context.Context, record *storage.Record) error {
	row := []string{
		record.ID,
		record.Keyword,
		record.Title,
		record.Snippet,
		record.URL,
		record.RedirectURL,
		strconv.FormatBool(record.Relevant),
		record.Category,
		record.CompanyTypes,
		strconv.FormatFloat(record.Confidence, 'f', -1, 64),
		record.Reason,
		record.PageTitle,
		strconv.Itoa(record.WordCount),
		record.FetchStatus(),
		record.ClassifyStatus(),
		record.CreatedAt.Format(time.RFC3339Nano),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek csv file: %w", err)
	}

	w := csv.NewWriter(b.file)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

func (b *csvBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek csv file: %w", err)
	}
	defer func() {
		_, _ = b.file.Seek(0, io.SeekEnd)
	}()

	r := csv.NewReader(b.file)

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return []*storage.Record{}, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var matched []*storage.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) != len(headers) {
			continue // skip malformed rows
		}

		relevant, _ := strconv.ParseBool(row[6])
		confidence, _ := strconv.ParseFloat(row[9], 64)
		wordCount, _ := strconv.Atoi(row[12])
		createdAt, _ := time.Parse(time.RFC3339Nano, row[15])

		rec := &storage.Record{
			ID:           row[0],
			Keyword:      row[1],
			Title:        row[2],
			Snippet:      row[3],
			URL:          row[4],
			RedirectURL:  row[5],
			Relevant:     relevant,
			Category:     row[7],
			CompanyTypes: row[8],
			Confidence:   confidence,
			Reason:       row[10],
			PageTitle:    row[11],
			WordCount:    wordCount,
			CreatedAt:    createdAt,
		}

		if !match(rec, filter) {
			continue
		}
		matched = append(matched, rec)
	}

	return window(matched, filter), nil
}

func match(rec *storage.Record, filter storage.Filter) bool {
	if filter.Keyword != "" && rec.Keyword != filter.Keyword {
		return false
	}
	if filter.Category != "" && rec.Category != filter.Category {
		return false
	}
	if filter.Relevant != nil && rec.Relevant != *filter.Relevant {
		return false
	}
	if filter.Since != nil && rec.CreatedAt.Before(*filter.Since) {
		return false
	}
	return true
}

func window(records []*storage.Record, filter storage.Filter) []*storage.Record {
	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return []*storage.Record{}
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}
	return records
}

func (b *csvBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
