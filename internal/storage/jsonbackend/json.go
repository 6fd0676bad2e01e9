// Package jsonbackend persists records as NDJSON, one record per line.
package jsonbackend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/storascout/storascout/internal/storage"
)

// ensure jsonBackend implements storage.Backend
var _ storage.Backend = (*jsonBackend)(nil)

type jsonBackend struct {
	mu   sync.Mutex
	file *os.File
}

// New creates an NDJSON-backed storage.Backend.
func New(filePath string) (storage.Backend, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open ndjson file: %w", err)
	}
	return &jsonBackend{file: f}, nil
}

func (b *jsonBackend) Save(ctx context.Context, record *storage.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (b *jsonBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek ndjson file: %w", err)
	}
	defer func() {
		_, _ = b.file.Seek(0, io.SeekEnd)
	}()

	scanner := bufio.NewScanner(b.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var matched []*storage.Record
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec storage.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}

		if !match(&rec, filter) {
			continue
		}
		matched = append(matched, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ndjson file: %w", err)
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

func (b *jsonBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
