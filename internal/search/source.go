// Package search supplies raw result pages to the extraction pipeline.
//
// Running the search engines themselves (browser automation, CAPTCHA
// handling) is out of scope. A Source abstracts where the HTML comes
// from so saved pages, test fixtures, or a future live executor all
// plug into the same pipeline.
package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source yields the raw HTML result pages for one keyword, in the order
// they were retrieved.
type Source interface {
	Pages(ctx context.Context, keyword string) ([]string, error)
}

// DirSource reads saved result pages from a directory tree. Each keyword
// maps to a subdirectory named after it; every .html or .htm file inside
// is one result page, ordered by filename.
type DirSource struct {
	root string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat source dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", dir)
	}
	return &DirSource{root: dir}, nil
}

// Keywords lists the keywords this source has pages for, one per
// subdirectory, sorted.
func (s *DirSource) Keywords() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	var keywords []string
	for _, e := range entries {
		if e.IsDir() {
			keywords = append(keywords, e.Name())
		}
	}
	sort.Strings(keywords)
	return keywords, nil
}

// Pages returns the saved pages for keyword. A keyword with no
// subdirectory yields no pages and no error.
func (s *DirSource) Pages(ctx context.Context, keyword string) ([]string, error) {
	dir := filepath.Join(s.root, keyword)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read keyword dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".html" && ext != ".htm" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	pages := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", name, err)
		}
		pages = append(pages, string(data))
	}
	return pages, nil
}
