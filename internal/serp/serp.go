// Package serp parses raw search-engine result pages into normalized hits
// and deduplicates them across keywords.
package serp

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Engine identifies a supported search engine variant.
type Engine int

const (
	Bing Engine = iota
	Baidu
	Google
)

// String returns the engine's canonical lowercase name.
func (e Engine) String() string {
	switch e {
	case Bing:
		return "bing"
	case Baidu:
		return "baidu"
	case Google:
		return "google"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// ParseEngine maps an engine name to its Engine value.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bing":
		return Bing, nil
	case "baidu":
		return Baidu, nil
	case "google":
		return Google, nil
	default:
		return 0, fmt.Errorf("unsupported search engine %q", name)
	}
}

// Hit is one normalized search-result entry. URL holds the best-effort real
// destination; RedirectURL retains the original listing link when the engine
// uses click tracking. A Hit is never mutated after extraction, except for
// the Keyword assignment made when listings are grouped.
type Hit struct {
	Keyword     string `json:"keyword"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	URL         string `json:"url"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Parser turns one engine's listing document into an ordered hit sequence.
// Malformed items are skipped; a hit is emitted only when both a non-empty
// title and a non-empty URL were resolved.
type Parser interface {
	Parse(doc *goquery.Document) []Hit
}

// ParserFor returns the listing parser for the given engine.
func ParserFor(engine Engine) Parser {
	switch engine {
	case Baidu:
		return baiduParser{}
	case Google:
		return googleParser{}
	default:
		return bingParser{}
	}
}

// Parse extracts hits from a single result-listing document.
func Parse(html string, engine Engine) ([]Hit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s listing: %w", engine, err)
	}
	return ParserFor(engine).Parse(doc), nil
}

// ParsePages extracts hits from an ordered sequence of result pages for one
// keyword, concatenating hits in page order. An unreadable page degrades to
// omission rather than aborting the sequence.
func ParsePages(pages []string, engine Engine) []Hit {
	var hits []Hit
	for _, html := range pages {
		if html == "" {
			continue
		}
		pageHits, err := Parse(html, engine)
		if err != nil {
			continue
		}
		hits = append(hits, pageHits...)
	}
	return hits
}

// compact trims a display string and collapses internal whitespace runs.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
