// Package page fetches candidate pages and extracts their plain text and
// metadata.
package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/storascout/storascout/pkg/httpclient"
	"github.com/storascout/storascout/pkg/retry"
	"github.com/storascout/storascout/pkg/urlclean"
	"github.com/storascout/storascout/pkg/useragent"
)

// Meta holds the structured metadata extracted from a fetched page. Each
// field degrades independently to its zero value when extraction fails.
type Meta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    string   `json:"keywords"`
	H1Tags      []string `json:"h1_tags"`
	H2Tags      []string `json:"h2_tags"`
	WordCount   int      `json:"word_count"`
}

// Content is the immutable result of analyzing one fetched page.
type Content struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	Meta Meta   `json:"metadata"`
}

// Config configures the page analyzer.
type Config struct {
	Timeout time.Duration
	Retry   retry.Policy
	UAPool  *useragent.Pool
	// Transport overrides the HTTP transport, e.g. for tests.
	Transport http.RoundTripper
}

// Analyzer retrieves page HTML and turns it into Content. It sends a
// browser-like header set and retries transient failures per its policy.
type Analyzer struct {
	cfg    Config
	client *httpclient.Client
	logger *slog.Logger
}

// NewAnalyzer creates a page analyzer with the given configuration.
func NewAnalyzer(cfg Config, logger *slog.Logger) *Analyzer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.Policy{MaxAttempts: 3, Delay: 2 * time.Second}
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		cfg: cfg,
		client: httpclient.New(httpclient.Config{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		}),
		logger: logger,
	}
}

// Analyze sanitizes the URL, resolves known click redirects, fetches the
// page and extracts text and metadata. A failed fetch after all retry
// attempts returns an error; extraction itself never fails hard.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*Content, error) {
	target := urlclean.ResolveRedirect(urlclean.Clean(rawURL))

	pageHTML, err := a.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	text := ExtractText(pageHTML)
	meta := ExtractMetadata(pageHTML)

	a.logger.Debug("page analyzed", "url", target, "words", meta.WordCount)

	return &Content{
		URL:  target,
		Text: text,
		Meta: meta,
	}, nil
}

func (a *Analyzer) fetch(ctx context.Context, target string) (string, error) {
	var body string

	err := retry.Do(ctx, a.cfg.Retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", a.cfg.UAPool.Next())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
		req.Header.Set("Referer", "https://www.google.com/")

		resp, err := a.client.Do(ctx, req)
		if err != nil {
			a.logger.Warn("fetch attempt failed", "url", target, "err", err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := fmt.Errorf("unexpected status %d", resp.StatusCode)
			a.logger.Warn("fetch attempt failed", "url", target, "err", err)
			return err
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}

	return body, nil
}

// ExtractText strips script and style content from the HTML, concatenates
// the remaining text nodes, collapses whitespace runs to single spaces and
// blank-line runs to a paragraph break, and trims the result.
func ExtractText(pageHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	for _, root := range doc.Nodes {
		collectText(root, &sb)
	}
	return normalizeWhitespace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte('\n')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// normalizeWhitespace collapses intra-line whitespace to single spaces and
// runs of blank lines to one empty line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")

	out := make([]string, 0, len(lines))
	pendingBreak := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			pendingBreak = len(out) > 0
			continue
		}
		if pendingBreak {
			out = append(out, "")
			pendingBreak = false
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// ExtractMetadata reads the page title, description and keyword meta tags,
// h1/h2 headings, and the whitespace-token count of the extracted text.
// Each field falls back to its zero value independently.
func ExtractMetadata(pageHTML string) Meta {
	var meta Meta

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return meta
	}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}
	if kw, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		meta.Keywords = strings.TrimSpace(kw)
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		meta.H1Tags = append(meta.H1Tags, strings.TrimSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		meta.H2Tags = append(meta.H2Tags, strings.TrimSpace(s.Text()))
	})

	meta.WordCount = len(strings.Fields(ExtractText(pageHTML)))

	return meta
}
