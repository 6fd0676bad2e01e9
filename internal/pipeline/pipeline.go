// Package pipeline drives deduplicated search hits through page fetch
// and LLM classification, producing one record per hit.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/storascout/storascout/internal/classify"
	"github.com/storascout/storascout/internal/metrics"
	"github.com/storascout/storascout/internal/page"
	"github.com/storascout/storascout/internal/serp"
	"github.com/storascout/storascout/internal/storage"
	"github.com/storascout/storascout/pkg/ratelimit"
)

// Fetcher retrieves and analyzes one page.
type Fetcher interface {
	Analyze(ctx context.Context, rawURL string) (*page.Content, error)
}

// Verdict classifies fetched page text.
type Verdict interface {
	Classify(ctx context.Context, content string) classify.Result
}

// Config configures a pipeline run.
type Config struct {
	// Workers bounds concurrent items; values below 2 run sequentially.
	Workers int
	// Pacer spaces out item starts to stay polite to remote hosts.
	Pacer *ratelimit.Pacer
	// Backend, when set, receives every record as it is produced.
	Backend storage.Backend
	Logger  *slog.Logger
}

// Pipeline fetches and classifies deduplicated search hits.
type Pipeline struct {
	fetcher Fetcher
	verdict Verdict
	cfg     Config
	logger  *slog.Logger
}

// New creates a pipeline. Fetcher and verdict are required.
func New(fetcher Fetcher, verdict Verdict, cfg Config) (*Pipeline, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	if verdict == nil {
		return nil, fmt.Errorf("classifier is nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{fetcher: fetcher, verdict: verdict, cfg: cfg, logger: logger}, nil
}

// Run processes hits in order and returns one record per hit, in the
// same order. Per-item failures are recorded on the record; Run only
// returns an error when the context is cancelled.
func (p *Pipeline) Run(ctx context.Context, hits []serp.Hit) ([]*storage.Record, error) {
	records := make([]*storage.Record, len(hits))

	if p.cfg.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.Workers)

		for i, hit := range hits {
			if p.cfg.Pacer != nil {
				if err := p.cfg.Pacer.Wait(gctx); err != nil {
					return nil, err
				}
			}
			g.Go(func() error {
				records[i] = p.process(gctx, hit)
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, hit := range hits {
			if p.cfg.Pacer != nil {
				if err := p.cfg.Pacer.Wait(ctx); err != nil {
					return nil, err
				}
			}
			records[i] = p.process(ctx, hit)
		}
	}

	if p.cfg.Backend != nil {
		for _, rec := range records {
			if err := p.cfg.Backend.Save(ctx, rec); err != nil {
				p.logger.Error("failed to save record", "id", rec.ID, "url", rec.URL, "error", err)
			}
		}
	}

	return records, nil
}

// process runs fetch then classify for one hit. A fetch failure skips
// classification; either failure is carried on the record.
func (p *Pipeline) process(ctx context.Context, hit serp.Hit) *storage.Record {
	start := time.Now()

	rec := &storage.Record{
		ID:          uuid.NewString(),
		Keyword:     hit.Keyword,
		Title:       hit.Title,
		Snippet:     hit.Snippet,
		URL:         hit.URL,
		RedirectURL: hit.RedirectURL,
		CreatedAt:   time.Now().UTC(),
	}

	content, err := p.fetcher.Analyze(ctx, hit.URL)
	if err != nil {
		rec.PageError = err.Error()
		p.logger.Warn("page fetch failed", "url", hit.URL, "error", err)
		metrics.RecordItem(rec, time.Since(start))
		return rec
	}

	rec.PageTitle = content.Meta.Title
	rec.WordCount = content.Meta.WordCount

	verdict := p.verdict.Classify(ctx, content.Text)
	if !verdict.Success {
		rec.ClassifyError = verdict.Err
		p.logger.Warn("classification failed", "url", hit.URL, "error", verdict.Err)
		metrics.RecordItem(rec, time.Since(start))
		return rec
	}

	rec.Relevant = verdict.Relevant
	rec.Category = string(verdict.Category)
	rec.CompanyTypes = classify.JoinCompanyTypes(verdict.CompanyTypes)
	rec.Confidence = verdict.Confidence
	rec.Reason = verdict.Reason

	p.logger.Info("processed search hit",
		"url", hit.URL,
		"relevant", rec.Relevant,
		"category", rec.Category,
		"confidence", rec.Confidence,
	)
	metrics.RecordItem(rec, time.Since(start))
	return rec
}
