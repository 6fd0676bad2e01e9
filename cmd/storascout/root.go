package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/storascout/storascout/internal/classify"
	"github.com/storascout/storascout/internal/config"
	"github.com/storascout/storascout/internal/metrics"
	"github.com/storascout/storascout/internal/page"
	"github.com/storascout/storascout/internal/pipeline"
	"github.com/storascout/storascout/internal/report"
	"github.com/storascout/storascout/internal/search"
	"github.com/storascout/storascout/internal/serp"
	"github.com/storascout/storascout/internal/storage"
	"github.com/storascout/storascout/internal/storage/csvbackend"
	"github.com/storascout/storascout/internal/storage/jsonbackend"
	"github.com/storascout/storascout/internal/storage/postgres"
	"github.com/storascout/storascout/internal/storage/sqlite"
	"github.com/storascout/storascout/pkg/ratelimit"
	"github.com/storascout/storascout/pkg/retry"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		inputDir   string
		engineName string
		backend    string
		outputPath string
		workers    int
		reportJSON bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "storascout",
		Short: "Extract, dedupe and classify energy-storage search results",
		Long: `storascout reads saved search result pages, extracts the hits,
removes blocklisted and duplicate domains, fetches each remaining page
and classifies it with an LLM against a fixed energy-storage taxonomy.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Command-line flags win over file and environment.
			if cmd.Flags().Changed("input") {
				cfg.InputDir = inputDir
			}
			if cmd.Flags().Changed("engine") {
				cfg.Engine = engineName
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputPath = outputPath
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("report-json") {
				cfg.ReportJSON = reportJSON
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			return run(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&inputDir, "input", "", "directory of saved result pages, one subdirectory per keyword")
	cmd.Flags().StringVar(&engineName, "engine", "bing", "search engine the pages came from (bing, baidu, google)")
	cmd.Flags().StringVar(&backend, "backend", "csv", "output backend (csv, json, sqlite, postgres)")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path (csv, json and sqlite backends)")
	cmd.Flags().IntVar(&workers, "workers", 1, "concurrent items; 1 processes sequentially")
	cmd.Flags().BoolVar(&reportJSON, "report-json", false, "print the run summary as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.InputDir == "" {
		return fmt.Errorf("no input directory configured")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("no LLM API key configured (STORASCOUT_API_KEY)")
	}

	engine, err := serp.ParseEngine(cfg.Engine)
	if err != nil {
		return err
	}

	source, err := search.NewDirSource(cfg.InputDir)
	if err != nil {
		return err
	}

	store, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var metricsSrv *metrics.Server
	if cfg.MetricsPort > 0 {
		metricsSrv = metrics.Start(cfg.MetricsPort)
		defer metricsSrv.Stop(ctx)
	}

	keywords, err := source.Keywords()
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		return fmt.Errorf("input directory has no keyword subdirectories")
	}

	var hits []serp.Hit
	for _, keyword := range keywords {
		pages, err := source.Pages(ctx, keyword)
		if err != nil {
			return fmt.Errorf("load pages for %q: %w", keyword, err)
		}

		extracted := serp.ParsePages(pages, engine)
		for i := range extracted {
			extracted[i].Keyword = keyword
		}
		logger.Info("extracted search hits", "keyword", keyword, "pages", len(pages), "hits", len(extracted))
		hits = append(hits, extracted...)
	}

	deduped := serp.Dedupe(hits, cfg.Blocklist)
	metrics.RecordDedup(len(hits), len(deduped))
	logger.Info("deduplicated hits", "before", len(hits), "after", len(deduped))

	analyzer := page.NewAnalyzer(page.Config{
		Timeout: cfg.FetchTimeout,
		Retry:   retry.Policy{MaxAttempts: cfg.FetchRetries, Delay: cfg.FetchRetryDelay},
	}, logger)

	client := classify.NewClient(classify.ClientConfig{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Timeout:  cfg.LLMTimeout,
	})
	classifier := classify.NewClassifier(client,
		retry.Policy{MaxAttempts: cfg.LLMRetries, Delay: cfg.LLMRetryDelay}, logger)

	p, err := pipeline.New(analyzer, classifier, pipeline.Config{
		Workers: cfg.Workers,
		Pacer:   ratelimit.New(cfg.PaceInterval, 0),
		Backend: store,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	records, err := p.Run(ctx, deduped)
	if err != nil {
		return err
	}

	summary := report.GenerateSummary(records)
	if cfg.ReportJSON {
		return report.WriteJSON(os.Stdout, summary)
	}
	return report.WriteText(os.Stdout, summary)
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case "csv":
		return csvbackend.New(cfg.OutputPath)
	case "json":
		return jsonbackend.New(cfg.OutputPath)
	case "sqlite":
		return sqlite.New(cfg.OutputPath)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend needs a DSN")
		}
		return postgres.New(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
