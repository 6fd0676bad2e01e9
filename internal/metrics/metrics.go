// Package metrics exposes Prometheus counters and histograms for the
// extraction and classification pipeline.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storascout/storascout/internal/storage"
)

var (
	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storascout_page_fetches_total",
			Help: "Total number of page fetches executed",
		},
		[]string{"keyword", "status"},
	)

	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storascout_classifications_total",
			Help: "Total number of LLM classifications executed",
		},
		[]string{"category", "status"},
	)

	ItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storascout_item_duration_seconds",
			Help:    "End-to-end duration per search result in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"keyword"},
	)

	DedupedHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storascout_deduped_hits_total",
			Help: "Total number of search hits dropped by blocklist or domain dedup",
		},
	)
)

// RecordDedup tracks hits removed between raw extraction and the pipeline.
func RecordDedup(before, after int) {
	if dropped := before - after; dropped > 0 {
		DedupedHitsTotal.Add(float64(dropped))
	}
}

// RecordItem updates the metrics for one processed record.
func RecordItem(rec *storage.Record, duration time.Duration) {
	if rec == nil {
		return
	}

	fetchStatus := "ok"
	if rec.PageError != "" {
		fetchStatus = "error"
	}
	PageFetchesTotal.WithLabelValues(rec.Keyword, fetchStatus).Inc()

	classifyStatus := "ok"
	switch {
	case rec.ClassifyError != "":
		classifyStatus = "error"
	case rec.PageError != "":
		classifyStatus = "skipped"
	}
	ClassificationsTotal.WithLabelValues(rec.Category, classifyStatus).Inc()

	ItemDuration.WithLabelValues(rec.Keyword).Observe(duration.Seconds())
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
