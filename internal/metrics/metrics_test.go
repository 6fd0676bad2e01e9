package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/storascout/storascout/internal/storage"
)

func TestMetricsServer(t *testing.T) {
	srv := Start(8889)
	// Give it a tiny bit of time to start up
	time.Sleep(100 * time.Millisecond)

	defer srv.Stop(context.Background())

	rec := &storage.Record{
		Keyword:  "energy storage EPC",
		Category: "company-EPC",
		Relevant: true,
	}
	RecordItem(rec, 2*time.Second)

	failed := &storage.Record{
		Keyword:   "energy storage EPC",
		PageError: "status 403",
	}
	RecordItem(failed, 500*time.Millisecond)

	RecordDedup(10, 7)

	resp, err := http.Get("http://localhost:8889/metrics")
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	output := string(body)

	if !strings.Contains(output, `storascout_page_fetches_total{keyword="energy storage EPC",status="ok"}`) {
		t.Errorf("expected ok fetch counter")
	}
	if !strings.Contains(output, `storascout_page_fetches_total{keyword="energy storage EPC",status="error"}`) {
		t.Errorf("expected error fetch counter")
	}
	if !strings.Contains(output, `storascout_classifications_total{category="company-EPC",status="ok"}`) {
		t.Errorf("expected classification counter")
	}
	if !strings.Contains(output, `storascout_classifications_total{category="",status="skipped"}`) {
		t.Errorf("expected skipped classification counter")
	}
	if !strings.Contains(output, "storascout_item_duration_seconds_bucket") {
		t.Errorf("expected item duration histogram")
	}
	if !strings.Contains(output, "storascout_deduped_hits_total 3") {
		t.Errorf("expected 3 deduped hits")
	}
}
