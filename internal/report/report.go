// Package report aggregates pipeline records into run summaries.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/storascout/storascout/internal/storage"
)

// Summary contains aggregated metrics about one pipeline run.
type Summary struct {
	TotalRecords   int
	TotalRelevant  int
	FetchErrors    int
	ClassifyErrors int
	ByCategory     map[string]int
	ByKeyword      map[string]int
	TotalWords     int64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// GenerateSummary processes a slice of records to generate summary metrics.
func GenerateSummary(records []*storage.Record) Summary {
	s := Summary{
		ByCategory: make(map[string]int),
		ByKeyword:  make(map[string]int),
	}

	if len(records) == 0 {
		return s
	}

	s.StartTime = records[0].CreatedAt
	s.EndTime = records[0].CreatedAt

	for _, r := range records {
		s.TotalRecords++
		if r.Relevant {
			s.TotalRelevant++
		}
		if r.PageError != "" {
			s.FetchErrors++
		}
		if r.ClassifyError != "" {
			s.ClassifyErrors++
		}
		if r.Category != "" {
			s.ByCategory[r.Category]++
		}
		if r.Keyword != "" {
			s.ByKeyword[r.Keyword]++
		}
		s.TotalWords += int64(r.WordCount)

		if r.CreatedAt.Before(s.StartTime) {
			s.StartTime = r.CreatedAt
		}
		if r.CreatedAt.After(s.EndTime) {
			s.EndTime = r.CreatedAt
		}
	}

	s.Duration = s.EndTime.Sub(s.StartTime)
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Storascout Run Summary
----------------------
Time:            {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:        {{.Duration}}
Total Records:   {{.TotalRecords}}
Relevant:        {{.TotalRelevant}}
Fetch Errors:    {{.FetchErrors}}
Classify Errors: {{.ClassifyErrors}}
Total Words:     {{.TotalWords}}

Categories:
{{- range $cat, $count := .ByCategory}}
  {{$cat}}: {{$count}}
{{- else}}
  None
{{- end}}

Keywords:
{{- range $kw, $count := .ByKeyword}}
  {{$kw}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parse text template: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("render text summary: %w", err)
	}

	return nil
}
