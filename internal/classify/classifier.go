// Package classify scores fetched page content against the energy-storage
// taxonomy using an external language model.
package classify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/storascout/storascout/pkg/retry"
)

// Result is the structured outcome of classifying one page. Confidence is
// the model's own score and is passed through as an opaque value.
type Result struct {
	Relevant     bool          `json:"is_relevant"`
	Category     Category      `json:"category"`
	CompanyTypes []CompanyType `json:"company_types,omitempty"`
	Confidence   float64       `json:"confidence"`
	Reason       string        `json:"reason"`
	Success      bool          `json:"success"`
	Err          string        `json:"error,omitempty"`
}

// Invoker abstracts the LLM service call so the classifier can be tested
// without a live endpoint.
type Invoker interface {
	Invoke(ctx context.Context, system, user string) (string, error)
}

// Classifier wraps the LLM service with the fixed prompt, bounded retry and
// recoverable-output semantics.
type Classifier struct {
	invoker Invoker
	policy  retry.Policy
	logger  *slog.Logger
}

// NewClassifier creates a classifier over the given invoker.
func NewClassifier(invoker Invoker, policy retry.Policy, logger *slog.Logger) *Classifier {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{invoker: invoker, policy: policy, logger: logger}
}

// payload is the JSON object the model is instructed to return.
type payload struct {
	IsEnergyStorage bool     `json:"is_energy_storage"`
	Category        string   `json:"category"`
	CompanyType     string   `json:"company_type"`
	Confidence      float64  `json:"confidence"`
	Reason          string   `json:"reason"`
}

// Classify sends the (truncated) content to the model and parses the
// structured verdict. Transport failures are retried per the policy and
// surface as Success=false on exhaustion. A response that is not the
// expected JSON object is NOT retried: the model said something about the
// content, which is itself evidence of relevance, so it degrades to a
// successful other-storage-related result with the raw text as reason.
func (c *Classifier) Classify(ctx context.Context, content string) Result {
	system, user := BuildPrompt(content)

	var raw string
	err := retry.Do(ctx, c.policy, func() error {
		var callErr error
		raw, callErr = c.invoker.Invoke(ctx, system, user)
		if callErr != nil {
			c.logger.Warn("llm call failed", "err", callErr)
		}
		return callErr
	})
	if err != nil {
		return Result{
			Success: false,
			Err:     "llm service unavailable after retries: " + err.Error(),
		}
	}

	return parseVerdict(raw)
}

// parseVerdict decodes the model's answer into a Result.
func parseVerdict(raw string) Result {
	var p payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return Result{
			Success:    true,
			Relevant:   true,
			Category:   OtherStorageRelated,
			Confidence: 0.7,
			Reason:     raw,
		}
	}

	category := Category(strings.TrimSpace(p.Category))
	if category == "" {
		// The model may leave category blank for irrelevant content;
		// keep the enumeration total.
		category = NotStorage
	}

	return Result{
		Success:      true,
		Relevant:     p.IsEnergyStorage,
		Category:     category,
		CompanyTypes: ParseCompanyTypes(p.CompanyType),
		Confidence:   p.Confidence,
		Reason:       p.Reason,
	}
}
