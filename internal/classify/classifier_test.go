package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/storascout/storascout/pkg/retry"
)

type fakeInvoker struct {
	responses []string
	errs      []error
	calls     int
	lastUser  string
}

func (f *fakeInvoker) Invoke(_ context.Context, _, user string) (string, error) {
	i := f.calls
	f.calls++
	f.lastUser = user
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp string
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 5000)
	got := Truncate(long)

	if len(got) > MaxContentLength+len(TruncationMarker) {
		t.Errorf("truncated content too long: %d", len(got))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Errorf("expected truncation marker suffix")
	}

	short := strings.Repeat("x", 100)
	if Truncate(short) != short {
		t.Errorf("short content should pass through unchanged")
	}
}

func TestBuildPrompt_UserPartIsTruncatedContent(t *testing.T) {
	long := strings.Repeat("x", 5000)
	system, user := BuildPrompt(long)

	if system == "" {
		t.Fatalf("expected non-empty system prompt")
	}
	if len(user) > MaxContentLength+len(TruncationMarker) {
		t.Errorf("user content too long: %d", len(user))
	}
	if !strings.HasSuffix(user, TruncationMarker) {
		t.Errorf("expected user content to end with truncation marker")
	}
}

func TestClassify_WellFormedVerdict(t *testing.T) {
	inv := &fakeInvoker{responses: []string{
		`{"is_energy_storage": true, "category": "company-EPC", "company_type": "company-system-integrator,company-EPC", "confidence": 0.92, "reason": "EPC services for BESS plants"}`,
	}}
	c := NewClassifier(inv, retry.Policy{MaxAttempts: 3}, nil)

	res := c.Classify(context.Background(), "some page text")
	if !res.Success || !res.Relevant {
		t.Fatalf("expected successful relevant result, got %+v", res)
	}
	if res.Category != CompanyEPC {
		t.Errorf("unexpected category %q", res.Category)
	}
	if len(res.CompanyTypes) != 2 || res.CompanyTypes[1] != "company-EPC" {
		t.Errorf("unexpected company types %v", res.CompanyTypes)
	}
	if res.Confidence != 0.92 {
		t.Errorf("unexpected confidence %v", res.Confidence)
	}
}

func TestClassify_MalformedOutputDegrades(t *testing.T) {
	raw := "Yes, clearly storage-related"
	inv := &fakeInvoker{responses: []string{raw}}
	c := NewClassifier(inv, retry.Policy{MaxAttempts: 3}, nil)

	res := c.Classify(context.Background(), "text")
	if !res.Success {
		t.Fatalf("malformed output must degrade to success, got %+v", res)
	}
	if !res.Relevant || res.Category != OtherStorageRelated || res.Confidence != 0.7 {
		t.Errorf("unexpected degraded result %+v", res)
	}
	if res.Reason != raw {
		t.Errorf("expected raw text preserved as reason, got %q", res.Reason)
	}
	if inv.calls != 1 {
		t.Errorf("malformed output must not be retried, got %d calls", inv.calls)
	}
}

func TestClassify_TransportRetryThenSuccess(t *testing.T) {
	inv := &fakeInvoker{
		errs: []error{errors.New("timeout"), errors.New("timeout"), nil},
		responses: []string{"", "",
			`{"is_energy_storage": false, "category": "", "company_type": "", "confidence": 0.1, "reason": "cooking recipes"}`,
		},
	}
	c := NewClassifier(inv, retry.Policy{MaxAttempts: 3}, nil)

	res := c.Classify(context.Background(), "text")
	if !res.Success {
		t.Fatalf("expected success after retries, got %+v", res)
	}
	if res.Relevant {
		t.Errorf("expected irrelevant verdict")
	}
	if res.Category != NotStorage {
		t.Errorf("blank category should normalize to not-storage, got %q", res.Category)
	}
	if inv.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", inv.calls)
	}
}

func TestClassify_RetryExhaustion(t *testing.T) {
	inv := &fakeInvoker{errs: []error{
		errors.New("boom"), errors.New("boom"), errors.New("boom"), errors.New("boom"),
	}}
	c := NewClassifier(inv, retry.Policy{MaxAttempts: 3}, nil)

	res := c.Classify(context.Background(), "text")
	if res.Success {
		t.Fatalf("expected failure after exhaustion, got %+v", res)
	}
	if res.Err == "" {
		t.Errorf("expected explanatory error")
	}
	if inv.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", inv.calls)
	}
}

func TestClassify_UserPartTruncated(t *testing.T) {
	inv := &fakeInvoker{responses: []string{`{"is_energy_storage": true, "category": "storage-technology", "confidence": 0.9, "reason": "r"}`}}
	c := NewClassifier(inv, retry.Policy{MaxAttempts: 1}, nil)

	c.Classify(context.Background(), strings.Repeat("y", 5000))
	if len(inv.lastUser) > MaxContentLength+len(TruncationMarker) {
		t.Errorf("user content sent to model was not truncated: %d", len(inv.lastUser))
	}
}

func TestParseCompanyTypes(t *testing.T) {
	got := ParseCompanyTypes(" company-EPC , company-system-integrator ,, ")
	if len(got) != 2 || got[0] != "company-EPC" || got[1] != "company-system-integrator" {
		t.Errorf("unexpected company types %v", got)
	}
	if ParseCompanyTypes("  ") != nil {
		t.Errorf("expected nil for blank input")
	}
	if JoinCompanyTypes(got) != "company-EPC,company-system-integrator" {
		t.Errorf("unexpected join result %q", JoinCompanyTypes(got))
	}
}
