package serp

import (
	"net/url"
	"strings"
)

// Dedupe filters a combined cross-keyword hit sequence. Hits whose URL
// contains any blocklist substring (case-insensitive) are dropped first;
// then only the first hit per distinct source domain (scheme+host) is kept,
// regardless of keyword. The same source keeps reappearing across keyword
// searches, so dedup is global rather than per keyword. Input order is
// preserved; a URL that fails to parse is retained unconditionally.
func Dedupe(hits []Hit, blocklist []string) []Hit {
	lowered := make([]string, 0, len(blocklist))
	for _, word := range blocklist {
		if w := strings.ToLower(strings.TrimSpace(word)); w != "" {
			lowered = append(lowered, w)
		}
	}

	seen := make(map[string]struct{}, len(hits))
	out := make([]Hit, 0, len(hits))

	for _, hit := range hits {
		lowerURL := strings.ToLower(hit.URL)
		if containsAny(lowerURL, lowered) {
			continue
		}

		u, err := url.Parse(hit.URL)
		if err != nil {
			// Fail open: keep what we cannot attribute to a domain.
			out = append(out, hit)
			continue
		}

		domain := u.Scheme + "://" + strings.ToLower(u.Host)
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}
		out = append(out, hit)
	}

	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
