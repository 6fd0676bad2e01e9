// Package urlclean normalizes loosely formatted link strings into usable
// absolute URLs and unwraps known search-engine click-tracking links.
package urlclean

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

// urlPrefixRe matches the longest absolute http(s) prefix of a string.
// The character class is the RFC 3986 URL alphabet.
var urlPrefixRe = regexp.MustCompile(`^https?://[a-zA-Z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+`)

// unsafeRe matches anything outside the URL-safe alphabet, used as a
// last-resort scrub when no valid prefix can be found.
var unsafeRe = regexp.MustCompile(`[^a-zA-Z0-9\-._~:/?#\[\]@!$&'()*+,;=%]`)

// Clean strips stray formatting characters from a link string (backticks,
// whitespace, display ellipses and breadcrumb separators inserted by result
// UIs) and returns the longest valid absolute http(s) prefix. If no valid
// prefix exists it scrubs everything outside the URL-safe alphabet and
// returns the remainder as a best effort. Clean never fails; the worst case
// is a garbage string that a downstream fetch rejects.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, "…", "") // "…" truncation ellipsis
	s = strings.TrimSpace(s)

	if m := urlPrefixRe.FindString(s); m != "" {
		return m
	}

	return unsafeRe.ReplaceAllString(s, "")
}

// base64HTTPMarker is "http" in base64, the start of any encoded target URL.
const base64HTTPMarker = "aHR0c"

// ResolveRedirect unwraps Bing /ck/a click-tracking links. The real target
// is base64-encoded inside the "u" query parameter, prefixed with a short
// version tag. Decoding is best effort: missing padding is restored, the
// standard alphabet is tried first and the URL-safe alphabet second. Any
// failure returns the input unchanged so the tracking link itself can still
// be fetched.
func ResolveRedirect(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), "bing.com") || u.Path != "/ck/a" {
		return rawURL
	}

	payload := u.Query().Get("u")
	if payload == "" {
		return rawURL
	}

	// Skip the version tag (e.g. "a1") by locating the encoded scheme.
	start := strings.Index(payload, base64HTTPMarker)
	if start < 0 {
		return rawURL
	}
	encoded := payload[start:]

	if pad := len(encoded) % 4; pad != 0 {
		encoded += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		alt := strings.NewReplacer("-", "+", "_", "/").Replace(encoded)
		decoded, err = base64.StdEncoding.DecodeString(alt)
		if err != nil {
			return rawURL
		}
	}

	target := string(decoded)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return rawURL
	}
	return target
}
