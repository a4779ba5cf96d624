// Package scrub redacts PII-shaped substrings from text before indexing.
package scrub

import "regexp"

// Redacted is the marker substituted for every matched span.
const Redacted = "[REDACTED]"

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:(?:\+?1[ -]?)?(?:\(\d{3}\)|\d{3})[ -]?)?\d{3}[ -]?\d{4}`)
	// API-key-shaped tokens: OpenAI, GitHub, and Google key prefixes.
	keyRe = regexp.MustCompile(`(?i)\b(sk-[A-Za-z0-9]{10,}|ghp_[A-Za-z0-9]{20,}|AIza[0-9A-Za-z_-]{20,})\b`)
)

// Text applies the redaction passes in a fixed order: emails, then phone
// numbers, then key-like tokens. The marker itself matches none of the
// patterns, so Text(Text(s)) == Text(s).
func Text(s string) string {
	s = emailRe.ReplaceAllString(s, Redacted)
	s = phoneRe.ReplaceAllString(s, Redacted)
	s = keyRe.ReplaceAllString(s, Redacted)
	return s
}
