package connectors

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultBlocklist excludes credential material from ingestion.
var DefaultBlocklist = []string{
	"**/secrets/**",
	"**/*.key",
	"**/.env",
}

// Blocklist is a set of glob patterns excluding matching paths from
// ingestion. Patterns use doublestar syntax; any single match blocks.
type Blocklist []string

// Blocked reports whether the path matches any pattern. Matching is
// order-independent and tried against both the full slash-normalized path
// and its basename.
func (b Blocklist) Blocked(path string) bool {
	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)
	for _, pattern := range b {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.PathMatch(pattern, normalized); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
