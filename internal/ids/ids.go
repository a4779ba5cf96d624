// Package ids derives stable, content-addressed identifiers for index entries.
package ids

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Chunk returns the id for the chunk at the given index within the named
// document: the hex SHA-1 of "name#index". The same (name, index) pair always
// maps to the same id, which is what makes vector-store upserts idempotent.
func Chunk(name string, index int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s#%d", name, index)))
	return hex.EncodeToString(sum[:])
}
