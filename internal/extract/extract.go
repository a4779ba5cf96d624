// Package extract converts raw document bytes into plain text.
//
// Dispatch is by file extension through a fixed strategy table. Unknown
// extensions yield empty text, which the pipeline treats as "nothing to
// index" rather than an error.
package extract

import (
	"path/filepath"
	"strings"
)

// Func extracts plain text from raw bytes.
type Func func(data []byte) (string, error)

// strategies maps a lowercased extension to its extraction function.
var strategies = map[string]Func{
	".pdf":      readPDF,
	".docx":     readDOCX,
	".md":       readMarkdown,
	".markdown": readMarkdown,
	".html":     readHTML,
	".htm":      readHTML,
	".txt":      readPlain,
	".json":     readPlain,
}

// Text extracts plain text from the named document. The name only matters
// for its extension.
func Text(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	fn, ok := strategies[ext]
	if !ok {
		return "", nil
	}
	return fn(data)
}

// Supported reports whether the extractor has a strategy for the name's
// extension.
func Supported(name string) bool {
	_, ok := strategies[strings.ToLower(filepath.Ext(name))]
	return ok
}

// readPlain decodes bytes as UTF-8, dropping invalid sequences.
func readPlain(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), ""), nil
}
