package connectors

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultMaxFileSize skips files larger than 1 MB.
const defaultMaxFileSize int64 = 1 << 20

// FilesystemConnector recursively scans a directory for files matching any
// of the configured glob patterns.
type FilesystemConnector struct {
	root        string
	patterns    []string
	maxFileSize int64
}

// NewFilesystem creates a filesystem connector rooted at root. Empty
// patterns default to markdown and plain text.
func NewFilesystem(root string, patterns []string) *FilesystemConnector {
	if len(patterns) == 0 {
		patterns = []string{"**/*.md", "**/*.txt"}
	}
	return &FilesystemConnector{root: root, patterns: patterns, maxFileSize: defaultMaxFileSize}
}

func (c *FilesystemConnector) Name() string { return "fs:" + c.root }

// List walks the root and returns every matching regular file. Unreadable
// entries are skipped.
func (c *FilesystemConnector) List(ctx context.Context) ([]RawDocument, error) {
	root, err := filepath.Abs(c.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", c.root, err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var docs []RawDocument
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !c.matches(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > c.maxFileSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("fs connector: skip %s: %v", path, err)
			return nil
		}
		docs = append(docs, RawDocument{Name: path, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *FilesystemConnector) matches(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pattern := range c.patterns {
		if ok, err := doublestar.PathMatch(filepath.ToSlash(pattern), normalized); err == nil && ok {
			return true
		}
	}
	return false
}
