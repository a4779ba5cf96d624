package connectors

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestFilesystemConnector_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lore/genesis.md", "# Genesis")
	writeFile(t, dir, "lore/deep/notes.txt", "notes")
	writeFile(t, dir, "lore/image.png", "\x89PNG")
	writeFile(t, dir, "top.md", "top")

	c := NewFilesystem(dir, []string{"**/*.md", "**/*.txt"})
	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var names []string
	for _, d := range docs {
		rel, _ := filepath.Rel(dir, d.Name)
		names = append(names, filepath.ToSlash(rel))
	}
	sort.Strings(names)

	want := []string{"lore/deep/notes.txt", "lore/genesis.md", "top.md"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFilesystemConnector_MissingRoot(t *testing.T) {
	c := NewFilesystem(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if docs != nil {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestFilesystemConnector_ReadsContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "the archive persists")

	c := NewFilesystem(dir, []string{"**/*.txt", "*.txt"})
	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}
	if string(docs[0].Data) != "the archive persists" {
		t.Errorf("data = %q", docs[0].Data)
	}
}

func TestBlocklist_Blocked(t *testing.T) {
	b := Blocklist(DefaultBlocklist)

	blocked := []string{
		"data/raw/secrets/master.txt",
		"deploy/prod.key",
		"services/api/.env",
		"/abs/path/secrets/nested/deep.md",
	}
	for _, p := range blocked {
		if !b.Blocked(p) {
			t.Errorf("expected %q to be blocked", p)
		}
	}

	allowed := []string{
		"data/raw/lore/genesis.md",
		"README.md",
		"envsetup.txt",
		"keynote.md",
	}
	for _, p := range allowed {
		if b.Blocked(p) {
			t.Errorf("expected %q to pass", p)
		}
	}
}

func TestBlocklist_OrderIndependent(t *testing.T) {
	a := Blocklist{"**/*.key", "**/secrets/**"}
	b := Blocklist{"**/secrets/**", "**/*.key"}
	for _, p := range []string{"x/secrets/y.txt", "x/a.key", "x/plain.md"} {
		if a.Blocked(p) != b.Blocked(p) {
			t.Errorf("pattern order changed verdict for %q", p)
		}
	}
}

func TestGitHubConnector_NoTokenIsNoop(t *testing.T) {
	c := NewGitHub(GitHubConfig{Repo: "elidoras/codex", Globs: []string{"**/*.md"}})
	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("expected nil error without token, got %v", err)
	}
	if docs != nil {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestGDriveConnector_NoCredentialsIsNoop(t *testing.T) {
	c := NewGDrive(GDriveConfig{Include: []string{"TEC"}})
	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("expected nil error without credentials, got %v", err)
	}
	if docs != nil {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestGmailConnector_NoTokenIsNoop(t *testing.T) {
	c := NewGmail(GmailConfig{Query: "label:archive"})
	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("expected nil error without token, got %v", err)
	}
	if docs != nil {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestGDriveConnector_BuildQuery(t *testing.T) {
	c := NewGDrive(GDriveConfig{Include: []string{"TEC", "Elidoras"}})
	q := c.buildQuery()
	if !strings.Contains(q, "name contains 'TEC'") || !strings.Contains(q, " or ") {
		t.Errorf("unexpected query %q", q)
	}

	empty := NewGDrive(GDriveConfig{})
	if got := empty.buildQuery(); got != "trashed = false" {
		t.Errorf("empty include query = %q", got)
	}
}
