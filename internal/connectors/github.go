package connectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/elidoras/datacore/internal/util"
)

// githubMaxBlobSize skips repository blobs larger than 1 MB.
const githubMaxBlobSize = 1 << 20

// GitHubConfig configures the hosted-repository connector.
type GitHubConfig struct {
	// Repo is "owner/name".
	Repo string
	// Globs filter tree paths; empty means everything.
	Globs []string
	// Token is a personal access token. Empty disables the connector.
	Token string
}

// GitHubConnector lists the default branch's tree and fetches matching blobs.
type GitHubConnector struct {
	cfg     GitHubConfig
	client  *gh.Client
	limiter *rate.Limiter
	retry   util.RetryPolicy
}

// NewGitHub creates a GitHub connector. The client is only built when a
// token is present; without one, List is a no-op.
func NewGitHub(cfg GitHubConfig) *GitHubConnector {
	c := &GitHubConnector{
		cfg: cfg,
		// Stay well under GitHub's secondary rate limits.
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		retry:   util.DefaultRetryPolicy(),
	}
	if cfg.Token != "" {
		c.client = gh.NewClient(nil).WithAuthToken(cfg.Token)
	}
	return c
}

func (c *GitHubConnector) Name() string { return "github:" + c.cfg.Repo }

func (c *GitHubConnector) List(ctx context.Context) ([]RawDocument, error) {
	if c.client == nil {
		return nil, nil
	}

	owner, name, ok := strings.Cut(c.cfg.Repo, "/")
	if !ok {
		return nil, fmt.Errorf("github repo %q: want owner/name", c.cfg.Repo)
	}

	repo, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("get repo %s: %w", c.cfg.Repo, err)
	}

	tree, _, err := c.client.Git.GetTree(ctx, owner, name, repo.GetDefaultBranch(), true)
	if err != nil {
		return nil, fmt.Errorf("get tree %s@%s: %w", c.cfg.Repo, repo.GetDefaultBranch(), err)
	}

	var docs []RawDocument
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if !c.matchesGlobs(path) {
			continue
		}
		if entry.GetSize() > githubMaxBlobSize {
			continue
		}

		data, err := c.fetchBlob(ctx, owner, name, entry.GetSHA())
		if err != nil {
			// Per-item failures skip the item, not the listing.
			log.Printf("github connector: skip %s: %v", path, err)
			continue
		}
		docs = append(docs, RawDocument{Name: path, Data: data})
	}
	return docs, nil
}

func (c *GitHubConnector) fetchBlob(ctx context.Context, owner, name, sha string) ([]byte, error) {
	var blob *gh.Blob
	err := c.retry.Do(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		blob, _, err = c.client.Git.GetBlob(ctx, owner, name, sha)
		return err
	})
	if err != nil {
		return nil, err
	}
	if blob.GetEncoding() == "base64" {
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(blob.GetContent()), nil
}

func (c *GitHubConnector) matchesGlobs(path string) bool {
	if len(c.cfg.Globs) == 0 {
		return true
	}
	for _, g := range c.cfg.Globs {
		if ok, err := doublestar.PathMatch(g, path); err == nil && ok {
			return true
		}
	}
	return false
}
