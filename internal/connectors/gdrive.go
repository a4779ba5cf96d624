package connectors

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Google Workspace MIME types.
const (
	mimeGoogleDoc = "application/vnd.google-apps.document"
	mimeFolder    = "application/vnd.google-apps.folder"
)

// driveMaxFetchSize caps downloaded and exported file content (5 MB).
const driveMaxFetchSize = 5 << 20

// GDriveConfig configures the cloud-drive connector.
type GDriveConfig struct {
	// CredentialsFile is a service-account JSON path. Empty disables the
	// connector.
	CredentialsFile string
	// Include lists name substrings; a file is listed when its name
	// contains any of them.
	Include []string
	// MaxFiles bounds the listing (default 200).
	MaxFiles int
}

// GDriveConnector lists Drive files by name substrings, exporting native
// Google Docs to plain text.
type GDriveConnector struct {
	cfg GDriveConfig
}

// NewGDrive creates a Google Drive connector.
func NewGDrive(cfg GDriveConfig) *GDriveConnector {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 200
	}
	return &GDriveConnector{cfg: cfg}
}

func (c *GDriveConnector) Name() string { return "gdrive" }

func (c *GDriveConnector) List(ctx context.Context) ([]RawDocument, error) {
	if c.cfg.CredentialsFile == "" {
		return nil, nil
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(c.cfg.CredentialsFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	res, err := svc.Files.List().
		Q(c.buildQuery()).
		Fields("files(id,name,mimeType)").
		PageSize(int64(c.cfg.MaxFiles)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list drive files: %w", err)
	}

	var docs []RawDocument
	for _, f := range res.Files {
		if f.MimeType == mimeFolder {
			continue
		}
		name, data, err := c.fetchFile(ctx, svc, f)
		if err != nil {
			log.Printf("gdrive connector: skip %s: %v", f.Name, err)
			continue
		}
		docs = append(docs, RawDocument{Name: name, Data: data})
	}
	return docs, nil
}

// buildQuery joins the include terms as name-contains clauses.
func (c *GDriveConnector) buildQuery() string {
	var clauses []string
	for _, term := range c.cfg.Include {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("name contains '%s'", strings.ReplaceAll(term, "'", `\'`)))
	}
	if len(clauses) == 0 {
		return "trashed = false"
	}
	return strings.Join(clauses, " or ")
}

// fetchFile downloads a regular file or exports a native Google Doc to plain
// text. Exported docs gain a .txt suffix so extraction treats them as text.
func (c *GDriveConnector) fetchFile(ctx context.Context, svc *drive.Service, f *drive.File) (string, []byte, error) {
	if f.MimeType == mimeGoogleDoc {
		resp, err := svc.Files.Export(f.Id, "text/plain").Context(ctx).Download()
		if err != nil {
			return "", nil, fmt.Errorf("export: %w", err)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(resp.Body, driveMaxFetchSize))
		if err != nil {
			return "", nil, fmt.Errorf("read export: %w", err)
		}
		return f.Name + ".txt", data, nil
	}

	resp, err := svc.Files.Get(f.Id).Context(ctx).Download()
	if err != nil {
		return "", nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, driveMaxFetchSize))
	if err != nil {
		return "", nil, fmt.Errorf("read download: %w", err)
	}
	return f.Name, data, nil
}
