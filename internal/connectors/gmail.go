package connectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig configures the mailbox connector.
type GmailConfig struct {
	// TokenFile is an authorized-user JSON path. Empty disables the
	// connector.
	TokenFile string
	// Query is a Gmail search query selecting messages to ingest.
	Query string
	// MaxResults bounds the message listing (default 50).
	MaxResults int
}

// GmailConnector searches a mailbox and yields subject plus best-effort
// plain-text body per message.
type GmailConnector struct {
	cfg GmailConfig
}

// NewGmail creates a Gmail connector.
func NewGmail(cfg GmailConfig) *GmailConnector {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 50
	}
	return &GmailConnector{cfg: cfg}
}

func (c *GmailConnector) Name() string { return "gmail" }

func (c *GmailConnector) List(ctx context.Context) ([]RawDocument, error) {
	if c.cfg.TokenFile == "" {
		return nil, nil
	}

	tokenJSON, err := os.ReadFile(c.cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, tokenJSON, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	listing, err := svc.Users.Messages.List("me").
		Q(c.cfg.Query).
		MaxResults(int64(c.cfg.MaxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var docs []RawDocument
	for _, m := range listing.Messages {
		doc, err := c.fetchMessage(ctx, svc, m.Id)
		if err != nil {
			log.Printf("gmail connector: skip message %s: %v", m.Id, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *GmailConnector) fetchMessage(ctx context.Context, svc *gmail.Service, id string) (RawDocument, error) {
	full, err := svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return RawDocument{}, err
	}

	subject := headerValue(full, "subject")
	body := full.Snippet
	if text := plainTextPart(full); text != "" {
		body = text
	}

	name := "gmail:" + truncate(subject, 80)
	return RawDocument{Name: name, Data: []byte(body)}, nil
}

func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// plainTextPart returns the first decodable text/plain part, or "".
func plainTextPart(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	for _, p := range msg.Payload.Parts {
		if p.MimeType != "text/plain" || p.Body == nil || p.Body.Data == "" {
			continue
		}
		decoded, err := base64.URLEncoding.DecodeString(p.Body.Data)
		if err != nil {
			continue
		}
		return string(decoded)
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
