// Package connectors enumerates raw documents from configured origins.
//
// Remote connectors treat missing credentials as "nothing to list", not an
// error, so the pipeline stays runnable with any subset of sources
// configured. Per-item fetch failures are skipped and enumeration continues.
package connectors

import "context"

// RawDocument is a document as read from its origin: an identity and raw
// bytes. Immutable once produced.
type RawDocument struct {
	Name string
	Data []byte
}

// Connector enumerates documents from one origin.
type Connector interface {
	// Name identifies the connector in logs and run records.
	Name() string

	// List enumerates the origin's documents.
	List(ctx context.Context) ([]RawDocument, error)
}
