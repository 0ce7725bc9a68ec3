package core

import (
	"context"
	"io"
)

// RecordLookup gives read-only access to an execution record store.
type RecordLookup interface {
	// Get returns the record stored for the class identity.
	Get(id ClassID) (*ExecutionRecord, bool)
	// ContainsName reports whether any record carries the given VM class name.
	ContainsName(name string) bool
}

// Extractor turns the class artifacts below one root directory plus the
// execution records into per-class coverage.
type Extractor interface {
	// Extract analyzes every class below root that passes the filter. Per-class
	// failures are returned as skipped results; only root level I/O failures are errors.
	Extract(ctx context.Context, root string, records RecordLookup, filter ClassFilter) ([]ClassResult, error)
}

// AzureClient defines operation for working with azure store
type AzureClient interface {
	// Create uploads the reader as a blob at path and returns the blob url.
	Create(ctx context.Context, path string, reader io.Reader, mimeType string) (string, error)
}

// Publisher ships a finished report somewhere outside the report directory.
type Publisher interface {
	// Publish archives and uploads the report directory, returning the locations written.
	Publish(ctx context.Context, reportDir string) ([]string, error)
}
