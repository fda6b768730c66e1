// Package blob persists export artifacts to durable object storage and
// hands back a retrievable link.
package blob

import "context"

// Uploader stores a named artifact and returns a URL from which it can be
// downloaded.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body []byte) (string, error)
}
