package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are namespaced by the owning session: "<sessionID>/<uuid>_<fileName>".
type ObjectStore interface {
	Save(ctx context.Context, sessionID, fileName, contentType string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
