package files

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for uploaded files.
type Repo interface {
	Create(ctx context.Context, f UploadedFile) error
	GetByID(ctx context.Context, id string) (UploadedFile, error)
}
