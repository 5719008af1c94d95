package files

import "time"

// UploadedFile records a resume stored in the object store.
type UploadedFile struct {
	ID          string
	FileName    string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	SessionID   string
	UploadedAt  time.Time
}
