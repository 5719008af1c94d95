package files

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new uploaded file row.
func (r *PGRepo) Create(ctx context.Context, f UploadedFile) error {
	const query = `
INSERT INTO uploaded_files (
    id,
    file_name,
    storage_key,
    content_type,
    size_bytes,
    session_id,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		f.ID,
		f.FileName,
		f.StorageKey,
		f.ContentType,
		f.SizeBytes,
		f.SessionID,
		f.UploadedAt,
	)
	return err
}

// GetByID fetches an uploaded file by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (UploadedFile, error) {
	const query = `
SELECT id, file_name, storage_key, content_type, size_bytes, session_id, uploaded_at
FROM uploaded_files
WHERE id = $1
LIMIT 1`
	var f UploadedFile
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.FileName,
		&f.StorageKey,
		&f.ContentType,
		&f.SizeBytes,
		&f.SessionID,
		&f.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UploadedFile{}, ErrNotFound
		}
		return UploadedFile{}, err
	}
	return f, nil
}

var _ Repo = (*PGRepo)(nil)
