package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis report. List-valued fields are serialized
// to JSON text columns.
func (r *PGRepo) Create(ctx context.Context, report AnalysisReport) error {
	const query = `
INSERT INTO analysis_reports (
    id,
    score,
    suggestions,
    keyword_matches,
    missing_keywords,
    job_description,
    file_id,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	suggestions, err := json.Marshal(emptyIfNilSuggestions(report.Suggestions))
	if err != nil {
		return fmt.Errorf("serialize suggestions: %w", err)
	}
	matches, err := json.Marshal(emptyIfNil(report.KeywordMatches))
	if err != nil {
		return fmt.Errorf("serialize keyword matches: %w", err)
	}
	missing, err := json.Marshal(emptyIfNil(report.MissingKeywords))
	if err != nil {
		return fmt.Errorf("serialize missing keywords: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		report.ID,
		report.Score,
		string(suggestions),
		string(matches),
		string(missing),
		report.JobDescription,
		report.FileID,
		report.CreatedAt,
	)
	return err
}

const selectWithFile = `
SELECT r.id, r.score, r.suggestions, r.keyword_matches, r.missing_keywords, r.job_description, r.file_id, r.created_at, f.file_name
FROM analysis_reports r
JOIN uploaded_files f ON f.id = r.file_id`

// GetByID fetches a report joined with its file name.
func (r *PGRepo) GetByID(ctx context.Context, id string) (ReportWithFile, error) {
	query := selectWithFile + `
WHERE r.id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReportWithFile{}, ErrNotFound
		}
		return ReportWithFile{}, err
	}
	return report, nil
}

// ListBySession lists reports for a session, newest first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string) ([]ReportWithFile, error) {
	query := selectWithFile + `
WHERE f.session_id = $1
ORDER BY r.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReportWithFile{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (ReportWithFile, error) {
	var report ReportWithFile
	var suggestions, matches, missing string
	if err := row.Scan(
		&report.ID,
		&report.Score,
		&suggestions,
		&matches,
		&missing,
		&report.JobDescription,
		&report.FileID,
		&report.CreatedAt,
		&report.FileName,
	); err != nil {
		return ReportWithFile{}, err
	}
	if err := json.Unmarshal([]byte(suggestions), &report.Suggestions); err != nil {
		return ReportWithFile{}, fmt.Errorf("deserialize suggestions: %w", err)
	}
	if err := json.Unmarshal([]byte(matches), &report.KeywordMatches); err != nil {
		return ReportWithFile{}, fmt.Errorf("deserialize keyword matches: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &report.MissingKeywords); err != nil {
		return ReportWithFile{}, fmt.Errorf("deserialize missing keywords: %w", err)
	}
	return report, nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func emptyIfNilSuggestions(in []scoring.Suggestion) []scoring.Suggestion {
	if in == nil {
		return []scoring.Suggestion{}
	}
	return in
}

var _ Repo = (*PGRepo)(nil)
