package reports

import (
	"context"
	"sort"
	"sync"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/files"
)

// FileSource resolves uploaded file metadata for report views.
type FileSource interface {
	GetByID(ctx context.Context, id string) (files.UploadedFile, error)
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]AnalysisReport
	files FileSource
}

// NewMemoryRepo constructs a MemoryRepo backed by the given file source.
func NewMemoryRepo(fileSource FileSource) *MemoryRepo {
	return &MemoryRepo{
		data:  make(map[string]AnalysisReport),
		files: fileSource,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, report AnalysisReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[report.ID] = report
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (ReportWithFile, error) {
	if err := ctx.Err(); err != nil {
		return ReportWithFile{}, err
	}
	r.mu.RLock()
	report, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return ReportWithFile{}, ErrNotFound
	}
	f, err := r.files.GetByID(ctx, report.FileID)
	if err != nil {
		return ReportWithFile{}, err
	}
	return ReportWithFile{AnalysisReport: report, FileName: f.FileName}, nil
}

func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string) ([]ReportWithFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]AnalysisReport, 0, len(r.data))
	for _, report := range r.data {
		all = append(all, report)
	}
	r.mu.RUnlock()

	out := []ReportWithFile{}
	for _, report := range all {
		f, err := r.files.GetByID(ctx, report.FileID)
		if err != nil {
			if err == files.ErrNotFound {
				continue
			}
			return nil, err
		}
		if f.SessionID != sessionID {
			continue
		}
		out = append(out, ReportWithFile{AnalysisReport: report, FileName: f.FileName})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
