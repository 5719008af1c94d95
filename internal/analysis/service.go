// Package analysis orchestrates resume analysis: enqueueing uploads,
// running queued jobs end to end, and serving report reads.
package analysis

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/cache"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/extract"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/files"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/jobs"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/queue"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/reports"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/sessions"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/metrics"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/storage/object"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/telemetry"
)

// Service contains business logic for analyses.
type Service struct {
	Files    files.Repo
	Sessions sessions.Repo
	Reports  reports.Repo
	Jobs     jobs.Repo
	Store    object.ObjectStore
	Scorer   scoring.Client
	Keywords cache.Store
	Queue    queue.Client
}

// EnqueueInput carries a validated upload into the queue.
type EnqueueInput struct {
	SessionID      string
	FileName       string
	ContentType    string
	JobDescription string
	Content        []byte
}

// Enqueue records the job and hands the work to the queue backend. The file
// is never processed on the request path.
func (s *Service) Enqueue(ctx context.Context, in EnqueueInput) (string, error) {
	if err := s.Sessions.Touch(ctx, in.SessionID); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	job := jobs.Job{
		ID:        uuid.NewString(),
		SessionID: in.SessionID,
		State:     jobs.StateEnqueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return "", err
	}

	msg := queue.Message{
		JobID:          job.ID,
		SessionID:      in.SessionID,
		FileName:       in.FileName,
		ContentType:    in.ContentType,
		JobDescription: in.JobDescription,
		Content:        in.Content,
		EnqueuedAt:     now.Format(time.RFC3339),
		Version:        1,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		_ = s.Jobs.SetState(ctx, job.ID, jobs.StateFailed)
		return "", err
	}

	metrics.IncJobsEnqueued()
	telemetry.Info("analysis.enqueued", map[string]any{
		"job_id":     job.ID,
		"session_id": in.SessionID,
		"file_name":  in.FileName,
		"size_bytes": len(in.Content),
	})
	return job.ID, nil
}

// Run drives one queued analysis through its lifecycle, recording state
// transitions and outcome metrics.
func (s *Service) Run(ctx context.Context, msg queue.Message) error {
	if err := s.Jobs.SetState(ctx, msg.JobID, jobs.StateProcessing); err != nil {
		return err
	}

	start := time.Now()
	reportID, err := s.process(ctx, msg)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.IncJobsFailed()
		_ = s.Jobs.SetState(ctx, msg.JobID, jobs.StateFailed)
		telemetry.Error("analysis.failed", map[string]any{
			"job_id":     msg.JobID,
			"session_id": msg.SessionID,
			"error":      err.Error(),
		})
		return err
	}

	metrics.IncJobsSucceeded()
	_ = s.Jobs.SetState(ctx, msg.JobID, jobs.StateSucceeded)
	telemetry.Info("analysis.completed", map[string]any{
		"job_id":     msg.JobID,
		"session_id": msg.SessionID,
		"report_id":  reportID,
	})
	return nil
}

// process performs the analysis itself: store the blob, persist the file
// row, extract text, consult the keyword cache, score, persist the report.
func (s *Service) process(ctx context.Context, msg queue.Message) (string, error) {
	storageKey, sizeBytes, err := s.Store.Save(ctx, msg.SessionID, msg.FileName, msg.ContentType, bytes.NewReader(msg.Content))
	if err != nil {
		return "", err
	}

	file := files.UploadedFile{
		ID:          uuid.NewString(),
		FileName:    msg.FileName,
		StorageKey:  storageKey,
		ContentType: msg.ContentType,
		SizeBytes:   sizeBytes,
		SessionID:   msg.SessionID,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.Files.Create(ctx, file); err != nil {
		return "", err
	}

	format, err := extract.FormatForFile(msg.FileName, msg.ContentType)
	if err != nil {
		return "", err
	}
	resumeText, err := extract.FromBytes(msg.Content, format)
	if err != nil {
		return "", err
	}

	var cacheHit bool
	if s.Keywords != nil {
		if _, ok := s.Keywords.GetKeywords(msg.JobDescription); ok {
			cacheHit = true
			telemetry.Info("analysis.keywords_cached", map[string]any{
				"job_id":    msg.JobID,
				"cache_key": cache.Key(msg.JobDescription),
			})
		}
	}

	result, err := s.Scorer.Analyze(ctx, resumeText, msg.JobDescription)
	if err != nil {
		return "", err
	}

	if s.Keywords != nil && !cacheHit && len(result.KeywordMatches) > 0 {
		s.Keywords.SetKeywords(msg.JobDescription, result.KeywordMatches)
	}

	report := reports.AnalysisReport{
		ID:              uuid.NewString(),
		Score:           result.Score,
		Suggestions:     result.Suggestions,
		KeywordMatches:  result.KeywordMatches,
		MissingKeywords: result.MissingKeywords,
		JobDescription:  msg.JobDescription,
		FileID:          file.ID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Reports.Create(ctx, report); err != nil {
		return "", err
	}
	return report.ID, nil
}

// Status returns the job row for a polling client.
func (s *Service) Status(ctx context.Context, jobID string) (jobs.Job, error) {
	return s.Jobs.GetByID(ctx, jobID)
}

// Report returns a single report joined with its file name.
func (s *Service) Report(ctx context.Context, reportID string) (reports.ReportWithFile, error) {
	return s.Reports.GetByID(ctx, reportID)
}

// SessionReports returns all reports for a session, newest first.
func (s *Service) SessionReports(ctx context.Context, sessionID string) ([]reports.ReportWithFile, error) {
	return s.Reports.ListBySession(ctx, sessionID)
}
