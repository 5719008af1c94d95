package analysis

import (
	"time"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/jobs"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/reports"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
)

type uploadResponse struct {
	JobID     string `json:"jobId"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type statusResponse struct {
	JobID     string    `json:"jobId"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

func statusResponseFrom(job jobs.Job) statusResponse {
	return statusResponse{
		JobID:     job.ID,
		State:     jobs.Normalize(job.State),
		CreatedAt: job.CreatedAt,
	}
}

type suggestionDTO struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
	Impact      string `json:"impact"`
}

type reportResponse struct {
	ReportID        string          `json:"reportId"`
	Score           int             `json:"score"`
	Suggestions     []suggestionDTO `json:"suggestions"`
	KeywordMatches  []string        `json:"keywordMatches"`
	MissingKeywords []string        `json:"missingKeywords"`
	FileName        string          `json:"fileName"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func reportResponseFrom(r reports.ReportWithFile) reportResponse {
	return reportResponse{
		ReportID:        r.ID,
		Score:           r.Score,
		Suggestions:     suggestionDTOsFrom(r.Suggestions),
		KeywordMatches:  emptyIfNil(r.KeywordMatches),
		MissingKeywords: emptyIfNil(r.MissingKeywords),
		FileName:        r.FileName,
		CreatedAt:       r.CreatedAt,
	}
}

func suggestionDTOsFrom(in []scoring.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(in))
	for _, s := range in {
		out = append(out, suggestionDTO{
			ID:          s.ID,
			Type:        s.Type,
			Title:       s.Title,
			Description: s.Description,
			Example:     s.Example,
			Impact:      s.Impact,
		})
	}
	return out
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
