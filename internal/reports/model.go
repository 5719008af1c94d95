package reports

import (
	"time"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
)

// AnalysisReport is the persisted outcome of one resume analysis.
// Suggestion and keyword lists are stored as serialized JSON columns.
type AnalysisReport struct {
	ID              string
	Score           int
	Suggestions     []scoring.Suggestion
	KeywordMatches  []string
	MissingKeywords []string
	JobDescription  string
	FileID          string
	CreatedAt       time.Time
}

// ReportWithFile pairs a report with the name of the resume it scored.
type ReportWithFile struct {
	AnalysisReport
	FileName string
}
