// Package scoring defines the contract for ATS compatibility scoring of a
// resume against a job description.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no scoring provider is wired.
var ErrNotConfigured = errors.New("scoring client is not configured")

// Suggestion categories form a closed set. Provider synonyms are mapped in
// at the parse boundary (warning -> moderate, improvement -> minor).
const (
	TypeCritical = "critical"
	TypeModerate = "moderate"
	TypeMinor    = "minor"
)

// Suggestion is one actionable improvement returned by the scorer.
type Suggestion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
	Impact      string `json:"impact"`
}

// Result is a structured scoring outcome.
type Result struct {
	Score           int          `json:"score"`
	Suggestions     []Suggestion `json:"suggestions"`
	KeywordMatches  []string     `json:"keywordMatches"`
	MissingKeywords []string     `json:"missingKeywords"`
}

// Client scores a resume against a job description.
type Client interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (Result, error)
}

// PlaceholderClient is a stub used when no provider token is configured.
type PlaceholderClient struct{}

// Analyze returns ErrNotConfigured.
func (PlaceholderClient) Analyze(ctx context.Context, resumeText, jobDescription string) (Result, error) {
	_ = ctx
	_ = resumeText
	_ = jobDescription
	return Result{}, ErrNotConfigured
}

// ScoringError indicates the external scoring call failed or returned an
// unusable response. Terminal for the job; retries, if any, belong to the
// queue layer.
type ScoringError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ScoringError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scoring: %s (status %d)", e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("scoring: %s: %v", e.Message, e.Err)
	}
	return "scoring: " + e.Message
}

func (e *ScoringError) Unwrap() error { return e.Err }

// NormalizeSuggestionType folds provider variants into the canonical set.
func NormalizeSuggestionType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case TypeCritical:
		return TypeCritical
	case TypeMinor, "improvement":
		return TypeMinor
	case TypeModerate, "warning":
		return TypeModerate
	default:
		return TypeModerate
	}
}
