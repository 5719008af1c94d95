// Package validate checks an uploaded resume file against the acceptance
// policy before any processing happens. Checks are pure functions of the
// declared size, name and content type.
package validate

import (
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize = 5 * 1024 * 1024 // 5MB

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Result reports whether a file is acceptable and, if not, why.
type Result struct {
	Valid  bool
	Reason string
}

// Check applies the acceptance rules in order; the first failure wins.
func Check(sizeBytes int64, fileName, contentType string) Result {
	if sizeBytes <= 0 {
		return Result{Reason: "No file provided"}
	}
	if sizeBytes > MaxFileSize {
		return Result{Reason: "File size exceeds 5MB limit"}
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".docx":
	default:
		return Result{Reason: "Only PDF and DOCX files are allowed"}
	}

	switch contentType {
	case mimePDF, mimeDOCX:
	default:
		return Result{Reason: "Invalid file type"}
	}

	return Result{Valid: true}
}
