package validate

import (
	"strings"
	"testing"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestCheckAccepts(t *testing.T) {
	cases := []struct {
		name        string
		size        int64
		fileName    string
		contentType string
	}{
		{"pdf", 10 * 1024, "resume.pdf", "application/pdf"},
		{"docx", 10 * 1024, "resume.docx", docxMime},
		{"uppercase extension", 10 * 1024, "RESUME.PDF", "application/pdf"},
		{"exactly at limit", MaxFileSize, "resume.pdf", "application/pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Check(tc.size, tc.fileName, tc.contentType)
			if !res.Valid {
				t.Fatalf("expected valid, got reason %q", res.Reason)
			}
		})
	}
}

func TestCheckRejects(t *testing.T) {
	cases := []struct {
		name        string
		size        int64
		fileName    string
		contentType string
		wantReason  string
	}{
		{"empty file", 0, "resume.pdf", "application/pdf", "No file provided"},
		{"negative size", -1, "resume.pdf", "application/pdf", "No file provided"},
		{"over limit", MaxFileSize + 1, "resume.pdf", "application/pdf", "File size exceeds 5MB limit"},
		{"over limit bad extension", 6 * 1024 * 1024, "resume.exe", "application/pdf", "File size exceeds 5MB limit"},
		{"txt extension", 1024, "resume.txt", "text/plain", "Only PDF and DOCX files are allowed"},
		{"doc extension", 1024, "resume.doc", "application/msword", "Only PDF and DOCX files are allowed"},
		{"no extension", 1024, "resume", "application/pdf", "Only PDF and DOCX files are allowed"},
		{"mime mismatch", 1024, "resume.pdf", "application/octet-stream", "Invalid file type"},
		{"docx with pdf mime is fine", 1024, "resume.docx", "application/pdf", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Check(tc.size, tc.fileName, tc.contentType)
			if tc.wantReason == "" {
				if !res.Valid {
					t.Fatalf("expected valid, got reason %q", res.Reason)
				}
				return
			}
			if res.Valid {
				t.Fatal("expected invalid result")
			}
			if res.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", res.Reason, tc.wantReason)
			}
		})
	}
}

func TestCheckSizeRuleWinsOverExtension(t *testing.T) {
	res := Check(MaxFileSize+1, "resume"+strings.Repeat("x", 10)+".png", "image/png")
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.Reason != "File size exceeds 5MB limit" {
		t.Fatalf("size rule should be checked first, got %q", res.Reason)
	}
}
