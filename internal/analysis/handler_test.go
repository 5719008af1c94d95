package analysis_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/bootstrap"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/jobs"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/config"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type stubScorer struct {
	result scoring.Result
}

func (s stubScorer) Analyze(ctx context.Context, resumeText, jobDescription string) (scoring.Result, error) {
	return s.result, nil
}

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		QueueBackend:    "local",
		KeywordCacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadRequest(t *testing.T, fieldFile, fileName, contentType, jobDescription string, fileBody []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldFile+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(fileBody); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.WriteField("jobDescription", jobDescription); err != nil {
		t.Fatalf("write jobDescription: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func docxFixture(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)
	if _, err := w.Write(body.Bytes()); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func validJobDescription() string {
	return strings.Repeat("Looking for a Go engineer. ", 5)
}

func TestUploadQueuesAnalysis(t *testing.T) {
	app := buildTestApp(t)
	app.AnalysisService.Scorer = stubScorer{result: scoring.Result{Score: 77, KeywordMatches: []string{"Go"}}}

	req := uploadRequest(t, "resumeFile", "resume.docx", docxMime, validJobDescription(), docxFixture(t, "Jane Doe", "Go engineer"))
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var out struct {
		JobID     string `json:"jobId"`
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.JobID == "" || out.SessionID == "" {
		t.Fatalf("response = %+v", out)
	}
	if out.Message == "" {
		t.Fatal("expected a message")
	}

	// The local queue runs the job on a goroutine; poll until terminal.
	state := pollJob(t, app.Router, out.JobID)
	if state != "succeeded" {
		t.Fatalf("final state = %q, want succeeded", state)
	}

	// Session reports should now hold exactly one report.
	reqReports := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/session/"+out.SessionID+"/reports", nil)
	respReports := httptest.NewRecorder()
	app.Router.ServeHTTP(respReports, reqReports)
	if respReports.Code != http.StatusOK {
		t.Fatalf("session reports status = %d", respReports.Code)
	}
	var list []struct {
		ReportID string `json:"reportId"`
		Score    int    `json:"score"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(respReports.Body).Decode(&list); err != nil {
		t.Fatalf("decode reports: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("reports = %d, want 1", len(list))
	}
	if list[0].Score != 77 || list[0].FileName != "resume.docx" {
		t.Fatalf("report = %+v", list[0])
	}

	// The report endpoint is idempotent: same payload on repeat reads.
	for i := 0; i < 2; i++ {
		reqReport := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/report/"+list[0].ReportID, nil)
		respReport := httptest.NewRecorder()
		app.Router.ServeHTTP(respReport, reqReport)
		if respReport.Code != http.StatusOK {
			t.Fatalf("report status = %d", respReport.Code)
		}
		var report struct {
			ReportID string `json:"reportId"`
			Score    int    `json:"score"`
		}
		if err := json.NewDecoder(respReport.Body).Decode(&report); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if report.ReportID != list[0].ReportID || report.Score != 77 {
			t.Fatalf("report read %d = %+v", i, report)
		}
	}
}

func pollJob(t *testing.T, router http.Handler, jobID string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/status/"+jobID, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d", resp.Code)
		}
		var out struct {
			State string `json:"state"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if out.State == "succeeded" || out.State == "failed" {
			return out.State
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
	return ""
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	app := buildTestApp(t)

	big := make([]byte, 5*1024*1024+1)
	req := uploadRequest(t, "resumeFile", "resume.pdf", "application/pdf", validJobDescription(), big)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "File size exceeds 5MB limit") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestUploadRejectsShortJobDescription(t *testing.T) {
	app := buildTestApp(t)

	req := uploadRequest(t, "resumeFile", "resume.pdf", "application/pdf", "too short", []byte("%PDF-1.7"))
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "between 50 and 5000") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	app := buildTestApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("jobDescription", validJobDescription()); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "No file provided") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	app := buildTestApp(t)

	req := uploadRequest(t, "resumeFile", "resume.txt", "text/plain", validJobDescription(), []byte("plain text"))
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Only PDF and DOCX files are allowed") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestStatusUnknownJob(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/status/does-not-exist", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestStatusNormalizesHousekeepingStates(t *testing.T) {
	app := buildTestApp(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for jobID, raw := range map[string]string{
		"job-deleted": jobs.StateDeleted,
		"job-expired": jobs.StateExpired,
	} {
		if err := app.JobsRepo.Create(ctx, jobs.Job{ID: jobID, SessionID: "s", State: raw, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("Create: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/status/"+jobID, nil)
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d", resp.Code)
		}
		var out struct {
			State string `json:"state"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.State != "failed" {
			t.Fatalf("state for %s = %q, want failed", jobID, out.State)
		}
	}
}

func TestReportUnknownID(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/report/0b5c7f46-9e9e-4b63-9f58-0a5ed61f0e3c", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestSessionReportsEmpty(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/session/nobody/reports", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("body = %s, want []", resp.Body.String())
	}
}
