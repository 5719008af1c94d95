package main

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/analysis"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/files"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/jobs"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/queue"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/reports"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/sessions"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/storage/object/local"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	_ = ctx
	_ = params
	_ = optFns
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	_ = ctx
	_ = optFns
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type stubScorer struct {
	err error
}

func (s stubScorer) Analyze(ctx context.Context, resumeText, jobDescription string) (scoring.Result, error) {
	if s.err != nil {
		return scoring.Result{}, s.err
	}
	return scoring.Result{Score: 60}, nil
}

func testService(t *testing.T, scorer scoring.Client) *analysis.Service {
	t.Helper()
	fileRepo := files.NewMemoryRepo()
	return &analysis.Service{
		Files:    fileRepo,
		Sessions: sessions.NewMemoryRepo(),
		Reports:  reports.NewMemoryRepo(fileRepo),
		Jobs:     jobs.NewMemoryRepo(),
		Store:    local.New(t.TempDir()),
		Scorer:   scorer,
	}
}

func docxFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>resume text</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func sqsMessage(t *testing.T, svc *analysis.Service, jobID string) sqstypes.Message {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	if err := svc.Jobs.Create(ctx, jobs.Job{ID: jobID, SessionID: "s-1", State: jobs.StateEnqueued, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create job: %v", err)
	}
	body, err := queue.EncodeMessage(queue.Message{
		JobID:          jobID,
		SessionID:      "s-1",
		FileName:       "resume.docx",
		ContentType:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		JobDescription: "jd",
		Content:        docxFixture(t),
		Version:        1,
	})
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	svc := testService(t, stubScorer{})
	msg := sqsMessage(t, svc, "job-1")

	handleSQSMessage(context.Background(), svc, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	job, err := svc.Jobs.GetByID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.State != jobs.StateSucceeded {
		t.Fatalf("state = %q, want succeeded", job.State)
	}
}

func TestWorkerDeletesMessageOnProcessFailure(t *testing.T) {
	client := &fakeSQS{}
	svc := testService(t, stubScorer{err: &scoring.ScoringError{Message: "boom"}})
	msg := sqsMessage(t, svc, "job-2")

	handleSQSMessage(context.Background(), svc, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete on terminal failure, got %d", len(client.deleted))
	}
	job, _ := svc.Jobs.GetByID(context.Background(), "job-2")
	if job.State != jobs.StateFailed {
		t.Fatalf("state = %q, want failed", job.State)
	}
}

func TestWorkerDeletesUndecodableMessage(t *testing.T) {
	client := &fakeSQS{}
	svc := testService(t, stubScorer{})
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{garbage"),
	}

	handleSQSMessage(context.Background(), svc, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}
