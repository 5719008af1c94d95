package reports

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
)

func TestPGRepoCreateSerializesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	report := AnalysisReport{
		ID:    "report-1",
		Score: 81,
		Suggestions: []scoring.Suggestion{
			{ID: "s-1", Type: "critical", Title: "Missing AWS", Description: "Add AWS experience", Impact: "+8 points if fixed"},
		},
		KeywordMatches:  []string{"Go"},
		MissingKeywords: []string{"AWS"},
		JobDescription:  "jd",
		FileID:          "file-1",
		CreatedAt:       time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analysis_reports").
		WithArgs(
			report.ID,
			report.Score,
			`[{"id":"s-1","type":"critical","title":"Missing AWS","description":"Add AWS experience","impact":"+8 points if fixed"}]`,
			`["Go"]`,
			`["AWS"]`,
			report.JobDescription,
			report.FileID,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "score", "suggestions", "keyword_matches", "missing_keywords",
		"job_description", "file_id", "created_at", "file_name",
	}).AddRow(
		"report-1", 81,
		`[{"id":"s-1","type":"minor","title":"t","description":"d","impact":"+1 point if fixed"}]`,
		`["Go","SQL"]`, `[]`,
		"jd", "file-1", created, "resume.pdf",
	)
	mock.ExpectQuery("SELECT r.id, r.score").WithArgs("report-1").WillReturnRows(rows)

	report, err := repo.GetByID(context.Background(), "report-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if report.FileName != "resume.pdf" {
		t.Fatalf("file name = %q", report.FileName)
	}
	if len(report.Suggestions) != 1 || report.Suggestions[0].Type != "minor" {
		t.Fatalf("suggestions = %+v", report.Suggestions)
	}
	if len(report.KeywordMatches) != 2 || len(report.MissingKeywords) != 0 {
		t.Fatalf("keywords = %v / %v", report.KeywordMatches, report.MissingKeywords)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT r.id, r.score").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
