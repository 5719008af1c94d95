package analysis

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/jobs"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/reports"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/server/respond"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/validate"
)

const (
	jobDescriptionMinLen = 50
	jobDescriptionMaxLen = 5000
)

// Handler exposes the analysis HTTP surface.
type Handler struct {
	Service *Service
}

// RegisterRoutes mounts the analysis endpoints on the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analysis/upload", h.upload)
	rg.GET("/analysis/status/:jobId", h.status)
	rg.GET("/analysis/report/:reportId", h.report)
	rg.GET("/analysis/session/:sessionId/reports", h.sessionReports)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("resumeFile")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file provided", nil)
		return
	}

	jobDescription := strings.TrimSpace(c.PostForm("jobDescription"))
	if n := len([]rune(jobDescription)); n < jobDescriptionMinLen || n > jobDescriptionMaxLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription must be between 50 and 5000 characters", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if result := validate.Check(fileHeader.Size, fileHeader.Filename, contentType); !result.Valid {
		respond.Error(c, http.StatusBadRequest, "validation_error", result.Reason, nil)
		return
	}

	sessionID := strings.TrimSpace(c.PostForm("sessionId"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Set("sessionId", sessionID)

	src, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}

	jobID, err := h.Service.Enqueue(c.Request.Context(), EnqueueInput{
		SessionID:      sessionID,
		FileName:       fileHeader.Filename,
		ContentType:    contentType,
		JobDescription: jobDescription,
		Content:        content,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to queue analysis", nil)
		return
	}
	c.Set("jobId", jobID)

	respond.OK(c, uploadResponse{
		JobID:     jobID,
		SessionID: sessionID,
		Message:   "Analysis started. Use the job ID to check status.",
	})
}

func (h *Handler) status(c *gin.Context) {
	jobID := c.Param("jobId")
	job, err := h.Service.Status(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error retrieving job status", nil)
		return
	}
	respond.OK(c, statusResponseFrom(job))
}

func (h *Handler) report(c *gin.Context) {
	reportID := c.Param("reportId")
	if _, err := uuid.Parse(reportID); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "Report not found", nil)
		return
	}
	report, err := h.Service.Report(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Report not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error retrieving report", nil)
		return
	}
	respond.OK(c, reportResponseFrom(report))
}

func (h *Handler) sessionReports(c *gin.Context) {
	sessionID := c.Param("sessionId")
	c.Set("sessionId", sessionID)
	list, err := h.Service.SessionReports(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error retrieving session reports", nil)
		return
	}
	out := make([]reportResponse, 0, len(list))
	for _, r := range list {
		out = append(out, reportResponseFrom(r))
	}
	respond.OK(c, out)
}
