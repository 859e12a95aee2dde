// Package uploads accepts resume files and returns the structured record
// produced by the extraction pipeline. The endpoint never fails: any
// problem degrades to a structurally complete empty record with an
// explanatory summary.
package uploads

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-sniper-backend/internal/document"
	"internship-sniper-backend/internal/resume"
	"internship-sniper-backend/internal/server/respond"
	"internship-sniper-backend/internal/telemetry"
)

// MaxUploadBytes is the hard ceiling on an uploaded resume.
const MaxUploadBytes = 5 << 20

// Extractor runs a document through the extraction pipeline.
type Extractor interface {
	Extract(ctx context.Context, doc document.Document) resume.Record
}

// Handler wires the upload endpoint to the pipeline.
type Handler struct {
	Pipeline Extractor
}

// NewHandler constructs a Handler.
func NewHandler(pipeline Extractor) *Handler {
	return &Handler{Pipeline: pipeline}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-resume", h.uploadResume)
}

func (h *Handler) uploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	file, header, err := c.Request.FormFile("resume")
	if err != nil {
		respond.OK(c, resume.EmptyRecord("No file was uploaded. Please select a resume file."))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		telemetry.Warn("uploads.read_failed", map[string]any{"error": err.Error()})
		respond.OK(c, resume.EmptyRecord("An error occurred while processing your resume."))
		return
	}

	doc := document.Document{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		FileName:    header.Filename,
		Size:        int64(len(data)),
	}
	telemetry.Info("uploads.received", map[string]any{
		"file":         doc.FileName,
		"content_type": doc.ContentType,
		"size":         doc.Size,
	})

	respond.OK(c, h.Pipeline.Extract(c.Request.Context(), doc))
}
