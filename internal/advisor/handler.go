package advisor

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-sniper-backend/internal/server/respond"
)

// Handler wires the advisor endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches advisor routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-fit", h.analyzeFit)
	rg.POST("/generate-cover-letter", h.coverLetter)
	rg.POST("/ats-audit", h.atsAudit)
	rg.POST("/ai-chat", h.aiChat)
	rg.POST("/analyze-market-fit", h.marketFit)
	rg.POST("/tailor-resume", h.tailorResume)
}

type fitRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) analyzeFit(c *gin.Context) {
	var req fitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Resume == "" || req.JobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields: resume, jobDescription", nil)
		return
	}

	analysis, err := h.Svc.AnalyzeFit(c.Request.Context(), req.Resume, req.JobDescription)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Analysis failed. Please try again.", nil)
		return
	}
	respond.OK(c, analysis)
}

type coverLetterRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	Company        string `json:"company"`
	Title          string `json:"title"`
}

func (h *Handler) coverLetter(c *gin.Context) {
	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Resume == "" || req.JobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields: resume, jobDescription", nil)
		return
	}

	letter, err := h.Svc.CoverLetter(c.Request.Context(), req.Resume, req.JobDescription, req.Company, req.Title)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Cover letter generation failed. Please try again.", nil)
		return
	}
	respond.OK(c, gin.H{"coverLetter": letter})
}

type atsRequest struct {
	Resume string `json:"resume"`
}

func (h *Handler) atsAudit(c *gin.Context) {
	var req atsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Resume == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required field: resume", nil)
		return
	}

	audit, err := h.Svc.ATSAudit(c.Request.Context(), req.Resume)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Audit failed", nil)
		return
	}
	respond.OK(c, audit)
}

type chatRequest struct {
	Query               string          `json:"query"`
	ResumeContext       json.RawMessage `json:"resumeContext"`
	ConversationHistory []ChatTurn      `json:"conversationHistory"`
}

func (h *Handler) aiChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	reply, err := h.Svc.Chat(c.Request.Context(), req.Query, rawContextString(req.ResumeContext), req.ConversationHistory)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Sorry, I encountered an issue. Please try again.", nil)
		return
	}
	respond.OK(c, reply)
}

type marketFitRequest struct {
	ResumeContext json.RawMessage `json:"resumeContext"`
	Country       string          `json:"country"`
}

func (h *Handler) marketFit(c *gin.Context) {
	var req marketFitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	analysis, live, err := h.Svc.MarketFit(c.Request.Context(), req.ResumeContext, req.Country)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to analyze market fit. Kimi is busy.", nil)
		return
	}
	if !live {
		respond.OK(c, gin.H{"message": analysis, "analysis": nil})
		return
	}
	respond.OK(c, gin.H{"message": analysis})
}

type tailorRequest struct {
	ResumeData     json.RawMessage `json:"resumeData"`
	JobDescription string          `json:"jobDescription"`
	JobTitle       string          `json:"jobTitle"`
	JobCompany     string          `json:"jobCompany"`
}

func (h *Handler) tailorResume(c *gin.Context) {
	var req tailorRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ResumeData) == 0 || req.JobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume data and job description are required.", nil)
		return
	}

	respond.OK(c, h.Svc.Tailor(c.Request.Context(), req.ResumeData, req.JobDescription, req.JobTitle, req.JobCompany))
}

// rawContextString accepts a resume context supplied either as a JSON
// string or as an object, returning the text to embed in the prompt.
func rawContextString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
