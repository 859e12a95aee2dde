package jobsearch

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"internship-sniper-backend/internal/server/respond"
)

// Handler wires the job search endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.searchJobs)
}

func (h *Handler) searchJobs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	jobs := h.Svc.Search(c.Request.Context(), Query{
		Query:      c.DefaultQuery("query", "internship"),
		UserSkills: c.Query("userSkills"),
		Country:    c.DefaultQuery("country", "India"),
		Page:       page,
	})
	respond.OK(c, jobs)
}
