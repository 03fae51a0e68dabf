package candidates

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/fields"
	"screening-backend/internal/jobs"
	"screening-backend/internal/scoring"
	"screening-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/submissions", h.submit)
	rg.POST("/jobs/:id/rankings", h.rankings)
	rg.GET("/candidates/:id", h.get)
	rg.POST("/candidates/:id/rescore", h.rescore)
	rg.PATCH("/candidates/:id", h.patch)
}

type submitField struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type submitRequest struct {
	Email  string        `json:"email"`
	Fields []submitField `json:"fields"`
}

type candidateResponse struct {
	CandidateID     string             `json:"candidateId"`
	JobID           string             `json:"jobId"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	ResumeReference string             `json:"resumeReference,omitempty"`
	ParsingFailed   bool               `json:"parsingFailed"`
	Status          string             `json:"status"`
	ScoreStatus     string             `json:"scoreStatus"`
	TotalScore      int                `json:"totalScore"`
	Grade           string             `json:"grade"`
	Breakdown       *scoring.Breakdown `json:"breakdown,omitempty"`
	Tags            []string           `json:"tags"`
	Notes           string             `json:"notes"`
	SubmittedAt     time.Time          `json:"submittedAt"`
}

type rankedResponse struct {
	Rank        int       `json:"rank"`
	CandidateID string    `json:"candidateId"`
	Name        string    `json:"name"`
	TotalScore  int       `json:"totalScore"`
	Grade       string    `json:"grade"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func toResponse(p Profile) candidateResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return candidateResponse{
		CandidateID:     p.ID,
		JobID:           p.JobID,
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		ResumeReference: p.ResumeReference,
		ParsingFailed:   p.ParsingFailed,
		Status:          p.Status,
		ScoreStatus:     p.ScoreStatus,
		TotalScore:      p.TotalScore,
		Grade:           p.Grade,
		Breakdown:       p.Breakdown,
		Tags:            tags,
		Notes:           p.Notes,
		SubmittedAt:     p.SubmittedAt,
	}
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	formFields := make([]fields.FormField, 0, len(req.Fields))
	for _, f := range req.Fields {
		formFields = append(formFields, fields.FormField{
			Label: f.Label,
			Kind:  fields.Kind(strings.ToLower(strings.TrimSpace(f.Kind))),
			Value: f.Value,
		})
	}

	p, err := h.Svc.Submit(c.Request.Context(), c.Param("id"), req.Email, formFields)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		case errors.Is(err, ErrInvalidInput), errors.Is(err, jobs.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "submission has no usable fields", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process submission", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(p))
}

func (h *Handler) rankings(c *gin.Context) {
	ranked, err := h.Svc.Rankings(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to rank candidates", nil)
		}
		return
	}

	resp := make([]rankedResponse, 0, len(ranked))
	for _, r := range ranked {
		resp = append(resp, rankedResponse{
			Rank:        r.Rank,
			CandidateID: r.Profile.ID,
			Name:        r.Profile.Name,
			TotalScore:  r.Profile.TotalScore,
			Grade:       r.Profile.Grade,
			SubmittedAt: r.Profile.SubmittedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "candidate id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch candidate", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(p))
}

func (h *Handler) rescore(c *gin.Context) {
	p, err := h.Svc.Rescore(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusConflict, "job_missing", "candidate's job no longer exists", nil)
		case errors.Is(err, ErrInvariant):
			respond.Error(c, http.StatusInternalServerError, "invariant_violation", "scoring configuration is broken", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to re-score candidate", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(p))
}

type patchRequest struct {
	Status *string   `json:"status"`
	Tags   *[]string `json:"tags"`
	Notes  *string   `json:"notes"`
}

func (h *Handler) patch(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.Patch(c.Request.Context(), c.Param("id"), ProfilePatch{
		Status: req.Status,
		Tags:   req.Tags,
		Notes:  req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "nothing to update or invalid status", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update candidate", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(p))
}
