package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	"github.com/study-buddy/study-buddy-api/internal/middleware"
	"github.com/study-buddy/study-buddy-api/internal/models"
	"github.com/study-buddy/study-buddy-api/internal/service"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/response"
)

type plannerService interface {
	GenerateTimetable(ctx context.Context, userID string, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error)
	LastTimetable(ctx context.Context, userID string) (*dto.TimetableResponse, error)
	LatestRoster(ctx context.Context, userID string) (*models.Roster, error)
	ExportTimetable(ctx context.Context, userID, userEmail, username string, format service.ExportFormat) (*service.ExportResult, error)
}

// PlannerHandler wires HTTP endpoints to the planner service.
type PlannerHandler struct {
	service plannerService
}

// NewPlannerHandler creates a new handler.
func NewPlannerHandler(svc plannerService) *PlannerHandler {
	return &PlannerHandler{service: svc}
}

// Generate godoc
// @Summary Generate a weekly study timetable
// @Description Build a 7-day by 12-slot study timetable from the submitted course roster
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Course roster"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /timetable [post]
func (h *PlannerHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}

	res, err := h.service.GenerateTimetable(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, false)
	response.JSON(c, http.StatusOK, res, nil, middleware.ExtractMeta(c))
}

// Last godoc
// @Summary Last generated timetable
// @Description Return the most recently generated timetable for the current user
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/last [get]
func (h *PlannerHandler) Last(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.LastTimetable(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, true)
	response.JSON(c, http.StatusOK, res, nil, middleware.ExtractMeta(c))
}

// LatestRoster godoc
// @Summary Latest course roster
// @Description Return the most recently saved course roster for the current user
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roster/latest [get]
func (h *PlannerHandler) LatestRoster(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	roster, err := h.service.LatestRoster(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, roster, nil)
}

// Export godoc
// @Summary Export the last timetable
// @Description Render the last generated timetable as CSV or PDF behind a signed URL
// @Tags Planner
// @Produce json
// @Param format query string false "csv or pdf" default(pdf)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/export [get]
func (h *PlannerHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatPDF)))
	if format != service.ExportFormatCSV && format != service.ExportFormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	result, err := h.service.ExportTimetable(c.Request.Context(), claims.UserID, claims.Email, claims.Username, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.ExportResponse{
		URL:       result.URL,
		Format:    string(result.Format),
		ExpiresAt: result.ExpiresAt,
	}, nil)
}
