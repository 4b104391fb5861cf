package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	"github.com/study-buddy/study-buddy-api/internal/service"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/response"
)

// SyllabusHandler wires HTTP endpoints to the syllabus service.
type SyllabusHandler struct {
	service *service.SyllabusService
}

// NewSyllabusHandler creates a new handler.
func NewSyllabusHandler(svc *service.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{service: svc}
}

// Generate godoc
// @Summary Generate a four-week syllabus
// @Description Build a four-week study syllabus from a course and three topics
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body dto.SyllabusRequest true "Syllabus request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /syllabus [post]
func (h *SyllabusHandler) Generate(c *gin.Context) {
	var req dto.SyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
