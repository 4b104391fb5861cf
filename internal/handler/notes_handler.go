package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	"github.com/study-buddy/study-buddy-api/internal/service"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/response"
)

// NotesHandler wires HTTP endpoints to the notes service.
type NotesHandler struct {
	service *service.NotesService
}

// NewNotesHandler creates a new handler.
func NewNotesHandler(svc *service.NotesService) *NotesHandler {
	return &NotesHandler{service: svc}
}

// Generate godoc
// @Summary Generate study notes
// @Description Build structured study notes for a topic, optionally grounded in pasted material
// @Tags Notes
// @Accept json
// @Produce json
// @Param payload body dto.NotesRequest true "Notes request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /notes [post]
func (h *NotesHandler) Generate(c *gin.Context) {
	var req dto.NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notes payload"))
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Export godoc
// @Summary Export study notes as PDF
// @Description Generate notes and return a signed download URL for the rendered PDF
// @Tags Notes
// @Accept json
// @Produce json
// @Param payload body dto.NotesRequest true "Notes request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /notes/export [post]
func (h *NotesHandler) Export(c *gin.Context) {
	var req dto.NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notes payload"))
		return
	}

	result, err := h.service.Export(c.Request.Context(), req)
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
