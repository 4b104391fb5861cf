package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/study-buddy/study-buddy-api/internal/service"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/response"
)

// SolverHandler wires HTTP endpoints to the solver service.
type SolverHandler struct {
	service     *service.SolverService
	maxBodySize int64
}

// NewSolverHandler creates a new handler.
func NewSolverHandler(svc *service.SolverService, maxBodySize int64) *SolverHandler {
	if maxBodySize <= 0 {
		maxBodySize = 5 * 1024 * 1024
	}
	return &SolverHandler{service: svc, maxBodySize: maxBodySize}
}

// Solve godoc
// @Summary Solve an uploaded tutorial sheet
// @Description Store the uploaded PDF and return worked solutions keyed by question label
// @Tags Solver
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF tutorial sheet, max 5MB"
// @Param questions formData string true "Question text extracted from the sheet"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /solver [post]
func (h *SolverHandler) Solve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	// Reject oversized bodies before buffering the multipart form. The form
	// itself is slightly larger than the file, so leave headroom.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize+64*1024)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a PDF file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	res, err := h.service.Solve(c.Request.Context(), claims.UserID, service.SolverUpload{
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
		Questions:   c.PostForm("questions"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
