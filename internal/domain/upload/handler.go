package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadintake/internal/pkg/response"
)

// Handler serves stored resumes to admins.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download godoc
// @Summary Download a lead resume
// @Tags Resumes
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Upload ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /resumes/{id} [get]
func (h *Handler) Download(c *gin.Context) {
	upload, path, err := h.service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			response.Error(c, http.StatusNotFound, "RESUME_NOT_FOUND", "Resume not found")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	c.Header("Content-Type", upload.MimeType)
	c.FileAttachment(path, upload.OriginalName)
}
