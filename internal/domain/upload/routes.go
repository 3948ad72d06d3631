package upload

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes registers resume download under the admin group.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/resumes/:id", h.Download)
}
