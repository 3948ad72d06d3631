package lead

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the intake form routes. submit runs before
// the submission handler (body limits and the like).
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler, submit ...gin.HandlerFunc) {
	r.GET("/form", handler.GetForm)
	r.POST("/leads", append(submit, handler.SubmitLead)...)
}

// RegisterAdminRoutes registers admin lead routes
func RegisterAdminRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", handler.ListLeads)
		leads.PATCH("", handler.UpdateStatus)
		leads.GET("/stats", handler.GetStats)
		leads.GET("/ws", handler.Events)
		leads.GET("/:id", handler.GetLead)
		leads.POST("/:id/reach-out", handler.ReachOut)
	}
}
