package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes registers admin auth routes. protected must already run AdminJWTAuth.
func RegisterRoutes(public, protected *gin.RouterGroup, handler *AuthHandler) {
	public.POST("/auth/login", handler.Login)
	public.POST("/auth/logout", handler.Logout)
	protected.GET("/auth/me", handler.GetMe)
}
