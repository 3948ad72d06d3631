package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leadintake/internal/pkg/response"
)

type AuthHandler struct {
	service *Service
}

func NewAuthHandler(service *Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Admin Login
// @Description Authenticate as admin and get JWT token
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, admin, err := h.service.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid username or password")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   h.service.TokenTTL(),
		"admin":        admin,
	})
}

// GetMe godoc
// @Summary Get current admin
// @Tags Admin Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	username := c.GetString(ctxUsername)
	if username == "" {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	response.Success(c, http.StatusOK, Admin{Username: username, Role: c.GetString(ctxRole)})
}

// Logout godoc
// @Summary Admin Logout
// @Description Tokens are stateless; the client drops its copy.
// @Tags Admin Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}
