package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// AuthHandler handles registration, login and the current-user lookup.
type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers auth routes. limit guards the credential
// endpoints and may be nil.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, limit gin.HandlerFunc) {
	group := r.Group("/auth")
	credentials := []gin.HandlerFunc{}
	if limit != nil {
		credentials = append(credentials, limit)
	}
	group.POST("/register", append(credentials, h.Register)...)
	group.POST("/login", append(credentials, h.Login)...)
	group.GET("/me", middleware.AuthMiddleware(jwtManager), h.Me)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedEmail(err) {
			response.BadRequest(c, "Invalid email address")
			return
		}
		response.BadRequest(c, "Name, email and password are required")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedEmail(err) {
			response.BadRequest(c, "Invalid email address")
			return
		}
		response.BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	caller, _ := middleware.GetPrincipal(c)

	result, err := h.service.Me(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"user": result})
}
