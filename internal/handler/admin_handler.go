package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// AdminHandler handles admin dashboard requests.
type AdminHandler struct {
	bookings *application.BookingService
	admin    *application.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, admin *application.AdminService) *AdminHandler {
	return &AdminHandler{bookings: bookings, admin: admin}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireOperation(auth.OpReadAdminOverview))
	{
		admin.GET("/overview", h.Overview)
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
	}
}

// Overview handles GET /api/admin/overview.
func (h *AdminHandler) Overview(c *gin.Context) {
	result, err := h.admin.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c, 20)

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewPage(bookings, total, page, limit))
}

// BookingStats handles GET /api/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if page > application.MaxPage {
		page = application.MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > application.MaxSearchLimit {
		limit = application.MaxSearchLimit
	}

	return page, limit
}
