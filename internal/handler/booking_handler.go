package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/me", h.ListMyBookings)
		bookings.GET("/host", h.ListHostBookings)
	}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	guest, _ := middleware.GetPrincipal(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "listingId, checkIn, checkOut and guests are required")
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), guest, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"booking": result})
}

// ListMyBookings handles GET /api/bookings/me.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	guest, _ := middleware.GetPrincipal(c)

	items, err := h.service.ListMyBookings(c.Request.Context(), guest)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// ListHostBookings handles GET /api/bookings/host.
func (h *BookingHandler) ListHostBookings(c *gin.Context) {
	host, _ := middleware.GetPrincipal(c)

	items, err := h.service.ListHostBookings(c.Request.Context(), host)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"items": items})
}
