package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// PaymentHandler handles checkout requests.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware(jwtManager))
	payments.POST("/checkout-session", h.CreateCheckoutSession)
}

// CreateCheckoutSession handles POST /api/payments/checkout-session.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	caller, _ := middleware.GetPrincipal(c)

	var req application.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bookingId, successUrl and cancelUrl are required")
		return
	}

	result, err := h.service.CreateCheckoutSession(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
