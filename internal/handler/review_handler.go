package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// ReviewHandler handles HTTP requests for listing reviews.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers review routes.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", middleware.AuthMiddleware(jwtManager), h.CreateReview)
	}
}

// CreateReview handles POST /api/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	author, _ := middleware.GetPrincipal(c)

	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "listingId, rating and comment are required")
		return
	}

	result, err := h.service.CreateReview(c.Request.Context(), author, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"review": result})
}

// ListReviews handles GET /api/reviews?listingId=.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	raw := c.Query("listingId")
	if raw == "" {
		response.BadRequest(c, "listingId is required")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, apperror.NewNotFoundError("Listing", raw))
		return
	}

	result, err := h.service.ListListingReviews(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
