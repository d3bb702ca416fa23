package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/application"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/middleware"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service *application.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *application.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes registers the public and host listing routes.
func (h *ListingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	listings := r.Group("/listings")
	{
		listings.GET("", h.SearchListings)
		listings.GET("/:id", h.GetListing)
		listings.POST("", authMW, h.CreateListing)
		listings.PUT("/:id", authMW, h.UpdateListing)
		listings.DELETE("/:id", authMW, h.DeleteListing)
	}
}

// SearchListings handles GET /api/listings.
func (h *ListingHandler) SearchListings(c *gin.Context) {
	page, limit := parsePagination(c, application.DefaultSearchLimit)
	q := application.SearchListingsQuery{
		Q:        queryString(c, "q"),
		Location: queryString(c, "location"),
		MinPrice: queryFloat(c, "minPrice"),
		MaxPrice: queryFloat(c, "maxPrice"),
		Guests:   queryInt(c, "guests"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.service.SearchListings(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetListing handles GET /api/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	result, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"listing": result})
}

// CreateListing handles POST /api/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	host, _ := middleware.GetPrincipal(c)

	var req application.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title, description, pricePerNight, location and maxGuests are required")
		return
	}

	result, err := h.service.CreateListing(c.Request.Context(), host, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"listing": result})
}

// UpdateListing handles PUT /api/listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	caller, _ := middleware.GetPrincipal(c)
	id, ok := listingID(c)
	if !ok {
		return
	}

	var req application.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.UpdateListing(c.Request.Context(), caller, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"listing": result})
}

// DeleteListing handles DELETE /api/listings/:id.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	caller, _ := middleware.GetPrincipal(c)
	id, ok := listingID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// listingID parses the :id parameter. Malformed ids cannot name a listing,
// so they answer 404.
func listingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.NewNotFoundError("Listing", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func queryString(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryFloat returns nil for absent or unparsable values, which drops the
// filter.
func queryFloat(c *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Query(key)), 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &v
}
