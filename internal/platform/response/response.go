// Package response writes the JSON envelopes returned by every handler.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// Success writes a 200 response with the given body.
func Success(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created writes a 201 response with the given body.
func Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Message writes {message} with the given status and aborts the chain.
func Message(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// BadRequest writes a 400 {message}.
func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message)
}

// Error maps err onto its HTTP status and writes {message}. The error is
// attached to the context so the request logger records the cause.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperror.KindOf(err)
	Message(c, apperror.HTTPStatus(kind), apperror.PublicMessage(err))
}

// Page is the envelope for paginated collections.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPage builds a Page, computing the page count from total and limit.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{Items: items, Page: page, Limit: limit, Total: total, TotalPages: pages}
}
