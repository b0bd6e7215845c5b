package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/collection"
	"backoffice/internal/repository"
	"backoffice/internal/services"
	"backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// respondError writes err as {"error": ...} with the matching status code.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrDuplicateProduct),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrOrderLocked),
		errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInactiveUser), errors.Is(err, services.ErrInsufficientRole):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidResetCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrResetUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrStorage):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
	default:
		log.Printf("Unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// listQuery reads the list criteria shared by every collection endpoint.
// Filters not supported by a collection are ignored by its schema.
func listQuery(c *gin.Context) collection.Query {
	q := collection.Query{
		Search:   c.Query("search"),
		Filters:  map[string]string{},
		MinPrice: strings.TrimSpace(c.Query("min_price")),
		MaxPrice: strings.TrimSpace(c.Query("max_price")),
		Sort:     c.Query("sort"),
		Page:     1,
	}
	for _, name := range []string{services.FilterStatus, services.FilterRole, services.FilterBrand, services.FilterColor} {
		if value := c.Query(name); value != "" {
			q.Filters[name] = value
		}
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	return q
}
