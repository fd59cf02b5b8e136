package handlers

import (
	"errors"
	"net/http"

	"terminalpay/internal/controller/apperror"

	"github.com/gin-gonic/gin"
)

// writeError maps the error taxonomy onto HTTP status codes. Gateway-side
// failures surface as 502 so callers can tell provider trouble from bad
// input.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrNoTransaction):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrOperationInFlight), errors.Is(err, apperror.ErrNoActiveGateway):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrNotSupported):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrTransport), errors.Is(err, apperror.ErrDevice):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		if _, ok := apperror.AsGatewayError(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
