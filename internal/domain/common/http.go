package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError maps a domain error onto its HTTP status and fixed
// user-facing message. Anything unmapped is a 500 with a generic message;
// the raw error is the caller's to log.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgBadRequest})
	case errors.Is(err, ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": MsgUnauthenticated})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": MsgForbidden})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": MsgNotFound})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": MsgConflict})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternal})
	}
}
