package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/logger"
	"github.com/gin-gonic/gin"
)

// serviceError maps the error taxonomy to HTTP responses. Unclassified
// errors are logged and returned as a generic 500 with no internal detail.
func serviceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrSelfDelete):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, apperrors.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Conflict"})
	default:
		logger.Error("unhandled error", "path", ctx.FullPath(), "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}

	return uint(value), true
}

// parseDate accepts RFC 3339 timestamps or plain dates. An empty string
// yields nil.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", value)

	if err != nil {
		return nil, err
	}

	return &t, nil
}
