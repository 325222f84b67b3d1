package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps err to its HTTP status and writes it as {"error": ...}.
// Internal errors are logged and answered with fallback instead of the cause.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.StatusCode(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
	default:
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}
