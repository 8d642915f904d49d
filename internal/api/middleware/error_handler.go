package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mateuse/Gpu-Monitor/internal/api/dto"
)

// ErrorHandlerMiddleware turns errors attached to the gin context into a
// uniform 500 envelope. Handlers that already wrote a response keep it;
// the error is still logged.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	logger := slog.Default().With("component", "http")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		logger.Error("handler error",
			"error", last.Error(),
			"error_count", len(c.Errors),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Internal Server Error",
			Message:   last.Error(),
			Timestamp: time.Now().UTC(),
		})
	}
}
