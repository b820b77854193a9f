package middleware

import (
	"log/slog"
	"net/http"

	"github.com/RustMQ/rusted-iron/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware logs errors attached to the context and answers
// with a generic error when the handler wrote nothing
func ErrorHandlerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()

		logger.Error("Request error",
			"error", err.Error(),
			"request_id", RequestID(c),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal Server Error", err.Error()))
		}
	}
}
