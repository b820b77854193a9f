package handlers

import (
	"net/http"

	"github.com/RustMQ/rusted-iron/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// respondError writes the error response matching err. Server side failures
// are also attached to the context so the error middleware logs them.
func respondError(c *gin.Context, err error) {
	status, title := dto.StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, dto.NewErrorResponse(title, err.Error()))
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request", err.Error()))
}
