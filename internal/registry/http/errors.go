package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

// fail writes the error response for err. Unexpected errors are logged with
// their stack.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case domain.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Detail: err.Error()})
	default:
		h.log.Error("registry request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("error", fmt.Sprintf("%+v", err)))
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	}
}
