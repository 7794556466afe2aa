package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycollett/OpenIRBlaster/pkg/api/types"
	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

// respondError maps hub and store errors onto HTTP status codes. Every
// handler funnels its terminal errors through here so the mapping stays in
// one place.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Code not found",
		})
	case errors.Is(err, store.ErrDuplicateName):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "duplicate_name",
			Message: err.Error(),
		})
	case errors.Is(err, hub.ErrNoPendingCode):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "no_pending_code",
			Message: "No captured code is waiting; start a learning session first",
		})
	case errors.Is(err, hub.ErrLearningActive):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "learning_active",
			Message: "A learning session is already in progress",
		})
	case errors.Is(err, blaster.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, blaster.ErrNotConnected):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "blaster_disconnected",
			Message: err.Error(),
		})
	case errors.Is(err, blaster.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Request timed out waiting for blaster response",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
