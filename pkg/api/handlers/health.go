package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaycollett/OpenIRBlaster/pkg/api/types"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	hub *hub.Hub
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(h *hub.Hub) *HealthHandler {
	return &HealthHandler{hub: h}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the IR transceiver
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Transceiver is disconnected"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	info := h.hub.HealthCheck()

	blasterStatus := "disconnected"
	if info.Connected {
		blasterStatus = "connected"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !info.Connected {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:       status,
		Blaster:      blasterStatus,
		DeviceID:     info.DeviceID,
		SessionState: string(info.Session),
		Timestamp:    time.Now(),
	})
}
