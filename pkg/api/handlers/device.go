package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycollett/OpenIRBlaster/pkg/api/types"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
)

// DeviceHandler handles device record and introspection endpoints
type DeviceHandler struct {
	hub *hub.Hub
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(h *hub.Hub) *DeviceHandler {
	return &DeviceHandler{hub: h}
}

// GetDevice handles GET /device
// @Summary      Get the transceiver record
// @Description  Returns the device identity and the last-learned snapshot
// @Tags         device
// @Produce      json
// @Success      200  {object}  types.DeviceResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /device [get]
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	device, err := h.hub.Device(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{Device: device})
}

// Diagnostics handles GET /diagnostics
// @Summary      Collect diagnostics
// @Description  Returns a redacted support dump; pulse trains are reduced to their lengths
// @Tags         device
// @Produce      json
// @Success      200  {object}  hub.Diagnostics
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /diagnostics [get]
func (h *DeviceHandler) Diagnostics(c *gin.Context) {
	diag, err := h.hub.CollectDiagnostics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, diag)
}

// Export handles GET /export
// @Summary      Export the full store
// @Description  Returns a versioned snapshot of the device record and all stored codes
// @Tags         device
// @Produce      json
// @Success      200  {object}  store.Snapshot
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /export [get]
func (h *DeviceHandler) Export(c *gin.Context) {
	snapshot, err := h.hub.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
