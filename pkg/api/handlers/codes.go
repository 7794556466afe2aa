package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaycollett/OpenIRBlaster/pkg/api/types"
	"github.com/jaycollett/OpenIRBlaster/pkg/blaster/schema"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

// CodesHandler handles stored-code CRUD and transmit endpoints
type CodesHandler struct {
	hub       *hub.Hub
	validator *schema.Validator
}

// NewCodesHandler creates a new codes handler
func NewCodesHandler(h *hub.Hub, validator *schema.Validator) *CodesHandler {
	return &CodesHandler{hub: h, validator: validator}
}

// sendOverrides is the optional transmit override body. Zero values defer to
// the stored code.
type sendOverrides struct {
	CarrierHz int   `json:"carrier_hz"`
	Code      []int `json:"code"`
}

// transmitPayload renders a transmit request the way it travels on the wire
// so the schema validator sees JSON-shaped values.
func transmitPayload(carrierHz int, pulses []int) map[string]any {
	raw, _ := json.Marshal(map[string]any{
		"carrier_hz": carrierHz,
		"code":       pulses,
	})
	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)
	return payload
}

// ListCodes handles GET /codes
// @Summary      List stored codes
// @Description  Returns all stored IR codes ordered by creation time
// @Tags         codes
// @Produce      json
// @Success      200  {object}  types.ListCodesResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /codes [get]
func (h *CodesHandler) ListCodes(c *gin.Context) {
	codes, err := h.hub.ListCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]types.CodeEntry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, types.CodeFromStore(code))
	}

	c.JSON(http.StatusOK, types.ListCodesResponse{
		Codes: entries,
		Count: len(entries),
	})
}

// GetCode handles GET /codes/:id
// @Summary      Get a stored code
// @Description  Returns a single stored IR code by its id
// @Tags         codes
// @Produce      json
// @Param        id   path      string  true  "Code id"
// @Success      200  {object}  types.CodeResponse
// @Failure      404  {object}  types.ErrorResponse  "Code not found"
// @Router       /codes/{id} [get]
func (h *CodesHandler) GetCode(c *gin.Context) {
	code, err := h.hub.GetCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CodeResponse{Code: types.CodeFromStore(code)})
}

// UpdateCode handles PATCH /codes/:id
// @Summary      Update a stored code
// @Description  Partially updates a stored code. The id never changes, even on rename.
// @Tags         codes
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Code id"
// @Param        request  body      types.UpdateCodeRequest  true  "Fields to update"
// @Success      200      {object}  types.CodeResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Code not found"
// @Failure      409      {object}  types.ErrorResponse  "Name already in use"
// @Router       /codes/{id} [patch]
func (h *CodesHandler) UpdateCode(c *gin.Context) {
	var req types.UpdateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	code, err := h.hub.UpdateCode(c.Request.Context(), c.Param("id"), store.CodePatch{
		Name:      req.Name,
		CarrierHz: req.CarrierHz,
		Pulses:    req.Pulses,
		Tags:      req.Tags,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CodeResponse{Code: types.CodeFromStore(code)})
}

// DeleteCode handles DELETE /codes/:id
// @Summary      Delete a stored code
// @Description  Removes a stored code permanently
// @Tags         codes
// @Produce      json
// @Param        id   path  string  true  "Code id"
// @Success      204  "Code deleted"
// @Failure      404  {object}  types.ErrorResponse  "Code not found"
// @Router       /codes/{id} [delete]
func (h *CodesHandler) DeleteCode(c *gin.Context) {
	if err := h.hub.DeleteCode(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SendCode handles POST /codes/:id/send
// @Summary      Transmit a stored code
// @Description  Transmits a stored code, with optional per-send overrides for carrier frequency and pulse train
// @Tags         codes
// @Accept       json
// @Produce      json
// @Param        id       path      string         true   "Code id"
// @Param        request  body      object         false  "Optional overrides (carrier_hz, code)"
// @Success      200      {object}  types.SendResponse
// @Failure      400      {object}  types.ErrorResponse  "Validation error"
// @Failure      404      {object}  types.ErrorResponse  "Code not found"
// @Failure      503      {object}  types.ErrorResponse  "Blaster disconnected"
// @Failure      504      {object}  types.ErrorResponse  "Request timed out"
// @Router       /codes/{id}/send [post]
func (h *CodesHandler) SendCode(c *gin.Context) {
	ctx := c.Request.Context()

	var overrides sendOverrides
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body",
			})
			return
		}
	}

	code, err := h.hub.GetCode(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	carrierHz := code.CarrierHz
	if overrides.CarrierHz > 0 {
		carrierHz = overrides.CarrierHz
	}
	pulses := code.Pulses
	if len(overrides.Code) > 0 {
		pulses = overrides.Code
	}

	if err := h.validator.Validate(schema.TransmitSchema(), transmitPayload(carrierHz, pulses)); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := h.hub.SendCode(ctx, "", carrierHz, pulses); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SendResponse{
		Status:     "sent",
		CarrierHz:  carrierHz,
		PulseCount: len(pulses),
		Timestamp:  time.Now(),
	})
}

// SendRaw handles POST /send
// @Summary      Transmit a raw code
// @Description  Transmits a one-off pulse train without storing it
// @Tags         codes
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "Transmit payload (carrier_hz, code)"
// @Success      200      {object}  types.SendResponse
// @Failure      400      {object}  types.ErrorResponse  "Validation error"
// @Failure      503      {object}  types.ErrorResponse  "Blaster disconnected"
// @Failure      504      {object}  types.ErrorResponse  "Request timed out"
// @Router       /send [post]
func (h *CodesHandler) SendRaw(c *gin.Context) {
	var req sendOverrides
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.Validate(schema.TransmitSchema(), transmitPayload(req.CarrierHz, req.Code)); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := h.hub.SendCode(c.Request.Context(), "", req.CarrierHz, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SendResponse{
		Status:     "sent",
		CarrierHz:  req.CarrierHz,
		PulseCount: len(req.Code),
		Timestamp:  time.Now(),
	})
}
