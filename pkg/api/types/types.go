package types

import (
	"time"

	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

// --- Request DTOs ---

// StartLearnRequest is the request body for POST /learn/start
type StartLearnRequest struct {
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SaveCodeRequest is the request body for POST /learn/save
type SaveCodeRequest struct {
	Name  string   `json:"name" binding:"required"`
	Tags  []string `json:"tags"`
	Notes string   `json:"notes"`
}

// UpdateCodeRequest is the request body for PATCH /codes/:id. Nil fields are
// left untouched.
type UpdateCodeRequest struct {
	Name      *string  `json:"name"`
	CarrierHz *int     `json:"carrier_hz"`
	Pulses    []int    `json:"pulses"`
	Tags      []string `json:"tags"`
	Notes     *string  `json:"notes"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status       string    `json:"status"`
	Blaster      string    `json:"blaster"`
	DeviceID     string    `json:"device_id"`
	SessionState string    `json:"session_state"`
	Timestamp    time.Time `json:"timestamp"`
}

// CodeEntry is one stored code in API responses
type CodeEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CarrierHz int       `json:"carrier_hz"`
	Pulses    []int     `json:"pulses"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CodeFromStore converts a persisted code to its API shape.
func CodeFromStore(c *store.StoredCode) CodeEntry {
	return CodeEntry{
		ID:        c.ID,
		Name:      c.Name,
		CarrierHz: c.CarrierHz,
		Pulses:    c.Pulses,
		Tags:      c.Tags,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListCodesResponse is returned from GET /codes
type ListCodesResponse struct {
	Codes []CodeEntry `json:"codes"`
	Count int         `json:"count"`
}

// CodeResponse is returned from single-code endpoints
type CodeResponse struct {
	Code CodeEntry `json:"code"`
}

// SendResponse is returned after a transmit
type SendResponse struct {
	Status     string    `json:"status"`
	CarrierHz  int       `json:"carrier_hz"`
	PulseCount int       `json:"pulse_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// PendingCode is a captured-but-unsaved code in learn responses
type PendingCode struct {
	CarrierHz  int    `json:"carrier_hz"`
	Pulses     []int  `json:"pulses"`
	PulseCount int    `json:"pulse_count"`
	Timestamp  string `json:"timestamp"`
	DeviceID   string `json:"device_id"`
}

// StartLearnResponse is returned from POST /learn/start
type StartLearnResponse struct {
	Status         string    `json:"status"`
	State          string    `json:"state"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// LearnStatusResponse is returned from GET /learn/status
type LearnStatusResponse struct {
	State   string       `json:"state"`
	Pending *PendingCode `json:"pending,omitempty"`
}

// CancelLearnResponse is returned from POST /learn/cancel
type CancelLearnResponse struct {
	Status string `json:"status"`
}

// DeviceResponse is returned from GET /device
type DeviceResponse struct {
	Device *store.Device `json:"device"`
}
