package mcp

import (
	"time"

	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status       string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Blaster      string `json:"blaster" jsonschema:"description=Transceiver connection status"`
	DeviceID     string `json:"device_id" jsonschema:"description=Transceiver device identifier"`
	SessionState string `json:"session_state" jsonschema:"description=Learning session state"`
	Timestamp    string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Codes Tool ---

// ListCodesOutput is the output for the list_codes tool
type ListCodesOutput struct {
	Codes []CodeInfo `json:"codes" jsonschema:"description=List of stored codes"`
	Count int        `json:"count" jsonschema:"description=Total number of codes"`
}

// CodeInfo represents a stored code in tool outputs
type CodeInfo struct {
	ID         string    `json:"id" jsonschema:"description=Code id (slug)"`
	Name       string    `json:"name" jsonschema:"description=Display name"`
	CarrierHz  int       `json:"carrier_hz" jsonschema:"description=Carrier frequency in Hz"`
	PulseCount int       `json:"pulse_count" jsonschema:"description=Number of pulse durations"`
	Pulses     []int     `json:"pulses,omitempty" jsonschema:"description=Signed pulse durations in microseconds"`
	Tags       []string  `json:"tags,omitempty" jsonschema:"description=Tags"`
	Notes      string    `json:"notes,omitempty" jsonschema:"description=Free-form notes"`
	CreatedAt  time.Time `json:"created_at" jsonschema:"description=Creation time"`
}

// CodeToInfo converts a stored code to CodeInfo, optionally including the
// full pulse train.
func CodeToInfo(c *store.StoredCode, withPulses bool) CodeInfo {
	info := CodeInfo{
		ID:         c.ID,
		Name:       c.Name,
		CarrierHz:  c.CarrierHz,
		PulseCount: len(c.Pulses),
		Tags:       c.Tags,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
	if withPulses {
		info.Pulses = c.Pulses
	}
	return info
}

// --- Get Code Tool ---

// GetCodeOutput is the output for the get_code tool
type GetCodeOutput struct {
	Code CodeInfo `json:"code" jsonschema:"description=Stored code with full pulse train"`
}

// --- Rename Code Tool ---

// RenameCodeOutput is the output for the rename_code tool
type RenameCodeOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the rename succeeded"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Delete Code Tool ---

// DeleteCodeOutput is the output for the delete_code tool
type DeleteCodeOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the deletion succeeded"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Send Tools ---

// SendCodeOutput is the output for the send_code and send_pending tools
type SendCodeOutput struct {
	Success    bool   `json:"success" jsonschema:"description=Whether the transmit succeeded"`
	CarrierHz  int    `json:"carrier_hz" jsonschema:"description=Carrier frequency used"`
	PulseCount int    `json:"pulse_count" jsonschema:"description=Number of pulses transmitted"`
	Message    string `json:"message" jsonschema:"description=Status message"`
}

// --- Learning Tools ---

// LearnStartOutput is the output for the learn_start tool
type LearnStartOutput struct {
	Success        bool   `json:"success" jsonschema:"description=Whether learning mode was armed"`
	State          string `json:"state" jsonschema:"description=Session state after arming"`
	TimeoutSeconds int    `json:"timeout_seconds" jsonschema:"description=How long the session waits for a capture"`
	Message        string `json:"message" jsonschema:"description=Status message"`
}

// PendingInfo represents a captured code in learn_status output
type PendingInfo struct {
	CarrierHz  int    `json:"carrier_hz" jsonschema:"description=Captured carrier frequency in Hz"`
	PulseCount int    `json:"pulse_count" jsonschema:"description=Number of captured pulses"`
	Timestamp  string `json:"timestamp" jsonschema:"description=Capture time"`
}

// LearnStatusOutput is the output for the learn_status tool
type LearnStatusOutput struct {
	State   string       `json:"state" jsonschema:"description=Session state (idle/armed/received/cancelled/timeout)"`
	Pending *PendingInfo `json:"pending,omitempty" jsonschema:"description=Captured code awaiting save"`
}

// SaveCodeOutput is the output for the save_code tool
type SaveCodeOutput struct {
	Success bool     `json:"success" jsonschema:"description=Whether the save succeeded"`
	Code    CodeInfo `json:"code" jsonschema:"description=The saved code"`
	Message string   `json:"message" jsonschema:"description=Status message"`
}

// CancelLearningOutput is the output for the cancel_learning tool
type CancelLearningOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the session was reset"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Device Tool ---

// GetDeviceOutput is the output for the get_device tool
type GetDeviceOutput struct {
	Device *store.Device `json:"device" jsonschema:"description=Transceiver record with last-learned snapshot"`
}
