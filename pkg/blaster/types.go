package blaster

// LearnedEvent is the out-of-band notification a transceiver emits after
// capturing a waveform in learning mode. Firmware sends the pulse train as a
// JSON-encoded string in pulses_json; a native pulses array is accepted as a
// fallback for newer firmware revisions.
type LearnedEvent struct {
	DeviceID   string `json:"device_id"`
	CarrierHz  int    `json:"carrier_hz"`
	PulsesJSON string `json:"pulses_json,omitempty"`
	Pulses     []int  `json:"pulses,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	RSSI       int    `json:"rssi,omitempty"`
}

// HasPulsesJSON reports whether the event carries the pre-encoded pulse form.
func (e *LearnedEvent) HasPulsesJSON() bool {
	return e.PulsesJSON != ""
}

// Learning session defaults.
const (
	// DefaultLearningTimeoutSeconds bounds how long a session waits for a
	// capture before resolving to timeout.
	DefaultLearningTimeoutSeconds = 30

	// MaxPulseArrayLength is the hard cap on captured pulse trains.
	MaxPulseArrayLength = 2000
)

// DefaultLearningSwitch is the name of the learning-mode switch exposed by
// the stock firmware.
const DefaultLearningSwitch = "ir_learning_mode"
