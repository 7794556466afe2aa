// Package hub ties the transceiver, the learning session and the code store
// together into the operation surface the API and MCP servers expose. All
// cross-cutting rules live here: name pre-checks before a save, the
// last-learned snapshot, send-time override resolution.
package hub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
	"github.com/jaycollett/OpenIRBlaster/pkg/learning"
	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

var (
	// ErrNoPendingCode indicates a save or send was requested with no
	// captured code waiting.
	ErrNoPendingCode = errors.New("no pending learned code")

	// ErrLearningActive indicates a start was requested while a session is
	// already armed.
	ErrLearningActive = errors.New("learning session already active")
)

// LearnStatus is the externally visible view of the learning session.
type LearnStatus struct {
	State   learning.State        `json:"state"`
	Pending *learning.LearnedCode `json:"pending,omitempty"`
}

// Health summarizes liveness for monitoring consumers.
type Health struct {
	DeviceID  string         `json:"device_id"`
	Connected bool           `json:"connected"`
	Session   learning.State `json:"session_state"`
}

// CodeSummary is the redacted per-code entry used in diagnostics. Pulse
// trains are reduced to their length so a diagnostics dump never leaks the
// codes themselves.
type CodeSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CarrierHz  int    `json:"carrier_hz"`
	PulseCount int    `json:"pulse_count"`
}

// Diagnostics is the support dump: device identity, store shape and session
// state without any raw waveform data.
type Diagnostics struct {
	Device        *store.Device  `json:"device"`
	Connected     bool           `json:"connected"`
	Session       learning.State `json:"session_state"`
	SchemaVersion int            `json:"schema_version"`
	StorePath     string         `json:"store_path"`
	CodeCount     int            `json:"code_count"`
	Codes         []CodeSummary  `json:"codes"`
}

// Hub is the single orchestrator for one transceiver and its store.
type Hub struct {
	db      *store.DB
	codes   store.CodeStore
	blaster blaster.Blaster
	session *learning.Session

	unsubscribe func()
}

// New wires a hub over an opened store, a transceiver and its learning
// session. The hub registers a session observer that persists the
// last-learned snapshot the moment a capture lands.
func New(db *store.DB, b blaster.Blaster, session *learning.Session) *Hub {
	h := &Hub{
		db:      db,
		codes:   db.Codes(),
		blaster: b,
		session: session,
	}
	h.unsubscribe = session.Subscribe(h.onSessionChange)
	return h
}

// Close releases the hub's session observer. The store and transceiver are
// owned by the caller and closed separately.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// onSessionChange records each successful capture on the device record. The
// name stays empty until SavePending fills it in.
func (h *Hub) onSessionChange(state learning.State, pending *learning.LearnedCode) {
	if state != learning.StateReceived || pending == nil {
		return
	}

	at := time.Now().UTC()
	if t, err := time.Parse(time.RFC3339, pending.Timestamp); err == nil {
		at = t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.db.SetLastLearned(ctx, "", at, len(pending.Pulses)); err != nil {
		log.Error().Err(err).Msg("Failed to record last-learned snapshot")
	}
}

// --- learning ---

// StartLearning arms the learning session. A non-positive timeout keeps the
// session's current setting.
func (h *Hub) StartLearning(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		h.session.SetTimeout(timeout)
	}
	if h.session.State() == learning.StateArmed {
		return ErrLearningActive
	}
	if !h.session.Start(ctx) {
		return fmt.Errorf("failed to arm learning session for %s", h.session.DeviceID())
	}
	return nil
}

// LearnStatus reports the session state and any captured code awaiting save.
func (h *Hub) LearnStatus() LearnStatus {
	return LearnStatus{
		State:   h.session.State(),
		Pending: h.session.PendingCode(),
	}
}

// CancelLearning discards any pending code and disarms an armed session.
func (h *Hub) CancelLearning(ctx context.Context) {
	h.session.Clear(ctx)
}

// SavePending persists the captured code under the given name, updates the
// last-learned snapshot and resets the session. The name must be non-empty
// after trimming and must not collide case-insensitively with an existing
// code's name; the store itself only deduplicates ids, so the check lives
// here where the user-facing save flow does.
func (h *Hub) SavePending(ctx context.Context, name string, tags []string, notes string) (*store.StoredCode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", blaster.ErrValidation)
	}

	pending := h.session.PendingCode()
	if pending == nil {
		return nil, ErrNoPendingCode
	}

	taken, err := h.codes.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, store.ErrDuplicateName
	}

	code, err := h.codes.Add(ctx, name, pending.CarrierHz, pending.Pulses, tags, notes)
	if err != nil {
		return nil, err
	}

	if err := h.db.SetLastLearned(ctx, code.Name, time.Now().UTC(), len(code.Pulses)); err != nil {
		log.Error().Err(err).Str("code", code.ID).Msg("Failed to update last-learned snapshot")
	}

	h.session.Clear(ctx)

	log.Info().
		Str("code", code.ID).
		Str("name", code.Name).
		Int("pulses", len(code.Pulses)).
		Msg("Learned code saved")

	return code, nil
}

// --- transmit ---

// SendCode transmits a stored code, with optional per-send overrides for
// carrier and pulse train. With an empty id both overrides are required.
func (h *Hub) SendCode(ctx context.Context, id string, carrierHz int, pulses []int) error {
	if id != "" {
		code, err := h.codes.Get(ctx, id)
		if err != nil {
			return err
		}
		if carrierHz <= 0 {
			carrierHz = code.CarrierHz
		}
		if len(pulses) == 0 {
			pulses = code.Pulses
		}
	}

	if carrierHz <= 0 {
		return fmt.Errorf("%w: carrier frequency must be positive", blaster.ErrValidation)
	}
	if len(pulses) == 0 {
		return fmt.Errorf("%w: pulse train must not be empty", blaster.ErrValidation)
	}
	if len(pulses) > blaster.MaxPulseArrayLength {
		return fmt.Errorf("%w: pulse array too large (max %d)", blaster.ErrValidation, blaster.MaxPulseArrayLength)
	}

	return h.blaster.Transmit(ctx, carrierHz, pulses)
}

// SendPending replays the captured-but-unsaved code for verification.
func (h *Hub) SendPending(ctx context.Context) error {
	pending := h.session.PendingCode()
	if pending == nil {
		return ErrNoPendingCode
	}
	return h.blaster.Transmit(ctx, pending.CarrierHz, pending.Pulses)
}

// --- codes ---

func (h *Hub) ListCodes(ctx context.Context) ([]*store.StoredCode, error) {
	codes, err := h.codes.List(ctx)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []*store.StoredCode{}
	}
	return codes, nil
}

func (h *Hub) GetCode(ctx context.Context, id string) (*store.StoredCode, error) {
	return h.codes.Get(ctx, id)
}

func (h *Hub) UpdateCode(ctx context.Context, id string, patch store.CodePatch) (*store.StoredCode, error) {
	return h.codes.Update(ctx, id, patch)
}

// DeleteCode removes a stored code, reporting not-found as an error so the
// transports can map it to their own status codes.
func (h *Hub) DeleteCode(ctx context.Context, id string) error {
	deleted, err := h.codes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrCodeNotFound
	}
	log.Info().Str("code", id).Msg("Code deleted")
	return nil
}

// --- device and introspection ---

func (h *Hub) Device(ctx context.Context) (*store.Device, error) {
	return h.db.GetDevice(ctx)
}

func (h *Hub) Export(ctx context.Context) (*store.Snapshot, error) {
	return h.db.Export(ctx)
}

// HealthCheck reports transceiver connectivity and session state.
func (h *Hub) HealthCheck() Health {
	return Health{
		DeviceID:  h.blaster.DeviceID(),
		Connected: h.blaster.IsConnected(),
		Session:   h.session.State(),
	}
}

// CollectDiagnostics assembles the redacted support dump.
func (h *Hub) CollectDiagnostics(ctx context.Context) (*Diagnostics, error) {
	device, err := h.db.GetDevice(ctx)
	if err != nil {
		return nil, err
	}

	version, err := h.db.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	codes, err := h.codes.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CodeSummary, 0, len(codes))
	for _, c := range codes {
		summaries = append(summaries, CodeSummary{
			ID:         c.ID,
			Name:       c.Name,
			CarrierHz:  c.CarrierHz,
			PulseCount: len(c.Pulses),
		})
	}

	return &Diagnostics{
		Device:        device,
		Connected:     h.blaster.IsConnected(),
		Session:       h.session.State(),
		SchemaVersion: version,
		StorePath:     h.db.Path(),
		CodeCount:     len(summaries),
		Codes:         summaries,
	}, nil
}

// Session exposes the learning session for transports that stream state
// changes directly.
func (h *Hub) Session() *learning.Session {
	return h.session
}
