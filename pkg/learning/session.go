// Package learning implements the per-device learning session state machine:
// arm the transceiver's capture mode, wait for a learned event, validate the
// captured waveform and hold it as the pending code until a consumer saves
// or discards it.
package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
)

// State is the session lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateArmed     State = "armed"
	StateReceived  State = "received"
	StateCancelled State = "cancelled"
	StateTimeout   State = "timeout"
)

// LearnedCode is a captured waveform held by the session until it is saved
// to the code store or discarded. It is never mutated after creation.
type LearnedCode struct {
	CarrierHz int    `json:"carrier_hz"`
	Pulses    []int  `json:"pulses"`
	Timestamp string `json:"timestamp"`
	DeviceID  string `json:"device_id"`
}

// Observer receives state-change notifications. The pending code is non-nil
// only for the received state.
type Observer func(state State, pending *LearnedCode)

// Session manages one learning session for a physical transceiver. At most
// one capture is in flight at a time; transitions are guarded by a
// compare-and-set on the state field so a racing timer and event resolve to
// exactly one terminal state.
type Session struct {
	deviceID  string
	blaster   blaster.Blaster
	events    blaster.EventSubscriber
	maxPulses int

	mu        sync.Mutex
	state     State
	starting  bool
	timeout   time.Duration
	pending   *LearnedCode
	timer     *time.Timer
	eventCh   chan blaster.LearnedEvent
	observers map[int]Observer
	nextObsID int
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout overrides the default learning timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithMaxPulses overrides the pulse array length cap.
func WithMaxPulses(n int) Option {
	return func(s *Session) { s.maxPulses = n }
}

// NewSession creates an idle session bound to one device. Events arriving on
// the subscriber for other device IDs are ignored, so several sessions may
// share a single event channel.
func NewSession(b blaster.Blaster, events blaster.EventSubscriber, opts ...Option) *Session {
	s := &Session{
		deviceID:  b.DeviceID(),
		blaster:   b,
		events:    events,
		maxPulses: blaster.MaxPulseArrayLength,
		state:     StateIdle,
		timeout:   blaster.DefaultLearningTimeoutSeconds * time.Second,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeviceID returns the device this session listens for.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingCode returns the captured code awaiting save, or nil.
func (s *Session) PendingCode() *LearnedCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// SetTimeout changes the timeout used by the next Start call.
func (s *Session) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.timeout = d
	s.mu.Unlock()
}

// Subscribe registers an observer and returns its unregister function.
// Observers may unregister at any time, including from inside their own
// callback.
func (s *Session) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Start arms the session: enables the hardware learning switch, subscribes
// to learned events and starts the timeout timer. Returns false without any
// state change if the session is not idle or the hardware call fails.
func (s *Session) Start(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != StateIdle || s.starting {
		state := s.state
		s.mu.Unlock()
		log.Warn().
			Str("device", s.deviceID).
			Str("state", string(state)).
			Msg("Cannot start learning: session not idle")
		return false
	}
	s.starting = true
	timeout := s.timeout
	s.mu.Unlock()

	// Arm the hardware first; a failure here must leave the session inert.
	if err := s.blaster.SetLearningMode(ctx, true); err != nil {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
		log.Error().Err(err).Str("device", s.deviceID).Msg("Failed to enable learning mode")
		return false
	}

	ch := s.events.Subscribe()

	s.mu.Lock()
	s.starting = false
	s.state = StateArmed
	s.eventCh = ch
	s.timer = time.AfterFunc(timeout, s.handleTimeout)
	s.mu.Unlock()

	go s.readEvents(ch)

	log.Info().
		Str("device", s.deviceID).
		Dur("timeout", timeout).
		Msg("Learning session armed")

	s.notify(StateArmed, nil)
	return true
}

// readEvents drains the subscription channel until it is closed by
// Unsubscribe during cleanup.
func (s *Session) readEvents(ch chan blaster.LearnedEvent) {
	for ev := range ch {
		s.handleEvent(context.Background(), ev)
	}
}

// handleEvent filters, validates and commits a learned event.
func (s *Session) handleEvent(ctx context.Context, ev blaster.LearnedEvent) {
	// Events for other devices on the shared channel are not ours.
	if ev.DeviceID != s.deviceID {
		log.Debug().
			Str("event_device", ev.DeviceID).
			Str("expected", s.deviceID).
			Msg("Ignoring learned event from different device")
		return
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state != StateArmed {
		log.Warn().
			Str("device", s.deviceID).
			Str("state", string(state)).
			Msg("Received learned event but session not armed")
		return
	}

	// Validation order matters: pulse format, carrier, emptiness, cap.
	pulses, err := decodePulses(&ev)
	if err != nil {
		log.Error().Err(err).Str("device", s.deviceID).Msg("Failed to parse pulses_json")
		s.cancel(ctx, "invalid pulse data format")
		return
	}

	if ev.CarrierHz <= 0 {
		log.Error().Int("carrier_hz", ev.CarrierHz).Msg("Invalid carrier_hz in learned event")
		s.cancel(ctx, "invalid carrier frequency")
		return
	}

	if len(pulses) == 0 {
		log.Error().Str("device", s.deviceID).Msg("Empty pulses array in learned event")
		s.cancel(ctx, "invalid pulse data")
		return
	}

	if len(pulses) > s.maxPulses {
		log.Error().
			Int("length", len(pulses)).
			Int("max", s.maxPulses).
			Msg("Pulse array too large")
		s.cancel(ctx, fmt.Sprintf("pulse array too large (max %d)", s.maxPulses))
		return
	}

	ts := ev.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}

	code := &LearnedCode{
		CarrierHz: ev.CarrierHz,
		Pulses:    pulses,
		Timestamp: ts,
		DeviceID:  ev.DeviceID,
	}

	if s.resolve(ctx, StateReceived, code) {
		log.Info().
			Int("carrier_hz", code.CarrierHz).
			Int("pulses", len(code.Pulses)).
			Msg("Learned code captured")
	}
}

// decodePulses extracts the pulse train from an event, preferring the
// JSON-encoded form the firmware sends.
func decodePulses(ev *blaster.LearnedEvent) ([]int, error) {
	if !ev.HasPulsesJSON() {
		return ev.Pulses, nil
	}
	var pulses []int
	if err := json.Unmarshal([]byte(ev.PulsesJSON), &pulses); err != nil {
		return nil, fmt.Errorf("decode pulses_json: %w", err)
	}
	return pulses, nil
}

// handleTimeout fires once, timeout after Start. It loses cleanly to any
// event that resolved the session first.
func (s *Session) handleTimeout() {
	s.mu.Lock()
	timeout := s.timeout
	s.mu.Unlock()

	if s.resolve(context.Background(), StateTimeout, nil) {
		log.Warn().
			Str("device", s.deviceID).
			Dur("timeout", timeout).
			Msg("Learning session timed out")
	}
}

// cancel resolves an armed session to cancelled with a reason.
func (s *Session) cancel(ctx context.Context, reason string) {
	if s.resolve(ctx, StateCancelled, nil) {
		log.Info().Str("device", s.deviceID).Str("reason", reason).Msg("Learning session cancelled")
	}
}

// resolve commits an armed -> terminal transition. The state check and the
// commit happen under one lock acquisition so a racing timer and event
// cannot both win; the loser returns false and performs no side effects.
func (s *Session) resolve(ctx context.Context, to State, code *LearnedCode) bool {
	s.mu.Lock()
	if s.state != StateArmed {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.pending = code
	timer := s.timer
	s.timer = nil
	ch := s.eventCh
	s.eventCh = nil
	s.mu.Unlock()

	s.disarm(ctx, timer, ch)
	s.notify(to, code)
	return true
}

// disarm performs terminal-transition cleanup: stop the timer, drop the
// event subscription and switch the hardware out of learning mode. The
// hardware call is best-effort; a stuck switch is recovered by the next
// session's own cleanup.
func (s *Session) disarm(ctx context.Context, timer *time.Timer, ch chan blaster.LearnedEvent) {
	if timer != nil {
		timer.Stop()
	}
	if ch != nil {
		s.events.Unsubscribe(ch)
	}
	if err := s.blaster.SetLearningMode(ctx, false); err != nil {
		log.Error().Err(err).Str("device", s.deviceID).Msg("Failed to disable learning mode")
	}
}

// Clear drops any pending code and returns the session to idle. Clearing an
// armed session disarms the hardware first, same as a cancellation.
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	wasArmed := s.state == StateArmed
	s.state = StateIdle
	s.pending = nil
	timer := s.timer
	s.timer = nil
	ch := s.eventCh
	s.eventCh = nil
	s.mu.Unlock()

	if wasArmed {
		s.disarm(ctx, timer, ch)
	}

	s.notify(StateIdle, nil)
}

// Cleanup releases timers, subscriptions and observer registrations. Used
// when the owning configuration is being torn down, not on normal idle
// transitions.
func (s *Session) Cleanup() {
	s.mu.Lock()
	timer := s.timer
	s.timer = nil
	ch := s.eventCh
	s.eventCh = nil
	s.state = StateIdle
	s.pending = nil
	s.observers = make(map[int]Observer)
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if ch != nil {
		s.events.Unsubscribe(ch)
	}
}

// notify fans out a state change to a snapshot of the observer list, so an
// observer unregistering itself mid-callback cannot corrupt iteration. A
// panicking observer is logged and does not block delivery to the rest.
func (s *Session) notify(state State, code *LearnedCode) {
	s.mu.Lock()
	snapshot := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		snapshot = append(snapshot, fn)
	}
	s.mu.Unlock()

	for _, fn := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("device", s.deviceID).
						Msg("Learning session observer panicked")
				}
			}()
			fn(state, code)
		}()
	}
}
