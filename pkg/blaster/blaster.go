package blaster

import "context"

// Blaster defines the command surface of an IR transceiver. Implementations
// talk to real hardware (serial firmware) or stand in for it when no device
// is attached.
type Blaster interface {
	// DeviceID returns the identifier the hardware reports in learned events.
	DeviceID() string

	// SetLearningMode toggles the transceiver's waveform-capture switch.
	// The call blocks until the firmware acknowledges or the transport
	// timeout elapses.
	SetLearningMode(ctx context.Context, on bool) error

	// Transmit replays a raw IR waveform at the given carrier frequency.
	Transmit(ctx context.Context, carrierHz int, pulses []int) error

	// IsConnected returns true if the transport is up
	IsConnected() bool

	// Close disconnects the transport
	Close()
}

// EventSubscriber delivers learned events to any number of consumers.
// A single subscriber may carry events for several physical devices;
// consumers filter by device ID.
type EventSubscriber interface {
	// Subscribe returns a channel that receives learned events
	Subscribe() chan LearnedEvent

	// Unsubscribe removes a subscription and closes its channel
	Unsubscribe(ch chan LearnedEvent)
}
