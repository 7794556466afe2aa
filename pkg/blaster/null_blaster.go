package blaster

import "context"

// NullBlaster is a no-op transceiver used when no serial device is attached.
// It allows the API to run in limited mode: stored codes remain browsable,
// but learning and transmit report the transport as down.
type NullBlaster struct {
	deviceID string
}

// NewNullBlaster creates a new NullBlaster.
func NewNullBlaster(deviceID string) *NullBlaster {
	return &NullBlaster{deviceID: deviceID}
}

func (b *NullBlaster) DeviceID() string {
	return b.deviceID
}

func (b *NullBlaster) SetLearningMode(ctx context.Context, on bool) error {
	return ErrNotConnected
}

func (b *NullBlaster) Transmit(ctx context.Context, carrierHz int, pulses []int) error {
	return ErrNotConnected
}

func (b *NullBlaster) IsConnected() bool {
	return false
}

func (b *NullBlaster) Close() {}

// NullEventSubscriber is a no-op event subscriber paired with NullBlaster.
type NullEventSubscriber struct{}

// NewNullEventSubscriber creates a new NullEventSubscriber.
func NewNullEventSubscriber() *NullEventSubscriber {
	return &NullEventSubscriber{}
}

func (s *NullEventSubscriber) Subscribe() chan LearnedEvent {
	// Channel is never sent to; callers should check IsConnected() on the blaster
	return make(chan LearnedEvent)
}

func (s *NullEventSubscriber) Unsubscribe(ch chan LearnedEvent) {
	close(ch)
}
