package learning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
)

const testDevice = "openirblaster-test123"

// fakeBlaster records learning-mode calls and can be told to fail them.
type fakeBlaster struct {
	mu         sync.Mutex
	deviceID   string
	failEnable bool
	modeCalls  []bool
	transmits  int
}

func newFakeBlaster() *fakeBlaster {
	return &fakeBlaster{deviceID: testDevice}
}

func (b *fakeBlaster) DeviceID() string { return b.deviceID }

func (b *fakeBlaster) SetLearningMode(ctx context.Context, on bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if on && b.failEnable {
		return errors.New("switch unreachable")
	}
	b.modeCalls = append(b.modeCalls, on)
	return nil
}

func (b *fakeBlaster) Transmit(ctx context.Context, carrierHz int, pulses []int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transmits++
	return nil
}

func (b *fakeBlaster) IsConnected() bool { return true }
func (b *fakeBlaster) Close()            {}

func (b *fakeBlaster) calls() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]bool, len(b.modeCalls))
	copy(out, b.modeCalls)
	return out
}

// fakeSubscriber is an in-memory event channel registry matching the
// serial transport's fan-out contract.
type fakeSubscriber struct {
	mu   sync.Mutex
	subs []chan blaster.LearnedEvent
}

func (f *fakeSubscriber) Subscribe() chan blaster.LearnedEvent {
	ch := make(chan blaster.LearnedEvent, 16)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch
}

func (f *fakeSubscriber) Unsubscribe(ch chan blaster.LearnedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, sub := range f.subs {
		if sub == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (f *fakeSubscriber) publish(ev blaster.LearnedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- ev
	}
}

func (f *fakeSubscriber) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func waitForState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("session state = %q, want %q", s.State(), want)
}

func validEvent() blaster.LearnedEvent {
	return blaster.LearnedEvent{
		DeviceID:   testDevice,
		CarrierHz:  38000,
		PulsesJSON: "[9000,-4500,560,-560]",
		Timestamp:  "2026-01-12T14:30:00-05:00",
	}
}

func TestInitialState(t *testing.T) {
	s := NewSession(newFakeBlaster(), &fakeSubscriber{})
	if s.State() != StateIdle {
		t.Errorf("initial state = %q, want idle", s.State())
	}
	if s.PendingCode() != nil {
		t.Error("expected no pending code initially")
	}
}

func TestStartArmsSession(t *testing.T) {
	b := newFakeBlaster()
	sub := &fakeSubscriber{}
	s := NewSession(b, sub)
	defer s.Cleanup()

	if !s.Start(context.Background()) {
		t.Fatal("Start returned false")
	}
	if s.State() != StateArmed {
		t.Fatalf("state = %q, want armed", s.State())
	}
	calls := b.calls()
	if len(calls) != 1 || !calls[0] {
		t.Errorf("learning mode calls = %v, want [true]", calls)
	}
	if sub.subscriberCount() != 1 {
		t.Errorf("subscriber count = %d, want 1", sub.subscriberCount())
	}
}

func TestStartFailsWhenNotIdle(t *testing.T) {
	s := NewSession(newFakeBlaster(), &fakeSubscriber{})
	defer s.Cleanup()

	var notifications int
	s.Subscribe(func(State, *LearnedCode) { notifications++ })

	s.Start(context.Background())
	before := notifications

	if s.Start(context.Background()) {
		t.Error("second Start should return false")
	}
	if s.State() != StateArmed {
		t.Errorf("state = %q, want armed", s.State())
	}
	if notifications != before {
		t.Error("failed Start must not notify observers")
	}
}

func TestStartFailsWhenEnableErrors(t *testing.T) {
	b := newFakeBlaster()
	b.failEnable = true
	sub := &fakeSubscriber{}
	s := NewSession(b, sub)

	if s.Start(context.Background()) {
		t.Error("Start should fail when enable errors")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle after failed start", s.State())
	}
	if sub.subscriberCount() != 0 {
		t.Error("failed start must not leave a subscription behind")
	}
}

func TestLearnedEventTransitionsToReceived(t *testing.T) {
	b := newFakeBlaster()
	sub := &fakeSubscriber{}
	s := NewSession(b, sub)
	defer s.Cleanup()

	s.Start(context.Background())
	sub.publish(validEvent())

	waitForState(t, s, StateReceived)

	code := s.PendingCode()
	if code == nil {
		t.Fatal("expected pending code")
	}
	if code.CarrierHz != 38000 {
		t.Errorf("carrier = %d, want 38000", code.CarrierHz)
	}
	want := []int{9000, -4500, 560, -560}
	if len(code.Pulses) != len(want) {
		t.Fatalf("pulses = %v, want %v", code.Pulses, want)
	}
	for i, p := range want {
		if code.Pulses[i] != p {
			t.Errorf("pulses[%d] = %d, want %d", i, code.Pulses[i], p)
		}
	}
	if code.DeviceID != testDevice {
		t.Errorf("device_id = %q, want %q", code.DeviceID, testDevice)
	}

	// Cleanup disarmed the hardware and dropped the subscription.
	calls := b.calls()
	if len(calls) != 2 || calls[1] {
		t.Errorf("learning mode calls = %v, want [true false]", calls)
	}
	if sub.subscriberCount() != 0 {
		t.Error("expected subscription removed after receive")
	}
}

func TestIgnoresEventFromDifferentDevice(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub)
	defer s.Cleanup()

	s.Start(context.Background())

	ev := validEvent()
	ev.DeviceID = "openirblaster-other"
	sub.publish(ev)

	time.Sleep(20 * time.Millisecond)
	if s.State() != StateArmed {
		t.Errorf("state = %q, want armed", s.State())
	}
	if s.PendingCode() != nil {
		t.Error("expected no pending code")
	}
}

func TestInvalidPulsesJSONCancels(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub)
	defer s.Cleanup()

	s.Start(context.Background())

	ev := validEvent()
	ev.PulsesJSON = "not json"
	sub.publish(ev)

	waitForState(t, s, StateCancelled)
	if s.PendingCode() != nil {
		t.Error("cancelled session must not hold a pending code")
	}
}

func TestInvalidCarrierCancels(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub)
	defer s.Cleanup()

	s.Start(context.Background())

	ev := validEvent()
	ev.CarrierHz = 0
	sub.publish(ev)

	waitForState(t, s, StateCancelled)
}

func TestEmptyPulsesCancels(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub)
	defer s.Cleanup()

	s.Start(context.Background())

	ev := validEvent()
	ev.PulsesJSON = "[]"
	sub.publish(ev)

	waitForState(t, s, StateCancelled)
}

func TestOversizedPulseArrayCancels(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub, WithMaxPulses(4))
	defer s.Cleanup()

	s.Start(context.Background())

	ev := validEvent()
	ev.PulsesJSON = "[1,-2,3,-4,5]"
	sub.publish(ev)

	waitForState(t, s, StateCancelled)
	if s.PendingCode() != nil {
		t.Error("oversized capture must never become pending")
	}
}

func TestTimeout(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub, WithTimeout(30*time.Millisecond))
	defer s.Cleanup()

	s.Start(context.Background())
	waitForState(t, s, StateTimeout)

	if s.PendingCode() != nil {
		t.Error("timed-out session must not hold a pending code")
	}
	if sub.subscriberCount() != 0 {
		t.Error("expected subscription removed after timeout")
	}
}

func TestEventBeforeTimeoutWins(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub, WithTimeout(80*time.Millisecond))
	defer s.Cleanup()

	var mu sync.Mutex
	var states []State
	s.Subscribe(func(st State, _ *LearnedCode) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	s.Start(context.Background())
	sub.publish(validEvent())
	waitForState(t, s, StateReceived)

	// Let the timer fire against the already-resolved session.
	time.Sleep(120 * time.Millisecond)

	if s.State() != StateReceived {
		t.Errorf("state = %q, want received to stick", s.State())
	}
	mu.Lock()
	defer mu.Unlock()
	for _, st := range states {
		if st == StateTimeout {
			t.Error("timeout must not fire after a code was received")
		}
	}
}

func TestClearResetsToIdle(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub)
	defer s.Cleanup()

	s.Start(context.Background())
	sub.publish(validEvent())
	waitForState(t, s, StateReceived)

	s.Clear(context.Background())
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
	if s.PendingCode() != nil {
		t.Error("Clear must drop the pending code")
	}
}

func TestClearWhileArmedDisarms(t *testing.T) {
	b := newFakeBlaster()
	sub := &fakeSubscriber{}
	s := NewSession(b, sub)
	defer s.Cleanup()

	s.Start(context.Background())
	s.Clear(context.Background())

	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
	calls := b.calls()
	if len(calls) != 2 || calls[1] {
		t.Errorf("learning mode calls = %v, want [true false]", calls)
	}
	if sub.subscriberCount() != 0 {
		t.Error("expected subscription removed by Clear")
	}
}

func TestObserverUnregisterDuringCallback(t *testing.T) {
	s := NewSession(newFakeBlaster(), &fakeSubscriber{})
	defer s.Cleanup()

	var first, second int
	var unsub func()
	unsub = s.Subscribe(func(State, *LearnedCode) {
		first++
		unsub()
	})
	s.Subscribe(func(State, *LearnedCode) { second++ })

	s.Start(context.Background())
	s.Clear(context.Background())

	if first != 1 {
		t.Errorf("self-unregistering observer fired %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("second observer fired %d times, want 2", second)
	}
}

func TestObserverPanicDoesNotBlockOthers(t *testing.T) {
	s := NewSession(newFakeBlaster(), &fakeSubscriber{})
	defer s.Cleanup()

	var delivered int
	s.Subscribe(func(State, *LearnedCode) { panic("bad observer") })
	s.Subscribe(func(State, *LearnedCode) { delivered++ })

	s.Start(context.Background())

	if delivered != 1 {
		t.Errorf("remaining observer fired %d times, want 1", delivered)
	}
}

func TestStaleEventAfterClearIgnored(t *testing.T) {
	sub := &fakeSubscriber{}
	s := NewSession(newFakeBlaster(), sub)
	defer s.Cleanup()

	s.Start(context.Background())
	sub.publish(validEvent())
	waitForState(t, s, StateReceived)

	// Direct delivery simulating a duplicate that raced cleanup.
	s.handleEvent(context.Background(), validEvent())

	if s.State() != StateReceived {
		t.Errorf("state = %q, want received unchanged", s.State())
	}
}
