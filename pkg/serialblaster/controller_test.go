package serialblaster

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
)

// fakeDevice answers frames on the far end of a pipe like the firmware does.
type fakeDevice struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func newFakeDevice(conn net.Conn) *fakeDevice {
	return &fakeDevice{conn: conn, scanner: bufio.NewScanner(conn)}
}

func (d *fakeDevice) readCommand(t *testing.T) commandFrame {
	t.Helper()
	if !d.scanner.Scan() {
		t.Fatalf("device read failed: %v", d.scanner.Err())
	}
	var cmd commandFrame
	if err := json.Unmarshal(d.scanner.Bytes(), &cmd); err != nil {
		t.Fatalf("device decode failed: %v", err)
	}
	return cmd
}

func (d *fakeDevice) send(t *testing.T, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.conn.Write(append(data, '\n')); err != nil {
		t.Fatal(err)
	}
}

func newTestController(t *testing.T) (*Controller, *fakeDevice) {
	t.Helper()
	host, device := net.Pipe()
	c := newController(host, "openirblaster-test123", "")
	t.Cleanup(c.Close)
	t.Cleanup(func() { _ = device.Close() })
	return c, newFakeDevice(device)
}

func TestSetLearningModeRoundTrip(t *testing.T) {
	c, dev := newTestController(t)

	done := make(chan error, 1)
	go func() {
		done <- c.SetLearningMode(context.Background(), true)
	}()

	cmd := dev.readCommand(t)
	if cmd.Cmd != cmdSetSwitch {
		t.Errorf("cmd = %q, want set_switch", cmd.Cmd)
	}
	if cmd.Switch != blaster.DefaultLearningSwitch {
		t.Errorf("switch = %q, want default learning switch", cmd.Switch)
	}
	if cmd.On == nil || !*cmd.On {
		t.Error("expected on=true")
	}

	dev.send(t, ackFrame{Seq: cmd.Seq, OK: true})

	if err := <-done; err != nil {
		t.Errorf("SetLearningMode returned %v", err)
	}
}

func TestFirmwareRejectionSurfacesAsError(t *testing.T) {
	c, dev := newTestController(t)

	done := make(chan error, 1)
	go func() {
		done <- c.Transmit(context.Background(), 38000, []int{9000, -4500})
	}()

	cmd := dev.readCommand(t)
	if cmd.Cmd != cmdSendRaw {
		t.Errorf("cmd = %q, want send_ir_raw", cmd.Cmd)
	}
	if cmd.CarrierHz != 38000 || len(cmd.Code) != 2 {
		t.Errorf("payload = %d Hz %v", cmd.CarrierHz, cmd.Code)
	}

	dev.send(t, ackFrame{Seq: cmd.Seq, OK: false, Error: "tx busy"})

	err := <-done
	if err == nil {
		t.Fatal("expected error from rejected command")
	}
}

func TestCancelledContextAbortsCall(t *testing.T) {
	c, dev := newTestController(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.SetLearningMode(ctx, true)
	}()

	dev.readCommand(t) // consume, never ack
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected context error")
		}
	case <-time.After(time.Second):
		t.Fatal("call did not abort on context cancellation")
	}
}

func TestLearnedEventFanOut(t *testing.T) {
	c, dev := newTestController(t)

	ch := c.Subscribe()
	defer c.Unsubscribe(ch)

	dev.send(t, map[string]any{
		"event": eventLearned,
		"data": map[string]any{
			"device_id":   "openirblaster-test123",
			"carrier_hz":  38000,
			"pulses_json": "[9000,-4500,560,-560]",
		},
	})

	select {
	case ev := <-ch:
		if ev.DeviceID != "openirblaster-test123" || ev.CarrierHz != 38000 {
			t.Errorf("event = %+v", ev)
		}
		if ev.PulsesJSON != "[9000,-4500,560,-560]" {
			t.Errorf("pulses_json = %q", ev.PulsesJSON)
		}
	case <-time.After(time.Second):
		t.Fatal("learned event not delivered")
	}
}

func TestMalformedFrameIsDropped(t *testing.T) {
	c, dev := newTestController(t)

	ch := c.Subscribe()
	defer c.Unsubscribe(ch)

	if _, err := dev.conn.Write([]byte("garbage\n")); err != nil {
		t.Fatal(err)
	}
	dev.send(t, map[string]any{
		"event": eventLearned,
		"data":  map[string]any{"device_id": "openirblaster-test123", "carrier_hz": 40000},
	})

	select {
	case ev := <-ch:
		if ev.CarrierHz != 40000 {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("read loop did not survive a malformed frame")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	c, _ := newTestController(t)

	ch := c.Subscribe()
	c.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after Unsubscribe")
	}
}
