package serialblaster

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
)

// callTimeout bounds every firmware command; the learning session relies on
// this so a dead device cannot wedge a start or a disarm.
const callTimeout = 5 * time.Second

// Controller implements blaster.Blaster and blaster.EventSubscriber over a
// newline-delimited JSON serial link to the transceiver firmware.
type Controller struct {
	rw         io.ReadWriteCloser
	deviceID   string
	switchName string

	seq uint64

	pending   map[uint64]chan ackFrame
	pendingMu sync.Mutex

	subscribers   []chan blaster.LearnedEvent
	subscribersMu sync.Mutex

	connected bool
	connMu    sync.RWMutex

	writeMu sync.Mutex
}

// NewController opens the serial port and starts the read loop.
func NewController(portPath, deviceID, switchName string) (*Controller, error) {
	log.Info().Str("port", portPath).Str("device", deviceID).Msg("Initializing blaster controller")
	s, err := OpenSerial(portPath)
	if err != nil {
		return nil, fmt.Errorf("open serial: %w", err)
	}
	return newController(s, deviceID, switchName), nil
}

// newController wires a controller over an arbitrary transport.
func newController(rw io.ReadWriteCloser, deviceID, switchName string) *Controller {
	if switchName == "" {
		switchName = blaster.DefaultLearningSwitch
	}
	c := &Controller{
		rw:         rw,
		deviceID:   deviceID,
		switchName: switchName,
		pending:    make(map[uint64]chan ackFrame),
		connected:  true,
	}
	go c.readLoop()
	return c
}

// readLoop parses device frames and dispatches them: acks complete pending
// calls, events fan out to subscribers.
func (c *Controller) readLoop() {
	scanner := bufio.NewScanner(c.rw)
	scanner.Buffer(make([]byte, 0, 4096), 256*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		frame, err := decodeFrame(line)
		if err != nil {
			log.Warn().Err(err).Msg("Dropping malformed frame from device")
			continue
		}

		if frame.isEvent() {
			c.handleEvent(frame)
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[frame.Seq]
		if ok {
			delete(c.pending, frame.Seq)
		}
		c.pendingMu.Unlock()

		if !ok {
			log.Debug().Uint64("seq", frame.Seq).Msg("Ack for unknown seq")
			continue
		}
		ch <- frame.ack()
	}

	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("Serial read loop terminated")
	}

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()
}

// handleEvent decodes and publishes an unsolicited device event.
func (c *Controller) handleEvent(frame *deviceFrame) {
	switch frame.Event {
	case eventLearned:
		ev, err := frame.learnedEvent()
		if err != nil {
			log.Warn().Err(err).Msg("Dropping malformed learned event")
			return
		}
		log.Debug().
			Str("device", ev.DeviceID).
			Int("carrier_hz", ev.CarrierHz).
			Msg("Learned event received")
		c.publishEvent(ev)
	default:
		log.Debug().Str("event", frame.Event).Msg("Unhandled device event")
	}
}

// publishEvent sends a learned event to all subscribers.
func (c *Controller) publishEvent(ev blaster.LearnedEvent) {
	c.subscribersMu.Lock()
	defer c.subscribersMu.Unlock()

	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// call sends a command and waits for its ack, bounded by ctx and the
// transport call timeout.
func (c *Controller) call(ctx context.Context, frame commandFrame) error {
	if !c.IsConnected() {
		return blaster.ErrNotConnected
	}

	frame.Seq = atomic.AddUint64(&c.seq, 1)

	data, err := encodeFrame(frame)
	if err != nil {
		return err
	}

	ackCh := make(chan ackFrame, 1)
	c.pendingMu.Lock()
	c.pending[frame.Seq] = ackCh
	c.pendingMu.Unlock()

	c.writeMu.Lock()
	_, err = c.rw.Write(data)
	c.writeMu.Unlock()
	if err != nil {
		c.pendingMu.Lock()
		delete(c.pending, frame.Seq)
		c.pendingMu.Unlock()
		return fmt.Errorf("write %s command: %w", frame.Cmd, err)
	}

	select {
	case ack := <-ackCh:
		if !ack.OK {
			return fmt.Errorf("%s rejected by firmware: %s", frame.Cmd, ack.Error)
		}
		return nil
	case <-ctx.Done():
		c.dropPending(frame.Seq)
		return ctx.Err()
	case <-time.After(callTimeout):
		c.dropPending(frame.Seq)
		return fmt.Errorf("%s: %w", frame.Cmd, blaster.ErrTimeout)
	}
}

func (c *Controller) dropPending(seq uint64) {
	c.pendingMu.Lock()
	delete(c.pending, seq)
	c.pendingMu.Unlock()
}

// --- blaster.Blaster interface ---

func (c *Controller) DeviceID() string {
	return c.deviceID
}

func (c *Controller) SetLearningMode(ctx context.Context, on bool) error {
	return c.call(ctx, commandFrame{
		Cmd:    cmdSetSwitch,
		Switch: c.switchName,
		On:     &on,
	})
}

func (c *Controller) Transmit(ctx context.Context, carrierHz int, pulses []int) error {
	log.Info().
		Str("device", c.deviceID).
		Int("carrier_hz", carrierHz).
		Int("pulses", len(pulses)).
		Msg("Transmitting raw IR")

	return c.call(ctx, commandFrame{
		Cmd:       cmdSendRaw,
		CarrierHz: carrierHz,
		Code:      pulses,
	})
}

func (c *Controller) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

func (c *Controller) Close() {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	if err := c.rw.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close serial transport")
	}

	log.Info().Str("device", c.deviceID).Msg("Blaster controller closed")
}

// --- blaster.EventSubscriber interface ---

func (c *Controller) Subscribe() chan blaster.LearnedEvent {
	ch := make(chan blaster.LearnedEvent, 16)
	c.subscribersMu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.subscribersMu.Unlock()
	return ch
}

func (c *Controller) Unsubscribe(ch chan blaster.LearnedEvent) {
	c.subscribersMu.Lock()
	defer c.subscribersMu.Unlock()

	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}
