package serialblaster

import (
	"encoding/json"
	"fmt"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
)

// The firmware speaks newline-delimited JSON over the serial link. Three
// frame shapes exist: commands (host -> device, carrying a seq number),
// acks (device -> host, echoing the seq) and unsolicited events.

// Command names understood by the firmware.
const (
	cmdSetSwitch = "set_switch"
	cmdSendRaw   = "send_ir_raw"
)

// eventLearned is the unsolicited frame fired after a capture.
const eventLearned = "learned"

// commandFrame is a host -> device request.
type commandFrame struct {
	Seq       uint64 `json:"seq"`
	Cmd       string `json:"cmd"`
	Switch    string `json:"switch,omitempty"`
	On        *bool  `json:"on,omitempty"`
	CarrierHz int    `json:"carrier_hz,omitempty"`
	Code      []int  `json:"code,omitempty"`
}

// ackFrame is a device -> host reply to a command.
type ackFrame struct {
	Seq   uint64 `json:"seq"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// deviceFrame is the union of everything the device sends. Event frames
// carry an event name and payload; ack frames carry a seq.
type deviceFrame struct {
	Seq   uint64          `json:"seq"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func (f *deviceFrame) isEvent() bool {
	return f.Event != ""
}

func (f *deviceFrame) ack() ackFrame {
	return ackFrame{Seq: f.Seq, OK: f.OK, Error: f.Error}
}

// learnedEvent decodes the payload of a learned event frame.
func (f *deviceFrame) learnedEvent() (blaster.LearnedEvent, error) {
	var ev blaster.LearnedEvent
	if err := json.Unmarshal(f.Data, &ev); err != nil {
		return ev, fmt.Errorf("decode learned event: %w", err)
	}
	return ev, nil
}

// encodeFrame renders a command as a single line.
func encodeFrame(f commandFrame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeFrame parses one line from the device.
func decodeFrame(line []byte) (*deviceFrame, error) {
	f := &deviceFrame{}
	if err := json.Unmarshal(line, f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}
