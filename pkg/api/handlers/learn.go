package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaycollett/OpenIRBlaster/pkg/api/types"
	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
	"github.com/jaycollett/OpenIRBlaster/pkg/learning"
)

// LearnHandler handles learning session endpoints
type LearnHandler struct {
	hub *hub.Hub
}

// NewLearnHandler creates a new learn handler
func NewLearnHandler(h *hub.Hub) *LearnHandler {
	return &LearnHandler{hub: h}
}

func pendingFromSession(code *learning.LearnedCode) *types.PendingCode {
	if code == nil {
		return nil
	}
	return &types.PendingCode{
		CarrierHz:  code.CarrierHz,
		Pulses:     code.Pulses,
		PulseCount: len(code.Pulses),
		Timestamp:  code.Timestamp,
		DeviceID:   code.DeviceID,
	}
}

// Start handles POST /learn/start
// @Summary      Start a learning session
// @Description  Arms the transceiver's learning mode and waits for a remote button press
// @Tags         learn
// @Accept       json
// @Produce      json
// @Param        request  body      types.StartLearnRequest  false  "Session timeout (default 30 seconds)"
// @Success      200      {object}  types.StartLearnResponse
// @Failure      409      {object}  types.ErrorResponse  "Session already active"
// @Failure      503      {object}  types.ErrorResponse  "Blaster disconnected"
// @Router       /learn/start [post]
func (h *LearnHandler) Start(c *gin.Context) {
	var req types.StartLearnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.TimeoutSeconds = blaster.DefaultLearningTimeoutSeconds
	}
	if req.TimeoutSeconds <= 0 {
		req.TimeoutSeconds = blaster.DefaultLearningTimeoutSeconds
	}

	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	if err := h.hub.StartLearning(c.Request.Context(), timeout); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StartLearnResponse{
		Status:         "learning_started",
		State:          string(learning.StateArmed),
		TimeoutSeconds: req.TimeoutSeconds,
		ExpiresAt:      time.Now().Add(timeout),
	})
}

// Status handles GET /learn/status
// @Summary      Get learning session status
// @Description  Returns the session state and any captured code awaiting save
// @Tags         learn
// @Produce      json
// @Success      200  {object}  types.LearnStatusResponse
// @Router       /learn/status [get]
func (h *LearnHandler) Status(c *gin.Context) {
	status := h.hub.LearnStatus()

	c.JSON(http.StatusOK, types.LearnStatusResponse{
		State:   string(status.State),
		Pending: pendingFromSession(status.Pending),
	})
}

// Save handles POST /learn/save
// @Summary      Save the captured code
// @Description  Persists the pending captured code under a name and resets the session
// @Tags         learn
// @Accept       json
// @Produce      json
// @Param        request  body      types.SaveCodeRequest  true  "Code name, tags and notes"
// @Success      201      {object}  types.CodeResponse
// @Failure      400      {object}  types.ErrorResponse  "Name missing"
// @Failure      409      {object}  types.ErrorResponse  "No pending code or name in use"
// @Router       /learn/save [post]
func (h *LearnHandler) Save(c *gin.Context) {
	var req types.SaveCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "name is required",
		})
		return
	}

	code, err := h.hub.SavePending(c.Request.Context(), req.Name, req.Tags, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.CodeResponse{Code: types.CodeFromStore(code)})
}

// Cancel handles POST /learn/cancel
// @Summary      Cancel the learning session
// @Description  Disarms the session and discards any captured code
// @Tags         learn
// @Produce      json
// @Success      200  {object}  types.CancelLearnResponse
// @Router       /learn/cancel [post]
func (h *LearnHandler) Cancel(c *gin.Context) {
	h.hub.CancelLearning(c.Request.Context())

	c.JSON(http.StatusOK, types.CancelLearnResponse{
		Status: "learning_cancelled",
	})
}

// SendPending handles POST /learn/send
// @Summary      Replay the captured code
// @Description  Transmits the pending captured code so it can be verified before saving
// @Tags         learn
// @Produce      json
// @Success      200  {object}  types.SendResponse
// @Failure      409  {object}  types.ErrorResponse  "No pending code"
// @Failure      503  {object}  types.ErrorResponse  "Blaster disconnected"
// @Router       /learn/send [post]
func (h *LearnHandler) SendPending(c *gin.Context) {
	pending := h.hub.LearnStatus().Pending
	if pending == nil {
		respondError(c, hub.ErrNoPendingCode)
		return
	}
	if err := h.hub.SendPending(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SendResponse{
		Status:     "sent",
		CarrierHz:  pending.CarrierHz,
		PulseCount: len(pending.Pulses),
		Timestamp:  time.Now(),
	})
}

// sessionUpdate carries one observer notification into the SSE loop.
type sessionUpdate struct {
	state   learning.State
	pending *learning.LearnedCode
}

// Events handles GET /learn/events (SSE stream)
// @Summary      Subscribe to learning session events
// @Description  Server-Sent Events stream of session state transitions
// @Tags         learn
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /learn/events [get]
func (h *LearnHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Bridge session observer callbacks onto a channel the loop can select
	// on. The buffer absorbs bursts; a slow client drops updates rather
	// than blocking the session.
	updates := make(chan sessionUpdate, 8)
	unsubscribe := h.hub.Session().Subscribe(func(state learning.State, pending *learning.LearnedCode) {
		select {
		case updates <- sessionUpdate{state: state, pending: pending}:
		default:
		}
	})
	defer unsubscribe()

	status := h.hub.LearnStatus()
	sendSSEEvent(c.Writer, "connected", map[string]any{
		"timestamp": time.Now(),
		"state":     string(status.State),
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case update := <-updates:
			sendSSEEvent(c.Writer, "state", map[string]any{
				"state":     string(update.state),
				"pending":   pendingFromSession(update.pending),
				"timestamp": time.Now(),
			})
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

// sendSSEEvent writes an SSE event to the response
func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	io.WriteString(w, "event: "+eventType+"\n")
	io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
