package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster"
	"github.com/jaycollett/OpenIRBlaster/pkg/blaster/schema"
	"github.com/jaycollett/OpenIRBlaster/pkg/store"
)

// transmitPayload renders a transmit request in its wire shape for schema
// validation.
func transmitPayload(carrierHz int, pulses []int) map[string]any {
	raw, _ := json.Marshal(map[string]any{
		"carrier_hz": carrierHz,
		"code":       pulses,
	})
	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)
	return payload
}

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.hub.HealthCheck()

	blasterStatus := "disconnected"
	status := "unhealthy"
	if info.Connected {
		blasterStatus = "connected"
		status = "healthy"
	}

	out := GetHealthOutput{
		Status:       status,
		Blaster:      blasterStatus,
		DeviceID:     info.DeviceID,
		SessionState: string(info.Session),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListCodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	codes, err := s.hub.ListCodes(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list codes: %s", err)), nil
	}

	infos := make([]CodeInfo, 0, len(codes))
	for _, c := range codes {
		// Pulse trains are omitted from the listing to keep it readable.
		infos = append(infos, CodeToInfo(c, false))
	}

	out := ListCodesOutput{
		Codes: infos,
		Count: len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := s.hub.GetCode(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("code not found: %s", err)), nil
	}

	out := GetCodeOutput{Code: CodeToInfo(c, true)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRenameCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newName, err := requiredString(request, "new_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := s.hub.UpdateCode(ctx, id, store.CodePatch{Name: &newName}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to rename code: %s", err)), nil
	}

	out := RenameCodeOutput{
		Success: true,
		Message: fmt.Sprintf("Code %q renamed to %q", id, newName),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDeleteCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.hub.DeleteCode(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete code: %s", err)), nil
	}

	out := DeleteCodeOutput{
		Success: true,
		Message: fmt.Sprintf("Code %q deleted", id),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	carrierHz := 0
	if v, ok := request.GetArguments()["carrier_hz"]; ok {
		if f, ok := v.(float64); ok && f > 0 {
			carrierHz = int(f)
		}
	}

	c, err := s.hub.GetCode(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("code not found: %s", err)), nil
	}
	if carrierHz == 0 {
		carrierHz = c.CarrierHz
	}

	if s.validator != nil {
		if err := s.validator.Validate(schema.TransmitSchema(), transmitPayload(carrierHz, c.Pulses)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
		}
	}

	if err := s.hub.SendCode(ctx, "", carrierHz, c.Pulses); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send code: %s", err)), nil
	}

	out := SendCodeOutput{
		Success:    true,
		CarrierHz:  carrierHz,
		PulseCount: len(c.Pulses),
		Message:    fmt.Sprintf("Code %q transmitted", id),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleLearnStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeoutSeconds := blaster.DefaultLearningTimeoutSeconds
	if v, ok := request.GetArguments()["timeout_seconds"]; ok {
		if f, ok := v.(float64); ok && f > 0 {
			timeoutSeconds = int(f)
		}
	}

	timeout := time.Duration(timeoutSeconds) * time.Second
	if err := s.hub.StartLearning(ctx, timeout); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start learning: %s", err)), nil
	}

	out := LearnStartOutput{
		Success:        true,
		State:          "armed",
		TimeoutSeconds: timeoutSeconds,
		Message:        fmt.Sprintf("Learning mode armed for %d seconds; press a button on the remote", timeoutSeconds),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleLearnStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.hub.LearnStatus()

	out := LearnStatusOutput{State: string(status.State)}
	if status.Pending != nil {
		out.Pending = &PendingInfo{
			CarrierHz:  status.Pending.CarrierHz,
			PulseCount: len(status.Pending.Pulses),
			Timestamp:  status.Pending.Timestamp,
		}
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSaveCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	notes := ""
	if v, ok := request.GetArguments()["notes"]; ok {
		if str, ok := v.(string); ok {
			notes = str
		}
	}

	code, err := s.hub.SavePending(ctx, name, nil, notes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save code: %s", err)), nil
	}

	out := SaveCodeOutput{
		Success: true,
		Code:    CodeToInfo(code, false),
		Message: fmt.Sprintf("Captured code saved as %q", code.ID),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleCancelLearning(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.hub.CancelLearning(ctx)

	out := CancelLearningOutput{
		Success: true,
		Message: "Learning session reset",
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendPending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pending := s.hub.LearnStatus().Pending
	if pending == nil {
		return mcp.NewToolResultError("no captured code is waiting; run learn_start first"), nil
	}

	if err := s.hub.SendPending(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send pending code: %s", err)), nil
	}

	out := SendCodeOutput{
		Success:    true,
		CarrierHz:  pending.CarrierHz,
		PulseCount: len(pending.Pulses),
		Message:    "Pending code transmitted",
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	device, err := s.hub.Device(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load device record: %s", err)), nil
	}

	out := GetDeviceOutput{Device: device}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
