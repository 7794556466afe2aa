package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the IR blaster service and transceiver connectivity"),
		),
		s.handleGetHealth,
	)

	// List codes
	s.mcpServer.AddTool(
		mcp.NewTool("list_codes",
			mcp.WithDescription("List all stored IR codes with their carrier frequency and pulse counts"),
		),
		s.handleListCodes,
	)

	// Get code
	s.mcpServer.AddTool(
		mcp.NewTool("get_code",
			mcp.WithDescription("Get a stored IR code by its id, including the full pulse train"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Code id (slug, e.g. tv_power)"),
			),
		),
		s.handleGetCode,
	)

	// Rename code
	s.mcpServer.AddTool(
		mcp.NewTool("rename_code",
			mcp.WithDescription("Change a stored code's display name. The id never changes."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Code id (slug)"),
			),
			mcp.WithString("new_name",
				mcp.Required(),
				mcp.Description("New display name for the code"),
			),
		),
		s.handleRenameCode,
	)

	// Delete code
	s.mcpServer.AddTool(
		mcp.NewTool("delete_code",
			mcp.WithDescription("Delete a stored IR code permanently"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Code id (slug)"),
			),
		),
		s.handleDeleteCode,
	)

	// Send code
	s.mcpServer.AddTool(
		mcp.NewTool("send_code",
			mcp.WithDescription("Transmit a stored IR code, optionally overriding the carrier frequency"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Code id (slug)"),
			),
			mcp.WithNumber("carrier_hz",
				mcp.Description("Override carrier frequency in Hz (optional)"),
			),
		),
		s.handleSendCode,
	)

	// Start learning
	s.mcpServer.AddTool(
		mcp.NewTool("learn_start",
			mcp.WithDescription("Arm the transceiver's learning mode and wait for a remote button press"),
			mcp.WithNumber("timeout_seconds",
				mcp.Description("How long to wait for a capture in seconds (default 30)"),
			),
		),
		s.handleLearnStart,
	)

	// Learning status
	s.mcpServer.AddTool(
		mcp.NewTool("learn_status",
			mcp.WithDescription("Get the learning session state and any captured code awaiting save"),
		),
		s.handleLearnStatus,
	)

	// Save pending code
	s.mcpServer.AddTool(
		mcp.NewTool("save_code",
			mcp.WithDescription("Save the captured code under a name and reset the learning session"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Display name for the code (e.g. \"TV Power\")"),
			),
			mcp.WithString("notes",
				mcp.Description("Free-form notes (optional)"),
			),
		),
		s.handleSaveCode,
	)

	// Cancel learning
	s.mcpServer.AddTool(
		mcp.NewTool("cancel_learning",
			mcp.WithDescription("Cancel the learning session and discard any captured code"),
		),
		s.handleCancelLearning,
	)

	// Replay pending code
	s.mcpServer.AddTool(
		mcp.NewTool("send_pending",
			mcp.WithDescription("Transmit the captured-but-unsaved code so it can be verified before saving"),
		),
		s.handleSendPending,
	)

	// Device record
	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get the transceiver record including the last-learned snapshot"),
		),
		s.handleGetDevice,
	)
}
