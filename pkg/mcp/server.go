package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/jaycollett/OpenIRBlaster/pkg/blaster/schema"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
)

// Server wraps the MCP server with the IR blaster's learn-and-replay
// functionality
type Server struct {
	mcpServer *server.MCPServer
	hub       *hub.Hub
	validator *schema.Validator
}

// NewServer creates a new MCP server for IR code control
func NewServer(h *hub.Hub, validator *schema.Validator) *Server {
	s := &Server{
		hub:       h,
		validator: validator,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"openirblaster",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
