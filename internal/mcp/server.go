package mcp

import (
	"context"
	"io"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/platform"
	"github.com/1broseidon/winstate/internal/snapshot"
)

const (
	ServerName    = "winstate"
	ServerVersion = "0.1.0"
)

// Server exposes window geometry capture and restore as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	service   *snapshot.Service
	logger    *slog.Logger

	// mu serializes tool calls; the X11 connection is not shared safely.
	mu sync.Mutex
}

// NewServer creates an MCP server backed by service.
func NewServer(service *snapshot.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		service: service,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List the currently attached displays with their bounds in physical pixels.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "capture_window",
		Description: "Capture the inner position (physical pixels) and inner size (logical units) of a window and save it under a name. Defaults to the active window.",
	}, s.handleCaptureWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_geometry",
		Description: "Show the geometry saved under a name.",
	}, s.handleShowGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "plan_restore",
		Description: "Report what restoring a saved geometry would do against the current displays, without touching any window. A stored position outside every display is dropped; the size is always kept.",
	}, s.handlePlanRestore)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a saved geometry onto a window. Defaults to the active window.",
	}, s.handleRestoreWindow)
}

func windowIDPtr(id *uint32) *platform.WindowID {
	if id == nil {
		return nil
	}
	wid := platform.WindowID(*id)
	return &wid
}
