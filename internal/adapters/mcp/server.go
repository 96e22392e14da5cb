package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pixelwall"
	"github.com/aretw0/pixelwall/internal/logging"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GridURI is the resource exposing the whole grid.
const GridURI = "pixelwall://grid"

// Wall defines what the MCP server needs from the Grid Store.
type Wall interface {
	Load(ctx context.Context) domain.Grid
	Update(ctx context.Context, req domain.UpdateRequest) error
	Size() int
}

// SetPixelResponse is the structured result of the set_pixel tool.
type SetPixelResponse struct {
	Success bool   `json:"success" jsonschema_description:"Whether the cell was updated"`
	ID      int    `json:"id,omitempty" jsonschema_description:"Canonical cell identifier"`
	Color   string `json:"color,omitempty" jsonschema_description:"Color stored for the cell"`
}

// Server wraps the Grid Store and exposes it as an MCP Server.
type Server struct {
	wall      Wall
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(wall Wall, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		wall:      wall,
		logger:    logger,
		mcpServer: server.NewMCPServer("pixelwall-mcp", strings.TrimSpace(pixelwall.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: get_grid
	s.mcpServer.AddTool(mcp.NewTool("get_grid",
		mcp.WithDescription("Get the full pixel grid as a JSON object mapping cell id to color."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.wall.Load(ctx))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode grid failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	// TOOL: set_pixel
	setTool := mcp.NewTool("set_pixel",
		mcp.WithDescription(fmt.Sprintf("Set the color of one cell. Cell ids range from 0 to %d.", s.wall.Size()-1)),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell identifier (decimal integer)")),
		mcp.WithString("color", mcp.Required(), mcp.Description("Color value, e.g. #ff0000")),
		mcp.WithOutputSchema[SetPixelResponse](),
	)
	s.mcpServer.AddTool(setTool, mcp.NewStructuredToolHandler(s.handleSetPixel))
}

func (s *Server) handleSetPixel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SetPixelResponse, error) {
	req := domain.UpdateRequest{
		ID:    args[domain.FieldID],
		Color: args[domain.FieldColor],
	}

	upd, err := req.Validate(s.wall.Size())
	if err != nil {
		s.logger.Debug("MCP set_pixel: rejected", "error", err)
		return SetPixelResponse{}, err
	}

	if err := s.wall.Update(ctx, req); err != nil {
		s.logger.Error("MCP set_pixel failed", "error", err)
		return SetPixelResponse{}, fmt.Errorf("update failed: %w", err)
	}

	return SetPixelResponse{Success: true, ID: upd.ID, Color: upd.Color}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: pixelwall://grid
	s.mcpServer.AddResource(mcp.NewResource(GridURI, "Current Pixel Grid",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.wall.Load(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to encode grid: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GridURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
