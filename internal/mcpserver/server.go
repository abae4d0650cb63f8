// Package mcpserver exposes one wizard session as MCP tools so that the
// setup can be driven headlessly, e.g. by an agent over HTTP.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
	"github.com/touchselfie/boothsetup/internal/wizard"
)

// Server manages an embedded MCP HTTP server driving a single wizard engine.
// Tool calls are serialized so the engine only ever sees one event at a time.
type Server struct {
	engine   *wizard.Engine
	engineMu sync.Mutex

	// OnCommit, if set, runs after every successful commit with the saved
	// configuration. It is called while tool calls are blocked.
	OnCommit func(ctx context.Context, cfg *config.Configuration)

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server for engine. The server is not started until Start()
// is called.
func New(engine *wizard.Engine) *Server {
	return &Server{engine: engine}
}

// newMCPServer builds the MCP server with all wizard tools registered.
func (s *Server) newMCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		"boothsetup-wizard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools(srv)
	return srv
}

// Start starts the MCP HTTP server on a random available port and returns
// the port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = s.newMCPServer()

	// Listen first so the port is known before serving.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
