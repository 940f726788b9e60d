// Package server provides the MCP server implementation.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/telemetry"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

const (
	// Name is the server name announced during the MCP handshake.
	Name = "canvas-cli"
	// Version is the announced server version.
	Version = "0.2.0"

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Canvas canvas.Options
	// Credentials are used for tool calls that carry no auth argument.
	Credentials       types.AuthContext
	BundleConcurrency int
	Logger            *slog.Logger
	Metrics           *telemetry.Metrics
}

// Server wraps the MCP server with the Canvas client factory and the
// observability plumbing shared by every tool.
type Server struct {
	mcpServer         *server.MCPServer
	clients           *canvas.Factory
	credentials       types.AuthContext
	bundleConcurrency int
	logger            *slog.Logger
	metrics           *telemetry.Metrics
}

// New creates a new MCP server for the Canvas tools.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	mcpServer := server.NewMCPServer(
		Name,
		Version,
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	copts := opts.Canvas
	if copts.Logger == nil {
		copts.Logger = logger
	}
	if copts.Metrics == nil {
		copts.Metrics = opts.Metrics
	}

	return &Server{
		mcpServer:         mcpServer,
		clients:           canvas.NewFactory(copts),
		credentials:       opts.Credentials,
		bundleConcurrency: opts.BundleConcurrency,
		logger:            logger,
		metrics:           opts.Metrics,
	}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Clients returns the factory used to build per-credential Canvas clients.
func (s *Server) Clients() *canvas.Factory {
	return s.clients
}

// Credentials returns the fallback credentials. Either field may be empty.
func (s *Server) Credentials() types.AuthContext {
	return s.credentials
}

// BundleConcurrency returns the configured fan-out width of the bundle tool.
func (s *Server) BundleConcurrency() int {
	return s.bundleConcurrency
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Metrics returns the metrics sink. It may be nil.
func (s *Server) Metrics() *telemetry.Metrics {
	return s.metrics
}

// AddTool is a convenience wrapper for adding tools.
func (s *Server) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
}

// ServeStdio serves MCP over stdin/stdout until the input is closed or the
// process is signalled.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP", "transport", "stdio")
	errLogger := slog.NewLogLogger(s.logger.Handler(), slog.LevelError)
	return server.ServeStdio(s.mcpServer, server.WithErrorLogger(errLogger))
}

// ServeSSE serves MCP over HTTP server-sent events on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(s.mcpServer)
	s.logger.Info("serving MCP", "transport", "sse", "addr", addr)

	errc := make(chan error, 1)
	go func() {
		errc <- sse.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	}
}

// ServeMetrics exposes the prometheus registry on addr until ctx is done.
func (s *Server) ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
