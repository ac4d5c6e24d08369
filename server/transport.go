package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Transport identifies how the server talks to its caller.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// MCPPath is the fixed endpoint of the streamable HTTP transport.
const MCPPath = "/mcp"

// DetermineTransport picks the transport from the MCP_TRANSPORT
// environment variable, then the command-line arguments, then a
// containerized-environment heuristic, defaulting to HTTP for local
// development.
func DetermineTransport(args []string) Transport {
	return determineTransport(args, runningInContainer())
}

func determineTransport(args []string, containerized bool) Transport {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT"))) {
	case "stdio":
		return TransportStdio
	case "http", "streamable-http":
		return TransportHTTP
	}

	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "stdio":
			return TransportStdio
		case "http":
			return TransportHTTP
		}
	}

	// Container hosts speak stdio to the server they spawn.
	if containerized {
		return TransportStdio
	}

	return TransportHTTP
}

func runningInContainer() bool {
	if os.Getenv("CONTAINER") != "" {
		return true
	}
	_, err := os.Stat("/.dockerenv")
	return err == nil
}

// RunStdio serves the MCP session over stdin/stdout until the client
// disconnects or ctx is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	slog.Info("serving over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on the given port,
// mounting the MCP endpoint at MCPPath next to a health check.
// Shutdown is graceful on ctx cancellation.
func (s *Server) RunHTTP(ctx context.Context, port int) error {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle(MCPPath, streamable)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", srv.Addr, "path", MCPPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
