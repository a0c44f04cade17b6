package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	platformgrpc "github.com/louisbranch/dicenotation/internal/platform/grpc"
	"github.com/louisbranch/dicenotation/internal/platform/timeouts"
	"github.com/louisbranch/dicenotation/internal/services/mcp/domain"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "dicenotation MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// defaultGRPCAddr is the notation server address used when none is configured.
	defaultGRPCAddr = "localhost:8090"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New creates an MCP server connected to the notation gRPC server.
func New(ctx context.Context, grpcAddr string) (*Server, error) {
	addr := grpcAddress(grpcAddr)
	conn, err := platformgrpc.Dial(ctx, platformgrpc.DialConfig{
		Addr:    addr,
		Service: notationgrpc.ServiceName,
		Timeout: timeouts.GRPCDial,
		Logf:    log.Printf,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to notation server at %s: %w", addr, err)
	}
	server, err := newServer(notationgrpc.NewNotationServiceClient(conn))
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	server.conn = conn
	return server, nil
}

func newServer(client notationgrpc.NotationServiceClient) (*Server, error) {
	if client == nil {
		return nil, errors.New("notation client is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, domain.RollNotationTool(), domain.RollNotationHandler(client))
	mcp.AddTool(mcpServer, domain.ParseNotationTool(), domain.ParseNotationHandler(client))
	mcp.AddTool(mcpServer, domain.RollHistoryTool(), domain.RollHistoryHandler(client))
	return &Server{mcpServer: mcpServer}, nil
}

// Run connects to the notation server and serves MCP on stdio until the
// context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg.GRPCAddr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport runs the MCP server on transport and closes the gRPC
// connection on every exit path.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func grpcAddress(addr string) string {
	if trimmed := strings.TrimSpace(addr); trimmed != "" {
		return trimmed
	}
	return defaultGRPCAddr
}
