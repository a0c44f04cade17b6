package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"path/filepath"
	"sync"
	"time"

	"github.com/louisbranch/dicenotation/internal/core/notation"
	"github.com/louisbranch/dicenotation/internal/platform/config"
	platformgrpc "github.com/louisbranch/dicenotation/internal/platform/grpc"
	"github.com/louisbranch/dicenotation/internal/platform/telemetry"
	"github.com/louisbranch/dicenotation/internal/platform/timeouts"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"github.com/louisbranch/dicenotation/internal/services/notation/api/grpc/interceptors"
	notationsqlite "github.com/louisbranch/dicenotation/internal/services/notation/storage/sqlite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// DefaultDBPath is where the roll log lives when no path is configured.
var DefaultDBPath = filepath.Join("data", "notation.db")

// Config holds the notation server settings.
type Config struct {
	Addr   string
	DBPath string
	// Seed makes every roll reproducible when non-zero.
	Seed int64
	// ShutdownTimeout bounds the graceful stop. Zero uses timeouts.Shutdown.
	ShutdownTimeout time.Duration
}

// Server hosts the notation service.
type Server struct {
	listener        net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	store           *notationsqlite.Store
	engine          *notation.Engine
	shutdownTimeout time.Duration
	closeOnce       sync.Once
}

// New creates a configured notation server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithConfig(Config{Addr: fmt.Sprintf(":%d", port)})
}

// NewWithConfig creates a configured notation server.
func NewWithConfig(cfg Config) (*Server, error) {
	dbPath, err := config.PrepareDataPath(cfg.DBPath, DefaultDBPath)
	if err != nil {
		return nil, err
	}

	engine, err := notation.NewEngine(notation.WithSeed(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("build notation engine: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	store, err := notationsqlite.Open(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("open notation sqlite store: %w", err)
	}

	grpcServer := grpc.NewServer(platformgrpc.ServerOptions(
		interceptors.RequestIDInterceptor(),
		interceptors.RollLogInterceptor(telemetry.NewEmitter(store)),
	)...)
	notationgrpc.RegisterNotationServiceServer(grpcServer, notationgrpc.NewService(engine, store))
	healthServer := platformgrpc.RegisterHealth(grpcServer, notationgrpc.ServiceName)

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = timeouts.Shutdown
	}

	return &Server{
		listener:        listener,
		grpcServer:      grpcServer,
		health:          healthServer,
		store:           store,
		engine:          engine,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Addr returns the listener address for the notation server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stats reports the engine's cache counters.
func (s *Server) Stats() notation.Stats {
	if s == nil || s.engine == nil {
		return notation.Stats{}
	}
	return s.engine.Stats()
}

// Run creates and serves a notation server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := NewWithConfig(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the notation server and blocks until it stops or context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("notation server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.gracefulStop()
		err := <-serveErr
		stats := s.Stats()
		log.Printf("notation server stopped: %d cached expressions, %d hits, %d misses", stats.Entries, stats.Hits, stats.Misses)
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// gracefulStop drains in-flight calls, forcing a stop once the shutdown
// timeout passes.
func (s *Server) gracefulStop() {
	if s.health != nil {
		s.health.Shutdown()
	}
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.shutdownTimeout):
		log.Printf("graceful stop exceeded %v; forcing stop", s.shutdownTimeout)
		s.grpcServer.Stop()
		<-done
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}

	s.closeOnce.Do(func() {
		if s.health != nil {
			s.health.Shutdown()
		}
		if s.grpcServer != nil {
			s.grpcServer.Stop()
		}
		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				log.Printf("close notation listener: %v", err)
			}
		}
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				log.Printf("close notation store: %v", err)
			}
		}
	})
}
