package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/types"
)

// Compile-time interface check.
var _ pallet.Connection = (*Server)(nil)

// Server wraps a ledger application with lifecycle enforcement.
// Transports interact with the application exclusively through
// this server.
type Server struct {
	app   pallet.Lifecycle
	guard *LifecycleGuard

	// Optional interface (nil if not supported).
	simulator pallet.Simulator

	logger *slog.Logger

	mu          sync.Mutex
	lastOutcome *types.BlockOutcome
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a new Server wrapping the given application.
func New(app pallet.Lifecycle, opts ...Option) *Server {
	s := &Server{
		app:    app,
		guard:  NewLifecycleGuard(),
		logger: slog.Default(),
	}
	s.simulator, _ = app.(pallet.Simulator)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handshake performs the startup handshake and transitions the state
// machine to Ready.
func (s *Server) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	s.guard.AcquireHandshake()

	resp, err := s.app.Handshake(ctx, req)
	if err != nil {
		s.guard.FailHandshake()
		return resp, err
	}

	s.guard.CompleteHandshake()
	s.logger.Info("handshake complete",
		slog.Uint64("block_number", uint64(resp.BlockNumber)),
		slog.Bool("genesis", req.Genesis != nil))
	return resp, nil
}

// CheckTx performs admission checks on an encoded extrinsic.
// Safe for concurrent use.
func (s *Server) CheckTx(ctx context.Context, tx types.Tx) (types.GateVerdict, error) {
	s.guard.CheckConcurrent()
	return s.app.CheckTx(ctx, tx)
}

// ExecuteBlock executes a block. Calls are serialized.
func (s *Server) ExecuteBlock(ctx context.Context, block types.FinalizedBlock) (types.BlockOutcome, error) {
	s.guard.AcquireExecute()
	defer s.guard.CompleteExecute()

	outcome, err := s.app.ExecuteBlock(ctx, block)
	if err != nil {
		return outcome, err
	}

	s.mu.Lock()
	s.lastOutcome = &outcome
	s.mu.Unlock()

	s.logger.Debug("block executed",
		slog.Uint64("block_number", uint64(outcome.BlockNumber)),
		slog.Int("extrinsics", len(outcome.Outcomes)),
		slog.Int("failed", len(outcome.Failed())))
	return outcome, nil
}

// Query reads application state. Safe for concurrent use.
func (s *Server) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	s.guard.CheckConcurrent()
	return s.app.Query(ctx, req)
}

// Simulate delegates to Simulator if supported.
// Safe for concurrent use.
func (s *Server) Simulate(ctx context.Context, tx types.Tx) (types.ExtrinsicOutcome, error) {
	if s.simulator == nil {
		return types.ExtrinsicOutcome{}, fmt.Errorf("pallet: Simulator not supported")
	}
	s.guard.CheckConcurrent()
	return s.simulator.Simulate(ctx, tx)
}

// AsSimulator returns the Simulator interface or nil.
func (s *Server) AsSimulator() pallet.Simulator {
	if s.simulator == nil {
		return nil
	}
	return s
}

// State returns the current lifecycle state name.
func (s *Server) State() string {
	return s.guard.State()
}

// IsReady reports whether the server has completed Handshake and no
// block is executing.
func (s *Server) IsReady() bool {
	return s.guard.IsReady()
}

// LastOutcome returns the outcome of the most recently executed
// block, or nil if no block has executed yet.
func (s *Server) LastOutcome() *types.BlockOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome
}

// Close is a no-op for the server wrapper.
func (s *Server) Close() error { return nil }
