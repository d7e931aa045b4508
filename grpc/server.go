package palletgrpc

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/server"
	"github.com/blockberries/pallet/types"
)

// Compile-time interface check.
var _ LedgerServiceServer = (*GRPCServer)(nil)

// GRPCServer wraps a ledger application as a gRPC server.
// No type conversion is needed: domain types are serialized
// directly via cramberry.
type GRPCServer struct {
	srv    *server.Server
	logger *slog.Logger
}

// NewGRPCServer creates a gRPC server wrapping the given application.
func NewGRPCServer(app pallet.Lifecycle, logger *slog.Logger) *GRPCServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &GRPCServer{
		srv:    server.New(app, server.WithLogger(logger)),
		logger: logger,
	}
}

// Register adds the ledger service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterLedgerServiceServer(gs, s)
}

// NewServer creates a *grpc.Server with the logging and recovery
// interceptors installed and the ledger service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(s.logger),
		RecoveryInterceptor(s.logger),
	))
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs
}

// Serve starts the gRPC server on the given listener.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	return s.NewServer(opts...).Serve(lis)
}

// Server returns the underlying server for advanced use.
func (s *GRPCServer) Server() *server.Server {
	return s.srv
}

// --- Lifecycle RPCs ---

func (s *GRPCServer) Handshake(ctx context.Context, req *types.HandshakeRequest) (*types.HandshakeResponse, error) {
	resp, err := s.srv.Handshake(ctx, *req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &resp, nil
}

func (s *GRPCServer) CheckTx(ctx context.Context, req *CheckTxRequest) (*types.GateVerdict, error) {
	verdict, err := s.srv.CheckTx(ctx, req.Tx)
	if err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (s *GRPCServer) ExecuteBlock(ctx context.Context, block *types.FinalizedBlock) (*ExecuteBlockResponse, error) {
	outcome, err := s.srv.ExecuteBlock(ctx, *block)
	if rejected, ok := pallet.IsBlockRejected(err); ok {
		return &ExecuteBlockResponse{Rejected: &BlockRejection{
			Expected: rejected.Expected,
			Got:      rejected.Got,
		}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ExecuteBlockResponse{Outcome: outcome}, nil
}

func (s *GRPCServer) Query(ctx context.Context, req *types.StateQuery) (*types.StateQueryResult, error) {
	result, err := s.srv.Query(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Simulator RPC ---

func (s *GRPCServer) Simulate(ctx context.Context, req *SimulateRequest) (*types.ExtrinsicOutcome, error) {
	if s.srv.AsSimulator() == nil {
		return nil, status.Error(codes.Unimplemented, "application does not support simulation")
	}
	outcome, err := s.srv.Simulate(ctx, req.Tx)
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}
