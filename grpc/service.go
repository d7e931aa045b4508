package palletgrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/blockberries/pallet/types"
)

const serviceName = "pallet.v1.LedgerService"

// LedgerServiceServer is the server-side interface for the ledger gRPC service.
type LedgerServiceServer interface {
	Handshake(context.Context, *types.HandshakeRequest) (*types.HandshakeResponse, error)
	CheckTx(context.Context, *CheckTxRequest) (*types.GateVerdict, error)
	ExecuteBlock(context.Context, *types.FinalizedBlock) (*ExecuteBlockResponse, error)
	Query(context.Context, *types.StateQuery) (*types.StateQueryResult, error)
	Simulate(context.Context, *SimulateRequest) (*types.ExtrinsicOutcome, error)
}

// RegisterLedgerServiceServer registers the LedgerServiceServer on a gRPC server.
func RegisterLedgerServiceServer(s *grpc.Server, srv LedgerServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerHandshake(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.HandshakeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return intercept(ctx, req, "Handshake", interceptor, func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).Handshake(ctx, req.(*types.HandshakeRequest))
	})
}

func handlerCheckTx(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(CheckTxRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return intercept(ctx, req, "CheckTx", interceptor, func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).CheckTx(ctx, req.(*CheckTxRequest))
	})
}

func handlerExecuteBlock(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.FinalizedBlock)
	if err := dec(req); err != nil {
		return nil, err
	}
	return intercept(ctx, req, "ExecuteBlock", interceptor, func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).ExecuteBlock(ctx, req.(*types.FinalizedBlock))
	})
}

func handlerQuery(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.StateQuery)
	if err := dec(req); err != nil {
		return nil, err
	}
	return intercept(ctx, req, "Query", interceptor, func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).Query(ctx, req.(*types.StateQuery))
	})
}

func handlerSimulate(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SimulateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return intercept(ctx, req, "Simulate", interceptor, func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).Simulate(ctx, req.(*SimulateRequest))
	})
}

// intercept runs handler through the server's unary interceptor chain,
// if one is installed.
func intercept(ctx context.Context, req any, method string, interceptor grpc.UnaryServerInterceptor, handler grpc.UnaryHandler) (any, error) {
	if interceptor == nil {
		return handler(ctx, req)
	}
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod(method)}
	return interceptor(ctx, req, info, handler)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for the ledger.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Handshake", Handler: handlerHandshake},
		{MethodName: "CheckTx", Handler: handlerCheckTx},
		{MethodName: "ExecuteBlock", Handler: handlerExecuteBlock},
		{MethodName: "Query", Handler: handlerQuery},
		{MethodName: "Simulate", Handler: handlerSimulate},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pallet/v1/service.cram",
}
