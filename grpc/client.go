package palletgrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/server"
	"github.com/blockberries/pallet/types"
)

// Compile-time interface check.
var _ pallet.Connection = (*Client)(nil)

// Client implements pallet.Connection for remote applications
// over gRPC using cramberry serialization. No protobuf types
// or conversion layer required.
type Client struct {
	cc    *grpc.ClientConn
	guard *server.LifecycleGuard
}

// Dial creates a client for a remote ledger application. The
// connection is established lazily on the first call.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("pallet client: dial %s: %w", addr, err)
	}
	return &Client{
		cc:    cc,
		guard: server.NewLifecycleGuard(),
	}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

// --- Lifecycle ---

func (c *Client) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	c.guard.AcquireHandshake()

	resp := new(types.HandshakeResponse)
	err := c.cc.Invoke(ctx, fullMethod("Handshake"), &req, resp)
	if err != nil {
		c.guard.FailHandshake()
		return types.HandshakeResponse{}, err
	}

	c.guard.CompleteHandshake()
	return *resp, nil
}

func (c *Client) CheckTx(ctx context.Context, tx types.Tx) (types.GateVerdict, error) {
	c.guard.CheckConcurrent()

	req := &CheckTxRequest{Tx: tx}
	resp := new(types.GateVerdict)
	if err := c.cc.Invoke(ctx, fullMethod("CheckTx"), req, resp); err != nil {
		return types.GateVerdict{}, err
	}
	return *resp, nil
}

// ExecuteBlock executes a block remotely. A rejected block is returned
// as a *pallet.BlockRejectedError, as with a local connection.
func (c *Client) ExecuteBlock(ctx context.Context, block types.FinalizedBlock) (types.BlockOutcome, error) {
	c.guard.AcquireExecute()
	defer c.guard.CompleteExecute()

	resp := new(ExecuteBlockResponse)
	if err := c.cc.Invoke(ctx, fullMethod("ExecuteBlock"), &block, resp); err != nil {
		return types.BlockOutcome{}, err
	}
	return resp.result()
}

func (c *Client) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	c.guard.CheckConcurrent()

	resp := new(types.StateQueryResult)
	if err := c.cc.Invoke(ctx, fullMethod("Query"), &req, resp); err != nil {
		return types.StateQueryResult{}, err
	}
	return *resp, nil
}

// AsSimulator returns a remote Simulator. If the application does not
// support simulation, its calls fail with codes.Unimplemented.
func (c *Client) AsSimulator() pallet.Simulator {
	return &clientSimulator{c}
}

// --- Simulator wrapper ---

type clientSimulator struct{ c *Client }

func (w *clientSimulator) Simulate(ctx context.Context, tx types.Tx) (types.ExtrinsicOutcome, error) {
	w.c.guard.CheckConcurrent()

	req := &SimulateRequest{Tx: tx}
	resp := new(types.ExtrinsicOutcome)
	if err := w.c.cc.Invoke(ctx, fullMethod("Simulate"), req, resp); err != nil {
		return types.ExtrinsicOutcome{}, err
	}
	return *resp, nil
}
