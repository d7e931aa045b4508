// Package local provides an in-process ledger connection.
//
// For applications compiled into the same binary as the block
// producer, this adapter wraps the application with lifecycle state
// machine enforcement and passes values through with no
// serialization.
package local

import (
	"context"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/server"
	"github.com/blockberries/pallet/types"
)

// Compile-time interface check.
var _ pallet.Connection = (*Connection)(nil)

// Connection wraps a local Lifecycle implementation with lifecycle
// enforcement.
type Connection struct {
	srv *server.Server
}

// NewConnection creates an in-process connection wrapping the given
// application.
func NewConnection(app pallet.Lifecycle, opts ...server.Option) *Connection {
	return &Connection{srv: server.New(app, opts...)}
}

func (c *Connection) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	return c.srv.Handshake(ctx, req)
}

func (c *Connection) CheckTx(ctx context.Context, tx types.Tx) (types.GateVerdict, error) {
	return c.srv.CheckTx(ctx, tx)
}

func (c *Connection) ExecuteBlock(ctx context.Context, block types.FinalizedBlock) (types.BlockOutcome, error) {
	return c.srv.ExecuteBlock(ctx, block)
}

func (c *Connection) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	return c.srv.Query(ctx, req)
}

func (c *Connection) AsSimulator() pallet.Simulator {
	return c.srv.AsSimulator()
}

func (c *Connection) Close() error { return nil }

// Server returns the underlying server for advanced use cases.
func (c *Connection) Server() *server.Server {
	return c.srv
}
