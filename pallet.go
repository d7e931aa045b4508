// Package pallet defines the contracts of a modular ledger runtime.
//
// A runtime is composed of independent state modules (pallets). Every
// pallet, and the runtime that owns them, implements the same
// [Dispatcher] contract, so routing a call is structural: the runtime
// matches the call variant and forwards it to the owning pallet.
//
// The [Lifecycle] interface is the application boundary used by the
// server, local and gRPC packages. It operates on encoded extrinsics so
// that transports never need to know the runtime's call union.
package pallet

import (
	"context"

	"github.com/blockberries/pallet/types"
)

// Dispatcher is implemented by anything that can execute a call on
// behalf of a caller. Call is a closed set of operation variants.
//
// Dispatch matches the variant, invokes the corresponding state
// transition and returns its error unchanged.
type Dispatcher[Caller any, Call any] interface {
	Dispatch(caller Caller, call Call) error
}

// Lifecycle is the core interface every ledger application implements.
//
// The engine guarantees the following call order:
//  1. Handshake is called exactly once, before anything else.
//  2. ExecuteBlock is called once per block, sequentially.
//  3. CheckTx and Query may be called concurrently at any time after Handshake.
type Lifecycle interface {
	// Handshake is called once on startup. If Genesis is set, the
	// application seeds its state from it. Seeding is the only way
	// to set balances outside of dispatch.
	Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error)

	// CheckTx performs stateless admission checks on an encoded
	// extrinsic. It never mutates state.
	//
	// This method MUST be safe for concurrent use.
	CheckTx(ctx context.Context, tx types.Tx) (types.GateVerdict, error)

	// ExecuteBlock executes a block of encoded extrinsics in order.
	//
	// A block whose header number is not the next block number is
	// rejected with a *BlockRejectedError and none of its extrinsics
	// run. Otherwise every extrinsic is attempted; individual failures
	// are reported in the returned outcome and never abort the block.
	ExecuteBlock(ctx context.Context, block types.FinalizedBlock) (types.BlockOutcome, error)

	// Query reads application state.
	//
	// This method MUST be safe for concurrent use, including concurrent
	// with ExecuteBlock.
	Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error)
}

// Simulator dry-runs a single extrinsic against current state without
// persisting any change. Applications implement it optionally; it is
// discovered by type assertion.
type Simulator interface {
	// Simulate MUST be safe for concurrent use.
	Simulate(ctx context.Context, tx types.Tx) (types.ExtrinsicOutcome, error)
}

// Connection represents a transport-agnostic connection to a ledger
// application. Both gRPC clients and in-process adapters implement this.
type Connection interface {
	Lifecycle

	// AsSimulator returns the Simulator interface if available, or nil.
	AsSimulator() Simulator

	// Close terminates the connection.
	Close() error
}
