package palletgrpc

import (
	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/types"
)

// Transport-specific wrapper types for RPC methods whose interface
// signatures don't map to a single request/response struct.
// These are used only for gRPC serialization boundaries.

// CheckTxRequest wraps the parameter for Lifecycle.CheckTx.
type CheckTxRequest struct {
	Tx types.Tx `cramberry:"1"`
}

// SimulateRequest wraps the parameter for Simulator.Simulate.
type SimulateRequest struct {
	Tx types.Tx `cramberry:"1"`
}

// BlockRejection carries a *pallet.BlockRejectedError across the wire.
type BlockRejection struct {
	Expected types.BlockNumber `cramberry:"1"`
	Got      types.BlockNumber `cramberry:"2"`
}

// ExecuteBlockResponse holds either the outcome of an executed block
// or the reason it was rejected. A rejection is an application
// result, not a transport failure, so it travels in the body.
type ExecuteBlockResponse struct {
	Outcome  types.BlockOutcome `cramberry:"1"`
	Rejected *BlockRejection    `cramberry:"2"`
}

func (r *ExecuteBlockResponse) result() (types.BlockOutcome, error) {
	if r.Rejected != nil {
		return types.BlockOutcome{}, pallet.NewBlockMismatchError(r.Rejected.Expected, r.Rejected.Got)
	}
	return r.Outcome, nil
}
