package pallet

import (
	"errors"
	"fmt"

	"github.com/blockberries/pallet/types"
)

// ErrBlockNumberMismatch is the reason a block is rejected when its
// header does not carry the expected block number.
var ErrBlockNumberMismatch = errors.New("block number does not match what is expected")

// BlockRejectedError signals that a whole block was refused before any
// of its extrinsics ran.
type BlockRejectedError struct {
	Expected types.BlockNumber
	Got      types.BlockNumber
	Reason   error
}

func (e *BlockRejectedError) Error() string {
	return fmt.Sprintf("block %d rejected (expected %d): %v", e.Got, e.Expected, e.Reason)
}

func (e *BlockRejectedError) Unwrap() error { return e.Reason }

// NewBlockMismatchError creates a BlockRejectedError for a header that
// does not match the ledger's block number.
func NewBlockMismatchError(expected, got types.BlockNumber) *BlockRejectedError {
	return &BlockRejectedError{Expected: expected, Got: got, Reason: ErrBlockNumberMismatch}
}

// IsBlockRejected checks whether an error is a BlockRejectedError and returns it.
func IsBlockRejected(err error) (*BlockRejectedError, bool) {
	var r *BlockRejectedError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// ExtrinsicError records a failed dispatch inside a block. It is
// reported and discarded by block execution; it never aborts the block.
type ExtrinsicError struct {
	BlockNumber types.BlockNumber
	Index       int
	Err         error
}

func (e *ExtrinsicError) Error() string {
	return fmt.Sprintf("extrinsic %d in block %d: %v", e.Index, e.BlockNumber, e.Err)
}

func (e *ExtrinsicError) Unwrap() error { return e.Err }

// IsExtrinsic checks whether an error is an ExtrinsicError and returns it.
func IsExtrinsic(err error) (*ExtrinsicError, bool) {
	var x *ExtrinsicError
	if errors.As(err, &x) {
		return x, true
	}
	return nil, false
}
