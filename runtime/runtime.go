// Package runtime composes the system, balances and proof-of-existence
// pallets into a single ledger and executes blocks against it.
//
// The runtime is the composition root: it owns one instance of each
// pallet, defines the closed union of callable operations ([Call]),
// routes each call to the owning pallet and enforces the ordering rules
// of block execution. A Runtime is not safe for concurrent use; [App]
// wraps it for concurrent surfaces.
package runtime

import (
	"fmt"
	"log/slog"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/balances"
	"github.com/blockberries/pallet/poe"
	"github.com/blockberries/pallet/system"
	"github.com/blockberries/pallet/types"
)

// Compile-time interface check.
var _ pallet.Dispatcher[types.AccountID, Call] = (*Runtime)(nil)

// Runtime owns the ledger state.
type Runtime struct {
	System           *system.Pallet[types.AccountID]
	Balances         *balances.Pallet[types.AccountID]
	ProofOfExistence *poe.Pallet[types.AccountID]

	logger  *slog.Logger
	metrics *Metrics
	report  func(*pallet.ExtrinsicError)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used to report rejected blocks and failed
// extrinsics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithMetrics records block and extrinsic counters into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) { r.metrics = m }
}

// WithErrorReporter registers fn to receive every failed extrinsic, in
// addition to the log line.
func WithErrorReporter(fn func(*pallet.ExtrinsicError)) Option {
	return func(r *Runtime) { r.report = fn }
}

// New creates a runtime with empty state at block 0.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		System:           system.New[types.AccountID](),
		Balances:         balances.New[types.AccountID](),
		ProofOfExistence: poe.New[types.AccountID](),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ApplyGenesis seeds balances from doc. This is the only path that sets
// balances outside of dispatch and must run before the first block.
func (r *Runtime) ApplyGenesis(doc types.GenesisDoc) error {
	if r.System.BlockNumber() != 0 {
		return fmt.Errorf("runtime: genesis after block %d", r.System.BlockNumber())
	}
	seen := make(map[types.AccountID]struct{}, len(doc.Balances))
	for _, gb := range doc.Balances {
		if gb.Account == "" {
			return fmt.Errorf("runtime: genesis balance without account")
		}
		if _, dup := seen[gb.Account]; dup {
			return fmt.Errorf("runtime: duplicate genesis account %q", gb.Account)
		}
		seen[gb.Account] = struct{}{}

		amount, err := types.ParseBalance(gb.Amount)
		if err != nil {
			return fmt.Errorf("runtime: genesis account %q: %w", gb.Account, err)
		}
		r.Balances.SetBalance(gb.Account, amount)
	}
	return nil
}

// Dispatch routes call to the pallet that owns it.
func (r *Runtime) Dispatch(caller types.AccountID, call Call) error {
	switch c := call.(type) {
	case BalancesCall:
		return r.Balances.Dispatch(caller, c.Call)
	case ProofOfExistenceCall:
		return r.ProofOfExistence.Dispatch(caller, c.Call)
	default:
		return fmt.Errorf("runtime: unknown call %T", call)
	}
}

// ExecuteBlock advances the block number and, if the header matches it,
// applies every extrinsic in order.
//
// A header mismatch rejects the whole block with a
// *pallet.BlockRejectedError before any extrinsic runs; the block number
// increment itself is kept. Otherwise each extrinsic increments its
// caller's nonce and is dispatched. Dispatch failures are reported and
// recorded in the outcome, and execution continues with the next
// extrinsic.
func (r *Runtime) ExecuteBlock(block Block) (types.BlockOutcome, error) {
	return r.execute(block.Header, len(block.Extrinsics), func(i int) (Extrinsic, error) {
		return block.Extrinsics[i], nil
	})
}

// execute runs n extrinsics produced by next. An extrinsic next fails
// to produce is recorded as malformed and touches no state.
func (r *Runtime) execute(header types.Header, n int, next func(i int) (Extrinsic, error)) (types.BlockOutcome, error) {
	r.System.IncBlockNumber()
	current := r.System.BlockNumber()
	if header.BlockNumber != current {
		err := pallet.NewBlockMismatchError(current, header.BlockNumber)
		r.logger.Error("block rejected",
			slog.Uint64("block_number", uint64(header.BlockNumber)),
			slog.Uint64("expected", uint64(current)),
			slog.String("error", err.Error()))
		r.metrics.blockRejected()
		return types.BlockOutcome{}, err
	}

	outcome := types.BlockOutcome{
		BlockNumber: current,
		Outcomes:    make([]types.ExtrinsicOutcome, n),
	}
	for i := range n {
		ext, err := next(i)
		if err != nil {
			outcome.Outcomes[i] = r.fail(current, i, "", types.CodeMalformed, "malformed", err)
			continue
		}
		outcome.Outcomes[i] = r.apply(current, i, ext)
	}
	outcome.AppHash = r.StateRoot()

	r.metrics.blockExecuted(current)
	return outcome, nil
}

// apply increments the caller's nonce and dispatches the call. The
// nonce increment is kept whether or not dispatch succeeds.
func (r *Runtime) apply(number types.BlockNumber, index int, ext Extrinsic) types.ExtrinsicOutcome {
	r.System.IncNonce(ext.Caller)

	name := palletOf(ext.Call)
	if err := r.Dispatch(ext.Caller, ext.Call); err != nil {
		return r.fail(number, index, ext.Caller, types.CodeDispatchFailed, name, err)
	}

	r.metrics.extrinsic(name, true)
	return types.ExtrinsicOutcome{
		Index:  uint32(index),
		Code:   types.CodeOK,
		Caller: ext.Caller,
		Events: events(ext.Caller, ext.Call),
	}
}

func (r *Runtime) fail(number types.BlockNumber, index int, caller types.AccountID, code uint32, name string, err error) types.ExtrinsicOutcome {
	xerr := &pallet.ExtrinsicError{BlockNumber: number, Index: index, Err: err}
	r.logger.Warn("extrinsic failed",
		slog.Uint64("block_number", uint64(number)),
		slog.Int("index", index),
		slog.String("caller", string(caller)),
		slog.String("error", err.Error()))
	if r.report != nil {
		r.report(xerr)
	}
	r.metrics.extrinsic(name, false)
	return types.ExtrinsicOutcome{
		Index:  uint32(index),
		Code:   code,
		Info:   err.Error(),
		Caller: caller,
	}
}

// Clone returns a detached copy of the ledger state. The copy logs
// nothing and records no metrics.
func (r *Runtime) Clone() *Runtime {
	return &Runtime{
		System:           r.System.Clone(),
		Balances:         r.Balances.Clone(),
		ProofOfExistence: r.ProofOfExistence.Clone(),
		logger:           slog.New(slog.DiscardHandler),
	}
}

func palletOf(call Call) string {
	if call == nil {
		return "unknown"
	}
	return call.pallet()
}
