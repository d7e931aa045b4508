package pallettest

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/server"
	"github.com/blockberries/pallet/types"
)

// Harness provides a convenient test harness for application
// developers to test their Lifecycle implementation against the
// lifecycle state machine.
type Harness struct {
	t   *testing.T
	srv *server.Server
}

// NewHarness creates a test harness wrapping the given application.
func NewHarness(t *testing.T, app pallet.Lifecycle) *Harness {
	t.Helper()
	return &Harness{t: t, srv: server.New(app, server.WithLogger(slog.New(slog.DiscardHandler)))}
}

// Server returns the underlying server for direct access.
func (h *Harness) Server() *server.Server {
	return h.srv
}

// Genesis performs a genesis handshake with the given genesis doc.
func (h *Harness) Genesis(genesis types.GenesisDoc) types.HandshakeResponse {
	h.t.Helper()
	resp, err := h.srv.Handshake(context.Background(), types.HandshakeRequest{
		Genesis: &genesis,
	})
	if err != nil {
		h.t.Fatalf("Handshake (genesis) failed: %v", err)
	}
	return resp
}

// GenesisDefault performs a genesis handshake with a default
// genesis document.
func (h *Harness) GenesisDefault() types.HandshakeResponse {
	h.t.Helper()
	return h.Genesis(DefaultGenesis())
}

// ExecuteBlock executes a block and fails the test if it is rejected.
func (h *Harness) ExecuteBlock(block types.FinalizedBlock) types.BlockOutcome {
	h.t.Helper()
	outcome, err := h.srv.ExecuteBlock(context.Background(), block)
	if err != nil {
		h.t.Fatalf("ExecuteBlock (block_number=%d) failed: %v", block.Header.BlockNumber, err)
	}
	return outcome
}

// MustRejectBlock executes a block and fails the test unless it is
// rejected with a *pallet.BlockRejectedError.
func (h *Harness) MustRejectBlock(block types.FinalizedBlock) *pallet.BlockRejectedError {
	h.t.Helper()
	_, err := h.srv.ExecuteBlock(context.Background(), block)
	rejected, ok := pallet.IsBlockRejected(err)
	if !ok {
		h.t.Fatalf("expected block %d rejected, got err=%v", block.Header.BlockNumber, err)
	}
	return rejected
}

// CheckTx submits an extrinsic for admission checking.
func (h *Harness) CheckTx(tx types.Tx) types.GateVerdict {
	h.t.Helper()
	verdict, err := h.srv.CheckTx(context.Background(), tx)
	if err != nil {
		h.t.Fatalf("CheckTx failed: %v", err)
	}
	return verdict
}

// Query reads application state at the latest block.
func (h *Harness) Query(path types.QueryPath, data []byte) types.StateQueryResult {
	h.t.Helper()
	result, err := h.srv.Query(context.Background(), types.StateQuery{
		Path: path,
		Data: data,
	})
	if err != nil {
		h.t.Fatalf("Query failed: %v", err)
	}
	return result
}

// MustAcceptTx asserts that an extrinsic is accepted.
func (h *Harness) MustAcceptTx(tx types.Tx) {
	h.t.Helper()
	v := h.CheckTx(tx)
	if !v.Accepted() {
		h.t.Fatalf("expected tx accepted, got code=%d info=%q", v.Code, v.Info)
	}
}

// MustRejectTx asserts that an extrinsic is rejected.
func (h *Harness) MustRejectTx(tx types.Tx) {
	h.t.Helper()
	v := h.CheckTx(tx)
	if v.Accepted() {
		h.t.Fatal("expected tx rejected, got accepted")
	}
}

// --- Helper Factories ---

// DefaultGenesis returns a minimal genesis document suitable
// for testing.
func DefaultGenesis() types.GenesisDoc {
	return types.GenesisDoc{
		ChainID: "test-chain",
		Balances: []types.GenesisBalance{
			{Account: "alice", Amount: "1000"},
			{Account: "bob", Amount: "1000"},
		},
	}
}

// MakeBlock creates a FinalizedBlock with the given number and
// encoded extrinsics.
func MakeBlock(number types.BlockNumber, txs ...types.Tx) types.FinalizedBlock {
	return types.FinalizedBlock{
		Header: types.Header{BlockNumber: number},
		Txs:    txs,
	}
}

// MakeEmptyBlock creates an empty FinalizedBlock with the given number.
func MakeEmptyBlock(number types.BlockNumber) types.FinalizedBlock {
	return MakeBlock(number)
}
