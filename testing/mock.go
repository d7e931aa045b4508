// Package pallettest provides test utilities for ledger application
// development, including a configurable mock, a test harness,
// and a lifecycle compliance test suite.
package pallettest

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/types"
)

// Compile-time check that MockApp satisfies all interfaces.
var (
	_ pallet.Lifecycle = (*MockApp)(nil)
	_ pallet.Simulator = (*MockApp)(nil)
)

// MockApp is a configurable mock ledger application for transport
// testing. All methods are configurable via function fields.
// Unconfigured methods behave like a ledger with no pallets: blocks
// must carry the next block number and every extrinsic succeeds.
type MockApp struct {
	mu          sync.Mutex
	blockNumber types.BlockNumber

	// Configurable handlers. If nil, defaults are used.
	HandshakeFn    func(context.Context, types.HandshakeRequest) (types.HandshakeResponse, error)
	CheckTxFn      func(context.Context, types.Tx) (types.GateVerdict, error)
	ExecuteBlockFn func(context.Context, types.FinalizedBlock) (types.BlockOutcome, error)
	QueryFn        func(context.Context, types.StateQuery) (types.StateQueryResult, error)
	SimulateFn     func(context.Context, types.Tx) (types.ExtrinsicOutcome, error)

	// Call counters (atomic for concurrent access).
	HandshakeCalls    atomic.Int64
	CheckTxCalls      atomic.Int64
	ExecuteBlockCalls atomic.Int64
	QueryCalls        atomic.Int64
	SimulateCalls     atomic.Int64
}

func (m *MockApp) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	m.HandshakeCalls.Add(1)
	if m.HandshakeFn != nil {
		return m.HandshakeFn(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h := mockHash(m.blockNumber)
	return types.HandshakeResponse{BlockNumber: m.blockNumber, AppHash: &h}, nil
}

func (m *MockApp) CheckTx(ctx context.Context, tx types.Tx) (types.GateVerdict, error) {
	m.CheckTxCalls.Add(1)
	if m.CheckTxFn != nil {
		return m.CheckTxFn(ctx, tx)
	}
	return types.GateVerdict{Code: 0}, nil
}

func (m *MockApp) ExecuteBlock(ctx context.Context, block types.FinalizedBlock) (types.BlockOutcome, error) {
	m.ExecuteBlockCalls.Add(1)
	if m.ExecuteBlockFn != nil {
		return m.ExecuteBlockFn(ctx, block)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockNumber++
	if block.Header.BlockNumber != m.blockNumber {
		return types.BlockOutcome{}, pallet.NewBlockMismatchError(m.blockNumber, block.Header.BlockNumber)
	}
	outcomes := make([]types.ExtrinsicOutcome, len(block.Txs))
	for i := range block.Txs {
		outcomes[i] = types.ExtrinsicOutcome{Index: uint32(i), Code: 0}
	}
	return types.BlockOutcome{
		BlockNumber: m.blockNumber,
		Outcomes:    outcomes,
		AppHash:     mockHash(m.blockNumber),
	}, nil
}

func (m *MockApp) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	m.QueryCalls.Add(1)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.StateQueryResult{BlockNumber: m.blockNumber}, nil
}

func (m *MockApp) Simulate(ctx context.Context, tx types.Tx) (types.ExtrinsicOutcome, error) {
	m.SimulateCalls.Add(1)
	if m.SimulateFn != nil {
		return m.SimulateFn(ctx, tx)
	}
	return types.ExtrinsicOutcome{Code: 0}, nil
}

func mockHash(n types.BlockNumber) types.AppHash {
	return types.AppHash(sha256.Sum256(binary.BigEndian.AppendUint32(nil, uint32(n))))
}
