package runtime

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/types"
)

// Compile-time interface checks.
var (
	_ pallet.Lifecycle = (*App)(nil)
	_ pallet.Simulator = (*App)(nil)
)

// App exposes a Runtime through the pallet.Lifecycle interface. It
// decodes extrinsics with DecodeExtrinsic and serializes access to the
// runtime, so it is safe for concurrent use.
type App struct {
	mu sync.RWMutex
	rt *Runtime
}

// NewApp wraps rt. The caller must not use rt directly afterwards.
func NewApp(rt *Runtime) *App {
	return &App{rt: rt}
}

func (app *App) Handshake(_ context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if req.Genesis != nil {
		if err := app.rt.ApplyGenesis(*req.Genesis); err != nil {
			return types.HandshakeResponse{}, err
		}
	}
	h := app.rt.StateRoot()
	return types.HandshakeResponse{
		BlockNumber: app.rt.System.BlockNumber(),
		AppHash:     &h,
	}, nil
}

func (app *App) CheckTx(_ context.Context, tx types.Tx) (types.GateVerdict, error) {
	ext, err := DecodeExtrinsic(tx)
	if err != nil {
		return types.GateVerdict{Code: types.CodeMalformed, Info: err.Error()}, nil
	}
	if ext.Caller == "" {
		return types.GateVerdict{Code: types.CodeMalformed, Info: "missing caller"}, nil
	}
	return types.GateVerdict{Code: types.CodeOK, Sender: ext.Caller}, nil
}

func (app *App) ExecuteBlock(_ context.Context, block types.FinalizedBlock) (types.BlockOutcome, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.rt.execute(block.Header, len(block.Txs), func(i int) (Extrinsic, error) {
		return DecodeExtrinsic(block.Txs[i])
	})
}

func (app *App) Query(_ context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()

	res := types.StateQueryResult{
		Key:         req.Data,
		BlockNumber: app.rt.System.BlockNumber(),
	}
	switch req.Path {
	case types.PathBlockNumber:
		res.Value = binary.BigEndian.AppendUint32(nil, uint32(res.BlockNumber))
	case types.PathNonce:
		n := app.rt.System.Nonce(types.AccountID(req.Data))
		res.Value = binary.BigEndian.AppendUint32(nil, uint32(n))
	case types.PathBalance:
		raw := types.BalanceBytes(app.rt.Balances.Balance(types.AccountID(req.Data)))
		res.Value = raw[:]
	case types.PathClaim:
		owner, ok := app.rt.ProofOfExistence.GetClaim(types.Content(req.Data))
		if !ok {
			res.Code = types.QueryNotFound
			res.Info = "unclaimed"
			break
		}
		res.Value = []byte(owner)
	default:
		res.Code = types.QueryUnknownPath
		res.Info = fmt.Sprintf("unknown query path %q", req.Path)
	}
	return res, nil
}

// Simulate applies tx to a copy of the current state, including the
// caller's nonce increment, and reports what would happen.
func (app *App) Simulate(_ context.Context, tx types.Tx) (types.ExtrinsicOutcome, error) {
	ext, err := DecodeExtrinsic(tx)
	if err != nil {
		return types.ExtrinsicOutcome{Code: types.CodeMalformed, Info: err.Error()}, nil
	}

	app.mu.RLock()
	scratch := app.rt.Clone()
	app.mu.RUnlock()

	return scratch.apply(scratch.System.BlockNumber()+1, 0, ext), nil
}

// StateRoot returns the current state root.
func (app *App) StateRoot() types.AppHash {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.rt.StateRoot()
}
