package runtime

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/balances"
	"github.com/blockberries/pallet/poe"
	"github.com/blockberries/pallet/types"
)

const (
	alice   types.AccountID = "alice"
	bob     types.AccountID = "bob"
	charlie types.AccountID = "charlie"
)

func bal(n uint64) types.Balance { return types.NewBalance(n) }

func ext(caller types.AccountID, call Call) Extrinsic {
	return Extrinsic{Caller: caller, Call: call}
}

func quiet() Option {
	return WithLogger(slog.New(slog.DiscardHandler))
}

func newFunded(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt := New(append([]Option{quiet()}, opts...)...)
	require.NoError(t, rt.ApplyGenesis(types.GenesisDoc{
		ChainID:  "test",
		Balances: []types.GenesisBalance{{Account: alice, Amount: "100"}},
	}))
	return rt
}

func TestExecuteBlock_Transfers(t *testing.T) {
	rt := newFunded(t)

	out, err := rt.ExecuteBlock(NewBlock(1,
		ext(alice, Transfer(bob, bal(30))),
		ext(alice, Transfer(charlie, bal(20))),
	))
	require.NoError(t, err)
	require.Empty(t, out.Failed())
	require.Equal(t, types.BlockNumber(1), out.BlockNumber)

	require.Equal(t, bal(50), rt.Balances.Balance(alice))
	require.Equal(t, bal(30), rt.Balances.Balance(bob))
	require.Equal(t, bal(20), rt.Balances.Balance(charlie))
	require.Equal(t, types.Nonce(2), rt.System.Nonce(alice))
	require.Equal(t, types.BlockNumber(1), rt.System.BlockNumber())

	ev := out.Outcomes[0].Events
	require.Len(t, ev, 1)
	require.Equal(t, "balances.transfer", ev[0].Kind)
	amount, ok := ev[0].Attr("amount")
	require.True(t, ok)
	require.Equal(t, "30", amount)
}

func TestExecuteBlock_Claims(t *testing.T) {
	rt := newFunded(t)
	content := types.Content("Hello, world!")

	out, err := rt.ExecuteBlock(NewBlock(1,
		ext(alice, CreateClaim(content)),
		ext(bob, CreateClaim(content)),
	))
	require.NoError(t, err)

	require.True(t, out.Outcomes[0].OK())
	require.Equal(t, types.CodeDispatchFailed, out.Outcomes[1].Code)
	require.Equal(t, poe.ErrAlreadyClaimed.Error(), out.Outcomes[1].Info)

	owner, ok := rt.ProofOfExistence.GetClaim(content)
	require.True(t, ok)
	require.Equal(t, alice, owner)

	out, err = rt.ExecuteBlock(NewBlock(2,
		ext(bob, RevokeClaim(content)),
		ext(alice, RevokeClaim(content)),
	))
	require.NoError(t, err)
	require.Equal(t, poe.ErrNotClaimOwner.Error(), out.Outcomes[0].Info)
	require.True(t, out.Outcomes[1].OK())
	require.Equal(t, "poe.claim_revoked", out.Outcomes[1].Events[0].Kind)

	_, ok = rt.ProofOfExistence.GetClaim(content)
	require.False(t, ok)
}

func TestExecuteBlock_NonceIncrementsOnFailure(t *testing.T) {
	rt := newFunded(t)

	out, err := rt.ExecuteBlock(NewBlock(1,
		ext(bob, Transfer(alice, bal(1))),
		ext(bob, RevokeClaim("nothing")),
	))
	require.NoError(t, err)
	require.Len(t, out.Failed(), 2)
	require.Equal(t, types.Nonce(2), rt.System.Nonce(bob))
	require.Equal(t, bal(100), rt.Balances.Balance(alice))
}

func TestExecuteBlock_RejectsWrongNumber(t *testing.T) {
	rt := newFunded(t)
	_, err := rt.ExecuteBlock(NewBlock(1))
	require.NoError(t, err)

	before := rt.StateRoot()
	_, err = rt.ExecuteBlock(NewBlock(5,
		ext(alice, Transfer(bob, bal(10))),
		ext(alice, CreateClaim("doc")),
	))
	require.ErrorIs(t, err, pallet.ErrBlockNumberMismatch)

	rejected, ok := pallet.IsBlockRejected(err)
	require.True(t, ok)
	require.Equal(t, types.BlockNumber(2), rejected.Expected)
	require.Equal(t, types.BlockNumber(5), rejected.Got)

	// The block number increment is kept; nothing else moves.
	require.Equal(t, types.BlockNumber(2), rt.System.BlockNumber())
	require.Equal(t, bal(100), rt.Balances.Balance(alice))
	require.Equal(t, bal(0), rt.Balances.Balance(bob))
	require.Equal(t, types.Nonce(0), rt.System.Nonce(alice))
	_, claimed := rt.ProofOfExistence.GetClaim("doc")
	require.False(t, claimed)
	require.NotEqual(t, before, rt.StateRoot())

	// The next block must carry number 3.
	_, err = rt.ExecuteBlock(NewBlock(2))
	require.Error(t, err)
	_, err = rt.ExecuteBlock(NewBlock(4))
	require.NoError(t, err)
}

func TestExecuteBlock_ReportsFailures(t *testing.T) {
	var reported []*pallet.ExtrinsicError
	rt := newFunded(t, WithErrorReporter(func(err *pallet.ExtrinsicError) {
		reported = append(reported, err)
	}))

	_, err := rt.ExecuteBlock(NewBlock(1,
		ext(alice, Transfer(bob, bal(10))),
		ext(charlie, Transfer(bob, bal(10))),
	))
	require.NoError(t, err)
	require.Len(t, reported, 1)
	require.Equal(t, 1, reported[0].Index)
	require.Equal(t, types.BlockNumber(1), reported[0].BlockNumber)
	require.ErrorIs(t, reported[0], balances.ErrInsufficientFunds)
}

func TestExecuteBlock_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	rt := newFunded(t, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := rt.ExecuteBlock(NewBlock(1, ext(bob, Transfer(alice, bal(1)))))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "extrinsic failed")
	require.Contains(t, buf.String(), "caller=bob")
	require.Contains(t, buf.String(), "not enough funds")
}

func TestExecuteBlock_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	rt := newFunded(t, WithMetrics(m))

	_, err := rt.ExecuteBlock(NewBlock(1,
		ext(alice, Transfer(bob, bal(10))),
		ext(bob, CreateClaim("doc")),
		ext(bob, CreateClaim("doc")),
	))
	require.NoError(t, err)
	_, err = rt.ExecuteBlock(NewBlock(7))
	require.Error(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(m.blocks.WithLabelValues("executed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.blocks.WithLabelValues("rejected")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.extrinsics.WithLabelValues("balances", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.extrinsics.WithLabelValues("poe", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.extrinsics.WithLabelValues("poe", "failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.blockNumber))
}

func TestApplyGenesis(t *testing.T) {
	rt := New(quiet())
	err := rt.ApplyGenesis(types.GenesisDoc{Balances: []types.GenesisBalance{
		{Account: alice, Amount: "1"},
		{Account: alice, Amount: "2"},
	}})
	require.ErrorContains(t, err, "duplicate")

	rt = New(quiet())
	require.Error(t, rt.ApplyGenesis(types.GenesisDoc{Balances: []types.GenesisBalance{{Account: alice, Amount: "-1"}}}))
	require.Error(t, rt.ApplyGenesis(types.GenesisDoc{Balances: []types.GenesisBalance{{Amount: "1"}}}))

	rt = New(quiet())
	_, err = rt.ExecuteBlock(NewBlock(1))
	require.NoError(t, err)
	require.Error(t, rt.ApplyGenesis(types.GenesisDoc{}))
}

func TestStateRoot_Deterministic(t *testing.T) {
	block := NewBlock(1,
		ext(alice, Transfer(bob, bal(30))),
		ext(alice, Transfer(charlie, bal(20))),
		ext(bob, CreateClaim("doc")),
	)

	a, b := newFunded(t), newFunded(t)
	outA, err := a.ExecuteBlock(block)
	require.NoError(t, err)
	outB, err := b.ExecuteBlock(block)
	require.NoError(t, err)

	require.Equal(t, outA.AppHash, outB.AppHash)
	require.Equal(t, a.StateRoot(), outA.AppHash)
	require.NotEqual(t, New(quiet()).StateRoot(), outA.AppHash)
}

func TestClone_Detached(t *testing.T) {
	rt := newFunded(t)
	c := rt.Clone()

	_, err := c.ExecuteBlock(NewBlock(1, ext(alice, Transfer(bob, bal(40)))))
	require.NoError(t, err)

	require.Equal(t, bal(60), c.Balances.Balance(alice))
	require.Equal(t, bal(100), rt.Balances.Balance(alice))
	require.Equal(t, types.BlockNumber(0), rt.System.BlockNumber())
}

func TestDump(t *testing.T) {
	rt := newFunded(t)
	_, err := rt.ExecuteBlock(NewBlock(1,
		ext(alice, Transfer(bob, bal(30))),
		ext(alice, CreateClaim("Hello, world!")),
	))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rt.Dump(&buf))
	out := buf.String()
	require.Contains(t, out, "block_number: 1")
	require.Contains(t, out, "alice: 70")
	require.Contains(t, out, "bob: 30")
	require.Contains(t, out, "total_issuance: 100")
	require.Contains(t, out, `"Hello, world!": alice`)
}
