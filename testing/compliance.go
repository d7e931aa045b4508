package pallettest

import (
	"context"
	"sync"
	"testing"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/types"
)

// RunComplianceSuite runs a standard compliance test suite against
// a ledger application to verify correct lifecycle behavior.
//
// The factory function should return a fresh application instance
// for each test. sample must be an extrinsic the application admits
// after DefaultGenesis; it may fail at dispatch.
func RunComplianceSuite(t *testing.T, factory func() pallet.Lifecycle, sample types.Tx) {
	t.Helper()

	t.Run("genesis_handshake", func(t *testing.T) {
		h := NewHarness(t, factory())
		resp := h.GenesisDefault()
		if resp.BlockNumber != 0 {
			t.Errorf("genesis handshake should report block 0, got %d", resp.BlockNumber)
		}
		if resp.AppHash == nil {
			t.Error("genesis handshake should return a non-nil AppHash")
		}
	})

	t.Run("execute_cycle", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()

		for i := types.BlockNumber(1); i <= 5; i++ {
			outcome := h.ExecuteBlock(MakeEmptyBlock(i))
			if outcome.AppHash == (types.AppHash{}) {
				t.Errorf("block %d: zero app hash", i)
			}
			if outcome.BlockNumber != i {
				t.Errorf("block %d: outcome reports %d", i, outcome.BlockNumber)
			}
		}
	})

	t.Run("rejects_wrong_block_number", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()

		rejected := h.MustRejectBlock(MakeBlock(3, sample))
		if rejected.Expected != 1 || rejected.Got != 3 {
			t.Errorf("unexpected rejection: expected=%d got=%d", rejected.Expected, rejected.Got)
		}
		if !h.Server().IsReady() {
			t.Error("server should be Ready after a rejected block")
		}

		// The rejected block consumed number 1.
		h.MustRejectBlock(MakeEmptyBlock(1))
		h.ExecuteBlock(MakeEmptyBlock(3))
	})

	t.Run("empty_blocks_deterministic", func(t *testing.T) {
		// Execute same empty blocks on two instances, verify
		// identical AppHash.
		h1 := NewHarness(t, factory())
		h1.GenesisDefault()

		h2 := NewHarness(t, factory())
		h2.GenesisDefault()

		for i := types.BlockNumber(1); i <= 3; i++ {
			block := MakeEmptyBlock(i)
			o1 := h1.ExecuteBlock(block)
			o2 := h2.ExecuteBlock(block)

			if o1.AppHash != o2.AppHash {
				t.Errorf("block %d: non-deterministic: %x != %x",
					i, o1.AppHash, o2.AppHash)
			}
		}
	})

	t.Run("deterministic_with_txs", func(t *testing.T) {
		h1 := NewHarness(t, factory())
		h1.GenesisDefault()

		h2 := NewHarness(t, factory())
		h2.GenesisDefault()

		block := MakeBlock(1, sample, sample)

		o1 := h1.ExecuteBlock(block)
		o2 := h2.ExecuteBlock(block)

		if o1.AppHash != o2.AppHash {
			t.Errorf("non-deterministic with txs: %x != %x",
				o1.AppHash, o2.AppHash)
		}
		if len(o1.Outcomes) != len(o2.Outcomes) {
			t.Errorf("outcome count mismatch: %d != %d",
				len(o1.Outcomes), len(o2.Outcomes))
		}
	})

	t.Run("sample_admitted", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()
		h.MustAcceptTx(sample)
	})

	t.Run("concurrent_checktx_after_handshake", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Server().CheckTx(context.Background(), sample)
				if err != nil {
					t.Errorf("concurrent CheckTx failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("concurrent_query_after_handshake", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Server().Query(context.Background(), types.StateQuery{
					Path: types.PathBlockNumber,
				})
				if err != nil {
					t.Errorf("concurrent Query failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("query_returns_block_number", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()

		h.ExecuteBlock(MakeEmptyBlock(1))
		h.ExecuteBlock(MakeEmptyBlock(2))

		result := h.Query(types.PathBlockNumber, nil)
		if result.BlockNumber != 2 {
			t.Errorf("query should report block 2, got %d", result.BlockNumber)
		}
	})

	t.Run("outcome_indices", func(t *testing.T) {
		h := NewHarness(t, factory())
		h.GenesisDefault()

		outcome := h.ExecuteBlock(MakeBlock(1, sample, sample, sample))

		if len(outcome.Outcomes) != 3 {
			t.Fatalf("expected 3 outcomes, got %d", len(outcome.Outcomes))
		}
		for i, o := range outcome.Outcomes {
			if o.Index != uint32(i) {
				t.Errorf("extrinsic %d: expected index %d, got %d", i, i, o.Index)
			}
		}
	})
}
