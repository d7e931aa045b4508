package runtime

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/blockberries/cramberry/pkg/cramberry"

	"github.com/blockberries/pallet/types"
)

type nonceEntry struct {
	Account types.AccountID `cramberry:"1"`
	Nonce   types.Nonce     `cramberry:"2"`
}

type balanceEntry struct {
	Account types.AccountID `cramberry:"1"`
	Amount  [32]byte        `cramberry:"2"`
}

type claimEntry struct {
	Content types.Content   `cramberry:"1"`
	Owner   types.AccountID `cramberry:"2"`
}

// stateSnapshot is the canonical, ordered form of the ledger state.
type stateSnapshot struct {
	BlockNumber types.BlockNumber `cramberry:"1"`
	Nonces      []nonceEntry      `cramberry:"2"`
	Balances    []balanceEntry    `cramberry:"3"`
	Claims      []claimEntry      `cramberry:"4"`
}

func (r *Runtime) snapshot() stateSnapshot {
	s := stateSnapshot{BlockNumber: r.System.BlockNumber()}
	for who, n := range r.System.Nonces() {
		s.Nonces = append(s.Nonces, nonceEntry{Account: who, Nonce: n})
	}
	for who, b := range r.Balances.Balances() {
		s.Balances = append(s.Balances, balanceEntry{Account: who, Amount: types.BalanceBytes(b)})
	}
	for content, owner := range r.ProofOfExistence.Claims() {
		s.Claims = append(s.Claims, claimEntry{Content: content, Owner: owner})
	}
	return s
}

// StateRoot computes a deterministic SHA256 of the ordered ledger state.
// Two runtimes that executed the same blocks from the same genesis have
// the same root.
func (r *Runtime) StateRoot() types.AppHash {
	data, _ := cramberry.Marshal(r.snapshot()) // snapshot holds only plain values
	return types.AppHash(sha256.Sum256(data))
}

// Dump writes a human-readable view of the whole ledger to w.
func (r *Runtime) Dump(w io.Writer) error {
	s := r.snapshot()
	if _, err := fmt.Fprintf(w, "block_number: %d\n", s.BlockNumber); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "nonces:"); err != nil {
		return err
	}
	for _, e := range s.Nonces {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", e.Account, e.Nonce); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "balances:"); err != nil {
		return err
	}
	for _, e := range s.Balances {
		b := types.BalanceFromBytes(e.Amount)
		if _, err := fmt.Fprintf(w, "  %s: %s\n", e.Account, b.Dec()); err != nil {
			return err
		}
	}
	total, overflow := r.Balances.TotalIssuance()
	if overflow {
		if _, err := fmt.Fprintln(w, "total_issuance: overflow"); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "total_issuance: %s\n", total.Dec()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "claims:"); err != nil {
		return err
	}
	for _, e := range s.Claims {
		if _, err := fmt.Fprintf(w, "  %q: %s\n", e.Content, e.Owner); err != nil {
			return err
		}
	}
	return nil
}
