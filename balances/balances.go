// Package balances implements the balances pallet: a map from accounts
// to balances with a checked transfer operation.
package balances

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/types"
)

var (
	ErrInsufficientFunds = errors.New("balances: not enough funds")
	ErrOverflow          = errors.New("balances: overflow")
)

// Compile-time interface check.
var _ pallet.Dispatcher[types.AccountID, Call[types.AccountID]] = (*Pallet[types.AccountID])(nil)

// Pallet holds account balances. Accounts without an entry have a zero
// balance.
type Pallet[A cmp.Ordered] struct {
	balances map[A]types.Balance
}

// New creates an empty balances pallet.
func New[A cmp.Ordered]() *Pallet[A] {
	return &Pallet[A]{balances: make(map[A]types.Balance)}
}

// SetBalance overwrites the balance of who. It is a genesis-only
// operation and is not reachable through Dispatch.
func (p *Pallet[A]) SetBalance(who A, amount types.Balance) {
	p.balances[who] = amount
}

// Balance returns the balance of who, zero if unknown.
func (p *Pallet[A]) Balance(who A) types.Balance {
	return p.balances[who]
}

// Transfer moves amount from caller to to. Both checks run before any
// write, so a failed transfer leaves both balances untouched.
func (p *Pallet[A]) Transfer(caller, to A, amount types.Balance) error {
	callerBalance := p.Balance(caller)
	toBalance := p.Balance(to)

	var newCaller, newTo types.Balance
	if _, underflow := newCaller.SubOverflow(&callerBalance, &amount); underflow {
		return ErrInsufficientFunds
	}
	// A self-transfer moves nothing; applying both writes would credit
	// the amount on top of the debit.
	if caller == to {
		return nil
	}
	if _, overflow := newTo.AddOverflow(&toBalance, &amount); overflow {
		return ErrOverflow
	}

	p.balances[caller] = newCaller
	p.balances[to] = newTo
	return nil
}

// Dispatch executes a balances call on behalf of caller.
func (p *Pallet[A]) Dispatch(caller A, call Call[A]) error {
	switch c := call.(type) {
	case Transfer[A]:
		return p.Transfer(caller, c.To, c.Amount)
	default:
		return fmt.Errorf("balances: unknown call %T", call)
	}
}

// Balances yields every account with a stored balance in ascending
// account order.
func (p *Pallet[A]) Balances() iter.Seq2[A, types.Balance] {
	return func(yield func(A, types.Balance) bool) {
		for _, who := range slices.Sorted(maps.Keys(p.balances)) {
			if !yield(who, p.balances[who]) {
				return
			}
		}
	}
}

// TotalIssuance returns the sum of all balances. Transfers never change
// it. The second result reports whether the sum overflowed.
func (p *Pallet[A]) TotalIssuance() (types.Balance, bool) {
	var total types.Balance
	for _, b := range p.balances {
		if _, overflow := total.AddOverflow(&total, &b); overflow {
			return total, true
		}
	}
	return total, false
}

// Clone returns an independent copy of the pallet state.
func (p *Pallet[A]) Clone() *Pallet[A] {
	return &Pallet[A]{balances: maps.Clone(p.balances)}
}
