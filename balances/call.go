package balances

import (
	"cmp"

	"github.com/blockberries/pallet/types"
)

// Call is the closed set of dispatchable balances operations.
type Call[A cmp.Ordered] interface {
	isBalancesCall()
}

// Transfer moves Amount from the caller to To.
type Transfer[A cmp.Ordered] struct {
	To     A
	Amount types.Balance
}

func (Transfer[A]) isBalancesCall() {}
