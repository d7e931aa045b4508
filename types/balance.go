package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Balance is an unsigned 256-bit amount. The zero value is a zero
// balance, so absent accounts need no storage entry.
type Balance = uint256.Int

// NewBalance returns a balance holding n.
func NewBalance(n uint64) Balance {
	return *uint256.NewInt(n)
}

// MaxBalance returns the largest representable balance.
func MaxBalance() Balance {
	var b Balance
	b.SetAllOne()
	return b
}

// ParseBalance parses a base-10 amount.
func ParseBalance(s string) (Balance, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, fmt.Errorf("parse balance %q: %w", s, err)
	}
	return *v, nil
}

// BalanceBytes encodes a balance as 32 big-endian bytes.
func BalanceBytes(b Balance) [32]byte {
	return b.Bytes32()
}

// BalanceFromBytes decodes a balance from 32 big-endian bytes.
func BalanceFromBytes(raw [32]byte) Balance {
	var b Balance
	b.SetBytes32(raw[:])
	return b
}
