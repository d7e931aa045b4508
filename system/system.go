// Package system implements the ledger's bookkeeping pallet: the
// current block number and a per-account nonce counter.
package system

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/blockberries/pallet/types"
)

// Pallet tracks the block number and account nonces.
// It has no dispatchable calls.
type Pallet[A cmp.Ordered] struct {
	blockNumber types.BlockNumber
	nonces      map[A]types.Nonce
}

// New creates a system pallet at block 0 with no nonces.
func New[A cmp.Ordered]() *Pallet[A] {
	return &Pallet[A]{nonces: make(map[A]types.Nonce)}
}

// BlockNumber returns the current block number.
func (p *Pallet[A]) BlockNumber() types.BlockNumber {
	return p.blockNumber
}

// IncBlockNumber advances the block number by one.
func (p *Pallet[A]) IncBlockNumber() {
	if p.blockNumber == math.MaxUint32 {
		panic("system: block number overflow")
	}
	p.blockNumber++
}

// Nonce returns the nonce of who, 0 if it never submitted an extrinsic.
func (p *Pallet[A]) Nonce(who A) types.Nonce {
	return p.nonces[who]
}

// IncNonce advances the nonce of who by one.
func (p *Pallet[A]) IncNonce(who A) {
	n := p.nonces[who]
	if n == math.MaxUint32 {
		panic(fmt.Sprintf("system: nonce overflow for %v", who))
	}
	p.nonces[who] = n + 1
}

// Nonces yields every account with a non-zero nonce in ascending
// account order.
func (p *Pallet[A]) Nonces() iter.Seq2[A, types.Nonce] {
	return func(yield func(A, types.Nonce) bool) {
		for _, who := range slices.Sorted(maps.Keys(p.nonces)) {
			if !yield(who, p.nonces[who]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the pallet state.
func (p *Pallet[A]) Clone() *Pallet[A] {
	return &Pallet[A]{
		blockNumber: p.blockNumber,
		nonces:      maps.Clone(p.nonces),
	}
}
