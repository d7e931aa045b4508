// Package poe implements the proof-of-existence pallet: a registry
// mapping content fingerprints to the account that claimed them.
package poe

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
	ErrAlreadyClaimed = errors.New("poe: content already claimed")
	ErrNoSuchClaim    = errors.New("poe: claim does not exist")
	ErrNotClaimOwner  = errors.New("poe: caller is not the owner of the claim")
)

// Compile-time interface check.
var _ pallet.Dispatcher[types.AccountID, Call] = (*Pallet[types.AccountID])(nil)

// Pallet stores claims. A content fingerprint has at most one owner.
type Pallet[A cmp.Ordered] struct {
	claims map[types.Content]A
}

// New creates an empty claim registry.
func New[A cmp.Ordered]() *Pallet[A] {
	return &Pallet[A]{claims: make(map[types.Content]A)}
}

// GetClaim returns the owner of content, if claimed.
func (p *Pallet[A]) GetClaim(content types.Content) (A, bool) {
	owner, ok := p.claims[content]
	return owner, ok
}

// CreateClaim registers content to caller.
func (p *Pallet[A]) CreateClaim(caller A, content types.Content) error {
	if _, ok := p.claims[content]; ok {
		return ErrAlreadyClaimed
	}
	p.claims[content] = caller
	return nil
}

// RevokeClaim removes a claim. Only the current owner may revoke it.
func (p *Pallet[A]) RevokeClaim(caller A, content types.Content) error {
	owner, ok := p.claims[content]
	if !ok {
		return ErrNoSuchClaim
	}
	if owner != caller {
		return ErrNotClaimOwner
	}
	delete(p.claims, content)
	return nil
}

// Dispatch executes a claim call on behalf of caller.
func (p *Pallet[A]) Dispatch(caller A, call Call) error {
	switch c := call.(type) {
	case CreateClaim:
		return p.CreateClaim(caller, c.Content)
	case RevokeClaim:
		return p.RevokeClaim(caller, c.Content)
	default:
		return fmt.Errorf("poe: unknown call %T", call)
	}
}

// Claims yields every claim in ascending content order.
func (p *Pallet[A]) Claims() iter.Seq2[types.Content, A] {
	return func(yield func(types.Content, A) bool) {
		for _, content := range slices.Sorted(maps.Keys(p.claims)) {
			if !yield(content, p.claims[content]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the pallet state.
func (p *Pallet[A]) Clone() *Pallet[A] {
	return &Pallet[A]{claims: maps.Clone(p.claims)}
}
