package poe

import "github.com/blockberries/pallet/types"

// Call is the closed set of dispatchable claim operations. Claim calls
// carry no account, so unlike balances the set is not generic.
type Call interface {
	isPoECall()
}

// CreateClaim claims Content for the caller.
type CreateClaim struct {
	Content types.Content
}

// RevokeClaim releases the caller's claim on Content.
type RevokeClaim struct {
	Content types.Content
}

func (CreateClaim) isPoECall() {}
func (RevokeClaim) isPoECall() {}
