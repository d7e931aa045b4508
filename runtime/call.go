package runtime

import (
	"github.com/blockberries/pallet/balances"
	"github.com/blockberries/pallet/poe"
	"github.com/blockberries/pallet/types"
)

// Call is the closed union of every call the runtime can dispatch.
// Each variant wraps the call of exactly one pallet.
type Call interface {
	isRuntimeCall()
	// pallet names the owning pallet, used for metrics and logs.
	pallet() string
}

// BalancesCall routes a balances call.
type BalancesCall struct {
	Call balances.Call[types.AccountID]
}

// ProofOfExistenceCall routes a claim registry call.
type ProofOfExistenceCall struct {
	Call poe.Call
}

func (BalancesCall) isRuntimeCall()         {}
func (ProofOfExistenceCall) isRuntimeCall() {}

func (BalancesCall) pallet() string         { return "balances" }
func (ProofOfExistenceCall) pallet() string { return "poe" }

// Extrinsic is an extrinsic carrying a runtime call.
type Extrinsic = types.Extrinsic[Call]

// Block is a block of runtime extrinsics.
type Block = types.Block[Call]

// Transfer builds a balances transfer call.
func Transfer(to types.AccountID, amount types.Balance) Call {
	return BalancesCall{Call: balances.Transfer[types.AccountID]{To: to, Amount: amount}}
}

// CreateClaim builds a claim creation call.
func CreateClaim(content types.Content) Call {
	return ProofOfExistenceCall{Call: poe.CreateClaim{Content: content}}
}

// RevokeClaim builds a claim revocation call.
func RevokeClaim(content types.Content) Call {
	return ProofOfExistenceCall{Call: poe.RevokeClaim{Content: content}}
}

// NewBlock assembles a block at number from extrinsics.
func NewBlock(number types.BlockNumber, extrinsics ...Extrinsic) Block {
	return Block{Header: types.Header{BlockNumber: number}, Extrinsics: extrinsics}
}

// events describes a successful call.
func events(caller types.AccountID, call Call) []types.Event {
	switch c := call.(type) {
	case BalancesCall:
		if t, ok := c.Call.(balances.Transfer[types.AccountID]); ok {
			return []types.Event{{
				Kind: "balances.transfer",
				Attributes: []types.EventAttribute{
					{Key: "from", Value: string(caller), Index: true},
					{Key: "to", Value: string(t.To), Index: true},
					{Key: "amount", Value: t.Amount.Dec()},
				},
			}}
		}
	case ProofOfExistenceCall:
		switch pc := c.Call.(type) {
		case poe.CreateClaim:
			return []types.Event{claimEvent("poe.claim_created", caller, pc.Content)}
		case poe.RevokeClaim:
			return []types.Event{claimEvent("poe.claim_revoked", caller, pc.Content)}
		}
	}
	return nil
}

func claimEvent(kind string, owner types.AccountID, content types.Content) types.Event {
	return types.Event{
		Kind: kind,
		Attributes: []types.EventAttribute{
			{Key: "owner", Value: string(owner), Index: true},
			{Key: "content", Value: string(content), Index: true},
		},
	}
}
