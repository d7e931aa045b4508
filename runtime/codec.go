package runtime

import (
	"errors"
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"

	"github.com/blockberries/pallet/balances"
	"github.com/blockberries/pallet/poe"
	"github.com/blockberries/pallet/types"
)

// ErrMalformedCall is returned when an encoded call does not select
// exactly one known variant.
var ErrMalformedCall = errors.New("runtime: call must set exactly one variant")

// Wire forms of the call union. Exactly one field of callMsg is set.

type transferMsg struct {
	To     types.AccountID `cramberry:"1"`
	Amount [32]byte        `cramberry:"2"`
}

type claimMsg struct {
	Content types.Content `cramberry:"1"`
}

type callMsg struct {
	Transfer    *transferMsg `cramberry:"1"`
	CreateClaim *claimMsg    `cramberry:"2"`
	RevokeClaim *claimMsg    `cramberry:"3"`
}

type extrinsicMsg struct {
	Caller types.AccountID `cramberry:"1"`
	Call   callMsg         `cramberry:"2"`
}

// EncodeExtrinsic serializes an extrinsic for transport.
func EncodeExtrinsic(ext Extrinsic) (types.Tx, error) {
	msg := extrinsicMsg{Caller: ext.Caller}
	switch c := ext.Call.(type) {
	case BalancesCall:
		switch bc := c.Call.(type) {
		case balances.Transfer[types.AccountID]:
			msg.Call.Transfer = &transferMsg{To: bc.To, Amount: types.BalanceBytes(bc.Amount)}
		default:
			return nil, fmt.Errorf("runtime: encode: unknown balances call %T", c.Call)
		}
	case ProofOfExistenceCall:
		switch pc := c.Call.(type) {
		case poe.CreateClaim:
			msg.Call.CreateClaim = &claimMsg{Content: pc.Content}
		case poe.RevokeClaim:
			msg.Call.RevokeClaim = &claimMsg{Content: pc.Content}
		default:
			return nil, fmt.Errorf("runtime: encode: unknown poe call %T", c.Call)
		}
	default:
		return nil, fmt.Errorf("runtime: encode: unknown call %T", ext.Call)
	}

	data, err := cramberry.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("runtime: encode extrinsic: %w", err)
	}
	return data, nil
}

// DecodeExtrinsic parses an extrinsic produced by EncodeExtrinsic.
func DecodeExtrinsic(tx types.Tx) (Extrinsic, error) {
	var msg extrinsicMsg
	if err := cramberry.Unmarshal(tx, &msg); err != nil {
		return Extrinsic{}, fmt.Errorf("runtime: decode extrinsic: %w", err)
	}

	var (
		call Call
		set  int
	)
	if m := msg.Call.Transfer; m != nil {
		call = Transfer(m.To, types.BalanceFromBytes(m.Amount))
		set++
	}
	if m := msg.Call.CreateClaim; m != nil {
		call = CreateClaim(m.Content)
		set++
	}
	if m := msg.Call.RevokeClaim; m != nil {
		call = RevokeClaim(m.Content)
		set++
	}
	if set != 1 {
		return Extrinsic{}, ErrMalformedCall
	}
	return Extrinsic{Caller: msg.Caller, Call: call}, nil
}

// EncodeBlock serializes every extrinsic of block.
func EncodeBlock(block Block) (types.FinalizedBlock, error) {
	fb := types.FinalizedBlock{
		Header: block.Header,
		Txs:    make([]types.Tx, len(block.Extrinsics)),
	}
	for i, ext := range block.Extrinsics {
		tx, err := EncodeExtrinsic(ext)
		if err != nil {
			return types.FinalizedBlock{}, fmt.Errorf("extrinsic %d: %w", i, err)
		}
		fb.Txs[i] = tx
	}
	return fb, nil
}

// MustEncodeExtrinsic is EncodeExtrinsic for extrinsics built with the
// call constructors of this package, which always encode.
func MustEncodeExtrinsic(caller types.AccountID, call Call) types.Tx {
	tx, err := EncodeExtrinsic(Extrinsic{Caller: caller, Call: call})
	if err != nil {
		panic(err)
	}
	return tx
}
