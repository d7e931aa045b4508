package runtime

import (
	"testing"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/pallet/types"
)

func TestCodec_RoundTrip(t *testing.T) {
	calls := []Call{
		Transfer(bob, types.MaxBalance()),
		CreateClaim("Hello, world!"),
		RevokeClaim("Hello, world!"),
	}
	for _, call := range calls {
		tx, err := EncodeExtrinsic(ext(alice, call))
		require.NoError(t, err)

		got, err := DecodeExtrinsic(tx)
		require.NoError(t, err)
		require.Equal(t, alice, got.Caller)
		require.Equal(t, call, got.Call)
	}
}

func TestCodec_RejectsAmbiguousCall(t *testing.T) {
	empty, err := cramberry.Marshal(extrinsicMsg{Caller: alice})
	require.NoError(t, err)
	_, err = DecodeExtrinsic(empty)
	require.ErrorIs(t, err, ErrMalformedCall)

	both, err := cramberry.Marshal(extrinsicMsg{Caller: alice, Call: callMsg{
		CreateClaim: &claimMsg{Content: "a"},
		RevokeClaim: &claimMsg{Content: "a"},
	}})
	require.NoError(t, err)
	_, err = DecodeExtrinsic(both)
	require.ErrorIs(t, err, ErrMalformedCall)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	_, err := DecodeExtrinsic(types.Tx{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestEncodeBlock(t *testing.T) {
	fb, err := EncodeBlock(NewBlock(3,
		ext(alice, Transfer(bob, bal(1))),
		ext(bob, CreateClaim("x")),
	))
	require.NoError(t, err)
	require.Equal(t, types.BlockNumber(3), fb.Header.BlockNumber)
	require.Len(t, fb.Txs, 2)

	second, err := DecodeExtrinsic(fb.Txs[1])
	require.NoError(t, err)
	require.Equal(t, bob, second.Caller)
}
