package palletgrpc_test

import (
	"context"
	"encoding/binary"
	"log/slog"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/blockberries/pallet"
	palletgrpc "github.com/blockberries/pallet/grpc"
	"github.com/blockberries/pallet/runtime"
	"github.com/blockberries/pallet/types"
)

// startServer starts a gRPC server on a random port and returns
// the listener address and a cleanup function.
func startServer(t *testing.T, gs *palletgrpc.GRPCServer) (string, func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := gs.NewServer()

	go func() {
		// Serve returns when the server is stopped.
		_ = s.Serve(lis)
	}()

	return lis.Addr().String(), func() {
		s.GracefulStop()
	}
}

func dial(t *testing.T, addr string) *palletgrpc.Client {
	t.Helper()
	client, err := palletgrpc.Dial(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return client
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newRuntimeServer() *palletgrpc.GRPCServer {
	rt := runtime.New(runtime.WithLogger(discard()))
	return palletgrpc.NewGRPCServer(runtime.NewApp(rt), discard())
}

func genesis() types.HandshakeRequest {
	return types.HandshakeRequest{Genesis: &types.GenesisDoc{
		ChainID:  "test",
		Balances: []types.GenesisBalance{{Account: "alice", Amount: "100"}},
	}}
}

func balanceOf(t *testing.T, client *palletgrpc.Client, who string) uint64 {
	t.Helper()
	res, err := client.Query(context.Background(), types.StateQuery{Path: types.PathBalance, Data: []byte(who)})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	b := types.BalanceFromBytes([32]byte(res.Value))
	return b.Uint64()
}

func TestGRPC_Runtime_Lifecycle(t *testing.T) {
	addr, cleanup := startServer(t, newRuntimeServer())
	defer cleanup()

	client := dial(t, addr)
	defer client.Close()

	ctx := context.Background()

	resp, err := client.Handshake(ctx, genesis())
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if resp.AppHash == nil {
		t.Fatal("expected non-nil AppHash from genesis")
	}

	block, err := runtime.EncodeBlock(runtime.NewBlock(1,
		runtime.Extrinsic{Caller: "alice", Call: runtime.Transfer("bob", types.NewBalance(30))},
		runtime.Extrinsic{Caller: "alice", Call: runtime.Transfer("charlie", types.NewBalance(20))},
	))
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	outcome, err := client.ExecuteBlock(ctx, block)
	if err != nil {
		t.Fatalf("ExecuteBlock: %v", err)
	}
	if outcome.AppHash == (types.AppHash{}) {
		t.Fatal("expected non-zero AppHash")
	}
	if len(outcome.Outcomes) != 2 || len(outcome.Failed()) != 0 {
		t.Fatalf("unexpected outcomes: %+v", outcome.Outcomes)
	}

	for who, want := range map[string]uint64{"alice": 50, "bob": 30, "charlie": 20} {
		if got := balanceOf(t, client, who); got != want {
			t.Errorf("%s: expected %d, got %d", who, want, got)
		}
	}

	qr, err := client.Query(ctx, types.StateQuery{Path: types.PathBlockNumber})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if n := binary.BigEndian.Uint32(qr.Value); n != 1 {
		t.Fatalf("expected block number 1, got %d", n)
	}
}

func TestGRPC_Runtime_RejectedBlock(t *testing.T) {
	addr, cleanup := startServer(t, newRuntimeServer())
	defer cleanup()

	client := dial(t, addr)
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Handshake(ctx, genesis()); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	_, err := client.ExecuteBlock(ctx, types.FinalizedBlock{
		Header: types.Header{BlockNumber: 7},
		Txs:    []types.Tx{runtime.MustEncodeExtrinsic("alice", runtime.Transfer("bob", types.NewBalance(30)))},
	})
	rejected, ok := pallet.IsBlockRejected(err)
	if !ok {
		t.Fatalf("expected BlockRejectedError, got %v", err)
	}
	if rejected.Expected != 1 || rejected.Got != 7 {
		t.Fatalf("unexpected rejection: %+v", rejected)
	}
	if got := balanceOf(t, client, "alice"); got != 100 {
		t.Fatalf("expected alice untouched at 100, got %d", got)
	}

	// The client guard is back to Ready; the next block is 2.
	if _, err := client.ExecuteBlock(ctx, types.FinalizedBlock{Header: types.Header{BlockNumber: 2}}); err != nil {
		t.Fatalf("ExecuteBlock: %v", err)
	}
}

func TestGRPC_Runtime_CheckTx(t *testing.T) {
	addr, cleanup := startServer(t, newRuntimeServer())
	defer cleanup()

	client := dial(t, addr)
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Handshake(ctx, genesis()); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	// Valid tx.
	v, err := client.CheckTx(ctx, runtime.MustEncodeExtrinsic("alice", runtime.CreateClaim("doc")))
	if err != nil {
		t.Fatalf("CheckTx: %v", err)
	}
	if !v.Accepted() {
		t.Fatalf("expected accepted, got code %d", v.Code)
	}
	if v.Sender != "alice" {
		t.Fatalf("expected sender alice, got %q", v.Sender)
	}

	// Invalid tx.
	v, err = client.CheckTx(ctx, types.Tx("not an extrinsic"))
	if err != nil {
		t.Fatalf("CheckTx: %v", err)
	}
	if v.Accepted() {
		t.Fatal("expected rejected, got accepted")
	}
}

func TestGRPC_Runtime_Simulate(t *testing.T) {
	addr, cleanup := startServer(t, newRuntimeServer())
	defer cleanup()

	client := dial(t, addr)
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Handshake(ctx, genesis()); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	sim := client.AsSimulator()
	res, err := sim.Simulate(ctx, runtime.MustEncodeExtrinsic("alice", runtime.Transfer("bob", types.NewBalance(500))))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.Code != types.CodeDispatchFailed {
		t.Fatalf("expected dispatch failure, got code=%d info=%s", res.Code, res.Info)
	}

	res, err = sim.Simulate(ctx, runtime.MustEncodeExtrinsic("alice", runtime.Transfer("bob", types.NewBalance(5))))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Simulate failed: %s", res.Info)
	}
	if got := balanceOf(t, client, "bob"); got != 0 {
		t.Fatalf("simulation mutated state: bob=%d", got)
	}
}

// lifecycleOnly hides the Simulator of the embedded app.
type lifecycleOnly struct{ pallet.Lifecycle }

func TestGRPC_SimulateUnsupported(t *testing.T) {
	app := runtime.NewApp(runtime.New(runtime.WithLogger(discard())))
	addr, cleanup := startServer(t, palletgrpc.NewGRPCServer(lifecycleOnly{app}, discard()))
	defer cleanup()

	client := dial(t, addr)
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Handshake(ctx, types.HandshakeRequest{}); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	_, err := client.AsSimulator().Simulate(ctx, runtime.MustEncodeExtrinsic("alice", runtime.CreateClaim("doc")))
	if status.Code(err) != codes.Unimplemented {
		t.Fatalf("expected Unimplemented, got %v", err)
	}
}

func TestGRPC_BadGenesis(t *testing.T) {
	addr, cleanup := startServer(t, newRuntimeServer())
	defer cleanup()

	client := dial(t, addr)
	defer client.Close()

	_, err := client.Handshake(context.Background(), types.HandshakeRequest{Genesis: &types.GenesisDoc{
		Balances: []types.GenesisBalance{{Account: "alice", Amount: "many"}},
	}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}
