package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockberries/pallet/internal/logging"
	"github.com/blockberries/pallet/runtime"
	"github.com/blockberries/pallet/types"
)

func init() {
	rootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Execute the built-in three block scenario and dump the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.Setup(os.Stderr, "palletd", "demo", slog.LevelInfo)
		rt := runtime.New(runtime.WithLogger(logger))
		if err := runDemo(rt); err != nil {
			return err
		}
		return rt.Dump(cmd.OutOrStdout())
	},
}

const (
	alice   types.AccountID = "alice"
	bob     types.AccountID = "bob"
	charlie types.AccountID = "charlie"

	helloWorld types.Content = "Hello, world!"
)

func demoGenesis() types.GenesisDoc {
	return types.GenesisDoc{
		ChainID:  "demo",
		Balances: []types.GenesisBalance{{Account: alice, Amount: "100"}},
	}
}

func demoBlocks() []runtime.Block {
	return []runtime.Block{
		runtime.NewBlock(1,
			runtime.Extrinsic{Caller: alice, Call: runtime.Transfer(bob, types.NewBalance(30))},
			runtime.Extrinsic{Caller: alice, Call: runtime.Transfer(charlie, types.NewBalance(20))},
		),
		runtime.NewBlock(2,
			runtime.Extrinsic{Caller: alice, Call: runtime.CreateClaim(helloWorld)},
			runtime.Extrinsic{Caller: bob, Call: runtime.CreateClaim(helloWorld)},
		),
		runtime.NewBlock(3,
			runtime.Extrinsic{Caller: alice, Call: runtime.RevokeClaim(helloWorld)},
			runtime.Extrinsic{Caller: bob, Call: runtime.CreateClaim(helloWorld)},
		),
	}
}

func runDemo(rt *runtime.Runtime) error {
	if err := rt.ApplyGenesis(demoGenesis()); err != nil {
		return err
	}
	for _, block := range demoBlocks() {
		if _, err := rt.ExecuteBlock(block); err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
	}
	return nil
}
