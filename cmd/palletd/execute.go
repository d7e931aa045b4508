package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockberries/pallet"
	"github.com/blockberries/pallet/internal/config"
	"github.com/blockberries/pallet/internal/logging"
	"github.com/blockberries/pallet/runtime"
)

var (
	executeGenesis string
	executeBlocks  string
	executeStop    bool
)

func init() {
	executeCmd.Flags().StringVar(&executeGenesis, "genesis", "", "genesis TOML file")
	executeCmd.Flags().StringVar(&executeBlocks, "blocks", "", "blocks TOML file")
	executeCmd.Flags().BoolVar(&executeStop, "stop-on-reject", true, "stop at the first rejected block")
	_ = executeCmd.MarkFlagRequired("blocks")
	rootCmd.AddCommand(executeCmd)
}

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute blocks from a file against a fresh ledger and dump it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.Setup(os.Stderr, "palletd", cfg.Env, level)

		rt := runtime.New(runtime.WithLogger(logger))
		if executeGenesis != "" {
			doc, err := config.LoadGenesis(executeGenesis)
			if err != nil {
				return err
			}
			if err := rt.ApplyGenesis(doc); err != nil {
				return err
			}
		}

		blocks, err := config.LoadBlocks(executeBlocks)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, block := range blocks {
			outcome, err := rt.ExecuteBlock(block)
			if _, rejected := pallet.IsBlockRejected(err); rejected && !executeStop {
				fmt.Fprintf(out, "block %d: %v\n", block.Header.BlockNumber, err)
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "block %d: %d extrinsics, %d failed, app_hash %x\n",
				outcome.BlockNumber, len(outcome.Outcomes), len(outcome.Failed()), outcome.AppHash)
			logger.Debug("block executed", slog.Uint64("block_number", uint64(outcome.BlockNumber)))
		}
		return rt.Dump(out)
	},
}
