// Command palletd runs the pallet ledger runtime.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "palletd",
	Short:         "Modular pallet ledger runtime",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "palletd:", err)
		os.Exit(1)
	}
}
