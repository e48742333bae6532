package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ferrors "github.com/filament-ui/filament/internal/errors"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "filament-bench",
		Short: "Benchmarks for the filament runtime",
		Long: `filament-bench measures the hot paths of the framework:

  signals   signal fan-out and effect re-run throughput
  patch     keyed list reconciliation
  render    server-side render throughput
  live      end-to-end WebSocket event round trips`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		signalsCmd(),
		patchCmd(),
		renderCmd(),
		liveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var fe *ferrors.FilamentError
		if errors.As(err, &fe) {
			fmt.Fprintln(os.Stderr, fe.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// report prints one benchmark line in a fixed layout so runs diff
// cleanly.
func report(name string, ops int, elapsedNs int64) {
	perOp := float64(elapsedNs) / float64(ops)
	opsPerSec := float64(ops) / (float64(elapsedNs) / 1e9)
	fmt.Printf("%-28s %12d ops %14.0f ns/op %14.0f ops/s\n", name, ops, perOp, opsPerSec)
}
