package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/reactive"
)

func signalsCmd() *cobra.Command {
	var (
		signals    int
		effects    int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Benchmark signal fan-out and effect re-runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runSignalFanOut(signals, effects, iterations)
			runBatchedUpdates(signals, iterations)
			return nil
		},
	}

	cmd.Flags().IntVar(&signals, "signals", 100, "number of signals")
	cmd.Flags().IntVar(&effects, "effects", 10, "effects subscribed per signal")
	cmd.Flags().IntVar(&iterations, "iterations", 10000, "updates per signal")
	return cmd
}

// runSignalFanOut measures one signal write re-running all of its
// subscribed effects.
func runSignalFanOut(signals, effects, iterations int) {
	scope := reactive.NewScope(nil)
	defer scope.Dispose()

	sigs := make([]*reactive.Signal[int], signals)
	var runs int
	reactive.WithScope(scope, func() {
		for i := range sigs {
			sigs[i] = reactive.NewSignal(0)
			for j := 0; j < effects; j++ {
				sig := sigs[i]
				reactive.NewEffect(func() reactive.Cleanup {
					sig.Get()
					runs++
					return nil
				})
			}
		}
	})

	start := time.Now()
	for n := 0; n < iterations; n++ {
		sigs[n%signals].Set(n + 1)
	}
	report("signals/fan-out", iterations, time.Since(start).Nanoseconds())
}

// runBatchedUpdates measures writing every signal inside one batch, so
// each effect re-runs once per batch rather than once per write.
func runBatchedUpdates(signals, iterations int) {
	scope := reactive.NewScope(nil)
	defer scope.Dispose()

	sigs := make([]*reactive.Signal[int], signals)
	reactive.WithScope(scope, func() {
		for i := range sigs {
			sigs[i] = reactive.NewSignal(0)
			sig := sigs[i]
			reactive.NewEffect(func() reactive.Cleanup {
				sig.Get()
				return nil
			})
		}
	})

	batches := iterations / signals
	if batches == 0 {
		batches = 1
	}
	start := time.Now()
	for n := 0; n < batches; n++ {
		v := n + 1
		reactive.Batch(func() {
			for _, sig := range sigs {
				sig.Set(v)
			}
		})
	}
	report("signals/batched", batches*signals, time.Since(start).Nanoseconds())
}
