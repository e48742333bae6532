package main

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/runtime"
)

func patchCmd() *cobra.Command {
	var (
		size       int
		iterations int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Benchmark keyed list reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))
			runShuffle(rng, size, iterations)
			runChurn(rng, size, iterations)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 1000, "list length")
	cmd.Flags().IntVar(&iterations, "iterations", 1000, "patch passes")
	cmd.Flags().Int64Var(&seed, "seed", 1, "shuffle seed")
	return cmd
}

func keyedList(keys []int) []*runtime.Entry {
	entries := make([]*runtime.Entry, len(keys))
	for i, k := range keys {
		li := dom.NewElement("li")
		li.AppendChild(dom.NewText(strconv.Itoa(k)))
		entries[i] = runtime.NodeEntry(k, li)
	}
	return entries
}

// runShuffle re-patches a full random permutation of the same keys each
// pass, the worst case for move minimization.
func runShuffle(rng *rand.Rand, size, iterations int) {
	parent := dom.NewElement("ul")
	keys := make([]int, size)
	for i := range keys {
		keys[i] = i
	}
	current := runtime.PatchNodes(parent, nil, keyedList(keys), nil)

	start := time.Now()
	for n := 0; n < iterations; n++ {
		rng.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
		current = runtime.PatchNodes(parent, current, keyedList(keys), nil)
	}
	report("patch/shuffle", iterations*size, time.Since(start).Nanoseconds())
}

// runChurn replaces a tenth of the list each pass, the common case of a
// feed receiving updates.
func runChurn(rng *rand.Rand, size, iterations int) {
	parent := dom.NewElement("ul")
	keys := make([]int, size)
	for i := range keys {
		keys[i] = i
	}
	next := size
	current := runtime.PatchNodes(parent, nil, keyedList(keys), nil)

	start := time.Now()
	for n := 0; n < iterations; n++ {
		for c := 0; c < size/10; c++ {
			keys[rng.Intn(size)] = next
			next++
		}
		current = runtime.PatchNodes(parent, current, keyedList(keys), nil)
	}
	report("patch/churn", iterations*size, time.Since(start).Nanoseconds())
}
