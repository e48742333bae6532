package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/render"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/template"
)

var benchPageTpl = template.Must(
	`<div class="page"><h1></h1><ul class="items"></ul></div>`)

var benchItemTpl = template.Must(
	`<li class="item"><span class="label"></span></li>`)

func benchPage(items int) *runtime.Component {
	return runtime.NewComponent("bench-page", func(*reactive.Store) []dom.Node {
		return runtime.H(benchPageTpl, runtime.Slots{
			1: {Children: []any{"benchmark"}},
			2: {Children: []any{func() any {
				entries := make([]*runtime.Entry, items)
				for i := 0; i < items; i++ {
					label := strconv.Itoa(i)
					nodes := runtime.H(benchItemTpl, runtime.Slots{
						1: {Children: []any{label}},
					})
					entries[i] = runtime.NodeEntry(i, nodes[0])
				}
				return entries
			}}},
		})
	})
}

func renderCmd() *cobra.Command {
	var (
		items      int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Benchmark server-side rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := benchPage(items)

			// Warm up template blueprints and fail early on render errors.
			if _, err := render.RenderToString(c, nil); err != nil {
				return err
			}

			start := time.Now()
			for n := 0; n < iterations; n++ {
				if _, err := render.RenderToString(c, nil); err != nil {
					return err
				}
			}
			report("render/to-string", iterations, time.Since(start).Nanoseconds())
			return nil
		},
	}

	cmd.Flags().IntVar(&items, "items", 100, "list items per page")
	cmd.Flags().IntVar(&iterations, "iterations", 1000, "render passes")
	return cmd
}
