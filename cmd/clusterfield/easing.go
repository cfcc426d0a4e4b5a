package main

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/phanxgames/clusterfield"
	"github.com/spf13/cobra"
)

var (
	easingSamples int
	easingHeight  int
)

func newEasingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "easing [name]",
		Short: "plot an easing curve (omit name to list them)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEasing,
	}
	cmd.Flags().IntVar(&easingSamples, "samples", 60, "number of samples")
	cmd.Flags().IntVar(&easingHeight, "plot-height", 12, "plot height in rows")
	return cmd
}

func runEasing(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, strings.Join(clusterfield.EasingNames(), "\n"))
		return nil
	}
	fn, ok := clusterfield.EasingByName(args[0])
	if !ok {
		return fmt.Errorf("unknown easing %q (have: %s)", args[0], strings.Join(clusterfield.EasingNames(), ", "))
	}
	data := clusterfield.SampleEasing(fn, easingSamples)
	graph := asciigraph.Plot(data,
		asciigraph.Height(easingHeight),
		asciigraph.Caption(args[0]),
	)
	fmt.Fprintln(out, graph)
	return nil
}
