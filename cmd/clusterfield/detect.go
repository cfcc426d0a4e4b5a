package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/phanxgames/clusterfield"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	gridFile string
	noColor  bool
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "generate or read a grid and print its clusters",
		Args:  cobra.NoArgs,
		RunE:  runDetect,
	}
	addGameFlags(cmd)
	cmd.Flags().StringVar(&gridFile, "grid", "", "read icon rows from this file (- for stdin)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyGameFlags(cmd, cfg); err != nil {
		return err
	}

	var g *clusterfield.Grid
	if gridFile != "" {
		if g, err = readGrid(gridFile); err != nil {
			return err
		}
	} else {
		var rng *rand.Rand
		if s := cfg.Game.Seed; s != 0 {
			rng = rand.New(rand.NewPCG(s, s))
		}
		g = clusterfield.NewGrid(cfg.Game.FieldWidth, cfg.Game.FieldHeight, cfg.Game.IconTypes, rng)
	}

	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Disable()
	}

	clusters := clusterfield.FindClusters(g, cfg.Game.MinClusterSize)
	out := cmd.OutOrStdout()
	printGrid(out, g)
	fmt.Fprintln(out, clusterfield.FormatClusters(clusters))
	return nil
}

func readGrid(path string) (*clusterfield.Grid, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	rows, err := parseGridRows(string(data))
	if err != nil {
		return nil, err
	}
	g, err := clusterfield.NewGridFromIcons(rows)
	if err != nil {
		return nil, fmt.Errorf("grid %s: %w", path, err)
	}
	return g, nil
}

// parseGridRows reads one row per non-blank line. Icons are separated by
// spaces or commas; brackets are ignored.
func parseGridRows(text string) ([][]int, error) {
	var rows [][]int
	for i, line := range strings.Split(text, "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == '[' || r == ']' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}
		row := make([]int, len(fields))
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var iconStyles = []color.Color{
	color.FgRed,
	color.FgCyan,
	color.FgYellow,
	color.FgGreen,
	color.FgMagenta,
	color.FgBlue,
	color.FgLightRed,
	color.FgLightGreen,
}

var subtle = color.Style{color.FgGray}

// printGrid writes the grid with clustered cells bold and colored by icon.
func printGrid(w io.Writer, g *clusterfield.Grid) {
	fmt.Fprintf(w, "Field %dx%d:\n", g.Width(), g.Height())
	for y := range g.Height() {
		var b strings.Builder
		for x := range g.Width() {
			c := g.CellAt(x, y)
			if x > 0 {
				b.WriteByte(' ')
			}
			s := strconv.Itoa(c.IconType)
			if !c.InCluster {
				b.WriteString(subtle.Sprint(" " + s + " "))
				continue
			}
			style := color.Style{iconStyles[c.IconType%len(iconStyles)], color.OpBold}
			b.WriteString(style.Sprint("[" + s + "]"))
		}
		fmt.Fprintln(w, b.String())
	}
}
