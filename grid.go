package clusterfield

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Position is a cell coordinate. It is the key that ties a rendered node to
// its grid cell.
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Cell is one square of the grid. Identity is its position; only IconType and
// InCluster ever change.
type Cell struct {
	X, Y      int
	IconType  int
	InCluster bool
}

// NewCell creates an unmarked cell.
func NewCell(x, y, iconType int) *Cell {
	return &Cell{X: x, Y: y, IconType: iconType}
}

// Pos returns the cell's coordinate.
func (c *Cell) Pos() Position {
	return Position{c.X, c.Y}
}

// SetIcon replaces the cell's icon type.
func (c *Cell) SetIcon(iconType int) {
	c.IconType = iconType
}

// MarkCluster flags the cell as part of a reported cluster.
func (c *Cell) MarkCluster() {
	c.InCluster = true
}

// Reset clears the cluster flag.
func (c *Cell) Reset() {
	c.InCluster = false
}

// Grid is a width x height field of cells stored row-major: cells[y][x].
// Every cell's X and Y match its slot.
type Grid struct {
	width     int
	height    int
	iconTypes int
	cells     [][]*Cell
}

// NewGrid creates a grid filled with icon types drawn uniformly from
// [0, iconTypes) using rng. A nil rng uses the global source. Negative
// dimensions are treated as zero.
func NewGrid(width, height, iconTypes int, rng *rand.Rand) *Grid {
	g := &Grid{width: max(width, 0), height: max(height, 0), iconTypes: iconTypes}
	g.Regenerate(rng)
	return g
}

// NewGridFromIcons builds a grid from rows of icon types. Rows must all have
// the width of the first row.
func NewGridFromIcons(rows [][]int) (*Grid, error) {
	g := &Grid{height: len(rows)}
	if g.height > 0 {
		g.width = len(rows[0])
	}
	g.cells = make([][]*Cell, g.height)
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), g.width)
		}
		g.cells[y] = make([]*Cell, g.width)
		for x, icon := range row {
			if icon < 0 {
				return nil, fmt.Errorf("cell (%d,%d): negative icon type %d", x, y, icon)
			}
			g.cells[y][x] = NewCell(x, y, icon)
			g.iconTypes = max(g.iconTypes, icon+1)
		}
	}
	return g, nil
}

// Regenerate replaces every cell with a fresh random icon. Cluster marks are
// lost with the old cells.
func (g *Grid) Regenerate(rng *rand.Rand) {
	pick := rand.IntN
	if rng != nil {
		pick = rng.IntN
	}
	g.cells = make([][]*Cell, g.height)
	for y := range g.height {
		row := make([]*Cell, g.width)
		for x := range g.width {
			icon := 0
			if g.iconTypes > 0 {
				icon = pick(g.iconTypes)
			}
			row[x] = NewCell(x, y, icon)
		}
		g.cells[y] = row
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// IconTypes returns the number of distinct icon types the grid draws from.
func (g *Grid) IconTypes() int {
	return g.iconTypes
}

// InBounds reports whether (x, y) is a valid coordinate.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// CellAt returns the cell at (x, y), or nil if out of bounds.
func (g *Grid) CellAt(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.cells[y][x]
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(c *Cell)) {
	for _, row := range g.cells {
		for _, c := range row {
			fn(c)
		}
	}
}

// Reset clears the cluster flag on every cell. Icons are kept.
func (g *Grid) Reset() {
	g.Each((*Cell).Reset)
}

// Icons returns a copy of the icon layout as rows.
func (g *Grid) Icons() [][]int {
	out := make([][]int, g.height)
	for y, row := range g.cells {
		out[y] = make([]int, g.width)
		for x, c := range row {
			out[y][x] = c.IconType
		}
	}
	return out
}

// String renders the grid one row per line, marking clustered cells with '*'.
func (g *Grid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Field %dx%d:", g.width, g.height)
	for y, row := range g.cells {
		fmt.Fprintf(&b, "\nRow %d: [", y)
		for x, c := range row {
			if x > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d", c.IconType)
			if c.InCluster {
				b.WriteByte('*')
			}
		}
		b.WriteByte(']')
	}
	return b.String()
}
