package clusterfield

import (
	"fmt"
	"strings"
)

// Cluster is a 4-connected region of same-icon cells that met the minimum
// size. Cells are the grid's own cells in breadth-first discovery order.
type Cluster struct {
	IconType int
	Cells    []*Cell
}

// Size returns the number of cells in the cluster.
func (c Cluster) Size() int {
	return len(c.Cells)
}

// Positions returns the coordinates of the cluster's cells in discovery order.
func (c Cluster) Positions() []Position {
	out := make([]Position, len(c.Cells))
	for i, cell := range c.Cells {
		out[i] = cell.Pos()
	}
	return out
}

// neighbourOffsets are the four axis-aligned directions: left, right, up, down.
var neighbourOffsets = [4]Position{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// FindClusters partitions g into maximal 4-connected same-icon regions and
// returns those with at least minSize cells, in row-major order of their
// first cell. Every returned cell is marked InCluster; all other marks are
// cleared first, so stale results from an earlier call never survive.
//
// Each cell is visited once, so the scan is O(width*height).
func FindClusters(g *Grid, minSize int) []Cluster {
	g.Reset()

	w, h := g.Width(), g.Height()
	if w == 0 || h == 0 {
		return nil
	}

	visited := make([]bool, w*h)
	var clusters []Cluster
	var queue []Position

	for y := range h {
		for x := range w {
			if visited[y*w+x] {
				continue
			}
			var region Cluster
			region, queue = floodFill(g, visited, x, y, queue[:0])
			if len(region.Cells) < minSize {
				continue
			}
			for _, c := range region.Cells {
				c.MarkCluster()
			}
			clusters = append(clusters, region)
		}
	}
	return clusters
}

// floodFill collects the region containing (startX, startY) breadth-first.
// queue is scratch space and is returned so its backing array can be reused.
func floodFill(g *Grid, visited []bool, startX, startY int, queue []Position) (Cluster, []Position) {
	w := g.Width()
	icon := g.CellAt(startX, startY).IconType
	region := Cluster{IconType: icon}

	visited[startY*w+startX] = true
	queue = append(queue, Position{startX, startY})

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		region.Cells = append(region.Cells, g.CellAt(p.X, p.Y))

		for _, d := range neighbourOffsets {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !g.InBounds(nx, ny) || visited[ny*w+nx] {
				continue
			}
			if g.CellAt(nx, ny).IconType != icon {
				continue
			}
			visited[ny*w+nx] = true
			queue = append(queue, Position{nx, ny})
		}
	}
	return region, queue
}

// FormatClusters renders a one-line-per-cluster summary.
func FormatClusters(clusters []Cluster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d cluster(s):", len(clusters))
	for i, c := range clusters {
		fmt.Fprintf(&b, "\nCluster %d (icon: %d): [", i+1, c.IconType)
		for j, p := range c.Positions() {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		fmt.Fprintf(&b, "] - size: %d", c.Size())
	}
	return b.String()
}

// MatchedCells counts the cells across all clusters.
func MatchedCells(clusters []Cluster) int {
	n := 0
	for _, c := range clusters {
		n += len(c.Cells)
	}
	return n
}
