package clusterfield

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

// followUp is the effect a cell gets once its entrance has finished.
type followUp struct {
	pos       Position
	node      *Node
	readyAt   time.Duration
	inCluster bool
}

// GridRenderer turns a Grid into one rectangle node per cell and choreographs
// them with an Animator: a diagonal entrance wave, then a pulse on cluster
// cells and a dim on the rest. Nodes are keyed by their cell Position.
//
// Replaced nodes are retired rather than removed: their pulses are cancelled,
// they fade out, and they are disposed once fully transparent.
type GridRenderer struct {
	layer    *Node
	anim     *Animator
	source   TickSource
	clock    Clock
	cfg      RenderConfig
	entrance ease.TweenFunc
	log      *zap.Logger
	tickID   TickerID

	nodes     map[Position]*Node
	pulses    map[Position]func()
	restores  map[Position]func()
	followUps []followUp
	retiring  mapset.Set[*Node]
	doneBuf   []*Node
	destroyed bool
}

// NewGridRenderer creates a renderer drawing under parent. It registers its
// own ticker on source after anim's, so within a frame it observes the values
// the Animator has just written.
func NewGridRenderer(parent *Node, anim *Animator, source TickSource, clock Clock, cfg RenderConfig) *GridRenderer {
	entrance, ok := EasingByName(cfg.EntranceEasing)
	if !ok {
		entrance = ease.OutBack
	}
	r := &GridRenderer{
		layer:    NewContainer("grid"),
		anim:     anim,
		source:   source,
		clock:    clock,
		cfg:      cfg,
		entrance: entrance,
		log:      zap.NewNop(),
		nodes:    make(map[Position]*Node),
		pulses:   make(map[Position]func()),
		restores: make(map[Position]func()),
		retiring: mapset.New[*Node](),
	}
	parent.AddChild(r.layer)
	r.tickID = source.AddTicker(r.tick)
	return r
}

// SetLogger sets the renderer logger. nil restores the no-op logger.
func (r *GridRenderer) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.log = l
}

// cellCenter returns the layout position of a cell's centre. The grid is
// centred in the viewport.
func (r *GridRenderer) cellCenter(g *Grid, x, y int) (float64, float64) {
	step := r.cfg.CellSize + r.cfg.CellSpacing
	totalW := float64(g.Width())*step - r.cfg.CellSpacing
	totalH := float64(g.Height())*step - r.cfg.CellSpacing
	offX := (r.cfg.ViewportWidth - totalW) / 2
	offY := (r.cfg.ViewportHeight - totalH) / 2
	return offX + float64(x)*step + r.cfg.CellSize/2, offY + float64(y)*step + r.cfg.CellSize/2
}

// RenderGrid retires every node from the previous render and creates one node
// per cell of g. Cells belonging to one of clusters pulse after their
// entrance; all others are dimmed.
func (r *GridRenderer) RenderGrid(g *Grid, clusters []Cluster) {
	if r.destroyed {
		return
	}
	r.retireAll()

	clustered := mapset.New[Position]()
	for _, c := range clusters {
		for _, cell := range c.Cells {
			clustered.Put(cell.Pos())
		}
	}

	now := r.clock.Now()
	opts := ScaleInOptions{
		Duration:   r.cfg.EntranceDuration,
		StartScale: 0,
		EndScale:   1,
		Easing:     r.entrance,
		EndOpacity: 1,
	}

	g.Each(func(c *Cell) {
		pos := c.Pos()
		n := NewRect(fmt.Sprintf("cell_%d_%d", c.X, c.Y), r.cfg.CellSize, r.cfg.CellSize, IconColor(c.IconType))
		n.X, n.Y = r.cellCenter(g, c.X, c.Y)
		n.UserData = pos
		n.SetUniformScale(0)
		n.SetOpacity(0)
		n.OnClick = r.pressFeedback
		r.layer.AddChild(n)
		r.nodes[pos] = n

		delay := time.Duration(c.X+c.Y) * r.cfg.WaveDelay
		r.anim.ScaleInDelayed(n, delay, opts)
		r.followUps = append(r.followUps, followUp{
			pos:       pos,
			node:      n,
			readyAt:   now + delay + r.cfg.EntranceDuration,
			inCluster: clustered.Has(pos),
		})
	})

	r.log.Debug("grid rendered",
		zap.Int("cells", len(r.nodes)),
		zap.Int("clusters", len(clusters)),
		zap.Int("clustered", clustered.Size()),
		zap.Int("retiring", r.retiring.Size()),
	)
}

// Clear retires every live node.
func (r *GridRenderer) Clear() {
	if r.destroyed {
		return
	}
	r.retireAll()
}

// NodeAt returns the live node for pos, or nil.
func (r *GridRenderer) NodeAt(pos Position) *Node {
	return r.nodes[pos]
}

// Len returns the number of live (not retiring) nodes.
func (r *GridRenderer) Len() int {
	return len(r.nodes)
}

// Retiring returns the number of nodes still fading out.
func (r *GridRenderer) Retiring() int {
	return r.retiring.Size()
}

// Destroy disposes every node, live or retiring, and detaches from the tick
// source. The Animator is left running.
func (r *GridRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.source.RemoveTicker(r.tickID)
	for pos, n := range r.nodes {
		r.dropEffects(pos)
		n.Dispose()
	}
	r.retiring.Each(func(n *Node) {
		n.Dispose()
	})
	r.retiring = mapset.New[*Node]()
	clear(r.nodes)
	r.followUps = r.followUps[:0]
	r.layer.Dispose()
}

func (r *GridRenderer) pressFeedback(ctx ClickContext) {
	if r.anim.IsPulsing(ctx.Node) {
		return
	}
	r.anim.ScaleTo(ctx.Node, r.cfg.PressScale, 1, r.cfg.PressDuration, ease.OutBack)
}

// dropEffects cancels the pulse on pos and forgets its dim restore.
func (r *GridRenderer) dropEffects(pos Position) {
	if cancel, ok := r.pulses[pos]; ok {
		cancel()
		delete(r.pulses, pos)
	}
	delete(r.restores, pos)
}

func (r *GridRenderer) retireAll() {
	for pos, n := range r.nodes {
		r.dropEffects(pos)
		n.OnClick = nil
		r.anim.FadeOut(n, r.cfg.FadeDuration)
		r.retiring.Put(n)
	}
	clear(r.nodes)
	r.followUps = r.followUps[:0]
}

func (r *GridRenderer) tick() {
	now := r.clock.Now()

	kept := r.followUps[:0]
	for _, f := range r.followUps {
		if now < f.readyAt {
			kept = append(kept, f)
			continue
		}
		r.settle(f)
	}
	clear(r.followUps[len(kept):])
	r.followUps = kept

	r.doneBuf = r.doneBuf[:0]
	r.retiring.Each(func(n *Node) {
		if n.Opacity() <= 0 || n.IsDisposed() {
			r.doneBuf = append(r.doneBuf, n)
		}
	})
	for _, n := range r.doneBuf {
		r.retiring.Remove(n)
		n.Dispose()
	}
}

// settle snaps a cell to its entrance end values and starts its idle effect.
func (r *GridRenderer) settle(f followUp) {
	if f.node.IsDisposed() {
		return
	}
	f.node.SetUniformScale(1)
	f.node.SetOpacity(1)
	if f.inCluster {
		r.pulses[f.pos] = r.anim.Pulse(f.node, r.cfg.PulseMin, r.cfg.PulseMax, r.cfg.PulsePeriod)
		return
	}
	r.restores[f.pos] = r.anim.Dim(f.node, r.cfg.DimOpacity, r.cfg.DimDuration)
}

// Undim animates every dimmed cell back to full opacity.
func (r *GridRenderer) Undim() {
	for pos, restore := range r.restores {
		restore()
		delete(r.restores, pos)
	}
}
