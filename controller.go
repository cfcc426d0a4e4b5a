package clusterfield

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// GameState is the controller's round state.
type GameState uint8

const (
	StateIdle            GameState = iota // no grid
	StateShowingClusters                  // grid rendered with clusters highlighted
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateShowingClusters:
		return "SHOWING_CLUSTERS"
	}
	return "UNKNOWN"
}

// GameEventType identifies a GameEvent.
type GameEventType uint8

const (
	EventRoundStarted  GameEventType = iota // a new grid was generated
	EventClustersFound                      // cluster detection finished
	EventRoundReset                         // the round was cleared
)

func (t GameEventType) String() string {
	switch t {
	case EventRoundStarted:
		return "round_started"
	case EventClustersFound:
		return "clusters_found"
	case EventRoundReset:
		return "round_reset"
	}
	return "unknown"
}

// GameEvent describes a controller transition.
type GameEvent struct {
	Type          GameEventType
	Width, Height int
	Clusters      int
	Matched       int
}

// EventSink receives controller events. Used for the optional ECS bridge.
type EventSink interface {
	EmitEvent(event GameEvent)
}

// GridView is what the controller needs from a renderer.
type GridView interface {
	RenderGrid(g *Grid, clusters []Cluster)
	Clear()
}

// GameController sequences grid creation, cluster detection and rendering.
type GameController struct {
	cfg      GameConfig
	view     GridView
	sink     EventSink
	rng      *rand.Rand
	log      *zap.Logger
	state    GameState
	grid     *Grid
	clusters []Cluster
}

// NewGameController creates an idle controller. view and sink may be nil.
// A non-zero cfg.Seed makes the sequence of grids reproducible.
func NewGameController(cfg GameConfig, view GridView, sink EventSink) *GameController {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &GameController{
		cfg:  cfg,
		view: view,
		sink: sink,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:  zap.NewNop(),
	}
}

// SetLogger sets the controller logger. nil restores the no-op logger.
func (c *GameController) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.log = l
}

// SetEventSink replaces the event sink.
func (c *GameController) SetEventSink(sink EventSink) {
	c.sink = sink
}

// Start begins a new round: a fresh grid is generated, clusters are detected
// and the result is rendered. Starting while a round is showing replaces it.
func (c *GameController) Start() {
	c.grid = NewGrid(c.cfg.FieldWidth, c.cfg.FieldHeight, c.cfg.IconTypes, c.rng)
	c.emit(GameEvent{Type: EventRoundStarted, Width: c.grid.Width(), Height: c.grid.Height()})

	c.clusters = FindClusters(c.grid, c.cfg.MinClusterSize)
	matched := MatchedCells(c.clusters)
	c.emit(GameEvent{
		Type:     EventClustersFound,
		Width:    c.grid.Width(),
		Height:   c.grid.Height(),
		Clusters: len(c.clusters),
		Matched:  matched,
	})

	if c.view != nil {
		c.view.RenderGrid(c.grid, c.clusters)
	}
	c.state = StateShowingClusters

	c.log.Info("round started",
		zap.Int("width", c.grid.Width()),
		zap.Int("height", c.grid.Height()),
		zap.Int("clusters", len(c.clusters)),
		zap.Int("matched", matched),
	)
	if ce := c.log.Check(zap.DebugLevel, "grid"); ce != nil {
		ce.Write(zap.String("grid", c.grid.String()), zap.String("clusters", FormatClusters(c.clusters)))
	}
}

// Reset returns to idle and clears the view.
func (c *GameController) Reset() {
	c.state = StateIdle
	c.grid = nil
	c.clusters = nil
	if c.view != nil {
		c.view.Clear()
	}
	c.emit(GameEvent{Type: EventRoundReset})
	c.log.Info("round reset")
}

// State returns the current state.
func (c *GameController) State() GameState {
	return c.state
}

// Grid returns the current grid, or nil when idle.
func (c *GameController) Grid() *Grid {
	return c.grid
}

// Clusters returns the clusters of the current grid.
func (c *GameController) Clusters() []Cluster {
	return c.clusters
}

func (c *GameController) emit(e GameEvent) {
	if c.sink != nil {
		c.sink.EmitEvent(e)
	}
}
