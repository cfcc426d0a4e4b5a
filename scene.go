package clusterfield

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// DefaultFrameDuration is the clock step per Update at 60 ticks per second.
const DefaultFrameDuration = time.Second / 60

const defaultCommandCap = 256

// Scene is the top-level object that owns the node tree, the frame clock,
// the per-frame tickers, input state and the render buffer.
//
// Every Update advances the frame clock by a fixed step, so all animation
// driven by the scene is a pure function of the number of frames processed.
type Scene struct {
	root  *Node
	clock FrameClock
	Ticker
	frameDt time.Duration
	log     *zap.Logger
	debug   bool

	// ClearColor fills the screen before the tree is drawn. Zero alpha skips it.
	ClearColor Color

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir   string
	screenshotQueue []string

	updateFunc func() error

	// Render state
	commands []rectCommand

	// Input state
	testRunner  *TestRunner
	injectQueue []syntheticPointerEvent
	pointer     pointerState
	pollPointer bool
	hitBuf      []*Node
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:          NewContainer("root"),
		frameDt:       DefaultFrameDuration,
		log:           zap.NewNop(),
		ScreenshotDir: "screenshots",
		commands:      make([]rectCommand, 0, defaultCommandCap),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Clock returns the scene's frame clock.
func (s *Scene) Clock() *FrameClock {
	return &s.clock
}

// SetFrameDuration sets the clock step per Update. Non-positive values are
// ignored.
func (s *Scene) SetFrameDuration(dt time.Duration) {
	if dt > 0 {
		s.frameDt = dt
	}
}

// FrameDuration returns the clock step per Update.
func (s *Scene) FrameDuration() time.Duration {
	return s.frameDt
}

// SetLogger sets the scene logger. nil restores the no-op logger.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

// SetUpdateFunc registers a function called at the end of every Update.
// A non-nil error from it is returned by Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// Update advances one frame: the clock steps forward, transforms are
// refreshed for hit testing, the test runner and input are processed, then
// every ticker runs and finally the update func.
func (s *Scene) Update() error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.clock.Advance(s.frameDt)
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	s.Tick()

	var err error
	if s.updateFunc != nil {
		err = s.updateFunc()
	}

	if s.debug {
		s.debugCheckChildCount(s.root)
		s.debugLog(debugStats{updateTime: time.Since(t0), nodeCount: countNodes(s.root)})
	}
	return err
}

// Draw refreshes transforms, emits a command per visible rectangle and
// submits them to screen. Queued screenshots are captured afterwards.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	s.commands = s.commands[:0]
	s.traverse(s.root, identityTransform, 1.0, false)
	s.submit(screen)

	if s.debug {
		s.debugLog(debugStats{drawTime: time.Since(t0), drawCount: len(s.commands)})
	}

	s.flushScreenshots(screen)
}
