package clusterfield

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// Handle is the only view the Animator has of a visual object: a uniform
// scale and an opacity. Handles are compared by identity, so implementations
// should be pointer types.
type Handle interface {
	Scale() float64
	SetUniformScale(s float64)
	Opacity() float64
	SetOpacity(a float64)
}

// disposable is implemented by handles that can be retired by their owner.
type disposable interface {
	IsDisposed() bool
}

func handleGone(h Handle) bool {
	d, ok := h.(disposable)
	return ok && d.IsDisposed()
}

// Property selects which handle property a one-shot effect drives.
type Property uint8

const (
	PropertyScale   Property = iota // uniform scale
	PropertyOpacity                 // alpha
)

// Default effect parameters.
const (
	DefaultScaleInDuration = 300 * time.Millisecond
	DefaultScaleToDuration = 120 * time.Millisecond
	DefaultFadeDuration    = 200 * time.Millisecond
	DefaultPulsePeriod     = time.Second
	DefaultPulseMin        = 0.95
	DefaultPulseMax        = 1.05
	DefaultDimOpacity      = 0.5
)

// ScaleInOptions configures an entrance. Start from DefaultScaleIn and
// override fields; the zero value scales from 0 to 0.
type ScaleInOptions struct {
	Duration   time.Duration
	StartScale float64
	EndScale   float64
	// Easing defaults to ease.OutBack when nil.
	Easing ease.TweenFunc
	// NoOpacity suppresses the parallel opacity track.
	NoOpacity    bool
	StartOpacity float64
	EndOpacity   float64
}

// DefaultScaleIn returns a 300ms pop-in from scale 0 to 1 with a fade from
// 0 to 1, eased with an overshoot-then-settle curve.
func DefaultScaleIn() ScaleInOptions {
	return ScaleInOptions{
		Duration:     DefaultScaleInDuration,
		StartScale:   0,
		EndScale:     1,
		Easing:       ease.OutBack,
		StartOpacity: 0,
		EndOpacity:   1,
	}
}

// effect is the closed set of records the Animator evaluates each tick:
// *oneShot, *pulse and *delayedStart. step reports whether the record is
// finished and must be dropped.
type effect interface {
	step(now time.Duration) (done bool)
}

// oneShot drives one property from a start value to an end value and then
// removes itself.
type oneShot struct {
	handle   Handle
	prop     Property
	start    time.Duration
	duration time.Duration
	from, to float64
	tween    *gween.Tween
}

func (o *oneShot) write(v float64) {
	switch o.prop {
	case PropertyScale:
		o.handle.SetUniformScale(v)
	case PropertyOpacity:
		o.handle.SetOpacity(v)
	}
}

func (o *oneShot) step(now time.Duration) bool {
	if handleGone(o.handle) {
		return true
	}
	elapsed := now - o.start
	switch {
	case o.duration <= 0 || elapsed >= o.duration:
		// Snap to the exact end value; the eased float32 result may carry residue.
		o.write(o.to)
		return true
	case elapsed <= 0:
		o.write(o.from)
		return false
	}
	v, _ := o.tween.Set(float32(elapsed.Seconds()))
	o.write(float64(v))
	return false
}

// pulse oscillates the scale of a handle until cancelled.
type pulse struct {
	handle    Handle
	start     time.Duration
	period    time.Duration
	min, max  float64
	baseline  float64
	cancelled bool
}

func (p *pulse) scaleAt(now time.Duration) float64 {
	if p.period <= 0 {
		return p.min + (p.max-p.min)*0.5
	}
	elapsed := now - p.start
	if elapsed < 0 {
		elapsed = 0
	}
	phase := float64(elapsed%p.period) / float64(p.period)
	return p.min + (p.max-p.min)*(math.Sin(2*math.Pi*phase)*0.5+0.5)
}

func (p *pulse) step(now time.Duration) bool {
	if p.cancelled || handleGone(p.handle) {
		return true
	}
	p.handle.SetUniformScale(p.scaleAt(now))
	return false
}

// delayedStart promotes itself to a ScaleIn once its delay has elapsed.
type delayedStart struct {
	anim        *Animator
	handle      Handle
	requestedAt time.Duration
	delay       time.Duration
	opts        ScaleInOptions
}

func (d *delayedStart) step(now time.Duration) bool {
	if handleGone(d.handle) {
		return true
	}
	if now-d.requestedAt < d.delay {
		return false
	}
	d.anim.ScaleIn(d.handle, d.opts)
	return true
}

// AnimatorStats reports the number of live records of each kind.
type AnimatorStats struct {
	Delayed  int
	OneShots int
	Pulses   int
}

// Animator advances scale and opacity effects on a set of handles once per
// tick of its TickSource. All bookkeeping is against the Clock: an effect's
// progress is recomputed from its registration time on every tick, so the
// source may tick at any cadence (or not at all) between API calls.
//
// Within a tick, delayed starts are evaluated first, then one-shot effects,
// then pulses. A delayed start that elapses therefore begins animating in the
// same tick, and a pulse overrides any one-shot scale on the same handle.
//
// The Animator references handles but never owns them. One-shot effects
// expire on their own; pulses must be cancelled (or the handle disposed)
// before the owner drops the handle.
type Animator struct {
	source    TickSource
	clock     Clock
	tickID    TickerID
	destroyed bool
	log       *zap.Logger

	delayed    []*delayedStart
	oneShots   []*oneShot
	pulses     []*pulse
	pulseIndex map[Handle]*pulse
}

// NewAnimator creates an Animator and attaches it to source.
func NewAnimator(source TickSource, clock Clock) *Animator {
	a := &Animator{
		source:     source,
		clock:      clock,
		log:        zap.NewNop(),
		pulseIndex: make(map[Handle]*pulse),
	}
	a.tickID = source.AddTicker(a.tick)
	return a
}

// SetLogger sets the logger used for lifecycle messages. nil restores the
// no-op logger.
func (a *Animator) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	a.log = l
}

func (a *Animator) tick() {
	now := a.clock.Now()
	a.delayed = advance(a.delayed, now, nil)
	a.oneShots = advance(a.oneShots, now, nil)
	a.pulses = advance(a.pulses, now, a.forgetPulse)
}

// advance steps every record and compacts the finished ones out in place.
func advance[E effect](list []E, now time.Duration, drop func(E)) []E {
	kept := list[:0]
	for _, e := range list {
		if e.step(now) {
			if drop != nil {
				drop(e)
			}
			continue
		}
		kept = append(kept, e)
	}
	clear(list[len(kept):])
	return kept
}

func (a *Animator) forgetPulse(p *pulse) {
	if a.pulseIndex[p.handle] == p {
		delete(a.pulseIndex, p.handle)
	}
}

func (a *Animator) addOneShot(h Handle, prop Property, from, to float64, d time.Duration, fn ease.TweenFunc) {
	a.oneShots = append(a.oneShots, &oneShot{
		handle:   h,
		prop:     prop,
		start:    a.clock.Now(),
		duration: d,
		from:     from,
		to:       to,
		tween:    gween.New(float32(from), float32(to), float32(d.Seconds()), fn),
	})
}

// ScaleIn registers an entrance: scale from opts.StartScale to opts.EndScale
// and, unless opts.NoOpacity is set, opacity from opts.StartOpacity to
// opts.EndOpacity, both over opts.Duration with opts.Easing. The start values
// are written to the handle immediately.
func (a *Animator) ScaleIn(h Handle, opts ScaleInOptions) {
	if a.destroyed || h == nil || handleGone(h) {
		return
	}
	fn := opts.Easing
	if fn == nil {
		fn = ease.OutBack
	}
	h.SetUniformScale(opts.StartScale)
	a.addOneShot(h, PropertyScale, opts.StartScale, opts.EndScale, opts.Duration, fn)
	if opts.NoOpacity {
		return
	}
	h.SetOpacity(opts.StartOpacity)
	a.addOneShot(h, PropertyOpacity, opts.StartOpacity, opts.EndOpacity, opts.Duration, fn)
}

// ScaleTo registers a scale-only transition from `from` to `to`. The handle
// jumps to `from` immediately. A nil easing is linear.
func (a *Animator) ScaleTo(h Handle, from, to float64, d time.Duration, fn ease.TweenFunc) {
	if a.destroyed || h == nil || handleGone(h) {
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	h.SetUniformScale(from)
	a.addOneShot(h, PropertyScale, from, to, d, fn)
}

// FadeOut registers a linear opacity transition from the handle's current
// opacity to 0.
func (a *Animator) FadeOut(h Handle, d time.Duration) {
	if a.destroyed || h == nil || handleGone(h) {
		return
	}
	a.addOneShot(h, PropertyOpacity, h.Opacity(), 0, d, ease.Linear)
}

// Dim registers a linear opacity transition from the current opacity to
// target. The returned function animates back to the opacity the handle had
// when Dim was called; it acts at most once.
func (a *Animator) Dim(h Handle, target float64, d time.Duration) (restore func()) {
	if a.destroyed || h == nil || handleGone(h) {
		return func() {}
	}
	base := h.Opacity()
	a.addOneShot(h, PropertyOpacity, base, target, d, ease.Linear)
	done := false
	return func() {
		if done || a.destroyed || handleGone(h) {
			return
		}
		done = true
		a.addOneShot(h, PropertyOpacity, h.Opacity(), base, d, ease.Linear)
	}
}

// ScaleInDelayed registers an entrance that starts once delay has elapsed
// from now.
func (a *Animator) ScaleInDelayed(h Handle, delay time.Duration, opts ScaleInOptions) {
	if a.destroyed || h == nil || handleGone(h) {
		return
	}
	a.delayed = append(a.delayed, &delayedStart{
		anim:        a,
		handle:      h,
		requestedAt: a.clock.Now(),
		delay:       delay,
		opts:        opts,
	})
}

// Pulse starts a continuous oscillation of the handle's scale between lo and
// hi with the given period, replacing any pulse already running on h.
//
// The returned function stops the oscillation and snaps the scale back to the
// baseline: the scale the handle had when its first pulse was registered (a
// scale of 0 counts as 1). A replacement pulse keeps the baseline of the one
// it replaced. Calling the function again, or after the pulse was replaced or
// cancelled by CancelAll, does nothing.
func (a *Animator) Pulse(h Handle, lo, hi float64, period time.Duration) (cancel func()) {
	if a.destroyed || h == nil || handleGone(h) {
		return func() {}
	}
	baseline := h.Scale()
	if baseline == 0 {
		baseline = 1
	}
	if prev, ok := a.pulseIndex[h]; ok {
		baseline = prev.baseline
		prev.cancelled = true
		a.log.Debug("pulse replaced", zap.Float64("baseline", baseline))
	}
	p := &pulse{
		handle:   h,
		start:    a.clock.Now(),
		period:   period,
		min:      lo,
		max:      hi,
		baseline: baseline,
	}
	a.pulses = append(a.pulses, p)
	a.pulseIndex[h] = p
	return func() { a.cancelPulse(p) }
}

func (a *Animator) cancelPulse(p *pulse) {
	if p.cancelled {
		return
	}
	p.cancelled = true
	a.forgetPulse(p)
	if !handleGone(p.handle) {
		p.handle.SetUniformScale(p.baseline)
	}
}

// IsPulsing reports whether h has an active pulse.
func (a *Animator) IsPulsing(h Handle) bool {
	_, ok := a.pulseIndex[h]
	return ok
}

// CancelAll discards every pending and running effect. Pulsing handles are
// snapped back to their baseline scale; other handles keep their current
// values.
func (a *Animator) CancelAll() {
	for _, p := range a.pulses {
		a.cancelPulse(p)
	}
	clear(a.delayed)
	clear(a.oneShots)
	clear(a.pulses)
	a.delayed = a.delayed[:0]
	a.oneShots = a.oneShots[:0]
	a.pulses = a.pulses[:0]
	clear(a.pulseIndex)
}

// Destroy cancels everything and detaches the Animator from its TickSource.
// Later registrations are ignored. Calling Destroy twice is harmless.
func (a *Animator) Destroy() {
	if a.destroyed {
		return
	}
	a.CancelAll()
	a.source.RemoveTicker(a.tickID)
	a.destroyed = true
	a.log.Debug("animator destroyed")
}

// Stats returns the number of live records.
func (a *Animator) Stats() AnimatorStats {
	return AnimatorStats{
		Delayed:  len(a.delayed),
		OneShots: len(a.oneShots),
		Pulses:   len(a.pulseIndex),
	}
}
