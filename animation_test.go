package clusterfield

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

const animEpsilon = 1e-4

// animRig drives an Animator with a hand-advanced clock.
type animRig struct {
	clock  *FrameClock
	ticker *Ticker
	anim   *Animator
}

func newAnimRig() *animRig {
	r := &animRig{clock: &FrameClock{}, ticker: &Ticker{}}
	r.anim = NewAnimator(r.ticker, r.clock)
	return r
}

// at moves the clock to d and ticks once.
func (r *animRig) at(d time.Duration) {
	r.clock.Set(d)
	r.ticker.Tick()
}

func assertApprox(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > animEpsilon {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestScaleIn_StartEndAndRemoval(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleIn(n, ScaleInOptions{Duration: 300 * time.Millisecond, StartScale: 0, EndScale: 1, EndOpacity: 1})

	r.at(0)
	if n.Scale() != 0 {
		t.Errorf("scale at 0 = %v, want 0", n.Scale())
	}

	r.at(300 * time.Millisecond)
	if n.Scale() != 1 {
		t.Errorf("scale at end = %v, want exactly 1", n.Scale())
	}
	if n.Opacity() != 1 {
		t.Errorf("opacity at end = %v, want exactly 1", n.Opacity())
	}
	if s := r.anim.Stats(); s.OneShots != 0 {
		t.Errorf("one-shots after completion = %d, want 0", s.OneShots)
	}

	n.SetUniformScale(5)
	r.at(400 * time.Millisecond)
	if n.Scale() != 5 {
		t.Errorf("completed record still writes: scale = %v", n.Scale())
	}
}

func TestScaleIn_WritesStartImmediately(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)
	n.SetOpacity(1)

	r.anim.ScaleIn(n, DefaultScaleIn())
	if n.Scale() != 0 || n.Opacity() != 0 {
		t.Errorf("before first tick: scale %v opacity %v, want 0 0", n.Scale(), n.Opacity())
	}
}

func TestScaleIn_NoOpacity(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)
	n.SetOpacity(0.7)

	opts := DefaultScaleIn()
	opts.NoOpacity = true
	r.anim.ScaleIn(n, opts)
	if s := r.anim.Stats(); s.OneShots != 1 {
		t.Errorf("one-shots = %d, want 1", s.OneShots)
	}
	r.at(time.Second)
	if n.Opacity() != 0.7 {
		t.Errorf("opacity = %v, want untouched 0.7", n.Opacity())
	}
}

func TestScaleIn_DefaultEasingOvershoots(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	opts := DefaultScaleIn()
	opts.Easing = nil
	r.anim.ScaleIn(n, opts)

	r.at(150 * time.Millisecond)
	// 1 + c3*(-0.5)^3 + c1*(-0.5)^2 with c1 = 1.70158.
	c1 := 1.70158
	want := 1 + (c1+1)*math.Pow(-0.5, 3) + c1*math.Pow(-0.5, 2)
	if math.Abs(n.Scale()-want) > 1e-3 {
		t.Errorf("scale at half = %v, want ~%v", n.Scale(), want)
	}
	if n.Scale() <= 1 {
		t.Error("default entrance should overshoot past 1 at the midpoint")
	}
}

func TestScaleTo_Linear(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)
	n.SetOpacity(0.3)

	r.anim.ScaleTo(n, 0, 2, time.Second, nil)
	if n.Scale() != 0 {
		t.Errorf("scale jumps to from: got %v", n.Scale())
	}
	r.at(500 * time.Millisecond)
	assertApprox(t, "scale at half", n.Scale(), 1)
	r.at(time.Second)
	if n.Scale() != 2 {
		t.Errorf("scale at end = %v, want 2", n.Scale())
	}
	if n.Opacity() != 0.3 {
		t.Errorf("ScaleTo changed opacity to %v", n.Opacity())
	}
}

func TestScaleTo_CustomEasing(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleTo(n, 0, 1, time.Second, ease.InQuad)
	r.at(500 * time.Millisecond)
	assertApprox(t, "scale", n.Scale(), 0.25)
}

func TestFadeOut_FromCurrentOpacity(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)
	n.SetOpacity(0.8)
	n.SetUniformScale(1.2)

	r.anim.FadeOut(n, 100*time.Millisecond)
	r.at(50 * time.Millisecond)
	assertApprox(t, "opacity at half", n.Opacity(), 0.4)
	r.at(100 * time.Millisecond)
	if n.Opacity() != 0 {
		t.Errorf("opacity at end = %v, want 0", n.Opacity())
	}
	if n.Scale() != 1.2 {
		t.Errorf("FadeOut changed scale to %v", n.Scale())
	}
}

func TestIndependentTracks(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleTo(n, 0, 2, 200*time.Millisecond, nil)
	r.anim.FadeOut(n, 300*time.Millisecond)

	r.at(100 * time.Millisecond)
	assertApprox(t, "scale", n.Scale(), 1)
	assertApprox(t, "opacity", n.Opacity(), 2.0/3)

	r.at(200 * time.Millisecond)
	if n.Scale() != 2 {
		t.Errorf("scale = %v, want 2", n.Scale())
	}
	r.at(300 * time.Millisecond)
	if n.Scale() != 2 || n.Opacity() != 0 {
		t.Errorf("final scale %v opacity %v, want 2 and 0", n.Scale(), n.Opacity())
	}
}

func TestZeroDuration_CompletesOnNextTick(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleTo(n, 0, 3, 0, nil)
	r.at(0)
	if n.Scale() != 3 {
		t.Errorf("scale = %v, want 3", n.Scale())
	}
	if r.anim.Stats().OneShots != 0 {
		t.Error("zero-duration record not removed")
	}
}

func TestTickedRarely(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleIn(n, DefaultScaleIn())
	// No ticks at all during the animation, then one long jump.
	r.at(10 * time.Second)
	if n.Scale() != 1 || n.Opacity() != 1 {
		t.Errorf("scale %v opacity %v, want 1 1", n.Scale(), n.Opacity())
	}
}

func TestPulse_Oscillates(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.Pulse(n, 0.95, 1.05, time.Second)
	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 1.0},
		{250 * time.Millisecond, 1.05},
		{500 * time.Millisecond, 1.0},
		{750 * time.Millisecond, 0.95},
		{1250 * time.Millisecond, 1.05},
	}
	for _, tt := range tests {
		r.at(tt.at)
		assertApprox(t, "scale at "+tt.at.String(), n.Scale(), tt.want)
	}
	if !r.anim.IsPulsing(n) {
		t.Error("IsPulsing = false")
	}
}

func TestPulse_ZeroPeriodHoldsMidpoint(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.Pulse(n, 0.8, 1.2, 0)
	r.at(123 * time.Millisecond)
	assertApprox(t, "scale", n.Scale(), 1.0)
}

func TestPulse_CancelRestoresBaseline(t *testing.T) {
	tests := []struct {
		name     string
		initial  float64
		cancelAt time.Duration
		want     float64
	}{
		{"immediately", 1, 0, 1},
		{"mid oscillation", 1, 330 * time.Millisecond, 1},
		{"after many periods", 1, 7*time.Second + 100*time.Millisecond, 1},
		{"pre-pulse scale kept", 1.3, 420 * time.Millisecond, 1.3},
		{"zero counts as one", 0, 250 * time.Millisecond, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAnimRig()
			n := NewRect("cell", 10, 10, ColorWhite)
			n.SetUniformScale(tt.initial)

			cancel := r.anim.Pulse(n, 0.9, 1.1, time.Second)
			r.at(tt.cancelAt)
			cancel()
			if n.Scale() != tt.want {
				t.Errorf("scale after cancel = %v, want %v", n.Scale(), tt.want)
			}
			if r.anim.IsPulsing(n) {
				t.Error("still pulsing after cancel")
			}
			r.at(tt.cancelAt + 200*time.Millisecond)
			if n.Scale() != tt.want {
				t.Errorf("cancelled pulse still writes: scale = %v", n.Scale())
			}
			if r.anim.Stats().Pulses != 0 {
				t.Errorf("pulses = %d, want 0", r.anim.Stats().Pulses)
			}
		})
	}
}

func TestPulse_CancelIsIdempotent(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	cancel := r.anim.Pulse(n, 0.9, 1.1, time.Second)
	r.at(250 * time.Millisecond)
	cancel()
	n.SetUniformScale(3)
	cancel()
	if n.Scale() != 3 {
		t.Errorf("second cancel changed scale to %v", n.Scale())
	}
}

func TestPulse_Replace(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)
	n.SetUniformScale(1.2)

	first := r.anim.Pulse(n, 0.9, 1.1, time.Second)
	r.at(250 * time.Millisecond)
	second := r.anim.Pulse(n, 0.5, 0.7, time.Second)

	if s := r.anim.Stats(); s.Pulses != 1 {
		t.Errorf("pulses = %d, want 1", s.Pulses)
	}
	r.at(500 * time.Millisecond)
	// Second pulse started at 250ms, so a quarter period in: its max.
	assertApprox(t, "scale", n.Scale(), 0.7)
	if len(r.anim.pulses) != 1 {
		t.Errorf("replaced pulse record not dropped: %d records", len(r.anim.pulses))
	}

	// The stale cancel is a no-op.
	first()
	if !r.anim.IsPulsing(n) {
		t.Fatal("stale cancel stopped the replacement pulse")
	}
	assertApprox(t, "scale after stale cancel", n.Scale(), 0.7)

	// The replacement keeps the original baseline.
	second()
	if n.Scale() != 1.2 {
		t.Errorf("scale = %v, want baseline 1.2", n.Scale())
	}
}

func TestPulse_OverridesOneShotScale(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.Pulse(n, 0.95, 1.05, time.Second)
	r.anim.ScaleTo(n, 0, 2, time.Second, nil)
	r.at(250 * time.Millisecond)
	assertApprox(t, "scale", n.Scale(), 1.05)
}

func TestScaleInDelayed(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)
	r.at(time.Second)

	opts := DefaultScaleIn()
	opts.Easing = ease.Linear
	r.anim.ScaleInDelayed(n, 100*time.Millisecond, opts)

	r.at(1050 * time.Millisecond)
	if s := r.anim.Stats(); s.Delayed != 1 || s.OneShots != 0 {
		t.Errorf("stats before delay = %+v", s)
	}
	if n.Scale() != 1 {
		t.Errorf("scale touched before delay: %v", n.Scale())
	}

	// Elapsed in this tick: promoted and evaluated in the same tick.
	r.at(1100 * time.Millisecond)
	if s := r.anim.Stats(); s.Delayed != 0 || s.OneShots != 2 {
		t.Errorf("stats after delay = %+v", s)
	}
	if n.Scale() != 0 || n.Opacity() != 0 {
		t.Errorf("scale %v opacity %v at entrance start, want 0 0", n.Scale(), n.Opacity())
	}

	r.at(1250 * time.Millisecond)
	assertApprox(t, "scale", n.Scale(), 0.5)
	assertApprox(t, "opacity", n.Opacity(), 0.5)

	r.at(1400 * time.Millisecond)
	if n.Scale() != 1 || n.Opacity() != 1 {
		t.Errorf("final scale %v opacity %v", n.Scale(), n.Opacity())
	}
	if s := r.anim.Stats(); s != (AnimatorStats{}) {
		t.Errorf("stats after completion = %+v", s)
	}
}

func TestScaleInDelayed_Wave(t *testing.T) {
	r := newAnimRig()
	nodes := make([]*Node, 4)
	for i := range nodes {
		nodes[i] = NewRect("cell", 10, 10, ColorWhite)
		r.anim.ScaleInDelayed(nodes[i], time.Duration(i)*40*time.Millisecond, DefaultScaleIn())
	}
	r.at(0)
	r.at(80 * time.Millisecond)
	if r.anim.Stats().Delayed != 1 {
		t.Errorf("delayed = %d, want 1", r.anim.Stats().Delayed)
	}
	if nodes[3].Scale() != 1 {
		t.Error("last node started early")
	}
	if nodes[0].Scale() == 0 {
		t.Error("first node has not progressed")
	}
}

func TestDim_Restore(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	restore := r.anim.Dim(n, 0.5, 100*time.Millisecond)
	r.at(100 * time.Millisecond)
	if n.Opacity() != 0.5 {
		t.Fatalf("dimmed opacity = %v, want 0.5", n.Opacity())
	}
	restore()
	r.at(150 * time.Millisecond)
	assertApprox(t, "opacity", n.Opacity(), 0.75)
	r.at(200 * time.Millisecond)
	if n.Opacity() != 1 {
		t.Errorf("restored opacity = %v, want 1", n.Opacity())
	}
	n.SetOpacity(0.2)
	restore()
	r.at(500 * time.Millisecond)
	if n.Opacity() != 0.2 {
		t.Errorf("second restore acted: opacity = %v", n.Opacity())
	}
}

func TestDisposedHandle(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleTo(n, 0, 1, time.Second, nil)
	cancel := r.anim.Pulse(n, 0.9, 1.1, time.Second)
	n.Dispose()
	r.at(500 * time.Millisecond)

	if n.Scale() != 0 {
		t.Errorf("disposed node written: scale = %v", n.Scale())
	}
	if s := r.anim.Stats(); s != (AnimatorStats{}) {
		t.Errorf("stats = %+v, want all zero", s)
	}
	cancel()
	if n.Scale() != 0 {
		t.Errorf("cancel wrote to disposed node: scale = %v", n.Scale())
	}

	// Registrations against disposed handles are ignored.
	r.anim.ScaleIn(n, DefaultScaleIn())
	r.anim.FadeOut(n, time.Second)
	r.anim.ScaleInDelayed(n, time.Second, DefaultScaleIn())
	r.anim.Pulse(n, 0.9, 1.1, time.Second)()
	if s := r.anim.Stats(); s != (AnimatorStats{}) {
		t.Errorf("stats after registrations = %+v", s)
	}
}

func TestDisposedBeforeDelayElapses(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.ScaleInDelayed(n, 100*time.Millisecond, DefaultScaleIn())
	n.Dispose()
	r.at(200 * time.Millisecond)
	if s := r.anim.Stats(); s != (AnimatorStats{}) {
		t.Errorf("stats = %+v", s)
	}
	if n.Scale() != 1 {
		t.Errorf("disposed node written: scale = %v", n.Scale())
	}
}

func TestCancelAll(t *testing.T) {
	r := newAnimRig()
	pulsing := NewRect("pulsing", 10, 10, ColorWhite)
	fading := NewRect("fading", 10, 10, ColorWhite)
	waiting := NewRect("waiting", 10, 10, ColorWhite)

	cancel := r.anim.Pulse(pulsing, 0.9, 1.1, time.Second)
	r.anim.FadeOut(fading, time.Second)
	r.anim.ScaleInDelayed(waiting, time.Second, DefaultScaleIn())
	r.at(250 * time.Millisecond)

	r.anim.CancelAll()
	if s := r.anim.Stats(); s != (AnimatorStats{}) {
		t.Errorf("stats = %+v", s)
	}
	if pulsing.Scale() != 1 {
		t.Errorf("pulsing scale = %v, want baseline 1", pulsing.Scale())
	}
	faded := fading.Opacity()
	r.at(2 * time.Second)
	if fading.Opacity() != faded {
		t.Errorf("cancelled fade continued: %v -> %v", faded, fading.Opacity())
	}
	if waiting.Scale() != 1 {
		t.Errorf("cancelled delayed start fired: scale = %v", waiting.Scale())
	}
	pulsing.SetUniformScale(2)
	cancel()
	if pulsing.Scale() != 2 {
		t.Error("cancel after CancelAll acted")
	}

	// The animator keeps working after CancelAll.
	r.anim.ScaleTo(fading, 0, 1, 0, nil)
	r.at(3 * time.Second)
	if fading.Scale() != 1 {
		t.Error("animator unusable after CancelAll")
	}
}

func TestDestroy(t *testing.T) {
	r := newAnimRig()
	n := NewRect("cell", 10, 10, ColorWhite)

	r.anim.Pulse(n, 0.9, 1.1, time.Second)
	r.anim.ScaleTo(n, 0, 1, time.Second, nil)
	if r.ticker.Len() != 1 {
		t.Fatalf("ticker len = %d, want 1", r.ticker.Len())
	}

	r.anim.Destroy()
	if r.ticker.Len() != 0 {
		t.Errorf("animator still attached: ticker len = %d", r.ticker.Len())
	}
	if n.Scale() != 1 {
		t.Errorf("scale after destroy = %v, want pulse baseline 1", n.Scale())
	}

	r.anim.ScaleTo(n, 0, 5, time.Second, nil)
	if n.Scale() != 1 {
		t.Error("registration after Destroy wrote start value")
	}
	if s := r.anim.Stats(); s != (AnimatorStats{}) {
		t.Errorf("stats after destroy = %+v", s)
	}
	r.anim.Destroy()
}

func TestAnimatorLogger(t *testing.T) {
	r := newAnimRig()
	r.anim.SetLogger(nil)
	if r.anim.log == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
	n := NewRect("cell", 10, 10, ColorWhite)
	r.anim.Pulse(n, 0.9, 1.1, time.Second)
	r.anim.Pulse(n, 0.9, 1.1, time.Second)
	r.anim.Destroy()
}

func TestTick_NoAllocsSteadyState(t *testing.T) {
	r := newAnimRig()
	for range 32 {
		r.anim.Pulse(NewRect("cell", 10, 10, ColorWhite), 0.9, 1.1, time.Second)
	}
	now := time.Duration(0)
	allocs := testing.AllocsPerRun(100, func() {
		now += DefaultFrameDuration
		r.at(now)
	})
	if allocs > 0 {
		t.Errorf("tick allocates %v per run, want 0", allocs)
	}
}

func BenchmarkAnimatorTick(b *testing.B) {
	r := newAnimRig()
	for i := range 500 {
		n := NewRect("cell", 10, 10, ColorWhite)
		if i%2 == 0 {
			r.anim.Pulse(n, 0.9, 1.1, time.Second)
		} else {
			r.anim.ScaleTo(n, 0, 1, time.Hour, nil)
		}
	}
	now := time.Duration(0)
	b.ReportAllocs()
	for b.Loop() {
		now += DefaultFrameDuration
		r.at(now)
	}
}
