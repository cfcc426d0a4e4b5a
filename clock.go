package clusterfield

import "time"

// Clock reports the current time on a monotonic timeline. Only differences
// between readings are meaningful.
type Clock interface {
	Now() time.Duration
}

// FrameClock is a Clock that only moves when advanced. The Scene advances it
// once per Update, which makes every animation a pure function of the frame
// count. Tests drive it directly.
type FrameClock struct {
	now time.Duration
}

// Now returns the accumulated time.
func (c *FrameClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by dt. Negative values are ignored.
func (c *FrameClock) Advance(dt time.Duration) {
	if dt > 0 {
		c.now += dt
	}
}

// Set jumps the clock to t. Moving backwards is ignored.
func (c *FrameClock) Set(t time.Duration) {
	if t > c.now {
		c.now = t
	}
}

// SystemClock reads the process monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a SystemClock whose zero is the moment of the call.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// TickerID identifies a function registered with a TickSource.
type TickerID uint32

// TickSource invokes registered functions once per frame.
type TickSource interface {
	AddTicker(fn func()) TickerID
	RemoveTicker(id TickerID)
}

type tickEntry struct {
	id TickerID
	fn func()
}

// Ticker is an ordered registry of per-frame functions. Functions run in
// registration order. A function added while ticking first runs on the next
// Tick; a function removed while ticking does not run again, even later in
// the same Tick.
type Ticker struct {
	entries []tickEntry
	nextID  TickerID
	ticking bool
	removed bool
}

// AddTicker registers fn and returns its id.
func (t *Ticker) AddTicker(fn func()) TickerID {
	if fn == nil {
		panic("clusterfield: nil tick func")
	}
	t.nextID++
	t.entries = append(t.entries, tickEntry{id: t.nextID, fn: fn})
	return t.nextID
}

// RemoveTicker unregisters the function with the given id. Unknown ids are
// ignored, so removing twice is harmless.
func (t *Ticker) RemoveTicker(id TickerID) {
	for i := range t.entries {
		if t.entries[i].id != id || t.entries[i].fn == nil {
			continue
		}
		if t.ticking {
			t.entries[i].fn = nil
			t.removed = true
			return
		}
		copy(t.entries[i:], t.entries[i+1:])
		t.entries[len(t.entries)-1] = tickEntry{}
		t.entries = t.entries[:len(t.entries)-1]
		return
	}
}

// Len returns the number of registered functions.
func (t *Ticker) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.fn != nil {
			n++
		}
	}
	return n
}

// Tick runs every registered function once.
func (t *Ticker) Tick() {
	t.ticking = true
	n := len(t.entries)
	for i := 0; i < n; i++ {
		if fn := t.entries[i].fn; fn != nil {
			fn()
		}
	}
	t.ticking = false
	if t.removed {
		t.compact()
	}
}

func (t *Ticker) compact() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.fn != nil {
			kept = append(kept, e)
		}
	}
	clear(t.entries[len(kept):])
	t.entries = kept
	t.removed = false
}
