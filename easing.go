package clusterfield

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// easings maps config names to gween easing curves. "outback" is the
// overshoot-then-settle curve used for entrances:
// 1 + c3*(t-1)^3 + c1*(t-1)^2 with c1 = 1.70158 and c3 = c1 + 1.
var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"outback":    ease.OutBack,
	"inoutback":  ease.InOutBack,
	"outcubic":   ease.OutCubic,
	"outquad":    ease.OutQuad,
	"inoutsine":  ease.InOutSine,
	"outelastic": ease.OutElastic,
	"outbounce":  ease.OutBounce,
}

// EasingByName returns the easing registered under name.
func EasingByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// EasingNames returns the registered easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SampleEasing evaluates fn at n+1 evenly spaced points of normalized
// progress in [0, 1] and returns the eased weights.
func SampleEasing(fn ease.TweenFunc, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		out[i] = float64(fn(t, 0, 1, 1))
	}
	return out
}
