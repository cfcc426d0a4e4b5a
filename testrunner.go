package clusterfield

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoSteps is returned when a test script contains no steps.
var ErrNoSteps = errors.New("no steps")

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// StepFunc performs a custom script action. label is the step's label field.
type StepFunc func(s *Scene, label string) error

// TestRunner sequences injected clicks, waits and screenshots across frames
// for automated visual testing. Attach to a Scene via SetTestRunner.
//
// Built-in actions are "click" (x, y), "wait" (frames) and "screenshot"
// (label). Further actions can be registered with Bind.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	actions   map[string]StepFunc
	errs      []error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: %w", ErrNoSteps)
	}
	return &TestRunner{steps: script.Steps, actions: make(map[string]StepFunc)}, nil
}

// Bind registers fn for steps whose action is name. Built-in action names
// cannot be overridden.
func (r *TestRunner) Bind(name string, fn StepFunc) {
	r.actions[name] = fn
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before input is processed each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the joined errors of failed or unknown steps, if any.
func (r *TestRunner) Err() error {
	return errors.Join(r.errs...)
}

// step advances the test runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		fn, ok := r.actions[st.Action]
		if !ok {
			r.fail(s, st, fmt.Errorf("step %d: unknown action %q", r.cursor, st.Action))
			break
		}
		if err := fn(s, st.Label); err != nil {
			r.fail(s, st, fmt.Errorf("step %d (%s): %w", r.cursor, st.Action, err))
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) fail(s *Scene, st testStep, err error) {
	r.errs = append(r.errs, err)
	s.log.Warn("test step failed", zap.String("action", st.Action), zap.Error(err))
}
