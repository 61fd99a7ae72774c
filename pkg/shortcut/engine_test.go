package shortcut

import (
	"testing"
	"time"
)

func specs(startDSL, stopDSL, cancelDSL, pauseDSL string) []PatternSpec {
	var all []PatternSpec
	add := func(dsl string, action Action) {
		if dsl == "" {
			return
		}
		built, errs := ParsePatterns(dsl, action)
		if len(errs) > 0 {
			panic(errs[0])
		}
		all = append(all, built...)
	}
	add(startDSL, ActionStart)
	add(stopDSL, ActionStop)
	add(cancelDSL, ActionCancel)
	add(pauseDSL, ActionPause)
	return all
}

// TestSingleCtrlTriggersStart is end-to-end scenario 1.
func TestSingleCtrlTriggersStart(t *testing.T) {
	e := NewEngine(specs("ControlLeft", "", "", ""), 50, 0, nil)
	now := time.Now()

	action := e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "ControlLeft"}, now)
	if action == nil || *action != ActionStart {
		t.Fatalf("expected Start, got %v", action)
	}
	if e.State() != StateActive {
		t.Fatalf("expected Active, got %v", e.State())
	}
}

// TestComprehensiveTransition is end-to-end scenario 6.
func TestComprehensiveTransition(t *testing.T) {
	e := NewEngine(specs("ControlLeft", "ControlRight", "Escape", "F1"), 50, 0, nil)
	now := time.Now()

	want := []struct {
		key   Key
		state State
	}{
		{"ControlLeft", StateActive},
		{"F1", StatePaused},
		{"Escape", StateIdle},
		{"ControlLeft", StateActive},
		{"ControlRight", StateIdle},
	}
	for i, step := range want {
		e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: step.key}, now.Add(time.Duration(i)*time.Second))
		if e.State() != step.state {
			t.Fatalf("step %d: expected state %v, got %v", i, step.state, e.State())
		}
	}
}

// TestStateActionConsistency verifies the per-state pattern filtering: in
// Idle, patterns bound to Stop/Cancel/Pause on the same trigger key are
// simply absent from the live matcher, so only Start ever fires.
func TestStateActionConsistency(t *testing.T) {
	e := NewEngine(specs("ControlLeft", "ControlLeft", "ControlLeft", "ControlLeft"), 50, 0, nil)
	if e.State() != StateIdle {
		t.Fatalf("expected initial Idle state")
	}
	a := e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "ControlLeft"}, time.Now())
	if a == nil || *a != ActionStart {
		t.Fatalf("expected Start from Idle, got %v", a)
	}
}

// TestStaleDelayedActionDroppedAfterStateChange queues two delayed Stops in
// Active (one per Control variant, each deferred behind a double-tap on the
// same key); firing the first transitions to Idle, where Stop is no longer
// available, so the second must be dropped silently instead of emitted.
func TestStaleDelayedActionDroppedAfterStateChange(t *testing.T) {
	e := NewEngine(specs("A", "Control", "", "double(ControlLeft,100);double(ControlRight,100)"), 50, 0, nil)
	now := time.Now()

	if a := e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "A"}, now); a == nil || *a != ActionStart {
		t.Fatalf("expected Start, got %v", a)
	}
	e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "ControlLeft"}, now.Add(10*time.Millisecond))
	e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "ControlRight"}, now.Add(20*time.Millisecond))

	a := e.ProcessEventWithTime(KeyEvent{Kind: Release, Key: "A"}, now.Add(300*time.Millisecond))
	if a == nil || *a != ActionStop {
		t.Fatalf("expected the first delayed Stop to fire, got %v", a)
	}
	if e.State() != StateIdle {
		t.Fatalf("expected Idle after Stop, got %v", e.State())
	}

	a = e.ProcessEventWithTime(KeyEvent{Kind: Release, Key: "A"}, now.Add(310*time.Millisecond))
	if a != nil {
		t.Fatalf("expected the stale delayed Stop to be suppressed in Idle, got %v", *a)
	}
}

func TestActivityTracking(t *testing.T) {
	e := NewEngine(specs("ControlLeft", "ControlRight", "", ""), 50, 20*time.Millisecond, nil)
	e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "ControlLeft"}, time.Now())
	e.ProcessEventWithTime(KeyEvent{Kind: Press, Key: "ControlRight"}, time.Now())
	if e.State() != StateIdle {
		t.Fatalf("expected back in Idle after Stop")
	}
	if !e.IsActivelyListening() {
		t.Fatalf("expected actively listening immediately after the last action, even back in Idle")
	}
	time.Sleep(30 * time.Millisecond)
	if e.IsActivelyListening() {
		t.Fatalf("expected not actively listening after the idle timeout elapses")
	}
}
