package shortcut

import (
	"testing"
	"time"
)

func TestSinglePatternFireOnReleaseWithinHoldWindow(t *testing.T) {
	p := NewSinglePattern("ControlLeft", ActionStop)
	p.SetConflictStrategy(FireOnRelease, 0)
	now := time.Now()

	res := p.ProcessPress("ControlLeft", now)
	if res.Kind != Partial {
		t.Fatalf("expected Partial on press, got %v", res.Kind)
	}

	res = p.ProcessRelease("ControlLeft", now.Add(50*time.Millisecond))
	if res.Kind != Complete || res.Action != ActionStop {
		t.Fatalf("expected Complete(Stop) for a short hold, got %v", res.Kind)
	}
}

func TestSinglePatternFireOnReleaseLongHoldSuppressed(t *testing.T) {
	p := NewSinglePattern("ControlLeft", ActionStop)
	p.SetConflictStrategy(FireOnRelease, 0)
	now := time.Now()

	p.ProcessPress("ControlLeft", now)
	res := p.ProcessRelease("ControlLeft", now.Add(150*time.Millisecond))
	if res.Kind != NoMatch {
		t.Fatalf("expected NoMatch for a long hold, got %v", res.Kind)
	}
}

func TestComboResetsOnOutOfOrderKey(t *testing.T) {
	p := NewComboPattern([]Key{"ControlLeft", "ShiftLeft", "A"}, ActionStart)
	now := time.Now()

	p.ProcessPress("ControlLeft", now)
	res := p.ProcessPress("A", now.Add(10*time.Millisecond)) // out of order
	if res.Kind != NoMatch {
		t.Fatalf("expected NoMatch on out-of-order key, got %v", res.Kind)
	}
	if p.HasPartialMatch() {
		t.Fatalf("expected the combo to have reset")
	}
}

func TestComboResetsOnEarlyRelease(t *testing.T) {
	p := NewComboPattern([]Key{"ControlLeft", "ShiftLeft"}, ActionStart)
	now := time.Now()

	p.ProcessPress("ControlLeft", now)
	p.ProcessRelease("ControlLeft", now.Add(5*time.Millisecond))
	if p.HasPartialMatch() {
		t.Fatalf("expected releasing a held key below the current index to reset the combo")
	}
}

func TestDoubleTapExpiry(t *testing.T) {
	p := NewDoubleTapPattern("Escape", 300, ActionCancel)
	now := time.Now()

	p.ProcessPress("Escape", now)
	if p.IsExpired(now.Add(100 * time.Millisecond)) {
		t.Fatalf("expected not expired within the timeout window")
	}
	if !p.IsExpired(now.Add(400 * time.Millisecond)) {
		t.Fatalf("expected expired past the timeout window")
	}
}

func TestDoubleTapStaleSecondPressBecomesNewFirst(t *testing.T) {
	p := NewDoubleTapPattern("Escape", 300, ActionCancel)
	now := time.Now()

	p.ProcessPress("Escape", now)
	res := p.ProcessPress("Escape", now.Add(400*time.Millisecond))
	if res.Kind != Partial {
		t.Fatalf("expected a stale second press to behave as a fresh first press, got %v", res.Kind)
	}
	res = p.ProcessPress("Escape", now.Add(450*time.Millisecond))
	if res.Kind != Complete {
		t.Fatalf("expected the next press within the new window to complete, got %v", res.Kind)
	}
}

func TestParsePatternsModifierExpansion(t *testing.T) {
	specs, errs := ParsePatterns("Control", ActionStop)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(specs) != 2 {
		t.Fatalf("expected Control to expand to ControlLeft and ControlRight, got %d patterns", len(specs))
	}
}

func TestParsePatternsComboCartesianExpansion(t *testing.T) {
	specs, errs := ParsePatterns("Control+Shift", ActionStart)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(specs) != 4 {
		t.Fatalf("expected a 2x2 Cartesian expansion, got %d patterns", len(specs))
	}
}

func TestParsePatternsUnknownKeyIsDroppedNotFatal(t *testing.T) {
	specs, errs := ParsePatterns("ControlLeft;Frobnicate", ActionStop)
	if len(specs) != 1 {
		t.Fatalf("expected the valid pattern to survive, got %d", len(specs))
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error for the unknown key, got %d", len(errs))
	}
}

func TestParseDoubleTapDefaultTimeout(t *testing.T) {
	specs, errs := ParsePatterns("double(Escape)", ActionCancel)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	dt := specs[0].Build().(*DoubleTapPattern)
	if dt.TimeoutMs != 300 {
		t.Fatalf("expected default timeout 300ms, got %dms", dt.TimeoutMs)
	}
}
