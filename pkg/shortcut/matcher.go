package shortcut

import (
	"sort"
	"sync/atomic"
	"time"
)

// delayedActionCounter mints ids that stay unique across matcher rebuilds,
// so a pending delayed action queued before a state change can never be
// confused with one minted after it.
var delayedActionCounter atomic.Uint64

// Matcher dispatches KeyEvents across the currently-loaded pattern set and
// produces immediate actions, newly-scheduled delayed actions, and cancelled
// delayed-action ids. It holds no notion of Idle/Active/Paused — that is the
// Engine's job (engine.go); the Matcher only knows about patterns.
type Matcher struct {
	patterns       []Pattern
	byTrigger      map[Key][]int
	active         map[int]bool
	activationKeys map[Key]bool
	outstanding    map[uint64]bool
}

// NewMatcher builds a matcher over patterns, which must already have been
// through ResolveConflicts.
func NewMatcher(patterns []Pattern) *Matcher {
	m := &Matcher{
		patterns:       patterns,
		byTrigger:      make(map[Key][]int),
		active:         make(map[int]bool),
		activationKeys: make(map[Key]bool),
		outstanding:    make(map[uint64]bool),
	}
	for i, p := range patterns {
		m.byTrigger[p.TriggerKey()] = append(m.byTrigger[p.TriggerKey()], i)
		for _, k := range p.ActivationKeys() {
			m.activationKeys[k] = true
		}
	}
	return m
}

// ProcessResult is the triple ProcessEvent returns.
type ProcessResult struct {
	Immediate     *Action
	NewDelayed    []DelayedAction
	CancelledIDs  []uint64
}

// indexByTimeoutAsc orders pattern indices so shorter-timeout patterns
// (double-taps with smaller windows) are dispatched before no-timeout
// patterns. This tie-break is essential: it lets a double-tap consume the
// second press before a co-occurring delayed single-fire would otherwise
// remain armed.
func (m *Matcher) indexByTimeoutAsc(indices []int) []int {
	out := make([]int, len(indices))
	copy(out, indices)
	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := m.patterns[out[i]].Timeout()
		tj, okj := m.patterns[out[j]].Timeout()
		if oki && okj {
			return ti < tj
		}
		if oki != okj {
			return oki // timeout-bearing patterns sort first
		}
		return false
	})
	return out
}

func (m *Matcher) activeIndices() []int {
	idx := make([]int, 0, len(m.active))
	for i := range m.active {
		idx = append(idx, i)
	}
	// Map iteration order is randomized; dispatch order must not be.
	sort.Ints(idx)
	return idx
}

// ProcessEvent is the single entry point: expire stale active patterns, then
// dispatch the event per §4.3 of the design.
func (m *Matcher) ProcessEvent(event KeyEvent, now time.Time) ProcessResult {
	m.expire(now)

	switch event.Kind {
	case Press:
		return m.processPress(event.Key, now)
	case Release:
		return m.processRelease(event.Key, now)
	}
	return ProcessResult{}
}

func (m *Matcher) expire(now time.Time) {
	for i := range m.active {
		if m.patterns[i].IsExpired(now) {
			m.patterns[i].Reset()
			delete(m.active, i)
		}
	}
}

func (m *Matcher) processPress(key Key, now time.Time) ProcessResult {
	// Phase a: currently-active patterns get first refusal.
	for _, i := range m.indexByTimeoutAsc(m.activeIndices()) {
		res := m.patterns[i].ProcessPress(key, now)
		if res.Kind == Complete {
			return m.completeAt(res.Action)
		}
		if res.Kind == NoMatch && !m.patterns[i].HasPartialMatch() {
			// The pattern reset itself (combo broken, etc); stop tracking it.
			delete(m.active, i)
		}
	}

	// Phase b: patterns triggered by this key that are not already active.
	candidates := m.byTrigger[key]
	notActive := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if !m.active[i] {
			notActive = append(notActive, i)
		}
	}

	var result ProcessResult
	for _, i := range m.indexByTimeoutAsc(notActive) {
		res := m.patterns[i].ProcessPress(key, now)
		switch res.Kind {
		case Complete:
			return m.completeAt(res.Action)
		case Partial:
			m.active[i] = true
		case Delayed:
			id := delayedActionCounter.Add(1)
			m.outstanding[id] = true
			result.NewDelayed = append(result.NewDelayed, DelayedAction{
				ID:        id,
				Action:    res.Action,
				TriggerAt: now.Add(time.Duration(res.WaitMs) * time.Millisecond),
			})
		}
	}
	return result
}

func (m *Matcher) processRelease(key Key, now time.Time) ProcessResult {
	for _, i := range m.indexByTimeoutAsc(m.activeIndices()) {
		res := m.patterns[i].ProcessRelease(key, now)
		if res.Kind == Complete {
			return m.completeAt(res.Action)
		}
		if res.Kind == NoMatch && !m.patterns[i].HasPartialMatch() {
			delete(m.active, i)
		}
	}
	return ProcessResult{}
}

func (m *Matcher) completeAt(action Action) ProcessResult {
	cancelled := make([]uint64, 0, len(m.outstanding))
	for id := range m.outstanding {
		cancelled = append(cancelled, id)
	}
	m.outstanding = make(map[uint64]bool)
	for i, p := range m.patterns {
		p.Reset()
		delete(m.active, i)
	}
	a := action
	return ProcessResult{Immediate: &a, CancelledIDs: cancelled}
}

// GetExpectedKeys returns the trigger-key set when no pattern is currently
// active, else the empty set.
func (m *Matcher) GetExpectedKeys() []Key {
	if len(m.active) > 0 {
		return nil
	}
	keys := make([]Key, 0, len(m.byTrigger))
	for k := range m.byTrigger {
		keys = append(keys, k)
	}
	return keys
}

// CanActivateFast is the hot-path check against the precomputed activation
// key set.
func (m *Matcher) CanActivateFast(key Key) bool {
	return m.activationKeys[key]
}

// HasPartialMatches is true iff any active pattern reports a partial match.
func (m *Matcher) HasPartialMatches() bool {
	for i := range m.active {
		if m.patterns[i].HasPartialMatch() {
			return true
		}
	}
	return false
}
