package shortcut

import (
	"sync"
	"time"
)

// availableActions lists which actions may fire from each state.
var availableActions = map[State]map[Action]bool{
	StateIdle:   {ActionStart: true},
	StateActive: {ActionStop: true, ActionCancel: true, ActionPause: true},
	StatePaused: {ActionPause: true, ActionCancel: true, ActionStop: true},
}

var transitions = map[State]map[Action]State{
	StateIdle:   {ActionStart: StateActive},
	StateActive: {ActionStop: StateIdle, ActionCancel: StateIdle, ActionPause: StatePaused},
	StatePaused: {ActionStop: StateIdle, ActionCancel: StateIdle, ActionPause: StateActive},
}

// PatternSpec is a parsed, not-yet-conflict-resolved pattern paired with the
// action it fires. Whenever the state changes, the engine rebuilds the live
// Matcher from the specs whose action that state allows.
type PatternSpec struct {
	Build func() Pattern
	Action
}

// Logger is the minimal logging capability the engine needs; see pkg/config
// for the concrete implementations.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Engine is the matcher-owning Idle/Active/Paused state machine. All public
// methods are safe for concurrent use; callers (the listener's hook
// goroutine and its delayed-poll goroutine) serialize through its internal
// lock.
type Engine struct {
	mu              sync.Mutex
	state           State
	specs           []PatternSpec
	matcher         *Matcher
	pending         []DelayedAction
	bufferMs        int64
	activityTimeout time.Duration
	lastActivity    time.Time
	log             Logger
}

// NewEngine builds an engine starting in Idle, with specs already parsed
// from the configured pattern DSL strings.
func NewEngine(specs []PatternSpec, bufferMs int64, activityTimeout time.Duration, log Logger) *Engine {
	if log == nil {
		log = noopLogger{}
	}
	if activityTimeout <= 0 {
		activityTimeout = 30 * time.Second
	}
	e := &Engine{
		state:           StateIdle,
		specs:           specs,
		bufferMs:        bufferMs,
		activityTimeout: activityTimeout,
		lastActivity:    time.Now(),
		log:             log,
	}
	e.rebuildLocked()
	return e
}

// rebuildLocked reconstructs the matcher from specs filtered to the current
// state's available actions, resolves conflicts, and atomically swaps it in.
// Caller must hold mu.
func (e *Engine) rebuildLocked() {
	allowed := availableActions[e.state]
	patterns := make([]Pattern, 0, len(e.specs))
	for _, spec := range e.specs {
		if allowed[spec.Action] {
			patterns = append(patterns, spec.Build())
		}
	}
	ResolveConflicts(patterns, e.bufferMs)
	e.matcher = NewMatcher(patterns)
}

func (e *Engine) setStateLocked(next State) {
	if next == e.state {
		return
	}
	e.state = next
	e.rebuildLocked()
}

// ProcessEventWithTime is the engine's single entry point for live key
// traffic.
func (e *Engine) ProcessEventWithTime(event KeyEvent, now time.Time) (action *Action) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := e.matcher.ProcessEvent(event, now)

	if result.Immediate != nil && len(result.NewDelayed) > 0 {
		e.log.Error("shortcut: invariant violation, matcher returned both an immediate and delayed action; dropping event")
		return nil
	}

	if len(result.CancelledIDs) > 0 {
		cancelled := make(map[uint64]bool, len(result.CancelledIDs))
		for _, id := range result.CancelledIDs {
			cancelled[id] = true
		}
		kept := e.pending[:0]
		for _, d := range e.pending {
			if !cancelled[d.ID] {
				kept = append(kept, d)
			}
		}
		e.pending = kept
	}
	e.pending = append(e.pending, result.NewDelayed...)

	var fired *Action
	if result.Immediate != nil {
		fired = result.Immediate
	} else if triggered := e.popTriggeredLocked(now); triggered != nil {
		fired = triggered
	}

	if fired != nil {
		e.updateActivityLocked(now)
		if next, ok := transitions[e.state][*fired]; ok {
			e.setStateLocked(next)
		}
	} else if event.Kind == Press && e.matcher.CanActivateFast(event.Key) {
		e.updateActivityLocked(now)
	}

	return fired
}

// popTriggeredLocked removes and returns the action of the first pending
// entry whose TriggerAt has elapsed. This is the first qualifying entry in
// insertion order, not necessarily the one with the earliest TriggerAt —
// under backlog a later-but-also-due entry may be served before an earlier
// one on a subsequent poll. A due entry whose action is no longer available
// in the current state (the state changed while it was queued) is dropped
// silently; only allowed actions are ever emitted.
func (e *Engine) popTriggeredLocked(now time.Time) *Action {
	allowed := availableActions[e.state]
	i := 0
	for i < len(e.pending) {
		d := e.pending[i]
		if d.TriggerAt.After(now) {
			i++
			continue
		}
		e.pending = append(e.pending[:i], e.pending[i+1:]...)
		if !allowed[d.Action] {
			continue
		}
		a := d.Action
		return &a
	}
	return nil
}

// PollDelayedAction flushes any pending delayed action without requiring a
// new key event; the listener's 10 ms poll goroutine calls this.
func (e *Engine) PollDelayedAction() *Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now()
	fired := e.popTriggeredLocked(now)
	if fired != nil {
		e.updateActivityLocked(now)
		if next, ok := transitions[e.state][*fired]; ok {
			e.setStateLocked(next)
		}
	}
	return fired
}

func (e *Engine) updateActivityLocked(now time.Time) {
	e.lastActivity = now
}

// State reports the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsActivelyListening reports whether the engine is outside Idle, or within
// the activity-timeout window of its last action/activation-key press. It
// never forces a state transition, and the listener does not consult it:
// its delayed-action poll runs every 10 ms regardless.
func (e *Engine) IsActivelyListening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return true
	}
	return time.Since(e.lastActivity) < e.activityTimeout
}

// ShouldDeactivate is the negation of IsActivelyListening.
func (e *Engine) ShouldDeactivate() bool {
	return !e.IsActivelyListening()
}
