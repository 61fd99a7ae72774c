// Package duck implements the volume-ducking component: a four-state
// machine (Normal -> Reducing -> Reduced -> Restoring -> Normal) that drives
// an external VolumeSetter down while recording and back up afterward,
// using compare-and-swap transitions so repeated lifecycle calls while a
// transition is already in flight are idempotent no-ops.
package duck

import (
	"sync/atomic"

	"github.com/lokutor-ai/pushkey/pkg/registry"
)

// VolumeSetter is the narrow external collaborator this component drives —
// actually talking to a specific media player is out of scope; callers
// supply an implementation (or a logging stub in tests/CI).
type VolumeSetter interface {
	GetVolume() (int, error)
	SetVolume(pct int) error
}

type state int32

const (
	stateNormal state = iota
	stateReducing
	stateReduced
	stateRestoring
)

// Logger is the minimal logging capability this component needs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Component is Sequential: volume changes must not race each other.
type Component struct {
	registry.BaseComponent

	setter VolumeSetter
	log    Logger

	// RecordingVolume and ReduceBy are mutually exclusive: RecordingVolume
	// sets an exact target percentage, ReduceBy subtracts from the current
	// level. Zero value for both means ducking is configured off.
	RecordingVolume int // 0 = unset
	ReduceBy        int // 0 = unset

	st             atomic.Int32
	originalVolume atomic.Int32 // -1 = none stored
	reductionCalls atomic.Int64
}

func New(setter VolumeSetter, log Logger, recordingVolume, reduceBy int) *Component {
	if log == nil {
		log = noopLogger{}
	}
	c := &Component{
		BaseComponent:   registry.BaseComponent{ComponentName: "Ducking", Mode: registry.Sequential},
		setter:          setter,
		log:             log,
		RecordingVolume: recordingVolume,
		ReduceBy:        reduceBy,
	}
	c.originalVolume.Store(-1)
	return c
}

func (c *Component) OnStart() error  { return c.reduce() }
func (c *Component) OnPause() error  { return c.restore() }
func (c *Component) OnResume() error { return c.reduce() }
func (c *Component) OnCancel() error { return c.restore() }

func (c *Component) OnProcessingComplete(string) error { return c.restore() }

// OnError restores too: a failed transcription ends the session just as a
// completed one does, and the media volume must not stay ducked.
func (c *Component) OnError(string) error { return c.restore() }

// reduce transitions Normal -> Reducing -> Reduced. Any other current state
// means a reduction is already in flight or already applied; the call is a
// no-op. This is the idempotency guarantee: two consecutive OnStart calls
// with no intervening stop perform exactly one SetVolume call.
func (c *Component) reduce() error {
	if c.setter == nil || (c.RecordingVolume == 0 && c.ReduceBy == 0) {
		return nil
	}
	if !c.st.CompareAndSwap(int32(stateNormal), int32(stateReducing)) {
		return nil
	}
	c.reductionCalls.Add(1)

	current, err := c.setter.GetVolume()
	if err != nil {
		c.st.Store(int32(stateNormal))
		return err
	}
	if c.originalVolume.Load() == -1 {
		c.originalVolume.Store(int32(current))
	}

	target := current
	if c.RecordingVolume != 0 {
		target = c.RecordingVolume
	} else if c.ReduceBy != 0 {
		target = current - c.ReduceBy
		if target < 0 {
			target = 0
		}
	}

	if err := c.setter.SetVolume(target); err != nil {
		c.log.Error("duck: volume reduction failed", "error", err)
		c.st.Store(int32(stateNormal))
		return err
	}
	c.st.Store(int32(stateReduced))
	return nil
}

// restore transitions Reduced -> Restoring -> Normal.
func (c *Component) restore() error {
	if c.setter == nil {
		return nil
	}
	if !c.st.CompareAndSwap(int32(stateReduced), int32(stateRestoring)) {
		return nil
	}

	original := c.originalVolume.Load()
	if original == -1 {
		c.st.Store(int32(stateNormal))
		return nil
	}
	if err := c.setter.SetVolume(int(original)); err != nil {
		c.log.Error("duck: volume restoration failed", "error", err)
		c.st.Store(int32(stateReduced))
		return err
	}
	c.originalVolume.Store(-1)
	c.st.Store(int32(stateNormal))
	return nil
}

// ReductionCalls reports how many times a reduction actually executed
// (past the idempotency gate) — exposed for tests.
func (c *Component) ReductionCalls() int64 { return c.reductionCalls.Load() }
