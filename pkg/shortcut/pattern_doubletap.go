package shortcut

import "time"

// DoubleTapPattern completes on a second press of Key within TimeoutMs of the
// first. A second press arriving after the timeout is treated as a fresh
// first press rather than a failed match.
type DoubleTapPattern struct {
	Key            Key
	TimeoutMs      int64
	Action         Action
	firstPressTime time.Time
	armed          bool
}

func NewDoubleTapPattern(key Key, timeoutMs int64, action Action) *DoubleTapPattern {
	if timeoutMs <= 0 {
		timeoutMs = 300
	}
	return &DoubleTapPattern{Key: key, TimeoutMs: timeoutMs, Action: action}
}

func (p *DoubleTapPattern) Type() PatternType      { return PatternDoubleTap }
func (p *DoubleTapPattern) TriggerKey() Key        { return p.Key }
func (p *DoubleTapPattern) Timeout() (int64, bool) { return p.TimeoutMs, true }
func (p *DoubleTapPattern) ActivationKeys() []Key  { return []Key{p.Key} }
func (p *DoubleTapPattern) HasPartialMatch() bool  { return p.armed }

func (p *DoubleTapPattern) IsExpired(now time.Time) bool {
	return p.armed && now.Sub(p.firstPressTime) > time.Duration(p.TimeoutMs)*time.Millisecond
}

func (p *DoubleTapPattern) ProcessPress(key Key, now time.Time) MatchResult {
	if key != p.Key {
		return noMatch()
	}
	if !p.armed {
		p.firstPressTime = now
		p.armed = true
		return partial(nil)
	}
	if now.Sub(p.firstPressTime) <= time.Duration(p.TimeoutMs)*time.Millisecond {
		p.Reset()
		return complete(p.Action)
	}
	// Too late: this press becomes the new first press.
	p.firstPressTime = now
	p.armed = true
	return partial(nil)
}

func (p *DoubleTapPattern) ProcessRelease(key Key, now time.Time) MatchResult {
	return noMatch()
}

func (p *DoubleTapPattern) Reset() {
	p.armed = false
	p.firstPressTime = time.Time{}
}
