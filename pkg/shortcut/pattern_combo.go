package shortcut

import "time"

// ComboPattern matches a strictly ordered sequence of key presses, e.g.
// ControlLeft+ShiftLeft. Any key not matching the next expected position
// resets the pattern; releasing a key already consumed below the current
// index also resets it (the user broke the combo).
type ComboPattern struct {
	Keys     []Key
	Action   Action
	index    int
	held     map[Key]bool
}

func NewComboPattern(keys []Key, action Action) *ComboPattern {
	return &ComboPattern{Keys: keys, Action: action, held: make(map[Key]bool)}
}

func (p *ComboPattern) Type() PatternType      { return PatternCombo }
func (p *ComboPattern) TriggerKey() Key        { return p.Keys[0] }
func (p *ComboPattern) Timeout() (int64, bool) { return 0, false }
func (p *ComboPattern) ActivationKeys() []Key  { return []Key{p.Keys[0]} }
func (p *ComboPattern) HasPartialMatch() bool  { return p.index > 0 }
func (p *ComboPattern) IsExpired(now time.Time) bool { return false }

func (p *ComboPattern) ProcessPress(key Key, now time.Time) MatchResult {
	if p.index >= len(p.Keys) {
		return noMatch()
	}
	if p.held[key] {
		// Already-held key re-pressed mid-sequence: stay partial, don't advance.
		return partial([]Key{p.Keys[p.index]})
	}
	if key != p.Keys[p.index] {
		p.Reset()
		return noMatch()
	}
	p.held[key] = true
	p.index++
	if p.index == len(p.Keys) {
		return complete(p.Action)
	}
	return partial([]Key{p.Keys[p.index]})
}

func (p *ComboPattern) ProcessRelease(key Key, now time.Time) MatchResult {
	pos := -1
	for i, k := range p.Keys {
		if k == key {
			pos = i
			break
		}
	}
	if pos >= 0 && pos < p.index {
		p.Reset()
	}
	return noMatch()
}

func (p *ComboPattern) Reset() {
	p.index = 0
	p.held = make(map[Key]bool)
}
