package shortcut

// DefaultResolutionBufferMs is the margin added on top of the longest
// co-occurring double-tap timeout when a Single pattern must be deferred.
const DefaultResolutionBufferMs int64 = 50

// ResolveConflicts groups patterns by trigger key and rewrites every Single
// pattern's conflict strategy so it never fires before the matcher can prove
// the user did not intend a richer pattern sharing the same trigger.
func ResolveConflicts(patterns []Pattern, bufferMs int64) {
	if bufferMs <= 0 {
		bufferMs = DefaultResolutionBufferMs
	}
	groups := make(map[Key][]Pattern)
	for _, p := range patterns {
		k := p.TriggerKey()
		groups[k] = append(groups[k], p)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		hasCombo := false
		maxDoubleTapTimeout := int64(0)
		hasDoubleTap := false
		for _, p := range group {
			switch p.Type() {
			case PatternCombo:
				hasCombo = true
			case PatternDoubleTap:
				hasDoubleTap = true
				if ms, ok := p.Timeout(); ok && ms > maxDoubleTapTimeout {
					maxDoubleTapTimeout = ms
				}
			}
		}
		for _, p := range group {
			single, ok := p.(*SinglePattern)
			if !ok {
				continue
			}
			switch {
			case hasCombo:
				single.SetConflictStrategy(FireOnRelease, 0)
			case hasDoubleTap:
				single.SetConflictStrategy(DelayedFire, maxDoubleTapTimeout+bufferMs)
			default:
				single.SetConflictStrategy(Immediate, 0)
			}
		}
	}
}
