package shortcut

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError distinguishes the four error kinds the DSL parser can raise.
type ParseErrorKind int

const (
	ErrEmptyPattern ParseErrorKind = iota
	ErrUnknownKey
	ErrInvalidTimeout
	ErrInvalidFormat
)

type ParseError struct {
	Kind  ParseErrorKind
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shortcut parse error in %q: %s", e.Input, e.Msg)
}

// keyAliases maps modifier spellings to concrete key names: the Control,
// Shift and Meta spellings to both sides, Alt and Option to AltLeft only,
// and AltGr to AltRight.
var keyAliases = map[string][]Key{
	"control": {"ControlLeft", "ControlRight"},
	"ctrl":    {"ControlLeft", "ControlRight"},
	"shift":   {"ShiftLeft", "ShiftRight"},
	"alt":     {"AltLeft"},
	"option":  {"AltLeft"},
	"altgr":   {"AltRight"},
	"meta":    {"MetaLeft", "MetaRight"},
	"cmd":     {"MetaLeft", "MetaRight"},
	"command": {"MetaLeft", "MetaRight"},
	"win":     {"MetaLeft", "MetaRight"},
	"windows": {"MetaLeft", "MetaRight"},
	"super":   {"MetaLeft", "MetaRight"},
}

var concreteKeys = map[string]Key{
	"controlleft": "ControlLeft", "controlright": "ControlRight",
	"shiftleft": "ShiftLeft", "shiftright": "ShiftRight",
	"altleft": "AltLeft", "altright": "AltRight",
	"metaleft": "MetaLeft", "commandleft": "MetaLeft",
	"metaright": "MetaRight", "commandright": "MetaRight",
	"escape": "Escape", "esc": "Escape",
	"space": "Space", "return": "Return", "enter": "Return",
	"tab": "Tab", "backspace": "Backspace", "delete": "Delete",
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		name := string(c)
		concreteKeys[strings.ToLower(name)] = Key(name)
		concreteKeys[strings.ToLower("key"+name)] = Key(name)
	}
	for n := 1; n <= 12; n++ {
		name := fmt.Sprintf("F%d", n)
		concreteKeys[strings.ToLower(name)] = Key(name)
	}
}

// resolveKeyName expands one DSL token into one-or-more concrete Keys
// (more than one only for ambiguous modifier names).
func resolveKeyName(raw string) ([]Key, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" {
		return nil, &ParseError{Kind: ErrUnknownKey, Input: raw, Msg: "empty key name"}
	}
	if keys, ok := keyAliases[norm]; ok {
		return keys, nil
	}
	if key, ok := concreteKeys[norm]; ok {
		return []Key{key}, nil
	}
	return nil, &ParseError{Kind: ErrUnknownKey, Input: raw, Msg: "unknown key name"}
}

// ParsePatterns parses a semicolon-separated list of DSL pattern strings into
// PatternSpecs tagged with action. Patterns that fail to parse are logged by
// the caller (via the returned error list) and dropped; parsing of the
// remaining patterns continues.
func ParsePatterns(dsl string, action Action) ([]PatternSpec, []error) {
	var specs []PatternSpec
	var errs []error
	for _, raw := range strings.Split(dsl, ";") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		built, err := parseOne(text, action)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, built...)
	}
	return specs, errs
}

func parseOne(text string, action Action) ([]PatternSpec, error) {
	switch {
	case strings.HasPrefix(strings.ToLower(text), "double("):
		return parseDoubleTap(text, action)
	case strings.Contains(text, "+"):
		return parseCombo(text, action)
	default:
		return parseSingle(text, action)
	}
}

func parseSingle(text string, action Action) ([]PatternSpec, error) {
	keys, err := resolveKeyName(text)
	if err != nil {
		return nil, err
	}
	specs := make([]PatternSpec, 0, len(keys))
	for _, k := range keys {
		k := k
		specs = append(specs, PatternSpec{
			Build:  func() Pattern { return NewSinglePattern(k, action) },
			Action: action,
		})
	}
	return specs, nil
}

func parseCombo(text string, action Action) ([]PatternSpec, error) {
	parts := strings.Split(text, "+")
	if len(parts) < 2 {
		return nil, &ParseError{Kind: ErrInvalidFormat, Input: text, Msg: "combo requires at least two keys"}
	}
	expansions := make([][]Key, 0, len(parts))
	for _, part := range parts {
		keys, err := resolveKeyName(part)
		if err != nil {
			return nil, err
		}
		expansions = append(expansions, keys)
	}
	var combos [][]Key
	combos = append(combos, nil)
	for _, options := range expansions {
		var next [][]Key
		for _, prefix := range combos {
			for _, opt := range options {
				seq := append(append([]Key{}, prefix...), opt)
				next = append(next, seq)
			}
		}
		combos = next
	}
	specs := make([]PatternSpec, 0, len(combos))
	for _, seq := range combos {
		seq := seq
		specs = append(specs, PatternSpec{
			Build:  func() Pattern { return NewComboPattern(seq, action) },
			Action: action,
		})
	}
	return specs, nil
}

func parseDoubleTap(text string, action Action) ([]PatternSpec, error) {
	if !strings.HasSuffix(text, ")") {
		return nil, &ParseError{Kind: ErrInvalidFormat, Input: text, Msg: "missing closing paren"}
	}
	inner := text[len("double(") : len(text)-1]
	args := strings.SplitN(inner, ",", 2)
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, &ParseError{Kind: ErrEmptyPattern, Input: text, Msg: "double() requires a key"}
	}
	keys, err := resolveKeyName(args[0])
	if err != nil {
		return nil, err
	}
	timeoutMs := int64(300)
	if len(args) == 2 {
		raw := strings.TrimSpace(args[1])
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			return nil, &ParseError{Kind: ErrInvalidTimeout, Input: text, Msg: "invalid timeout_ms"}
		}
		timeoutMs = v
	}
	specs := make([]PatternSpec, 0, len(keys))
	for _, k := range keys {
		k := k
		specs = append(specs, PatternSpec{
			Build:  func() Pattern { return NewDoubleTapPattern(k, timeoutMs, action) },
			Action: action,
		})
	}
	return specs, nil
}
