package listener

import (
	evdev "github.com/holoplot/go-evdev"

	"github.com/lokutor-ai/pushkey/pkg/shortcut"
)

// keyNameForCode maps an evdev key code to a shortcut.Key name. Apart from
// CapsLock and the digit keys, which the parser has no names for, these are
// the names the DSL parser recognizes (see pkg/shortcut/parser.go's
// keyAliases/concreteKeys).
// go-evdev exposes these as typed EvCode constants matching the stable
// /usr/include/linux/input-event-codes.h numbering, so the values below are
// the symbols themselves rather than bare numeric literals.
func keyNameForCode(code evdev.EvCode) (shortcut.Key, bool) {
	k, ok := codeToKey[code]
	return k, ok
}

var codeToKey = map[evdev.EvCode]shortcut.Key{
	evdev.KEY_ESC:   "Escape",
	evdev.KEY_SPACE: "Space",
	evdev.KEY_ENTER: "Return",
	evdev.KEY_TAB:   "Tab",
	evdev.KEY_BACKSPACE: "Backspace",
	evdev.KEY_DELETE:    "Delete",

	evdev.KEY_LEFTCTRL:  "ControlLeft",
	evdev.KEY_RIGHTCTRL: "ControlRight",
	evdev.KEY_LEFTSHIFT: "ShiftLeft",
	evdev.KEY_RIGHTSHIFT: "ShiftRight",
	evdev.KEY_LEFTALT:   "AltLeft",
	evdev.KEY_RIGHTALT:  "AltRight",
	evdev.KEY_LEFTMETA:  "MetaLeft",
	evdev.KEY_RIGHTMETA: "MetaRight",
	evdev.KEY_CAPSLOCK:  "CapsLock",

	evdev.KEY_A: "A", evdev.KEY_B: "B", evdev.KEY_C: "C", evdev.KEY_D: "D",
	evdev.KEY_E: "E", evdev.KEY_F: "F", evdev.KEY_G: "G", evdev.KEY_H: "H",
	evdev.KEY_I: "I", evdev.KEY_J: "J", evdev.KEY_K: "K", evdev.KEY_L: "L",
	evdev.KEY_M: "M", evdev.KEY_N: "N", evdev.KEY_O: "O", evdev.KEY_P: "P",
	evdev.KEY_Q: "Q", evdev.KEY_R: "R", evdev.KEY_S: "S", evdev.KEY_T: "T",
	evdev.KEY_U: "U", evdev.KEY_V: "V", evdev.KEY_W: "W", evdev.KEY_X: "X",
	evdev.KEY_Y: "Y", evdev.KEY_Z: "Z",

	evdev.KEY_0: "0", evdev.KEY_1: "1", evdev.KEY_2: "2", evdev.KEY_3: "3",
	evdev.KEY_4: "4", evdev.KEY_5: "5", evdev.KEY_6: "6", evdev.KEY_7: "7",
	evdev.KEY_8: "8", evdev.KEY_9: "9",

	evdev.KEY_F1: "F1", evdev.KEY_F2: "F2", evdev.KEY_F3: "F3", evdev.KEY_F4: "F4",
	evdev.KEY_F5: "F5", evdev.KEY_F6: "F6", evdev.KEY_F7: "F7", evdev.KEY_F8: "F8",
	evdev.KEY_F9: "F9", evdev.KEY_F10: "F10", evdev.KEY_F11: "F11", evdev.KEY_F12: "F12",
}
