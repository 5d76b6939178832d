// Package keys defines the closed set of keyboard keys a mapping can target.
package keys

import (
	"fmt"
	"strings"
)

// Key identifies one physical key on a standard PC keyboard.
// Keys are ordered by their declaration below; the zero value is invalid.
type Key uint8

const (
	invalid Key = iota

	Esc

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24

	// Number row
	Backquote
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9
	Num0
	Minus
	Equals
	Backspace
	Tab
	CapsLock

	// Letters
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	// Symbols
	BracketLeft
	BracketRight
	BackSlash
	SemiColon
	Quote
	Enter
	Comma
	Period
	Slash
	Space

	// Cursor keys
	Up
	Left
	Right
	Down

	// Edit keys
	PrintScreen
	ScrollLock
	Pause
	Insert
	Delete
	Home
	End
	PageUp
	PageDown

	// Numpad
	NumLock
	NumpadDivide
	NumpadMultiply
	NumpadMinus
	NumpadEquals
	NumpadPlus
	NumpadEnter
	NumpadDot
	Numpad0
	Numpad1
	Numpad2
	Numpad3
	Numpad4
	Numpad5
	Numpad6
	Numpad7
	Numpad8
	Numpad9

	// Modifiers
	Shift
	ShiftRight
	Control
	ControlRight
	Alt
	AltGr
	Meta
	MetaRight
	Menu

	// Media
	MediaPlay
	MediaStop
	MediaPrev
	MediaNext
	VolMute
	VolUp
	VolDown

	count
)

var names = [count]string{
	Esc: "Esc",
	F1:  "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6",
	F7: "F7", F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",
	F13: "F13", F14: "F14", F15: "F15", F16: "F16", F17: "F17", F18: "F18",
	F19: "F19", F20: "F20", F21: "F21", F22: "F22", F23: "F23", F24: "F24",
	Backquote: "Backquote",
	Num1:      "Num1", Num2: "Num2", Num3: "Num3", Num4: "Num4", Num5: "Num5",
	Num6: "Num6", Num7: "Num7", Num8: "Num8", Num9: "Num9", Num0: "Num0",
	Minus:     "Minus",
	Equals:    "Equals",
	Backspace: "Backspace",
	Tab:       "Tab",
	CapsLock:  "CapsLock",
	A:         "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H",
	I: "I", J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P",
	Q: "Q", R: "R", S: "S", T: "T", U: "U", V: "V", W: "W", X: "X",
	Y: "Y", Z: "Z",
	BracketLeft:    "BracketLeft",
	BracketRight:   "BracketRight",
	BackSlash:      "BackSlash",
	SemiColon:      "SemiColon",
	Quote:          "Quote",
	Enter:          "Enter",
	Comma:          "Comma",
	Period:         "Period",
	Slash:          "Slash",
	Space:          "Space",
	Up:             "Up",
	Left:           "Left",
	Right:          "Right",
	Down:           "Down",
	PrintScreen:    "PrintScreen",
	ScrollLock:     "ScrollLock",
	Pause:          "Pause",
	Insert:         "Insert",
	Delete:         "Delete",
	Home:           "Home",
	End:            "End",
	PageUp:         "PageUp",
	PageDown:       "PageDown",
	NumLock:        "NumLock",
	NumpadDivide:   "NumpadDivide",
	NumpadMultiply: "NumpadMultiply",
	NumpadMinus:    "NumpadMinus",
	NumpadEquals:   "NumpadEquals",
	NumpadPlus:     "NumpadPlus",
	NumpadEnter:    "NumpadEnter",
	NumpadDot:      "NumpadDot",
	Numpad0:        "Numpad0", Numpad1: "Numpad1", Numpad2: "Numpad2",
	Numpad3: "Numpad3", Numpad4: "Numpad4", Numpad5: "Numpad5",
	Numpad6: "Numpad6", Numpad7: "Numpad7", Numpad8: "Numpad8",
	Numpad9:      "Numpad9",
	Shift:        "Shift",
	ShiftRight:   "ShiftRight",
	Control:      "Control",
	ControlRight: "ControlRight",
	Alt:          "Alt",
	AltGr:        "AltGr",
	Meta:         "Meta",
	MetaRight:    "MetaRight",
	Menu:         "Menu",
	MediaPlay:    "MediaPlay",
	MediaStop:    "MediaStop",
	MediaPrev:    "MediaPrev",
	MediaNext:    "MediaNext",
	VolMute:      "VolMute",
	VolUp:        "VolUp",
	VolDown:      "VolDown",
}

var byName = func() map[string]Key {
	m := make(map[string]Key, len(names))
	for k, name := range names {
		if name != "" {
			m[strings.ToLower(name)] = Key(k)
		}
	}
	return m
}()

// Valid reports whether k is one of the declared keys.
func (k Key) Valid() bool {
	return k > invalid && k < count
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", uint8(k))
	}
	return names[k]
}

// Parse looks a key up by name, ignoring case.
func Parse(name string) (Key, error) {
	k, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return invalid, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid key %d", uint8(k))
	}
	return []byte(names[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// All returns every declared key in order.
func All() []Key {
	all := make([]Key, 0, count-1)
	for k := invalid + 1; k < count; k++ {
		all = append(all, k)
	}
	return all
}
