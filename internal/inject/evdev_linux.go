package inject

import (
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/PixPMusic/op1nput/internal/keys"
)

// evdevCodes maps keys to Linux input event codes
var evdevCodes = map[keys.Key]int{
	keys.Esc: evdev.KEY_ESC,

	keys.F1:  evdev.KEY_F1,
	keys.F2:  evdev.KEY_F2,
	keys.F3:  evdev.KEY_F3,
	keys.F4:  evdev.KEY_F4,
	keys.F5:  evdev.KEY_F5,
	keys.F6:  evdev.KEY_F6,
	keys.F7:  evdev.KEY_F7,
	keys.F8:  evdev.KEY_F8,
	keys.F9:  evdev.KEY_F9,
	keys.F10: evdev.KEY_F10,
	keys.F11: evdev.KEY_F11,
	keys.F12: evdev.KEY_F12,
	keys.F13: evdev.KEY_F13,
	keys.F14: evdev.KEY_F14,
	keys.F15: evdev.KEY_F15,
	keys.F16: evdev.KEY_F16,
	keys.F17: evdev.KEY_F17,
	keys.F18: evdev.KEY_F18,
	keys.F19: evdev.KEY_F19,
	keys.F20: evdev.KEY_F20,
	keys.F21: evdev.KEY_F21,
	keys.F22: evdev.KEY_F22,
	keys.F23: evdev.KEY_F23,
	keys.F24: evdev.KEY_F24,

	keys.Backquote: evdev.KEY_GRAVE,
	keys.Num1:      evdev.KEY_1,
	keys.Num2:      evdev.KEY_2,
	keys.Num3:      evdev.KEY_3,
	keys.Num4:      evdev.KEY_4,
	keys.Num5:      evdev.KEY_5,
	keys.Num6:      evdev.KEY_6,
	keys.Num7:      evdev.KEY_7,
	keys.Num8:      evdev.KEY_8,
	keys.Num9:      evdev.KEY_9,
	keys.Num0:      evdev.KEY_0,
	keys.Minus:     evdev.KEY_MINUS,
	keys.Equals:    evdev.KEY_EQUAL,
	keys.Backspace: evdev.KEY_BACKSPACE,
	keys.Tab:       evdev.KEY_TAB,
	keys.CapsLock:  evdev.KEY_CAPSLOCK,

	keys.A: evdev.KEY_A,
	keys.B: evdev.KEY_B,
	keys.C: evdev.KEY_C,
	keys.D: evdev.KEY_D,
	keys.E: evdev.KEY_E,
	keys.F: evdev.KEY_F,
	keys.G: evdev.KEY_G,
	keys.H: evdev.KEY_H,
	keys.I: evdev.KEY_I,
	keys.J: evdev.KEY_J,
	keys.K: evdev.KEY_K,
	keys.L: evdev.KEY_L,
	keys.M: evdev.KEY_M,
	keys.N: evdev.KEY_N,
	keys.O: evdev.KEY_O,
	keys.P: evdev.KEY_P,
	keys.Q: evdev.KEY_Q,
	keys.R: evdev.KEY_R,
	keys.S: evdev.KEY_S,
	keys.T: evdev.KEY_T,
	keys.U: evdev.KEY_U,
	keys.V: evdev.KEY_V,
	keys.W: evdev.KEY_W,
	keys.X: evdev.KEY_X,
	keys.Y: evdev.KEY_Y,
	keys.Z: evdev.KEY_Z,

	keys.BracketLeft:  evdev.KEY_LEFTBRACE,
	keys.BracketRight: evdev.KEY_RIGHTBRACE,
	keys.BackSlash:    evdev.KEY_BACKSLASH,
	keys.SemiColon:    evdev.KEY_SEMICOLON,
	keys.Quote:        evdev.KEY_APOSTROPHE,
	keys.Enter:        evdev.KEY_ENTER,
	keys.Comma:        evdev.KEY_COMMA,
	keys.Period:       evdev.KEY_DOT,
	keys.Slash:        evdev.KEY_SLASH,
	keys.Space:        evdev.KEY_SPACE,

	keys.Up:    evdev.KEY_UP,
	keys.Left:  evdev.KEY_LEFT,
	keys.Right: evdev.KEY_RIGHT,
	keys.Down:  evdev.KEY_DOWN,

	keys.PrintScreen: evdev.KEY_SYSRQ,
	keys.ScrollLock:  evdev.KEY_SCROLLLOCK,
	keys.Pause:       evdev.KEY_PAUSE,
	keys.Insert:      evdev.KEY_INSERT,
	keys.Delete:      evdev.KEY_DELETE,
	keys.Home:        evdev.KEY_HOME,
	keys.End:         evdev.KEY_END,
	keys.PageUp:      evdev.KEY_PAGEUP,
	keys.PageDown:    evdev.KEY_PAGEDOWN,

	keys.NumLock:        evdev.KEY_NUMLOCK,
	keys.NumpadDivide:   evdev.KEY_KPSLASH,
	keys.NumpadMultiply: evdev.KEY_KPASTERISK,
	keys.NumpadMinus:    evdev.KEY_KPMINUS,
	keys.NumpadEquals:   evdev.KEY_KPEQUAL,
	keys.NumpadPlus:     evdev.KEY_KPPLUS,
	keys.NumpadEnter:    evdev.KEY_KPENTER,
	keys.NumpadDot:      evdev.KEY_KPDOT,
	keys.Numpad0:        evdev.KEY_KP0,
	keys.Numpad1:        evdev.KEY_KP1,
	keys.Numpad2:        evdev.KEY_KP2,
	keys.Numpad3:        evdev.KEY_KP3,
	keys.Numpad4:        evdev.KEY_KP4,
	keys.Numpad5:        evdev.KEY_KP5,
	keys.Numpad6:        evdev.KEY_KP6,
	keys.Numpad7:        evdev.KEY_KP7,
	keys.Numpad8:        evdev.KEY_KP8,
	keys.Numpad9:        evdev.KEY_KP9,

	keys.Shift:        evdev.KEY_LEFTSHIFT,
	keys.ShiftRight:   evdev.KEY_RIGHTSHIFT,
	keys.Control:      evdev.KEY_LEFTCTRL,
	keys.ControlRight: evdev.KEY_RIGHTCTRL,
	keys.Alt:          evdev.KEY_LEFTALT,
	keys.AltGr:        evdev.KEY_RIGHTALT,
	keys.Meta:         evdev.KEY_LEFTMETA,
	keys.MetaRight:    evdev.KEY_RIGHTMETA,
	keys.Menu:         evdev.KEY_COMPOSE,

	keys.MediaPlay: evdev.KEY_PLAYPAUSE,
	keys.MediaStop: evdev.KEY_STOPCD,
	keys.MediaPrev: evdev.KEY_PREVIOUSSONG,
	keys.MediaNext: evdev.KEY_NEXTSONG,
	keys.VolMute:   evdev.KEY_MUTE,
	keys.VolUp:     evdev.KEY_VOLUMEUP,
	keys.VolDown:   evdev.KEY_VOLUMEDOWN,
}

func evdevCode(k keys.Key) (int, bool) {
	code, ok := evdevCodes[k]
	return code, ok
}
