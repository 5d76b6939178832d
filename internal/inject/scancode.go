package inject

import "github.com/PixPMusic/op1nput/internal/keys"

// scanCodes maps keys to PC/AT set 1 scan codes. Codes above 0xFF carry
// an extended prefix in the high byte.
var scanCodes = map[keys.Key]uint16{
	keys.Esc: 0x01,

	keys.F1:  0x3B,
	keys.F2:  0x3C,
	keys.F3:  0x3D,
	keys.F4:  0x3E,
	keys.F5:  0x3F,
	keys.F6:  0x40,
	keys.F7:  0x41,
	keys.F8:  0x42,
	keys.F9:  0x43,
	keys.F10: 0x44,
	keys.F11: 0x57,
	keys.F12: 0x58,
	keys.F13: 0x5B,
	keys.F14: 0x5C,
	keys.F15: 0x5D,
	keys.F16: 0x63,
	keys.F17: 0x64,
	keys.F18: 0x65,
	keys.F19: 0x66,
	keys.F20: 0x67,
	keys.F21: 0x68,
	keys.F22: 0x69,
	keys.F23: 0x6A,
	keys.F24: 0x6B,

	keys.Backquote: 0x29,
	keys.Num1:      0x02,
	keys.Num2:      0x03,
	keys.Num3:      0x04,
	keys.Num4:      0x05,
	keys.Num5:      0x06,
	keys.Num6:      0x07,
	keys.Num7:      0x08,
	keys.Num8:      0x09,
	keys.Num9:      0x0A,
	keys.Num0:      0x0B,
	keys.Minus:     0x0C,
	keys.Equals:    0x0D,
	keys.Backspace: 0x0E,
	keys.Tab:       0x0F,
	keys.CapsLock:  0x3A,

	keys.A: 0x1E,
	keys.B: 0x30,
	keys.C: 0x2E,
	keys.D: 0x20,
	keys.E: 0x12,
	keys.F: 0x21,
	keys.G: 0x22,
	keys.H: 0x23,
	keys.I: 0x17,
	keys.J: 0x24,
	keys.K: 0x25,
	keys.L: 0x26,
	keys.M: 0x32,
	keys.N: 0x31,
	keys.O: 0x18,
	keys.P: 0x19,
	keys.Q: 0x10,
	keys.R: 0x13,
	keys.S: 0x1F,
	keys.T: 0x14,
	keys.U: 0x16,
	keys.V: 0x2F,
	keys.W: 0x11,
	keys.X: 0x2D,
	keys.Y: 0x15,
	keys.Z: 0x2C,

	keys.BracketLeft:  0x1A,
	keys.BracketRight: 0x1B,
	keys.BackSlash:    0x2B,
	keys.SemiColon:    0x27,
	keys.Quote:        0x28,
	keys.Enter:        0x1C,
	keys.Comma:        0x33,
	keys.Period:       0x34,
	keys.Slash:        0x35,
	keys.Space:        0x39,

	keys.Up:    0xE048,
	keys.Left:  0xE04B,
	keys.Right: 0xE04D,
	keys.Down:  0xE050,

	keys.PrintScreen: 0x0E37,
	keys.ScrollLock:  0x46,
	keys.Pause:       0x0E45,
	keys.Insert:      0x0E52,
	keys.Delete:      0x0E53,
	keys.Home:        0x0E47,
	keys.End:         0x0E4F,
	keys.PageUp:      0x0E49,
	keys.PageDown:    0x0E51,

	keys.NumLock:        0x45,
	keys.NumpadDivide:   0x0E35,
	keys.NumpadMultiply: 0x37,
	keys.NumpadMinus:    0x4A,
	keys.NumpadEquals:   0x0E0D,
	keys.NumpadPlus:     0x4E,
	keys.NumpadEnter:    0x0E1C,
	keys.NumpadDot:      0x53,
	keys.Numpad0:        0x52,
	keys.Numpad1:        0x4F,
	keys.Numpad2:        0x50,
	keys.Numpad3:        0x51,
	keys.Numpad4:        0x4B,
	keys.Numpad5:        0x4C,
	keys.Numpad6:        0x4D,
	keys.Numpad7:        0x47,
	keys.Numpad8:        0x48,
	keys.Numpad9:        0x49,

	keys.Shift:        0x2A,
	keys.ShiftRight:   0x36,
	keys.Control:      0x1D,
	keys.ControlRight: 0x0E1D,
	keys.Alt:          0x38,
	keys.AltGr:        0x0E38,
	keys.Meta:         0x0E5B,
	keys.MetaRight:    0x0E5C,
	keys.Menu:         0x0E5D,

	keys.MediaPlay: 0xE022,
	keys.MediaStop: 0xE024,
	keys.MediaPrev: 0xE010,
	keys.MediaNext: 0xE019,
	keys.VolMute:   0xE020,
	keys.VolUp:     0xE030,
	keys.VolDown:   0xE02E,
}

// scanCode returns the scan code to send for k and whether it needs the
// extended-key flag.
func scanCode(k keys.Key) (scan uint16, extended bool, ok bool) {
	code, ok := scanCodes[k]
	if !ok {
		return 0, false, false
	}
	return code & 0xFF, code > 0xFF, true
}
