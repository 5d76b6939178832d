//go:build windows

package inject

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/PixPMusic/op1nput/internal/keys"
)

const nativeBackend = BackendSendInput

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard = 1

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	keyeventfScanCode    = 0x0008
)

// keybdInput mirrors KEYBDINPUT
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors INPUT. The padding covers the larger MOUSEINPUT member of
// the union so the struct size matches what SendInput expects.
type input struct {
	typ     uint32
	ki      keybdInput
	padding [8]byte
}

type sendInput struct {
	logger *zap.Logger
}

func newNative(_ Options, logger *zap.Logger) (Injector, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("load SendInput: %w", err)
	}
	return &sendInput{logger: logger}, nil
}

func (s *sendInput) Press(k keys.Key) error {
	return s.send(k, false)
}

func (s *sendInput) Release(k keys.Key) error {
	return s.send(k, true)
}

func (s *sendInput) send(k keys.Key, up bool) error {
	scan, extended, ok := scanCode(k)
	if !ok {
		return unsupportedKey(k)
	}
	flags := uint32(keyeventfScanCode)
	if up {
		flags |= keyeventfKeyUp
	}
	if extended {
		flags |= keyeventfExtendedKey
	}

	in := input{
		typ: inputKeyboard,
		ki:  keybdInput{wScan: scan, dwFlags: flags},
	}
	n, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if n != 1 {
		return fmt.Errorf("SendInput %s: %w", k, err)
	}
	return nil
}

func (s *sendInput) Close() error {
	return nil
}
