//go:build linux

package inject

import (
	"fmt"

	"github.com/bendahl/uinput"
	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/keys"
)

const nativeBackend = BackendUinput

// uinputKeyboard drives a virtual keyboard created through /dev/uinput.
// Opening the device usually needs root or membership of the input group.
type uinputKeyboard struct {
	kb     uinput.Keyboard
	logger *zap.Logger
}

func newNative(opts Options, logger *zap.Logger) (Injector, error) {
	kb, err := uinput.CreateKeyboard(opts.UinputPath, []byte(opts.UinputName))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard on %s: %w", opts.UinputPath, err)
	}
	logger.Debug("virtual keyboard created",
		zap.String("path", opts.UinputPath),
		zap.String("name", opts.UinputName))
	return &uinputKeyboard{kb: kb, logger: logger}, nil
}

func (u *uinputKeyboard) Press(k keys.Key) error {
	code, ok := evdevCode(k)
	if !ok {
		return unsupportedKey(k)
	}
	if err := u.kb.KeyDown(code); err != nil {
		return fmt.Errorf("key down %s: %w", k, err)
	}
	return nil
}

func (u *uinputKeyboard) Release(k keys.Key) error {
	code, ok := evdevCode(k)
	if !ok {
		return unsupportedKey(k)
	}
	if err := u.kb.KeyUp(code); err != nil {
		return fmt.Errorf("key up %s: %w", k, err)
	}
	return nil
}

func (u *uinputKeyboard) Close() error {
	return u.kb.Close()
}
