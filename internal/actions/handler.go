package actions

import (
	"errors"

	"github.com/PixPMusic/op1nput/internal/keys"
)

// ErrUnsupportedKey is returned by an Injector that has no code for a key.
var ErrUnsupportedKey = errors.New("unsupported key")

// Injector makes the OS believe a key changed state.
type Injector interface {
	// Press sends a key-down event and returns once the OS call completes
	Press(k keys.Key) error

	// Release sends a key-up event and returns once the OS call completes
	Release(k keys.Key) error
}
