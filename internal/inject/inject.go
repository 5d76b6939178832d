// Package inject sends synthetic key events to the operating system.
package inject

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/keys"
)

// Backend selects how key events reach the OS
type Backend string

const (
	BackendAuto      Backend = "auto"
	BackendUinput    Backend = "uinput"
	BackendSendInput Backend = "sendinput"
	BackendDryRun    Backend = "dry-run"
)

// Uinput defaults
const (
	DefaultUinputPath = "/dev/uinput"
	DefaultUinputName = "op1nput"
)

// ErrUnsupportedPlatform is returned when no native backend exists for the
// running OS, or the requested backend belongs to another OS.
var ErrUnsupportedPlatform = errors.New("keyboard injection is not supported on this platform")

// ParseBackend validates a backend name. The empty string means auto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendUinput, BackendSendInput, BackendDryRun:
		return b, nil
	default:
		return "", fmt.Errorf("unknown keyboard backend %q (want auto, uinput, sendinput or dry-run)", s)
	}
}

// Injector is an actions.Injector that holds an OS resource
type Injector interface {
	actions.Injector
	Close() error
}

// Options configures New
type Options struct {
	Backend    Backend
	UinputPath string
	UinputName string
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendAuto
	}
	if o.UinputPath == "" {
		o.UinputPath = DefaultUinputPath
	}
	if o.UinputName == "" {
		o.UinputName = DefaultUinputName
	}
	return o
}

// New opens the requested backend. Auto resolves to the native backend of
// the running OS.
func New(opts Options, logger *zap.Logger) (Injector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	switch opts.Backend {
	case BackendDryRun:
		return NewDryRun(logger), nil
	case BackendAuto:
	case BackendUinput, BackendSendInput:
		if opts.Backend != nativeBackend {
			return nil, fmt.Errorf("%w: %s backend on %s", ErrUnsupportedPlatform, opts.Backend, runtime.GOOS)
		}
	default:
		return nil, fmt.Errorf("unknown keyboard backend %q", opts.Backend)
	}

	if nativeBackend == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
	inj, err := newNative(opts, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("keyboard backend ready", zap.String("backend", string(nativeBackend)))
	return inj, nil
}

// Native returns the backend auto resolves to, or "" when there is none
func Native() Backend {
	return nativeBackend
}

func unsupportedKey(k keys.Key) error {
	return fmt.Errorf("%w: %s", actions.ErrUnsupportedKey, k)
}
