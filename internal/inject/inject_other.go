//go:build !linux && !windows

package inject

import "go.uber.org/zap"

const nativeBackend Backend = ""

func newNative(Options, *zap.Logger) (Injector, error) {
	return nil, ErrUnsupportedPlatform
}
