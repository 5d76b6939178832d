package inject

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/keys"
)

// DryRun logs key events instead of sending them. It needs no privileges
// and works on every platform.
type DryRun struct {
	logger *zap.Logger
	sent   atomic.Uint64
}

// NewDryRun creates a logging injector
func NewDryRun(logger *zap.Logger) *DryRun {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRun{logger: logger.Named("dry-run")}
}

func (d *DryRun) Press(k keys.Key) error {
	return d.log("key press", k)
}

func (d *DryRun) Release(k keys.Key) error {
	return d.log("key release", k)
}

func (d *DryRun) log(msg string, k keys.Key) error {
	if !k.Valid() {
		return unsupportedKey(k)
	}
	d.sent.Add(1)
	d.logger.Info(msg, zap.Stringer("key", k))
	return nil
}

// Sent returns how many events were logged
func (d *DryRun) Sent() uint64 {
	return d.sent.Load()
}

func (d *DryRun) Close() error {
	return nil
}
