//go:build !linux && !darwin && !windows

package startup

func enable(Entry) error { return ErrUnsupported }

func disable() error { return ErrUnsupported }

func isEnabled() bool { return false }
