// Package startup registers op1nput to launch when the user logs in.
package startup

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	appName  = "op1nput"
	appLabel = "com.pixpmusic.op1nput"
)

// ErrUnsupported is returned on platforms without a login-item mechanism
var ErrUnsupported = errors.New("launch at startup is not supported on this platform")

// Entry is the command the OS runs at login
type Entry struct {
	Exec string
	Args []string
}

// Current returns an Entry that relaunches the running binary with args
func Current(args ...string) (Entry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Entry{}, fmt.Errorf("locate executable: %w", err)
	}
	return Entry{Exec: execPath, Args: args}, nil
}

// Enable registers e to launch at system startup
func (e Entry) Enable() error {
	if e.Exec == "" {
		return errors.New("startup entry has no executable")
	}
	return enable(e)
}

// Disable removes the application from system startup. Disabling an entry
// that does not exist is not an error.
func Disable() error {
	return disable()
}

// IsEnabled checks if the application is registered for startup
func IsEnabled() bool {
	return isEnabled()
}

// CommandLine renders e as one shell-style string, quoting arguments that
// contain spaces.
func (e Entry) CommandLine() string {
	parts := make([]string, 0, len(e.Args)+1)
	for _, p := range append([]string{e.Exec}, e.Args...) {
		if strings.ContainsAny(p, " \t\"") {
			p = `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
