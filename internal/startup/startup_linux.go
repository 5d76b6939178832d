package startup

import (
	"fmt"
	"os"
	"path/filepath"
)

func desktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", appName+".desktop")
}

func desktopEntry(e Entry) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=op1nput
Comment=OP-1 controls as keyboard shortcuts
Exec=%s
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, e.CommandLine())
}

func enable(e Entry) error {
	path := desktopPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	return os.WriteFile(path, []byte(desktopEntry(e)), 0o644)
}

func disable() error {
	err := os.Remove(desktopPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func isEnabled() bool {
	_, err := os.Stat(desktopPath())
	return err == nil
}
