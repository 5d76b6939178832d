// Package tray shows connection state in the system tray and offers Quit.
package tray

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/startup"
	"github.com/PixPMusic/op1nput/internal/status"
)

const (
	labelWaiting   = "Waiting for OP-1…"
	labelConnected = "OP-1 connected"
)

// Callbacks for tray menu actions
type Callbacks struct {
	OnShowMappings func()
	OnQuit         func()
}

// Tray is a status.Sink that mirrors connection state in the tray
type Tray struct {
	desk   desktop.App
	icons  Icons
	logger *zap.Logger

	menu        *fyne.Menu
	statusItem  *fyne.MenuItem
	startupItem *fyne.MenuItem
}

// Setup initializes the system tray using Fyne's built-in support. It
// returns false when the app has no tray, e.g. on mobile drivers.
func Setup(app fyne.App, callbacks Callbacks, logger *zap.Logger) (*Tray, bool) {
	desk, ok := app.(desktop.App)
	if !ok {
		return nil, false
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	icons, err := LoadIcons()
	if err != nil {
		logger.Warn("could not render tray icons, using app icon", zap.Error(err))
		icons = Icons{Connected: app.Icon(), Disconnected: app.Icon()}
	}

	t := &Tray{desk: desk, icons: icons, logger: logger}

	t.statusItem = fyne.NewMenuItem(labelWaiting, nil)
	t.statusItem.Disabled = true

	mappingsItem := fyne.NewMenuItem("Show Mappings", func() {
		if callbacks.OnShowMappings != nil {
			callbacks.OnShowMappings()
		}
	})

	t.startupItem = fyne.NewMenuItem("Open at Startup", nil)
	t.startupItem.Checked = startup.IsEnabled()
	t.startupItem.Action = t.toggleStartup

	quitItem := fyne.NewMenuItem("Quit", func() {
		if callbacks.OnQuit != nil {
			callbacks.OnQuit()
		}
	})
	quitItem.IsQuit = true

	t.menu = fyne.NewMenu("op1nput",
		t.statusItem,
		fyne.NewMenuItemSeparator(),
		mappingsItem,
		t.startupItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	desk.SetSystemTrayMenu(t.menu)
	desk.SetSystemTrayIcon(icons.Disconnected)
	return t, true
}

func (t *Tray) toggleStartup() {
	if t.startupItem.Checked {
		if err := startup.Disable(); err != nil {
			t.logger.Error("could not disable launch at startup", zap.Error(err))
			return
		}
		t.startupItem.Checked = false
	} else {
		entry, err := startup.Current(os.Args[1:]...)
		if err == nil {
			err = entry.Enable()
		}
		if err != nil {
			t.logger.Error("could not enable launch at startup", zap.Error(err))
			return
		}
		t.startupItem.Checked = true
	}
	t.menu.Refresh()
}

// Publish switches the icon and status label on connection changes.
// Dispatch updates are ignored. Safe to call from any goroutine.
func (t *Tray) Publish(u status.Update) {
	var (
		label string
		icon  fyne.Resource
	)
	switch u.Kind {
	case status.KindConnected:
		label, icon = labelConnected, t.icons.Connected
	case status.KindDisconnected:
		label, icon = labelWaiting, t.icons.Disconnected
	default:
		return
	}

	fyne.Do(func() {
		t.statusItem.Label = label
		t.menu.Refresh()
		t.desk.SetSystemTrayIcon(icon)
	})
}
