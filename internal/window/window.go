// Package window shows the built-in mapping tables and recent activity.
// It is read-only; mappings ship with the binary.
package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/mapping"
	"github.com/PixPMusic/op1nput/internal/status"
)

// MappingsWindow manages the mappings window
type MappingsWindow struct {
	window  fyne.Window
	tables  mapping.Tables
	history *status.History
	logger  *zap.Logger

	connLabel  *widget.Label
	recentList *widget.List
	recent     []status.Update // snapshot read by recentList, UI goroutine only
}

// NewMappingsWindow creates the window hidden. history may be nil, in which
// case the Activity tab is left out.
func NewMappingsWindow(app fyne.App, tables mapping.Tables, history *status.History, logger *zap.Logger) *MappingsWindow {
	if logger == nil {
		logger = zap.NewNop()
	}
	win := app.NewWindow("op1nput mappings")

	mw := &MappingsWindow{
		window:  win,
		tables:  tables,
		history: history,
		logger:  logger,
	}

	mw.setupUI()

	win.Resize(fyne.NewSize(720, 520))
	win.CenterOnScreen()

	win.SetCloseIntercept(func() {
		win.Hide()
	})

	if history != nil {
		history.OnChange(func() {
			fyne.Do(mw.refresh)
		})
	}

	return mw
}

func (mw *MappingsWindow) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Controls", mw.createTableTab(mw.tables.Controls)),
		container.NewTabItem("Notes", mw.createTableTab(mw.tables.Notes)),
	)
	if mw.history != nil {
		tabs.Append(container.NewTabItem("Activity", mw.createActivityTab()))
	}
	tabs.SetTabLocation(container.TabLocationTop)

	mw.window.SetContent(tabs)
}

// refresh re-reads the history. Must run on the UI goroutine.
func (mw *MappingsWindow) refresh() {
	if mw.history == nil {
		return
	}
	mw.connLabel.SetText(connectionText(mw.history.Connection()))
	mw.recent = mw.history.Recent()
	mw.recentList.Refresh()
}

// Show displays the window and brings it to front
func (mw *MappingsWindow) Show() {
	mw.logger.Debug("showing mappings window")
	mw.refresh()
	mw.window.Show()
	mw.window.RequestFocus()
}

// Hide hides the window
func (mw *MappingsWindow) Hide() {
	mw.window.Hide()
}

// Window returns the underlying fyne window
func (mw *MappingsWindow) Window() fyne.Window {
	return mw.window
}
