package window

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/PixPMusic/op1nput/internal/status"
)

// ============ ACTIVITY TAB ============

var activityColumns = []string{"Time", "Table", "ID", "Value", "Result"}

func (mw *MappingsWindow) createActivityTab() fyne.CanvasObject {
	mw.connLabel = widget.NewLabel(connectionText(mw.history.Connection()))
	mw.connLabel.TextStyle = fyne.TextStyle{Bold: true}

	mw.recentList = widget.NewList(
		func() int { return len(mw.recent) },
		func() fyne.CanvasObject { return newTextRow(len(activityColumns)) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			setTextRow(obj, dispatchRow(mw.recent[id]))
		},
	)

	return container.NewBorder(
		container.NewVBox(mw.connLabel, widget.NewSeparator(), columnHeaders(activityColumns...)),
		nil, nil, nil,
		mw.recentList,
	)
}

func connectionText(u status.Update) string {
	if u.Kind == status.KindConnected {
		return "Connected: " + u.Port
	}
	return "Waiting for device…"
}

// dispatchRow renders one dispatch update as table cells
func dispatchRow(u status.Update) []string {
	d := u.Dispatch
	if d == nil {
		return []string{u.At.Format("15:04:05.000"), "", "", "", string(u.Kind)}
	}
	result := d.Outcome
	if d.Action != "" {
		result = d.Side + ": " + d.Action
	}
	return []string{
		u.At.Format("15:04:05.000"),
		d.Table,
		strconv.Itoa(int(d.ID)),
		strconv.Itoa(int(d.Value)),
		result,
	}
}
