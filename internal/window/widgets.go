package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

func boldLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Bold: true}
	return l
}

func columnHeaders(titles ...string) *fyne.Container {
	cells := make([]fyne.CanvasObject, len(titles))
	for i, t := range titles {
		cells[i] = boldLabel(t)
	}
	return container.NewGridWithColumns(len(titles), cells...)
}

// newTextRow creates a list row of n truncating labels
func newTextRow(n int) fyne.CanvasObject {
	cells := make([]fyne.CanvasObject, n)
	for i := range cells {
		l := widget.NewLabel("")
		l.Truncation = fyne.TextTruncateEllipsis
		cells[i] = l
	}
	return container.NewGridWithColumns(n, cells...)
}

// setTextRow fills a row made by newTextRow. Extra cells are ignored.
func setTextRow(obj fyne.CanvasObject, cells []string) {
	row, ok := obj.(*fyne.Container)
	if !ok {
		return
	}
	for i, o := range row.Objects {
		l, ok := o.(*widget.Label)
		if !ok {
			continue
		}
		if i < len(cells) {
			l.SetText(cells[i])
		} else {
			l.SetText("")
		}
	}
}
