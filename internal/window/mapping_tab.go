package window

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/PixPMusic/op1nput/internal/mapping"
)

// ============ MAPPING TABLE TABS ============

var bindingColumns = []string{"ID", "Control", "Kind", "Low / Up", "High / Down"}

func (mw *MappingsWindow) createTableTab(table *mapping.Table) fyne.CanvasObject {
	bindings := table.Bindings()

	header := boldLabel(tableTitle(table))
	list := widget.NewList(
		func() int { return len(bindings) },
		func() fyne.CanvasObject { return newTextRow(len(bindingColumns)) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			setTextRow(obj, bindingRow(bindings[id]))
		},
	)

	return container.NewBorder(
		container.NewVBox(header, widget.NewSeparator(), columnHeaders(bindingColumns...)),
		nil, nil, nil,
		list,
	)
}

func tableTitle(table *mapping.Table) string {
	n := table.Len()
	if n == 1 {
		return "1 binding"
	}
	return strconv.Itoa(n) + " bindings"
}

// bindingRow renders one binding as table cells
func bindingRow(b mapping.Binding) []string {
	label := b.Label
	if label == "" {
		label = "-"
	}
	return []string{
		strconv.Itoa(int(b.ID)),
		label,
		b.Control.Kind.String(),
		b.Control.Off.String(),
		b.Control.On.String(),
	}
}
