package mapping

import (
	"fmt"
	"sort"
)

// MaxID is the largest control or note number the device reports
const MaxID = 127

// Binding attaches a Control to a control or note number
type Binding struct {
	ID      uint8
	Control Control
	Label   string // Physical description, e.g. "mic button"; optional
}

// Table is an immutable lookup from number to Control.
// It is safe for concurrent readers.
type Table struct {
	name     string
	controls map[uint8]Binding
}

// NewTable builds a table from bindings. Duplicate or out-of-range ids
// and invalid controls are rejected.
func NewTable(name string, bindings ...Binding) (*Table, error) {
	t := &Table{
		name:     name,
		controls: make(map[uint8]Binding, len(bindings)),
	}
	for _, b := range bindings {
		if b.ID > MaxID {
			return nil, fmt.Errorf("%s: id %d out of range 0-%d", name, b.ID, MaxID)
		}
		if _, dup := t.controls[b.ID]; dup {
			return nil, fmt.Errorf("%s: id %d bound twice", name, b.ID)
		}
		if err := b.Control.Validate(); err != nil {
			return nil, fmt.Errorf("%s: id %d: %w", name, b.ID, err)
		}
		t.controls[b.ID] = b
	}
	return t, nil
}

// Name returns the table's name ("controls" or "notes")
func (t *Table) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Lookup returns the Control bound to id. Unbound ids are normal.
func (t *Table) Lookup(id uint8) (Control, bool) {
	if t == nil {
		return Control{}, false
	}
	b, ok := t.controls[id]
	return b.Control, ok
}

// Len returns the number of bound ids
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.controls)
}

// Bindings returns every binding ordered by id
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	out := make([]Binding, 0, len(t.controls))
	for _, b := range t.controls {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
