package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/keys"
)

func TestDefaultLayout(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 37, tables.Controls.Len())
	assert.Equal(t, 24, tables.Notes.Len())

	knob, ok := tables.Controls.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, Knob(keys.Minus, keys.Equals), knob)

	shifted, ok := tables.Controls.Lookup(64)
	require.True(t, ok)
	assert.Equal(t, CustomButton(
		actions.Sequence(actions.Press(keys.Shift), actions.Press(keys.Minus)),
		actions.Sequence(actions.Release(keys.Shift), actions.Release(keys.Minus)),
	), shifted)

	note, ok := tables.Notes.Lookup(64)
	require.True(t, ok)
	assert.Equal(t, Note(keys.L), note, "note 64 must not collide with control 64")

	f1, ok := tables.Controls.Lookup(50)
	require.True(t, ok)
	assert.Equal(t, Button(keys.F1), f1)

	_, ok = tables.Controls.Lookup(53)
	assert.False(t, ok)
}

func TestDefaultLayoutLabels(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	for _, b := range tables.Controls.Bindings() {
		if b.ID == 48 {
			assert.Equal(t, "mic", b.Label)
			return
		}
	}
	t.Fatal("control 48 missing")
}

func TestBindingsAreSorted(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	bindings := tables.Notes.Bindings()
	require.Len(t, bindings, 24)
	for i := 1; i < len(bindings); i++ {
		assert.Less(t, bindings[i-1].ID, bindings[i].ID)
	}
}

func TestParseActions(t *testing.T) {
	doc := `
controls:
  - id: 9
    custom_knob:
      low: nothing
      high:
        sequence:
          - press: Control
          - tap: Z
          - delay: 30ms
          - release: Control
notes:
  - id: 60
    custom_note:
      down: { tap: Space }
`
	tables, err := Parse([]byte(doc))
	require.NoError(t, err)

	knob, ok := tables.Controls.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, KindCustomKnob, knob.Kind)
	assert.True(t, knob.Off.IsNothing())
	assert.Equal(t, actions.Sequence(
		actions.Press(keys.Control),
		actions.Tap(keys.Z),
		actions.Delay(30*time.Millisecond),
		actions.Release(keys.Control),
	), knob.On)

	note, ok := tables.Notes.Lookup(60)
	require.True(t, ok)
	assert.Equal(t, actions.Tap(keys.Space), note.On)
	assert.True(t, note.Off.IsNothing(), "missing side decodes to nothing")
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"duplicate id":   "controls:\n  - { id: 1, button: A }\n  - { id: 1, button: B }\n",
		"out of range":   "controls:\n  - { id: 200, button: A }\n",
		"negative id":    "notes:\n  - { id: -1, note: A }\n",
		"two kinds":      "controls:\n  - { id: 1, button: A, note: B }\n",
		"no kind":        "controls:\n  - { id: 1 }\n",
		"unknown key":    "controls:\n  - { id: 1, button: Hyper }\n",
		"unknown action": "controls:\n  - id: 1\n    custom_button: { down: { wiggle: A } }\n",
		"bad delay":      "controls:\n  - id: 1\n    custom_button: { down: { delay: soon } }\n",
		"unknown field":  "controls:\n  - { id: 1, button: A, colour: red }\n",
		"missing knob":   "controls:\n  - { id: 1, knob: { low: A } }\n",
		"empty":          "",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable("controls",
		Binding{ID: 3, Control: Button(keys.A)},
		Binding{ID: 3, Control: Button(keys.B)},
	)
	assert.Error(t, err)
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Lookup(1)
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestControlString(t *testing.T) {
	assert.Equal(t, "knob(low: tap(Minus), high: tap(Equals))", Knob(keys.Minus, keys.Equals).String())
	assert.Equal(t, "note(up: release(A), down: press(A))", Note(keys.A).String())
}

func TestKindShape(t *testing.T) {
	assert.Equal(t, ShapeKnob, KindCustomKnob.Shape())
	assert.Equal(t, ShapeButton, KindButton.Shape())
	assert.Equal(t, ShapeNote, KindCustomNote.Shape())
	assert.Zero(t, Kind(0).Shape())
}
