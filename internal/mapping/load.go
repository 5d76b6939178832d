package mapping

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/keys"
)

//go:embed default.yaml
var defaultLayout []byte

// Tables holds the two id spaces the device reports in
type Tables struct {
	Controls *Table
	Notes    *Table
}

// Default returns the built-in OP-1 layout
func Default() (Tables, error) {
	return Parse(defaultLayout)
}

// Parse decodes a layout document:
//
//	controls:
//	  - { id: 1, knob: { low: Minus, high: Equals } }
//	  - { id: 50, button: F1, label: "1" }
//	  - id: 64
//	    custom_button:
//	      down: [{ press: Shift }, { press: Minus }]
//	      up: [{ release: Shift }, { release: Minus }]
//	notes:
//	  - { id: 53, note: A }
//
// Actions are written as "nothing", a single-key map (delay: 20ms, tap: K,
// press: K, release: K, sequence: [...]) or a list, which is a sequence.
func Parse(data []byte) (Tables, error) {
	var doc layoutDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Tables{}, errors.New("decode layout: empty document")
		}
		return Tables{}, fmt.Errorf("decode layout: %w", err)
	}

	controls, err := buildTable("controls", doc.Controls)
	if err != nil {
		return Tables{}, err
	}
	notes, err := buildTable("notes", doc.Notes)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Controls: controls, Notes: notes}, nil
}

type layoutDoc struct {
	Controls []entry `yaml:"controls"`
	Notes    []entry `yaml:"notes"`
}

type entry struct {
	ID    int    `yaml:"id"`
	Label string `yaml:"label,omitempty"`

	Knob   *knobKeys `yaml:"knob,omitempty"`
	Button *keys.Key `yaml:"button,omitempty"`
	Note   *keys.Key `yaml:"note,omitempty"`

	CustomKnob   *knobActions `yaml:"custom_knob,omitempty"`
	CustomButton *pairActions `yaml:"custom_button,omitempty"`
	CustomNote   *pairActions `yaml:"custom_note,omitempty"`
}

type knobKeys struct {
	Low  keys.Key `yaml:"low"`
	High keys.Key `yaml:"high"`
}

type knobActions struct {
	Low  actionNode `yaml:"low"`
	High actionNode `yaml:"high"`
}

type pairActions struct {
	Down actionNode `yaml:"down"`
	Up   actionNode `yaml:"up"`
}

func buildTable(name string, entries []entry) (*Table, error) {
	bindings := make([]Binding, 0, len(entries))
	for i, e := range entries {
		if e.ID < 0 || e.ID > MaxID {
			return nil, fmt.Errorf("%s[%d]: id %d out of range 0-%d", name, i, e.ID, MaxID)
		}
		c, err := e.control()
		if err != nil {
			return nil, fmt.Errorf("%s[%d] (id %d): %w", name, i, e.ID, err)
		}
		bindings = append(bindings, Binding{ID: uint8(e.ID), Control: c, Label: e.Label})
	}
	return NewTable(name, bindings...)
}

func (e entry) control() (Control, error) {
	var (
		c   Control
		set int
	)
	if e.Knob != nil {
		c, set = Knob(e.Knob.Low, e.Knob.High), set+1
	}
	if e.Button != nil {
		c, set = Button(*e.Button), set+1
	}
	if e.Note != nil {
		c, set = Note(*e.Note), set+1
	}
	if e.CustomKnob != nil {
		c, set = CustomKnob(e.CustomKnob.Low.Action, e.CustomKnob.High.Action), set+1
	}
	if e.CustomButton != nil {
		c, set = CustomButton(e.CustomButton.Down.Action, e.CustomButton.Up.Action), set+1
	}
	if e.CustomNote != nil {
		c, set = CustomNote(e.CustomNote.Down.Action, e.CustomNote.Up.Action), set+1
	}
	switch set {
	case 0:
		return Control{}, errors.New("no control kind given")
	case 1:
		return c, nil
	default:
		return Control{}, errors.New("more than one control kind given")
	}
}

// actionNode decodes an actions.Action from YAML. An absent node decodes
// to Nothing.
type actionNode struct {
	actions.Action
}

func (n *actionNode) UnmarshalYAML(node *yaml.Node) error {
	a, err := decodeAction(node)
	if err != nil {
		return err
	}
	n.Action = a
	return nil
}

func decodeAction(node *yaml.Node) (actions.Action, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "nothing" {
			return actions.Nothing(), nil
		}
		return actions.Action{}, fmt.Errorf("line %d: unknown action %q", node.Line, node.Value)

	case yaml.SequenceNode:
		return decodeSequence(node)

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return actions.Action{}, fmt.Errorf("line %d: an action map must have exactly one key", node.Line)
		}
		kind, value := node.Content[0].Value, node.Content[1]
		switch kind {
		case "delay":
			d, err := time.ParseDuration(value.Value)
			if err != nil {
				return actions.Action{}, fmt.Errorf("line %d: delay: %w", value.Line, err)
			}
			if d < 0 {
				return actions.Action{}, fmt.Errorf("line %d: delay cannot be negative", value.Line)
			}
			return actions.Delay(d), nil
		case "tap", "press", "release":
			var k keys.Key
			if err := value.Decode(&k); err != nil {
				return actions.Action{}, fmt.Errorf("line %d: %s: %w", value.Line, kind, err)
			}
			switch kind {
			case "tap":
				return actions.Tap(k), nil
			case "press":
				return actions.Press(k), nil
			default:
				return actions.Release(k), nil
			}
		case "sequence":
			return decodeSequence(value)
		default:
			return actions.Action{}, fmt.Errorf("line %d: unknown action %q", node.Line, kind)
		}

	case yaml.AliasNode:
		return decodeAction(node.Alias)

	default:
		return actions.Action{}, fmt.Errorf("line %d: cannot decode action", node.Line)
	}
}

func decodeSequence(node *yaml.Node) (actions.Action, error) {
	if node.Kind != yaml.SequenceNode {
		return actions.Action{}, fmt.Errorf("line %d: sequence must be a list", node.Line)
	}
	steps := make([]actions.Action, 0, len(node.Content))
	for _, child := range node.Content {
		step, err := decodeAction(child)
		if err != nil {
			return actions.Action{}, err
		}
		steps = append(steps, step)
	}
	return actions.Sequence(steps...), nil
}
