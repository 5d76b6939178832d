// Package mapping binds device control numbers to keyboard behaviour.
package mapping

import (
	"fmt"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/keys"
)

// Kind identifies which of the six control variants a Control is
type Kind uint8

const (
	KindKnob Kind = iota + 1
	KindButton
	KindNote
	KindCustomKnob
	KindCustomButton
	KindCustomNote
)

// Shape is the physical input shape, which decides how raw values are read
type Shape uint8

const (
	ShapeKnob Shape = iota + 1
	ShapeButton
	ShapeNote
)

func (k Kind) String() string {
	switch k {
	case KindKnob:
		return "knob"
	case KindButton:
		return "button"
	case KindNote:
		return "note"
	case KindCustomKnob:
		return "custom_knob"
	case KindCustomButton:
		return "custom_button"
	case KindCustomNote:
		return "custom_note"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Shape returns the input shape shared by a kind and its custom variant
func (k Kind) Shape() Shape {
	switch k {
	case KindKnob, KindCustomKnob:
		return ShapeKnob
	case KindButton, KindCustomButton:
		return ShapeButton
	case KindNote, KindCustomNote:
		return ShapeNote
	default:
		return 0
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeKnob:
		return "knob"
	case ShapeButton:
		return "button"
	case ShapeNote:
		return "note"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Control describes the two sides of one physical control.
//
// On is the knob's high side (turned right) or the button/note's down side;
// Off is the knob's low side (turned left) or the up side.
type Control struct {
	Kind Kind
	On   actions.Action
	Off  actions.Action
}

// Knob taps low when turned left and high when turned right
func Knob(low, high keys.Key) Control {
	return Control{Kind: KindKnob, On: actions.Tap(high), Off: actions.Tap(low)}
}

// Button holds key for as long as the button is held
func Button(key keys.Key) Control {
	return Control{Kind: KindButton, On: actions.Press(key), Off: actions.Release(key)}
}

// Note holds key for as long as the note sounds
func Note(key keys.Key) Control {
	return Control{Kind: KindNote, On: actions.Press(key), Off: actions.Release(key)}
}

// CustomKnob runs low or high on each tick
func CustomKnob(low, high actions.Action) Control {
	return Control{Kind: KindCustomKnob, On: high, Off: low}
}

// CustomButton runs down on press and up on release
func CustomButton(down, up actions.Action) Control {
	return Control{Kind: KindCustomButton, On: down, Off: up}
}

// CustomNote runs down on note-on and up on note-off
func CustomNote(down, up actions.Action) Control {
	return Control{Kind: KindCustomNote, On: down, Off: up}
}

// OnLabel and OffLabel name the two sides the way the device presents them
func (c Control) OnLabel() string {
	if c.Kind.Shape() == ShapeKnob {
		return "high"
	}
	return "down"
}

func (c Control) OffLabel() string {
	if c.Kind.Shape() == ShapeKnob {
		return "low"
	}
	return "up"
}

func (c Control) String() string {
	return fmt.Sprintf("%s(%s: %s, %s: %s)", c.Kind, c.OffLabel(), c.Off, c.OnLabel(), c.On)
}

// Validate checks the kind and both actions
func (c Control) Validate() error {
	if c.Kind.Shape() == 0 {
		return fmt.Errorf("unknown control kind %d", uint8(c.Kind))
	}
	if err := c.On.Validate(); err != nil {
		return fmt.Errorf("%s %s: %w", c.Kind, c.OnLabel(), err)
	}
	if err := c.Off.Validate(); err != nil {
		return fmt.Errorf("%s %s: %w", c.Kind, c.OffLabel(), err)
	}
	return nil
}
