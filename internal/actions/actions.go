package actions

import (
	"fmt"
	"strings"
	"time"

	"github.com/PixPMusic/op1nput/internal/keys"
)

// ActionType tags the variant held by an Action
type ActionType uint8

const (
	ActionTypeNothing ActionType = iota
	ActionTypeDelay
	ActionTypeTap
	ActionTypePress
	ActionTypeRelease
	ActionTypeSequence
)

func (t ActionType) String() string {
	switch t {
	case ActionTypeNothing:
		return "nothing"
	case ActionTypeDelay:
		return "delay"
	case ActionTypeTap:
		return "tap"
	case ActionTypePress:
		return "press"
	case ActionTypeRelease:
		return "release"
	case ActionTypeSequence:
		return "sequence"
	default:
		return fmt.Sprintf("ActionType(%d)", uint8(t))
	}
}

// Action describes what to do to the keyboard.
//
// Only the fields relevant to Type are set: Key for tap/press/release,
// Duration for delay and Steps for sequence. Actions are plain values and
// are safe to copy into other goroutines; Steps is never mutated after
// construction.
type Action struct {
	Type     ActionType
	Key      keys.Key
	Duration time.Duration
	Steps    []Action
}

// Nothing returns an action with no effect
func Nothing() Action {
	return Action{Type: ActionTypeNothing}
}

// Delay pauses the executing sequence for d
func Delay(d time.Duration) Action {
	return Action{Type: ActionTypeDelay, Duration: d}
}

// Tap presses and shortly after releases k
func Tap(k keys.Key) Action {
	return Action{Type: ActionTypeTap, Key: k}
}

// Press holds k down
func Press(k keys.Key) Action {
	return Action{Type: ActionTypePress, Key: k}
}

// Release lets go of k
func Release(k keys.Key) Action {
	return Action{Type: ActionTypeRelease, Key: k}
}

// Sequence runs steps one after another
func Sequence(steps ...Action) Action {
	owned := make([]Action, len(steps))
	copy(owned, steps)
	return Action{Type: ActionTypeSequence, Steps: owned}
}

// IsNothing reports whether running a has no observable effect.
func (a Action) IsNothing() bool {
	return a.Type == ActionTypeNothing
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeNothing:
		return "nothing"
	case ActionTypeDelay:
		return fmt.Sprintf("delay(%s)", a.Duration)
	case ActionTypeTap, ActionTypePress, ActionTypeRelease:
		return fmt.Sprintf("%s(%s)", a.Type, a.Key)
	case ActionTypeSequence:
		parts := make([]string, len(a.Steps))
		for i, step := range a.Steps {
			parts[i] = step.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return a.Type.String()
	}
}

// Validate checks that every key referenced by a is a declared key.
func (a Action) Validate() error {
	switch a.Type {
	case ActionTypeNothing:
		return nil
	case ActionTypeDelay:
		if a.Duration < 0 {
			return fmt.Errorf("delay cannot be negative: %s", a.Duration)
		}
		return nil
	case ActionTypeTap, ActionTypePress, ActionTypeRelease:
		if !a.Key.Valid() {
			return fmt.Errorf("%s: %w", a.Type, ErrUnsupportedKey)
		}
		return nil
	case ActionTypeSequence:
		for i, step := range a.Steps {
			if err := step.Validate(); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown action type: %d", a.Type)
	}
}
