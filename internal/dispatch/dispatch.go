// Package dispatch turns raw device events into keyboard actions.
package dispatch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/mapping"
)

// ControlChange is the status byte that routes an event to the controls
// table. Every other status byte is treated as note traffic.
const ControlChange uint8 = 176

// Value thresholds. Knobs send 127 for a tick right and 0 or 1 for a tick
// left. The device reports notes with a high or low velocity rather than a
// note-off status, so notes split at noteOnAbove.
const (
	valueHigh   uint8 = 127
	valueLowMax uint8 = 1
	noteOnAbove uint8 = 72
)

// Event is one (channel, identifier, value) triple from the transport
type Event struct {
	Channel uint8
	ID      uint8
	Value   uint8
}

// IsControlChange reports whether e belongs to the controls table
func (e Event) IsControlChange() bool {
	return e.Channel == ControlChange
}

// Side names which of a control's two actions was picked
type Side uint8

const (
	SideNone Side = iota
	SideOn
	SideOff
)

func (s Side) String() string {
	switch s {
	case SideOn:
		return "on"
	case SideOff:
		return "off"
	default:
		return "none"
	}
}

// Select picks the action a raw value triggers on c. It returns false when
// the value means nothing for this kind of control, such as a knob
// reporting a mid-rotation value.
func Select(c mapping.Control, value uint8) (actions.Action, Side, bool) {
	switch c.Kind.Shape() {
	case mapping.ShapeKnob, mapping.ShapeButton:
		switch {
		case value == valueHigh:
			return c.On, SideOn, true
		case value <= valueLowMax:
			return c.Off, SideOff, true
		}
	case mapping.ShapeNote:
		if value > noteOnAbove {
			return c.On, SideOn, true
		}
		return c.Off, SideOff, true
	}
	return actions.Action{}, SideNone, false
}

// Outcome summarises what Handle did with an event
type Outcome uint8

const (
	OutcomeFired Outcome = iota + 1
	OutcomeUnmapped
	OutcomeUnknownValue
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFired:
		return "fired"
	case OutcomeUnmapped:
		return "unmapped"
	case OutcomeUnknownValue:
		return "unknown_value"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Result describes one handled event
type Result struct {
	Event   Event
	Table   string
	Outcome Outcome
	Control mapping.Control
	Side    Side
	Action  actions.Action
}

// Executor runs a selected action. *actions.Executor satisfies it.
type Executor interface {
	Execute(a actions.Action)
}

// Engine routes events to the right table and runs the selected action.
// Handle must be called from a single goroutine; the tables are read-only.
type Engine struct {
	tables mapping.Tables
	exec   Executor
	logger *zap.Logger
}

// NewEngine creates an engine over the given tables
func NewEngine(tables mapping.Tables, exec Executor, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tables: tables, exec: exec, logger: logger}
}

// Tables returns the tables the engine dispatches against
func (e *Engine) Tables() mapping.Tables {
	return e.tables
}

// Route returns the table an event's identifier belongs to
func (e *Engine) Route(ev Event) *mapping.Table {
	if ev.IsControlChange() {
		return e.tables.Controls
	}
	return e.tables.Notes
}

// Handle dispatches one event. Unmapped identifiers and meaningless values
// are logged at debug level and otherwise ignored.
func (e *Engine) Handle(ev Event) Result {
	table := e.Route(ev)
	res := Result{Event: ev, Table: table.Name()}

	control, ok := table.Lookup(ev.ID)
	if !ok {
		res.Outcome = OutcomeUnmapped
		e.logger.Debug("unrecognized control, ignored",
			zap.String("table", res.Table),
			zap.Uint8("channel", ev.Channel),
			zap.Uint8("id", ev.ID),
			zap.Uint8("value", ev.Value))
		return res
	}
	res.Control = control

	action, side, ok := Select(control, ev.Value)
	if !ok {
		res.Outcome = OutcomeUnknownValue
		e.logger.Debug("unknown control value",
			zap.String("table", res.Table),
			zap.Uint8("id", ev.ID),
			zap.Stringer("kind", control.Kind),
			zap.Uint8("value", ev.Value))
		return res
	}

	res.Outcome = OutcomeFired
	res.Side = side
	res.Action = action
	e.logger.Debug("dispatch",
		zap.String("table", res.Table),
		zap.Uint8("id", ev.ID),
		zap.Uint8("value", ev.Value),
		zap.Stringer("side", side),
		zap.Stringer("action", action))

	e.exec.Execute(action)
	return res
}
