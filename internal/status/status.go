// Package status carries connection and dispatch updates from the event
// loop to whatever is showing them: the tray, the log and websocket clients.
package status

import (
	"sync"
	"time"
)

// Kind of Update
type Kind string

const (
	KindConnected    Kind = "connected"
	KindDisconnected Kind = "disconnected"
	KindDispatch     Kind = "dispatch"
)

// Update is one status change
type Update struct {
	Kind     Kind      `json:"kind"`
	At       time.Time `json:"at"`
	Port     string    `json:"port,omitempty"`
	Dispatch *Dispatch `json:"dispatch,omitempty"`
}

// Dispatch describes an event the engine handled
type Dispatch struct {
	Table   string `json:"table"`
	Channel uint8  `json:"channel"`
	ID      uint8  `json:"id"`
	Value   uint8  `json:"value"`
	Outcome string `json:"outcome"`
	Side    string `json:"side,omitempty"`
	Action  string `json:"action,omitempty"`
}

// Connected builds a connection update
func Connected(port string) Update {
	return Update{Kind: KindConnected, At: time.Now(), Port: port}
}

// Disconnected builds a disconnection update
func Disconnected(port string) Update {
	return Update{Kind: KindDisconnected, At: time.Now(), Port: port}
}

// Sink receives updates. Publish is called from the event loop and must
// not block for long.
type Sink interface {
	Publish(u Update)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Update)

func (f SinkFunc) Publish(u Update) { f(u) }

// Multi fans an update out to every sink in order
type Multi []Sink

func (m Multi) Publish(u Update) {
	for _, s := range m {
		if s != nil {
			s.Publish(u)
		}
	}
}

// Command is a request from a status surface back to the event loop
type Command int

const (
	CommandQuit Command = iota + 1
)

func (c Command) String() string {
	if c == CommandQuit {
		return "quit"
	}
	return "unknown"
}

// DefaultHistory is how many dispatches a History keeps by default
const DefaultHistory = 50

// History remembers the connection state and the most recent dispatches
type History struct {
	mu       sync.RWMutex
	max      int
	recent   []Update
	conn     Update
	onChange func()
}

// NewHistory keeps up to max dispatches; max <= 0 means DefaultHistory
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistory
	}
	return &History{max: max, conn: Disconnected("")}
}

// OnChange registers f to be called after every Publish
func (h *History) OnChange(f func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = f
}

func (h *History) Publish(u Update) {
	h.mu.Lock()
	switch u.Kind {
	case KindConnected, KindDisconnected:
		h.conn = u
	case KindDispatch:
		h.recent = append(h.recent, u)
		if over := len(h.recent) - h.max; over > 0 {
			h.recent = append(h.recent[:0], h.recent[over:]...)
		}
	}
	f := h.onChange
	h.mu.Unlock()

	if f != nil {
		f()
	}
}

// Connection returns the latest connected/disconnected update
func (h *History) Connection() Update {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conn
}

// Recent returns the kept dispatches, newest first
func (h *History) Recent() []Update {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Update, len(h.recent))
	for i, u := range h.recent {
		out[len(h.recent)-1-i] = u
	}
	return out
}
