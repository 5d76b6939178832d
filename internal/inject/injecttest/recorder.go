// Package injecttest provides an in-memory injector for tests.
package injecttest

import (
	"fmt"
	"sync"
	"time"

	"github.com/PixPMusic/op1nput/internal/keys"
)

// Event is one observed key transition.
type Event struct {
	Key  keys.Key
	Down bool
	At   time.Time
}

func (e Event) String() string {
	if e.Down {
		return "press(" + e.Key.String() + ")"
	}
	return "release(" + e.Key.String() + ")"
}

// Recorder is a goroutine-safe injector that remembers every call.
// Keys listed in Fail make the corresponding call return an error
// after being recorded.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Fail   map[keys.Key]bool
}

func (r *Recorder) Press(k keys.Key) error {
	return r.record(k, true)
}

func (r *Recorder) Release(k keys.Key) error {
	return r.record(k, false)
}

func (r *Recorder) record(k keys.Key, down bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Key: k, Down: down, At: time.Now()})
	if r.Fail[k] {
		return fmt.Errorf("injecting %s failed", k)
	}
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Strings renders Events as "press(K)"/"release(K)" for easy comparison.
func (r *Recorder) Strings() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.String()
	}
	return out
}

// For returns the recorded events touching k.
func (r *Recorder) For(k keys.Key) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Key == k {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
