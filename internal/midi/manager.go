// Package midi finds the controller's input port, listens to it and notices
// when it goes away.
package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 5 * time.Second

	// Port enumeration can hang on some backends; a scan that takes longer
	// is skipped.
	scanTimeout = 3 * time.Second
)

// Options configures a Manager
type Options struct {
	DeviceName   string        // Case-insensitive substring of the input port name
	PollInterval time.Duration // Discovery and disconnect check interval
}

// Manager handles MIDI device discovery and listening
type Manager struct {
	driver Driver
	match  string
	poll   time.Duration
	logger *zap.Logger

	out chan Message

	mu     sync.RWMutex
	port   string
	stop   func()
	ready  bool // Connected for port has been queued; data may follow
	closed bool
}

// NewManager creates a new MIDI manager
func NewManager(driver Driver, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Manager{
		driver: driver,
		match:  opts.DeviceName,
		poll:   opts.PollInterval,
		logger: logger,
		out:    make(chan Message, 64),
	}
}

// Messages returns the channel Run delivers to. It is closed when Run returns.
func (m *Manager) Messages() <-chan Message {
	return m.out
}

// Connected returns the port currently listened to
func (m *Manager) Connected() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.port, m.port != ""
}

// Close cleans up the MIDI driver. Call it after Run has returned.
func (m *Manager) Close() {
	m.driver.Close()
}

// Run scans for the device every poll interval until ctx is done. Once the
// device is found it is listened to until its port disappears, then
// discovery resumes. Run never gives up on a missing device.
func (m *Manager) Run(ctx context.Context) error {
	defer m.shutdown()

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	m.logger.Info("waiting for device", zap.String("device", m.match))
	m.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

// shutdown closes the output channel. Emitters hold the read lock, so once
// closed is set under the write lock no send can race the close.
func (m *Manager) shutdown() {
	m.mu.Lock()
	stop := m.stop
	m.port, m.stop, m.ready = "", nil, false
	m.closed = true
	close(m.out)
	m.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (m *Manager) scan(ctx context.Context) {
	ports, ok := m.listPorts()
	if !ok {
		m.logger.Warn("port scan timed out, skipping", zap.Duration("timeout", scanTimeout))
		return
	}

	if current, connected := m.Connected(); connected {
		if contains(ports, current) {
			return
		}
		m.disconnect(ctx, current)
	}

	name, found := MatchPort(ports, m.match)
	if !found {
		m.logger.Debug("device not found, retrying",
			zap.String("device", m.match),
			zap.Duration("retry_in", m.poll))
		return
	}

	stop, err := m.driver.Listen(name, func(b []byte) {
		m.receive(ctx, name, b)
	})
	if err != nil {
		m.logger.Warn("could not open device, retrying", zap.String("port", name), zap.Error(err))
		return
	}

	m.logger.Info("device connected", zap.String("port", name))

	// Connected is queued under the write lock; data emitters wait on the
	// read lock, so nothing from this port can overtake it.
	m.mu.Lock()
	defer m.mu.Unlock()
	m.port, m.stop = name, stop
	select {
	case m.out <- Message{Kind: KindConnected, Port: name}:
		m.ready = true
	case <-ctx.Done():
	}
}

func (m *Manager) disconnect(ctx context.Context, port string) {
	m.mu.Lock()
	stop := m.stop
	m.port, m.stop, m.ready = "", nil, false
	m.mu.Unlock()
	if stop != nil {
		stop()
	}

	m.logger.Info("device disconnected", zap.String("port", port))
	m.emit(ctx, Message{Kind: KindDisconnected, Port: port})
}

// listPorts enumerates input ports, giving up after scanTimeout
func (m *Manager) listPorts() ([]string, bool) {
	ch := make(chan []string, 1)
	go func() {
		ch <- m.driver.InPorts()
	}()

	select {
	case ports := <-ch:
		return ports, true
	case <-time.After(scanTimeout):
		return nil, false
	}
}

// receive runs on the driver's goroutine
func (m *Manager) receive(ctx context.Context, port string, b []byte) {
	msg, ok := Decode(b)
	if !ok {
		return
	}
	msg.Port = port
	m.emit(ctx, msg)
}

func (m *Manager) emit(ctx context.Context, msg Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	// Bytes that arrive while the port is still opening are dropped
	if msg.Kind == KindData && (!m.ready || m.port != msg.Port) {
		return
	}
	select {
	case m.out <- msg:
	case <-ctx.Done():
	}
}

// MatchPort returns the first port whose name contains device, ignoring case
func MatchPort(ports []string, device string) (string, bool) {
	want := strings.ToLower(device)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p), want) {
			return p, true
		}
	}
	return "", false
}

func contains(ports []string, name string) bool {
	for _, p := range ports {
		if p == name {
			return true
		}
	}
	return false
}
