// Package daemon runs the single-goroutine event loop that ties the
// transport, the dispatch engine and the status surfaces together.
package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/dispatch"
	"github.com/PixPMusic/op1nput/internal/midi"
	"github.com/PixPMusic/op1nput/internal/status"
)

// Config wires a Loop
type Config struct {
	Engine   *dispatch.Engine
	Messages <-chan midi.Message
	Commands <-chan status.Command
	Sink     status.Sink
	Logger   *zap.Logger
}

// Loop owns event dispatch. Everything it touches is either read-only or
// owned by this goroutine, so no locking is needed.
type Loop struct {
	engine   *dispatch.Engine
	messages <-chan midi.Message
	commands <-chan status.Command
	sink     status.Sink
	logger   *zap.Logger
}

// New creates a loop. A nil sink discards updates.
func New(cfg Config) *Loop {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Sink == nil {
		cfg.Sink = status.Multi(nil)
	}
	return &Loop{
		engine:   cfg.Engine,
		messages: cfg.Messages,
		commands: cfg.Commands,
		sink:     cfg.Sink,
		logger:   cfg.Logger,
	}
}

// Run processes messages until a Quit command arrives, ctx is canceled or
// the transport closes its channel. All three are a clean exit.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("shutting down")
			return nil

		case cmd := <-l.commands:
			if cmd == status.CommandQuit {
				l.logger.Info("quit requested")
				return nil
			}
			l.logger.Warn("unknown command", zap.Stringer("command", cmd))

		case msg, ok := <-l.messages:
			if !ok {
				l.logger.Debug("transport closed")
				return nil
			}
			l.handle(msg)
		}
	}
}

func (l *Loop) handle(msg midi.Message) {
	switch msg.Kind {
	case midi.KindConnected:
		l.sink.Publish(status.Connected(msg.Port))
	case midi.KindDisconnected:
		l.sink.Publish(status.Disconnected(msg.Port))
	case midi.KindData:
		res := l.engine.Handle(dispatch.Event{
			Channel: msg.Channel,
			ID:      msg.ID,
			Value:   msg.Value,
		})
		l.sink.Publish(DispatchUpdate(res))
	}
}

// DispatchUpdate converts an engine result into a status update
func DispatchUpdate(res dispatch.Result) status.Update {
	d := &status.Dispatch{
		Table:   res.Table,
		Channel: res.Event.Channel,
		ID:      res.Event.ID,
		Value:   res.Event.Value,
		Outcome: res.Outcome.String(),
	}
	if res.Outcome == dispatch.OutcomeFired {
		d.Side = res.Side.String()
		d.Action = res.Action.String()
	}
	return status.Update{Kind: status.KindDispatch, At: time.Now(), Dispatch: d}
}
