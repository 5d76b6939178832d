package actions

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PixPMusic/op1nput/internal/keys"
)

// DefaultTapHold is how long a Tap keeps its key down. Long enough for the
// OS and the focused application to see a press distinct from the release.
const DefaultTapHold = 20 * time.Millisecond

// Executor runs actions against an Injector.
//
// Press and Release run on the caller's goroutine. Tap, Sequence and Delay
// each get their own goroutine so the caller never waits on key timing.
// Spawned units are never cancelled; there is no ordering between them.
type Executor struct {
	injector Injector
	logger   *zap.Logger
	tapHold  time.Duration
	sleep    func(time.Duration)

	wg sync.WaitGroup
}

// Option configures an Executor
type Option func(*Executor)

// WithTapHold overrides DefaultTapHold
func WithTapHold(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.tapHold = d
		}
	}
}

// NewExecutor creates a new action executor
func NewExecutor(injector Injector, logger *zap.Logger, opts ...Option) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Executor{
		injector: injector,
		logger:   logger,
		tapHold:  DefaultTapHold,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TapHold returns the press-to-release interval used for taps
func (e *Executor) TapHold() time.Duration {
	return e.tapHold
}

// Execute starts a. It returns as soon as Press/Release complete, or
// immediately for actions that run in the background.
func (e *Executor) Execute(a Action) {
	switch a.Type {
	case ActionTypeNothing:
	case ActionTypePress:
		e.press(a.Key, e.logger)
	case ActionTypeRelease:
		e.release(a.Key, e.logger)
	case ActionTypeTap, ActionTypeDelay, ActionTypeSequence:
		e.spawn(a)
	default:
		e.logger.Warn("unknown action type", zap.Stringer("type", a.Type))
	}
}

// Wait blocks until every background unit started so far has finished.
// The daemon never calls it: quitting abandons in-flight sequences.
func (e *Executor) Wait() {
	e.wg.Wait()
}

func (e *Executor) spawn(a Action) {
	log := e.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Stringer("kind", a.Type),
	)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		start := time.Now()
		log.Debug("run started", zap.Stringer("action", a))
		e.run(a, log)
		log.Debug("run finished", zap.Duration("took", time.Since(start)))
	}()
}

// run executes a to completion on the current goroutine. Nested taps and
// sequences run inline so each step finishes before the next one starts.
func (e *Executor) run(a Action, log *zap.Logger) {
	switch a.Type {
	case ActionTypeNothing:
	case ActionTypeDelay:
		e.sleep(a.Duration)
	case ActionTypeTap:
		e.press(a.Key, log)
		e.sleep(e.tapHold)
		e.release(a.Key, log)
	case ActionTypePress:
		e.press(a.Key, log)
	case ActionTypeRelease:
		e.release(a.Key, log)
	case ActionTypeSequence:
		for _, step := range a.Steps {
			e.run(step, log)
		}
	default:
		log.Warn("unknown action type", zap.Stringer("type", a.Type))
	}
}

// press and release log injection failures and carry on; a failed press
// must not skip the release that follows it.
func (e *Executor) press(k keys.Key, log *zap.Logger) {
	if err := e.injector.Press(k); err != nil {
		log.Error("could not send key press", zap.Stringer("key", k), zap.Error(err))
	}
}

func (e *Executor) release(k keys.Key, log *zap.Logger) {
	if err := e.injector.Release(k); err != nil {
		log.Error("could not send key release", zap.Stringer("key", k), zap.Error(err))
	}
}
