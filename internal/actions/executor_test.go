package actions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/inject/injecttest"
	"github.com/PixPMusic/op1nput/internal/keys"
)

func newExecutor(t *testing.T, opts ...actions.Option) (*actions.Executor, *injecttest.Recorder) {
	t.Helper()
	rec := &injecttest.Recorder{}
	return actions.NewExecutor(rec, zap.NewNop(), opts...), rec
}

func TestExecute_PressReleaseAreSynchronous(t *testing.T) {
	ex, rec := newExecutor(t)

	ex.Execute(actions.Press(keys.A))
	assert.Equal(t, []string{"press(A)"}, rec.Strings())

	ex.Execute(actions.Release(keys.A))
	assert.Equal(t, []string{"press(A)", "release(A)"}, rec.Strings())
}

func TestExecute_Nothing(t *testing.T) {
	ex, rec := newExecutor(t)

	ex.Execute(actions.Nothing())
	ex.Wait()

	assert.Empty(t, rec.Events())
}

func TestExecute_TapPressesThenReleasesAfterHold(t *testing.T) {
	hold := 40 * time.Millisecond
	ex, rec := newExecutor(t, actions.WithTapHold(hold))

	start := time.Now()
	ex.Execute(actions.Tap(keys.Equals))
	assert.Less(t, time.Since(start), hold, "Execute must not wait for the tap")

	ex.Wait()

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "press(Equals)", events[0].String())
	assert.Equal(t, "release(Equals)", events[1].String())
	assert.GreaterOrEqual(t, events[1].At.Sub(events[0].At), hold)
}

func TestExecute_TapUnaffectedByConcurrentDispatch(t *testing.T) {
	ex, rec := newExecutor(t, actions.WithTapHold(30*time.Millisecond))

	ex.Execute(actions.Tap(keys.A))
	for i := 0; i < 50; i++ {
		ex.Execute(actions.Press(keys.B))
		ex.Execute(actions.Release(keys.B))
		ex.Execute(actions.Tap(keys.C))
	}
	ex.Wait()

	tapped := rec.For(keys.A)
	require.Len(t, tapped, 2)
	assert.True(t, tapped[0].Down)
	assert.False(t, tapped[1].Down)
	assert.Len(t, rec.For(keys.B), 100)
	assert.Len(t, rec.For(keys.C), 100)
}

func TestExecute_SequenceRunsInOrder(t *testing.T) {
	all := keys.All()
	for n := 1; n <= 24; n++ {
		ex, rec := newExecutor(t)

		steps := make([]actions.Action, n)
		want := make([]string, n)
		for i := 0; i < n; i++ {
			steps[i] = actions.Press(all[i])
			want[i] = "press(" + all[i].String() + ")"
		}

		ex.Execute(actions.Sequence(steps...))
		ex.Wait()

		assert.Equal(t, want, rec.Strings(), "sequence of length %d", n)
	}
}

func TestExecute_SequenceDoesNotBlockCaller(t *testing.T) {
	ex, rec := newExecutor(t)

	start := time.Now()
	ex.Execute(actions.Sequence(actions.Delay(100*time.Millisecond), actions.Press(keys.A)))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Empty(t, rec.Events())

	ex.Wait()
	assert.Equal(t, []string{"press(A)"}, rec.Strings())
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestExecute_NestedStepsCompleteBeforeNext(t *testing.T) {
	ex, rec := newExecutor(t, actions.WithTapHold(5*time.Millisecond))

	ex.Execute(actions.Sequence(
		actions.Press(keys.Shift),
		actions.Tap(keys.Tab),
		actions.Sequence(actions.Press(keys.B), actions.Delay(5*time.Millisecond), actions.Release(keys.B)),
		actions.Release(keys.Shift),
	))
	ex.Wait()

	assert.Equal(t, []string{
		"press(Shift)",
		"press(Tab)", "release(Tab)",
		"press(B)", "release(B)",
		"release(Shift)",
	}, rec.Strings())
}

func TestExecute_TopLevelDelayDoesNotBlock(t *testing.T) {
	ex, rec := newExecutor(t)

	start := time.Now()
	ex.Execute(actions.Delay(200 * time.Millisecond))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	ex.Wait()
	assert.Empty(t, rec.Events())
}

func TestExecute_InjectionFailureContinuesSequence(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	rec := &injecttest.Recorder{Fail: map[keys.Key]bool{keys.A: true}}
	ex := actions.NewExecutor(rec, zap.New(core))

	ex.Execute(actions.Sequence(actions.Press(keys.A), actions.Press(keys.B), actions.Release(keys.A)))
	ex.Wait()

	assert.Equal(t, []string{"press(A)", "press(B)", "release(A)"}, rec.Strings())
	assert.Equal(t, 1, logs.FilterMessage("could not send key press").Len())
	assert.Equal(t, 1, logs.FilterMessage("could not send key release").Len())
}

func TestExecute_FailedSynchronousPressIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	rec := &injecttest.Recorder{Fail: map[keys.Key]bool{keys.F1: true}}
	ex := actions.NewExecutor(rec, zap.New(core))

	assert.NotPanics(t, func() { ex.Execute(actions.Press(keys.F1)) })
	assert.Equal(t, 1, logs.Len())
}

func TestWithTapHoldIgnoresNonPositive(t *testing.T) {
	ex, _ := newExecutor(t, actions.WithTapHold(0))
	assert.Equal(t, actions.DefaultTapHold, ex.TapHold())
}
